package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestImportService_Import(t *testing.T) {
	csvData := "referencia;cor;x;y;rack;acab;obs\n" +
		"REF-1;azul;3;4;A1;fosco;primeira\n" +
		"REF-2;;;;B2;;\n"

	products := &mockProductService{}
	svc := NewImportService(products, zap.NewNop())

	n, err := svc.Import(context.Background(), csvData)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, products.inputs, 2)

	first := products.inputs[0]
	assert.Equal(t, "REF-1", *first.Referencia)
	assert.Equal(t, "azul", *first.Cor)
	assert.Equal(t, 3, *first.X)
	assert.Equal(t, 4, *first.Y)
	assert.Equal(t, "A1", *first.Rack)
	assert.Equal(t, "fosco", *first.Acab)
	assert.Equal(t, "primeira", *first.Obs)
	assert.False(t, first.Marked)

	second := products.inputs[1]
	assert.Equal(t, "REF-2", *second.Referencia)
	assert.Nil(t, second.Cor)
	assert.Nil(t, second.X)
	assert.Nil(t, second.Y)
	assert.Equal(t, "B2", *second.Rack)
	assert.False(t, second.Marked)
}

func TestImportService_HeaderNormalization(t *testing.T) {
	// BOM on the first header cell, mixed case, stray spaces.
	csvData := "\uFEFFReferencia ; COR ;X\nREF-9;verde;7\n"

	products := &mockProductService{}
	svc := NewImportService(products, zap.NewNop())

	n, err := svc.Import(context.Background(), csvData)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, products.inputs, 1)

	input := products.inputs[0]
	assert.Equal(t, "REF-9", *input.Referencia)
	assert.Equal(t, "verde", *input.Cor)
	assert.Equal(t, 7, *input.X)
}

func TestImportService_RaggedAndBadCells(t *testing.T) {
	csvData := "referencia;cor;x;y\n" +
		"REF-1;azul\n" + // two trailing columns missing
		"REF-2;verde;abc;2.5\n" // non-integer, fractional

	products := &mockProductService{}
	svc := NewImportService(products, zap.NewNop())

	n, err := svc.Import(context.Background(), csvData)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ragged := products.inputs[0]
	assert.Equal(t, "REF-1", *ragged.Referencia)
	assert.Nil(t, ragged.X)
	assert.Nil(t, ragged.Y)

	badCells := products.inputs[1]
	assert.Nil(t, badCells.X, "non-integer cell must become NULL")
	assert.Nil(t, badCells.Y, "fractional cell must become NULL")
}

func TestImportService_SkipsEmptyRows(t *testing.T) {
	csvData := "referencia;cor\n" +
		"REF-1;azul\n" +
		";\n" +
		"  ;  \n" +
		"REF-2;verde\n"

	products := &mockProductService{}
	svc := NewImportService(products, zap.NewNop())

	n, err := svc.Import(context.Background(), csvData)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestImportService_EmptyPayload(t *testing.T) {
	tests := []struct {
		name    string
		csvData string
	}{
		{name: "empty string", csvData: ""},
		{name: "header only", csvData: "referencia;cor\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := &mockProductService{}
			svc := NewImportService(products, zap.NewNop())

			n, err := svc.Import(context.Background(), tt.csvData)
			require.NoError(t, err)
			assert.Zero(t, n)
			assert.Empty(t, products.inputs)
		})
	}
}

func TestImportService_AbortsOnFirstFailure(t *testing.T) {
	csvData := "referencia\nREF-1\nREF-2\nREF-3\n"

	products := &mockProductService{failAfter: 2, failErr: errors.New("insert failed")}
	svc := NewImportService(products, zap.NewNop())

	n, err := svc.Import(context.Background(), csvData)
	require.Error(t, err)

	// The first row stays inserted; the failing row and everything after
	// it are not attempted.
	assert.Equal(t, 1, n)
	assert.Len(t, products.inputs, 1)
}
