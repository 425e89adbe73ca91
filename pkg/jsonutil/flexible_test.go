package jsonutil

import (
	"encoding/json"
	"testing"
)

func TestIntFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *int
	}{
		{name: "plain integer", input: "42", want: intPtr(42)},
		{name: "negative integer", input: "-7", want: intPtr(-7)},
		{name: "surrounding whitespace", input: "  13 ", want: intPtr(13)},
		{name: "zero", input: "0", want: intPtr(0)},
		{name: "empty string", input: "", want: nil},
		{name: "whitespace only", input: "   ", want: nil},
		{name: "non-numeric", input: "abc", want: nil},
		{name: "fractional", input: "3.5", want: nil},
		{name: "mixed", input: "12abc", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IntFromString(tt.input)
			assertIntPtr(t, got, tt.want)
		})
	}
}

func TestFlexibleInt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{name: "bare number", raw: `42`, want: intPtr(42)},
		{name: "quoted number", raw: `"42"`, want: intPtr(42)},
		{name: "quoted with spaces", raw: `" 8 "`, want: intPtr(8)},
		{name: "null", raw: `null`, want: nil},
		{name: "empty string", raw: `""`, want: nil},
		{name: "quoted text", raw: `"abc"`, want: nil},
		{name: "float", raw: `3.5`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlexibleInt(json.RawMessage(tt.raw))
			assertIntPtr(t, got, tt.want)
		})
	}
}

func TestFlexibleInt_Absent(t *testing.T) {
	if got := FlexibleInt(nil); got != nil {
		t.Errorf("FlexibleInt(nil) = %d, want nil", *got)
	}
}

func TestFlexibleString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *string
	}{
		{name: "quoted string", raw: `"hello"`, want: strPtr("hello")},
		{name: "empty string kept", raw: `""`, want: strPtr("")},
		{name: "null", raw: `null`, want: nil},
		{name: "bare token kept as text", raw: `42`, want: strPtr("42")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlexibleString(json.RawMessage(tt.raw))
			if tt.want == nil {
				if got != nil {
					t.Errorf("FlexibleString(%s) = %q, want nil", tt.raw, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("FlexibleString(%s) = nil, want %q", tt.raw, *tt.want)
			}
			if *got != *tt.want {
				t.Errorf("FlexibleString(%s) = %q, want %q", tt.raw, *got, *tt.want)
			}
		})
	}
}

func TestFlexibleString_Absent(t *testing.T) {
	if got := FlexibleString(nil); got != nil {
		t.Errorf("FlexibleString(nil) = %q, want nil", *got)
	}
}

func assertIntPtr(t *testing.T, got, want *int) {
	t.Helper()
	if want == nil {
		if got != nil {
			t.Errorf("got %d, want nil", *got)
		}
		return
	}
	if got == nil {
		t.Fatalf("got nil, want %d", *want)
	}
	if *got != *want {
		t.Errorf("got %d, want %d", *got, *want)
	}
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
