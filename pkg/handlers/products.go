package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stocktrail-io/stocktrail/pkg/apperrors"
	"github.com/stocktrail-io/stocktrail/pkg/auth"
	"github.com/stocktrail-io/stocktrail/pkg/jsonutil"
	"github.com/stocktrail-io/stocktrail/pkg/models"
	"github.com/stocktrail-io/stocktrail/pkg/services"
)

// ProductRequest is the request body for creating or updating a product.
// All columns arrive raw: x and y accept numbers or strings and anything
// that is not an exact integer becomes NULL, while text fields keep
// whatever scalar the client sent as its literal text.
type ProductRequest struct {
	Referencia json.RawMessage `json:"referencia"`
	Cor        json.RawMessage `json:"cor"`
	X          json.RawMessage `json:"x"`
	Y          json.RawMessage `json:"y"`
	Rack       json.RawMessage `json:"rack"`
	Acab       json.RawMessage `json:"acab"`
	Obs        json.RawMessage `json:"obs"`
	Marked     bool            `json:"marked"`
}

// ImportRequest is the request body for CSV import.
type ImportRequest struct {
	CSV string `json:"csv"`
}

// ImportResponse reports how many rows were inserted.
type ImportResponse struct {
	Message string `json:"message"`
	Rows    int    `json:"rows"`
}

// ProductsHandler handles product-related HTTP requests.
type ProductsHandler struct {
	productService services.ProductService
	importService  services.ImportService
	logger         *zap.Logger
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(productService services.ProductService, importService services.ImportService, logger *zap.Logger) *ProductsHandler {
	return &ProductsHandler{
		productService: productService,
		importService:  importService,
		logger:         logger,
	}
}

// RegisterRoutes registers the products handler's routes on the given mux.
// Reads require any authenticated identity; writes require editor or admin.
func (h *ProductsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	writers := authMiddleware.RequireRole(models.RoleEditor, models.RoleAdmin)

	mux.HandleFunc("GET /api/products", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/products", writers(h.Create))
	mux.HandleFunc("POST /api/products/import", writers(h.Import))
	mux.HandleFunc("PUT /api/products/{id}", writers(h.Update))
	mux.HandleFunc("DELETE /api/products/{id}", writers(h.Delete))
}

// List handles GET /api/products
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch products"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if products == nil {
		products = []*models.Product{}
	}

	if err := WriteJSON(w, http.StatusOK, products); err != nil {
		h.logger.Error("Failed to encode products response", zap.Error(err))
	}
}

// Create handles POST /api/products
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	product, err := h.productService.Create(r.Context(), req.toInput())
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "Failed to create product"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, product); err != nil {
		h.logger.Error("Failed to encode product response", zap.Error(err))
	}
}

// Update handles PUT /api/products/{id}
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "Invalid product ID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	product, err := h.productService.Update(r.Context(), id, req.toInput())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "Product not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to update product",
			zap.String("product_id", id.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "Failed to update product"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, product); err != nil {
		h.logger.Error("Failed to encode product response", zap.Error(err))
	}
}

// Delete handles DELETE /api/products/{id}
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "Invalid product ID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "Product not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to delete product",
			zap.String("product_id", id.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "Failed to delete product"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"}); err != nil {
		h.logger.Error("Failed to encode delete response", zap.Error(err))
	}
}

// Import handles POST /api/products/import
func (h *ProductsHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if req.CSV == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "CSV data missing"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	inserted, err := h.importService.Import(r.Context(), req.CSV)
	if err != nil {
		h.logger.Error("CSV import failed",
			zap.Int("inserted", inserted),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "Failed to import CSV"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := ImportResponse{
		Message: "CSV imported successfully",
		Rows:    inserted,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode import response", zap.Error(err))
	}
}

func (req *ProductRequest) toInput() *services.ProductInput {
	return &services.ProductInput{
		Referencia: jsonutil.FlexibleString(req.Referencia),
		Cor:        jsonutil.FlexibleString(req.Cor),
		X:          jsonutil.FlexibleInt(req.X),
		Y:          jsonutil.FlexibleInt(req.Y),
		Rack:       jsonutil.FlexibleString(req.Rack),
		Acab:       jsonutil.FlexibleString(req.Acab),
		Obs:        jsonutil.FlexibleString(req.Obs),
		Marked:     req.Marked,
	}
}
