package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/shop-api/internal/api/shared"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/platform/logger"
)

// ProductService is the product operations the API exposes.
type ProductService interface {
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, productID int) (domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	DeleteProducts(ctx context.Context, productID int) error
}

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(s ProductService, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductHandler{
		service: s,
		logger:  logger.With("component", "product_handler"),
	}
}

// CreateProduct handles POST /product requests
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	created, err := h.service.CreateProduct(r.Context(), req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, productToResponse(created))
}

// GetProduct handles GET /product/{productId} requests
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := getPathInt(r, "productId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	p, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, productToResponse(p))
}

// UpdateProduct handles PUT /product/{productId} requests. The path id wins
// when the body omits productId; a body naming a different product is
// rejected.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	productID, err := getPathInt(r, "productId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req ProductRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, newBadRequest(msgMalformedRequest, err))
		return
	}
	if req.ProductID == nil {
		req.ProductID = &productID
	}
	if *req.ProductID != productID {
		log.Debug("product id mismatch", "path_product_id", productID, "body_product_id", *req.ProductID)
		HandleAPIError(w, r, newBadRequest("productId in path and body differ.", nil))
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, newBadRequest(shared.ValidationMessage(err), err))
		return
	}

	updated, err := h.service.UpdateProduct(r.Context(), req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, productToResponse(updated))
}

// DeleteProduct handles DELETE /product/{productId} requests. Deleting a
// product that does not exist succeeds.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := getPathInt(r, "productId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.service.DeleteProducts(r.Context(), productID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
