package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/shop-api/internal/api/shared"
	"github.com/phrazzld/shop-api/internal/domain"
)

// ReviewService is the review operations the API exposes.
type ReviewService interface {
	CreateReview(ctx context.Context, r domain.Review) (domain.Review, error)
	ListReviews(ctx context.Context, productID int) ([]domain.Review, error)
	UpdateReview(ctx context.Context, r domain.Review) (domain.Review, error)
	DeleteReviews(ctx context.Context, productID int) error
}

// ReviewHandler handles review-related HTTP requests
type ReviewHandler struct {
	service ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(s ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		service: s,
		logger:  logger.With("component", "review_handler"),
	}
}

// CreateReview handles POST /review requests
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	created, err := h.service.CreateReview(r.Context(), req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviewToResponse(created))
}

// ListReviews handles GET /review?productId= requests
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := getQueryInt(r, "productId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	reviews, err := h.service.ListReviews(r.Context(), productID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := make([]ReviewResponse, len(reviews))
	for i, rv := range reviews {
		resp[i] = reviewToResponse(rv)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// UpdateReview handles PUT /review requests
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	updated, err := h.service.UpdateReview(r.Context(), req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviewToResponse(updated))
}

// DeleteReviews handles DELETE /review?productId= requests
func (h *ReviewHandler) DeleteReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := getQueryInt(r, "productId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.service.DeleteReviews(r.Context(), productID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
