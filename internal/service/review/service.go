// Package review implements the review domain service. Reviews are keyed by
// (productId, reviewId); listing and deletion work on the leading productId.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/platform/logger"
	"github.com/phrazzld/shop-api/internal/redact"
	"github.com/phrazzld/shop-api/internal/service"
	"github.com/phrazzld/shop-api/internal/store"
)

// Service validates, persists and reads reviews.
type Service struct {
	store          store.ReviewStore
	serviceAddress string
	logger         *slog.Logger
}

// NewService creates a review service.
// If logger is nil, a default logger will be used.
func NewService(s store.ReviewStore, serviceAddress string, logger *slog.Logger) (*Service, error) {
	if s == nil {
		return nil, errors.New("review store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:          s,
		serviceAddress: serviceAddress,
		logger:         logger.With("component", "review_service"),
	}, nil
}

func messagesFor(r domain.Review) service.StoreErrorMessages {
	return service.StoreErrorMessages{
		Duplicate: fmt.Sprintf("Duplicate key, Product Id: %d, Review Id:%d", r.ProductID, r.ReviewID),
		Conflict: fmt.Sprintf("Version conflict, Product Id: %d, Review Id:%d, version: %d",
			r.ProductID, r.ReviewID, r.Version),
		NotFound: fmt.Sprintf("No review found for productId: %d, reviewId: %d", r.ProductID, r.ReviewID),
	}
}

func invalidKey(productID int) error {
	if err := domain.ValidateProductID(productID); err != nil {
		invalid := service.NewInvalidInput("Invalid productId: %d", productID)
		invalid.Err = err
		return invalid
	}
	return nil
}

// CreateReview validates r and inserts it.
func (s *Service) CreateReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if v := r.Validate(); len(v) > 0 {
		log.Debug("review rejected by validation",
			"product_id", r.ProductID,
			"review_id", r.ReviewID,
			"fields", v.Fields())
		return domain.Review{}, service.FromViolations(v)
	}

	saved, err := s.store.Save(ctx, toEntity(r))
	if err != nil {
		log.Warn("failed to create review",
			"product_id", r.ProductID,
			"review_id", r.ReviewID,
			"error", redact.Error(err))
		return domain.Review{}, service.TranslateStoreError(err, messagesFor(r))
	}

	log.Info("review created", "product_id", saved.ProductID, "review_id", saved.ReviewID)
	return fromEntity(saved), nil
}

// ListReviews returns the reviews of productID ordered by reviewId, each
// stamped with the service address.
func (s *Service) ListReviews(ctx context.Context, productID int) ([]domain.Review, error) {
	if err := invalidKey(productID); err != nil {
		return nil, err
	}

	entities, err := s.store.FindByProductID(ctx, productID)
	if err != nil {
		return nil, service.TranslateStoreError(err, messagesFor(domain.Review{ProductID: productID}))
	}

	reviews := make([]domain.Review, len(entities))
	for i, e := range entities {
		reviews[i] = fromEntity(e).WithServiceAddress(s.serviceAddress)
	}
	return reviews, nil
}

// UpdateReview replaces the stored review with the same (productId,
// reviewId) using the caller's Version for the optimistic check.
func (s *Service) UpdateReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if v := r.Validate(); len(v) > 0 {
		return domain.Review{}, service.FromViolations(v)
	}

	msgs := messagesFor(r)
	siblings, err := s.store.FindByProductID(ctx, r.ProductID)
	if err != nil {
		return domain.Review{}, service.TranslateStoreError(err, msgs)
	}

	var id int64
	for _, e := range siblings {
		if e.ReviewID == r.ReviewID {
			id = e.ID
			break
		}
	}
	if id == 0 {
		return domain.Review{}, &service.NotFoundError{Message: msgs.NotFound}
	}

	entity := toEntity(r)
	entity.ID = id
	saved, err := s.store.Save(ctx, entity)
	if err != nil {
		log.Warn("failed to update review",
			"product_id", r.ProductID,
			"review_id", r.ReviewID,
			"version", r.Version,
			"error", redact.Error(err))
		return domain.Review{}, service.TranslateStoreError(err, msgs)
	}

	log.Info("review updated",
		"product_id", saved.ProductID,
		"review_id", saved.ReviewID,
		"version", saved.Version)
	return fromEntity(saved), nil
}

// DeleteReviews removes every review of productID. It succeeds when there is
// nothing to delete.
func (s *Service) DeleteReviews(ctx context.Context, productID int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := invalidKey(productID); err != nil {
		return err
	}

	entities, err := s.store.FindByProductID(ctx, productID)
	if err != nil {
		return service.TranslateStoreError(err, messagesFor(domain.Review{ProductID: productID}))
	}

	for _, e := range entities {
		if err := s.store.Delete(ctx, e); err != nil && !store.IsNotFoundError(err) {
			log.Warn("failed to delete review",
				"product_id", productID,
				"review_id", e.ReviewID,
				"error", redact.Error(err))
			return service.TranslateStoreError(err, messagesFor(fromEntity(e)))
		}
	}

	log.Info("reviews deleted", "product_id", productID, "count", len(entities))
	return nil
}
