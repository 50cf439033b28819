// Package product implements the product domain service.
package product

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

// Service validates, persists and reads products. Every call is independent;
// it holds no locks and performs no retries of its own.
type Service struct {
	store          store.ProductStore
	serviceAddress string
	logger         *slog.Logger
}

// NewService creates a product service.
// serviceAddress is stamped on every product returned by a read.
// If logger is nil, a default logger will be used.
func NewService(s store.ProductStore, serviceAddress string, logger *slog.Logger) (*Service, error) {
	if s == nil {
		return nil, errors.New("product store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:          s,
		serviceAddress: serviceAddress,
		logger:         logger.With("component", "product_service"),
	}, nil
}

func messagesFor(productID, version int) service.StoreErrorMessages {
	return service.StoreErrorMessages{
		Duplicate: fmt.Sprintf("Duplicate key, Product Id: %d", productID),
		Conflict:  fmt.Sprintf("Version conflict, Product Id: %d, version: %d", productID, version),
		NotFound:  notFoundMessage(productID),
	}
}

func notFoundMessage(productID int) string {
	return fmt.Sprintf("No product found for productId: %d", productID)
}

func invalidKey(productID int) error {
	if err := domain.ValidateProductID(productID); err != nil {
		invalid := service.NewInvalidInput("Invalid productId: %d", productID)
		invalid.Err = err
		return invalid
	}
	return nil
}

// CreateProduct validates p and inserts it. The returned product carries the
// store-assigned version and no service address.
func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if v := p.Validate(); len(v) > 0 {
		log.Debug("product rejected by validation",
			"product_id", p.ProductID,
			"fields", v.Fields())
		return domain.Product{}, service.FromViolations(v)
	}

	saved, err := s.store.Save(ctx, toEntity(p))
	if err != nil {
		log.Warn("failed to create product",
			"product_id", p.ProductID,
			"error", redact.Error(err))
		return domain.Product{}, service.TranslateStoreError(err, messagesFor(p.ProductID, p.Version))
	}

	log.Info("product created", "product_id", saved.ProductID)
	return fromEntity(saved), nil
}

// ListProducts returns every product with productID, each stamped with the
// service address. No match yields an empty slice.
func (s *Service) ListProducts(ctx context.Context, productID int) ([]domain.Product, error) {
	if err := invalidKey(productID); err != nil {
		return nil, err
	}

	entities, err := s.store.FindByProductID(ctx, productID)
	if err != nil {
		return nil, service.TranslateStoreError(err, messagesFor(productID, 0))
	}

	products := make([]domain.Product, len(entities))
	for i, e := range entities {
		products[i] = fromEntity(e).WithServiceAddress(s.serviceAddress)
	}
	return products, nil
}

// GetProduct returns the single product with productID or a NotFoundError.
func (s *Service) GetProduct(ctx context.Context, productID int) (domain.Product, error) {
	products, err := s.ListProducts(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if len(products) == 0 {
		return domain.Product{}, &service.NotFoundError{Message: notFoundMessage(productID)}
	}
	return products[0], nil
}

// UpdateProduct replaces the stored product with the same productId. The
// caller's Version must match the stored one; a stale version yields a
// ConflictError and is not retried.
func (s *Service) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if v := p.Validate(); len(v) > 0 {
		return domain.Product{}, service.FromViolations(v)
	}

	msgs := messagesFor(p.ProductID, p.Version)
	current, err := s.store.FindByProductID(ctx, p.ProductID)
	if err != nil {
		return domain.Product{}, service.TranslateStoreError(err, msgs)
	}
	if len(current) == 0 {
		return domain.Product{}, &service.NotFoundError{Message: msgs.NotFound}
	}

	entity := toEntity(p)
	entity.ID = current[0].ID
	saved, err := s.store.Save(ctx, entity)
	if err != nil {
		log.Warn("failed to update product",
			"product_id", p.ProductID,
			"version", p.Version,
			"error", redact.Error(err))
		return domain.Product{}, service.TranslateStoreError(err, msgs)
	}

	log.Info("product updated", "product_id", saved.ProductID, "version", saved.Version)
	return fromEntity(saved), nil
}

// DeleteProducts removes every product with productID. Deleting a key with
// no rows, or rows removed concurrently, succeeds.
func (s *Service) DeleteProducts(ctx context.Context, productID int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := invalidKey(productID); err != nil {
		return err
	}

	entities, err := s.store.FindByProductID(ctx, productID)
	if err != nil {
		return service.TranslateStoreError(err, messagesFor(productID, 0))
	}

	for _, e := range entities {
		if err := s.store.Delete(ctx, e); err != nil && !store.IsNotFoundError(err) {
			log.Warn("failed to delete product",
				"product_id", productID,
				"error", redact.Error(err))
			return service.TranslateStoreError(err, messagesFor(productID, e.Version))
		}
	}

	log.Info("products deleted", "product_id", productID, "count", len(entities))
	return nil
}
