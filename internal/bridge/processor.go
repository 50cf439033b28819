package bridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/events"
	"github.com/phrazzld/shop-api/internal/platform/logger"
	"github.com/phrazzld/shop-api/internal/service/product"
	"github.com/phrazzld/shop-api/internal/service/review"
)

// EventHandler handles one raw event envelope and reports its type. The type
// is empty when the envelope could not be decoded.
type EventHandler interface {
	Handle(ctx context.Context, payload []byte) (events.Type, error)
}

// KeyFunc returns the natural key an entity is partitioned by.
type KeyFunc[T any] func(entity T) int

// CreateFunc creates one entity.
type CreateFunc[T any] func(ctx context.Context, entity T) error

// DeleteFunc deletes every entity under a natural key prefix.
type DeleteFunc func(ctx context.Context, key int) error

// Processor dispatches events of entity type T to a create and a delete
// operation.
type Processor[T any] struct {
	keyOf  KeyFunc[T]
	create CreateFunc[T]
	delete DeleteFunc
	logger *slog.Logger
}

var _ EventHandler = (*Processor[domain.Product])(nil)

// NewProcessor creates a processor over create and del. keyOf must return
// the key the publisher routed the event by.
// If logger is nil, a default logger will be used.
func NewProcessor[T any](keyOf KeyFunc[T], create CreateFunc[T], del DeleteFunc, logger *slog.Logger) *Processor[T] {
	if keyOf == nil || create == nil || del == nil {
		panic("processor operations cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor[T]{
		keyOf:  keyOf,
		create: create,
		delete: del,
		logger: logger.With("component", "event_processor"),
	}
}

// NewProductProcessor wires the product service into a processor.
func NewProductProcessor(svc *product.Service, logger *slog.Logger) *Processor[domain.Product] {
	return NewProcessor(
		func(p domain.Product) int { return p.ProductID },
		func(ctx context.Context, p domain.Product) error {
			_, err := svc.CreateProduct(ctx, p)
			return err
		},
		svc.DeleteProducts,
		logger,
	)
}

// NewReviewProcessor wires the review service into a processor.
func NewReviewProcessor(svc *review.Service, logger *slog.Logger) *Processor[domain.Review] {
	return NewProcessor(
		func(r domain.Review) int { return r.ProductID },
		func(ctx context.Context, r domain.Review) error {
			_, err := svc.CreateReview(ctx, r)
			return err
		},
		svc.DeleteReviews,
		logger,
	)
}

// Process applies a decoded event. Errors from the service are returned
// unchanged.
func (p *Processor[T]) Process(ctx context.Context, e events.Event[T]) error {
	log := logger.FromContextOrDefault(ctx, p.logger)
	log.Debug("processing event",
		"event_id", e.ID,
		"event_type", e.Type,
		"key", e.Key)

	switch e.Type {
	case events.TypeCreate:
		if e.Data == nil {
			return fmt.Errorf("%w: %s event %s has no data", events.ErrMalformedEvent, e.Type, e.ID)
		}
		if k := p.keyOf(*e.Data); k != e.Key {
			return fmt.Errorf("%w: %s event %s has key %d but data for key %d",
				events.ErrMalformedEvent, e.Type, e.ID, e.Key, k)
		}
		return p.create(ctx, *e.Data)
	case events.TypeDelete:
		return p.delete(ctx, e.Key)
	default:
		return fmt.Errorf("%w: %q", events.ErrUnsupportedEventType, e.Type)
	}
}

// Handle decodes payload and processes it.
func (p *Processor[T]) Handle(ctx context.Context, payload []byte) (events.Type, error) {
	e, err := events.Decode[T](payload)
	if err != nil {
		return "", err
	}
	return e.Type, p.Process(ctx, e)
}
