package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/shop-api/internal/platform/logger"
	"github.com/phrazzld/shop-api/internal/redact"
	"github.com/phrazzld/shop-api/internal/store"
)

const productColumns = "id, version, product_id, name, weight"

// PostgresProductStore implements the store.ProductStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProductStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresProductStore creates a new PostgreSQL implementation of the ProductStore interface.
// The schema must already exist; see Migrate.
// If logger is nil, a default logger will be used.
func NewPostgresProductStore(db *sql.DB, logger *slog.Logger) *PostgresProductStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProductStore{
		db:     db,
		logger: logger.With(slog.String("component", "product_store")),
	}
}

// Ensure PostgresProductStore implements store.ProductStore interface
var _ store.ProductStore = (*PostgresProductStore)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (store.ProductEntity, error) {
	var e store.ProductEntity
	err := row.Scan(&e.ID, &e.Version, &e.ProductID, &e.Name, &e.Weight)
	return e, err
}

// FindByProductID implements store.ProductStore.FindByProductID.
func (s *PostgresProductStore) FindByProductID(
	ctx context.Context,
	productID int,
) ([]store.ProductEntity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		log.Error("failed to query products",
			slog.String("error", redact.Error(err)),
			slog.Int("product_id", productID))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	products := make([]store.ProductEntity, 0, 1)
	for rows.Next() {
		e, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", err)
	}
	return products, nil
}

// FindByID implements store.ProductStore.FindByID.
// Returns store.ErrProductNotFound if the row does not exist.
func (s *PostgresProductStore) FindByID(ctx context.Context, id int64) (store.ProductEntity, error) {
	e, err := scanProduct(s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return store.ProductEntity{}, store.ErrProductNotFound
	}
	if err != nil {
		return store.ProductEntity{}, MapError(err)
	}
	return e, nil
}

// Save implements store.ProductStore.Save.
func (s *PostgresProductStore) Save(
	ctx context.Context,
	entity store.ProductEntity,
) (store.ProductEntity, error) {
	if entity.ID == 0 {
		return s.insert(ctx, entity)
	}
	return s.update(ctx, entity)
}

func (s *PostgresProductStore) insert(
	ctx context.Context,
	entity store.ProductEntity,
) (store.ProductEntity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (version, product_id, name, weight)
		VALUES (0, $1, $2, $3)
		RETURNING id, version`,
		entity.ProductID, entity.Name, entity.Weight,
	).Scan(&entity.ID, &entity.Version)
	if err != nil {
		mapped := MapUniqueViolation(err, store.ErrDuplicateProduct)
		if errors.Is(mapped, store.ErrDuplicate) {
			log.Warn("duplicate product id on insert", slog.Int("product_id", entity.ProductID))
		} else {
			log.Error("failed to insert product",
				slog.String("error", redact.Error(err)),
				slog.Int("product_id", entity.ProductID))
		}
		return store.ProductEntity{}, mapped
	}

	log.Debug("product inserted",
		slog.Int64("id", entity.ID),
		slog.Int("product_id", entity.ProductID))
	return entity, nil
}

// update performs the conditional write. When it matches no row a second
// read inside the same transaction tells a stale version from a deleted row.
func (s *PostgresProductStore) update(
	ctx context.Context,
	entity store.ProductEntity,
) (store.ProductEntity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var next int
		err := tx.QueryRowContext(ctx, `
			UPDATE products
			SET version = version + 1, product_id = $1, name = $2, weight = $3
			WHERE id = $4 AND version = $5
			RETURNING version`,
			entity.ProductID, entity.Name, entity.Weight, entity.ID, entity.Version,
		).Scan(&next)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return classifyMissedUpdate(ctx, tx, entity.ID, entity.Version)
		case err != nil:
			return MapUniqueViolation(err, store.ErrDuplicateProduct)
		}
		entity.Version = next
		return nil
	})
	if err != nil {
		log.Warn("product update rejected",
			slog.String("error", redact.Error(err)),
			slog.Int64("id", entity.ID),
			slog.Int("version", entity.Version))
		return store.ProductEntity{}, err
	}

	log.Debug("product updated",
		slog.Int64("id", entity.ID),
		slog.Int("version", entity.Version))
	return entity, nil
}

// classifyMissedUpdate tells a stale version from a deleted row after a
// conditional update matched nothing.
func classifyMissedUpdate(ctx context.Context, q store.DBTX, id int64, version int) error {
	var current int
	err := q.QueryRowContext(ctx, `SELECT version FROM products WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrProductNotFound
	}
	if err != nil {
		return MapError(err)
	}
	return fmt.Errorf("%w: product %d is at version %d, not %d",
		store.ErrVersionConflict, id, current, version)
}

// Delete implements store.ProductStore.Delete.
// Returns store.ErrProductNotFound if the row does not exist.
func (s *PostgresProductStore) Delete(ctx context.Context, entity store.ProductEntity) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, entity.ID)
	if err != nil {
		log.Error("failed to delete product",
			slog.String("error", redact.Error(err)),
			slog.Int64("id", entity.ID))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProductNotFound)
}

// DeleteAll implements store.ProductStore.DeleteAll.
func (s *PostgresProductStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM products`)
	return MapError(err)
}

// Count implements store.ProductStore.Count.
func (s *PostgresProductStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, MapError(err)
	}
	return n, nil
}
