package mysql

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

const reviewColumns = "id, version, product_id, review_id, author, subject, content, rating, review_date"

// ReviewStore implements store.ReviewStore on MySQL.
type ReviewStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewReviewStore creates a MySQL-backed review store. The schema must
// already exist; see Migrate. If logger is nil, a default logger will be used.
func NewReviewStore(db *sql.DB, logger *slog.Logger) *ReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

var _ store.ReviewStore = (*ReviewStore)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanReview(row scanner) (store.ReviewEntity, error) {
	var e store.ReviewEntity
	err := row.Scan(&e.ID, &e.Version, &e.ProductID, &e.ReviewID,
		&e.Author, &e.Subject, &e.Content, &e.Rating, &e.Date)
	return e, err
}

// FindByProductID implements store.ReviewStore.
func (s *ReviewStore) FindByProductID(ctx context.Context, productID int) ([]store.ReviewEntity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE product_id = ? ORDER BY review_id, id`, productID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query reviews",
			slog.String("error", redact.Error(err)),
			slog.Int("product_id", productID))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	reviews := make([]store.ReviewEntity, 0)
	for rows.Next() {
		e, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review rows: %w", err)
	}
	return reviews, nil
}

// FindByID implements store.ReviewStore.
func (s *ReviewStore) FindByID(ctx context.Context, id int64) (store.ReviewEntity, error) {
	e, err := scanReview(s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return store.ReviewEntity{}, store.ErrReviewNotFound
	}
	if err != nil {
		return store.ReviewEntity{}, MapError(err)
	}
	return e, nil
}

// Save implements store.ReviewStore.
func (s *ReviewStore) Save(ctx context.Context, entity store.ReviewEntity) (store.ReviewEntity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var err error
	if entity.ID == 0 {
		entity, err = s.insert(ctx, entity)
	} else {
		entity, err = s.update(ctx, entity)
	}
	if err != nil {
		if store.IsDuplicateError(err) || store.IsVersionConflict(err) {
			log.Warn("review save rejected",
				slog.String("error", redact.Error(err)),
				slog.Int("product_id", entity.ProductID),
				slog.Int("review_id", entity.ReviewID))
		} else {
			log.Error("failed to save review",
				slog.String("error", redact.Error(err)),
				slog.Int("product_id", entity.ProductID),
				slog.Int("review_id", entity.ReviewID))
		}
		return store.ReviewEntity{}, err
	}
	return entity, nil
}

func (s *ReviewStore) insert(ctx context.Context, e store.ReviewEntity) (store.ReviewEntity, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (version, product_id, review_id, author, subject, content, rating, review_date)
		VALUES (0, ?, ?, ?, ?, ?, ?, ?)`,
		e.ProductID, e.ReviewID, e.Author, e.Subject, e.Content, e.Rating, e.Date.UTC(),
	)
	if err != nil {
		return e, mapDuplicate(err, store.ErrDuplicateReview)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return e, fmt.Errorf("failed to read inserted review id: %w", err)
	}
	e.ID, e.Version = id, 0
	return e, nil
}

func (s *ReviewStore) update(ctx context.Context, e store.ReviewEntity) (store.ReviewEntity, error) {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE reviews
			SET version = version + 1, product_id = ?, review_id = ?, author = ?, subject = ?,
			    content = ?, rating = ?, review_date = ?
			WHERE id = ? AND version = ?`,
			e.ProductID, e.ReviewID, e.Author, e.Subject, e.Content, e.Rating, e.Date.UTC(),
			e.ID, e.Version,
		)
		if err != nil {
			return mapDuplicate(err, store.ErrDuplicateReview)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return classifyMissedUpdate(ctx, tx, e.ID, e.Version)
		}
		return nil
	})
	if err != nil {
		return e, err
	}
	e.Version++
	return e, nil
}

// classifyMissedUpdate tells a stale version from a deleted row after a
// conditional update matched nothing.
func classifyMissedUpdate(ctx context.Context, q store.DBTX, id int64, version int) error {
	var current int
	err := q.QueryRowContext(ctx, `SELECT version FROM reviews WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrReviewNotFound
	}
	if err != nil {
		return MapError(err)
	}
	return fmt.Errorf("%w: review %d is at version %d, not %d",
		store.ErrVersionConflict, id, current, version)
}

// Delete implements store.ReviewStore.
func (s *ReviewStore) Delete(ctx context.Context, entity store.ReviewEntity) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, entity.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete review",
			slog.String("error", redact.Error(err)),
			slog.Int64("id", entity.ID))
		return MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrReviewNotFound
	}
	return nil
}

// DeleteAll implements store.ReviewStore.
func (s *ReviewStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reviews`)
	return MapError(err)
}

// Count implements store.ReviewStore.
func (s *ReviewStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&n); err != nil {
		return 0, MapError(err)
	}
	return n, nil
}
