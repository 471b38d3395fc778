package repository

import (
	"context"
	"errors"
	"fmt"

	"lodgr/internal/data/entity"
	"lodgr/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, propertyID, id uuid.UUID) (*entity.Review, error)
	FindAll(ctx context.Context, filter entity.ReviewFilter, limit, offset int) ([]*entity.Review, error)
	CountAll(ctx context.Context, filter entity.ReviewFilter) (int64, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, property_id, user_id, rating, comment, created_at, updated_at`

func scanReview(row scanner) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.PropertyID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func reviewWhere(filter entity.ReviewFilter) *whereBuilder {
	w := &whereBuilder{}
	w.add("property_id = $%d", filter.PropertyID)
	if filter.Rating != nil {
		w.add("rating = $%d", *filter.Rating)
	}
	if filter.UserID != nil {
		w.add("user_id = $%d", *filter.UserID)
	}
	if filter.Search != nil && *filter.Search != "" {
		w.add(`comment ILIKE $%d ESCAPE '\'`, containsPattern(*filter.Search))
	}
	return w
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, property_id, user_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.PropertyID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("create review for property %s: %w", review.PropertyID.String(), ErrMissingReference)
	}
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("property_id", review.PropertyID.String()),
		)
		return fmt.Errorf("create review for property %s by user %s: %w",
			review.PropertyID.String(), review.UserID.String(), err)
	}

	return nil
}

// FindByID looks a review up within its property.
func (r *reviewRepository) FindByID(ctx context.Context, propertyID, id uuid.UUID) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1 AND property_id = $2`

	review, err := scanReview(r.db.QueryRow(ctx, query, id, propertyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindAll(ctx context.Context, filter entity.ReviewFilter, limit, offset int) ([]*entity.Review, error) {
	w := reviewWhere(filter)
	query := `SELECT ` + reviewColumns + ` FROM reviews` + w.sql() +
		` ORDER BY created_at DESC` + w.page(limit, offset)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		r.log.Error("Failed to find reviews",
			zap.Error(err),
			zap.String("property_id", filter.PropertyID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find reviews by property ID %s: %w", filter.PropertyID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) CountAll(ctx context.Context, filter entity.ReviewFilter) (int64, error) {
	w := reviewWhere(filter)
	query := `SELECT COUNT(*) FROM reviews` + w.sql()

	var count int64
	if err := r.db.QueryRow(ctx, query, w.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews",
			zap.Error(err),
			zap.String("property_id", filter.PropertyID.String()),
		)
		return 0, fmt.Errorf("count reviews by property ID %s: %w", filter.PropertyID.String(), err)
	}

	return count, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, comment = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.Rating,
		review.Comment,
		review.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", review.ID.String(), ErrNoRowsAffected)
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", id.String(), ErrNoRowsAffected)
	}

	r.log.Info("Review deleted", zap.String("review_id", id.String()))
	return nil
}
