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

type PropertyRepository interface {
	Create(ctx context.Context, property *entity.Property) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	FindAll(ctx context.Context, filter entity.PropertyFilter, limit, offset int) ([]*entity.Property, error)
	CountAll(ctx context.Context, filter entity.PropertyFilter) (int64, error)
	Update(ctx context.Context, property *entity.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type propertyRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPropertyRepository(db database.PgxIface, log *zap.Logger) PropertyRepository {
	return &propertyRepository{
		db:  db,
		log: log.With(zap.String("repository", "property")),
	}
}

const propertyColumns = `id, host_id, name, description, location, price, available, created_at, updated_at`

func scanProperty(row scanner) (*entity.Property, error) {
	var property entity.Property
	err := row.Scan(
		&property.ID,
		&property.HostID,
		&property.Name,
		&property.Description,
		&property.Location,
		&property.Price,
		&property.Available,
		&property.CreatedAt,
		&property.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func propertyWhere(filter entity.PropertyFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.Available != nil {
		w.add("available = $%d", *filter.Available)
	}
	if filter.Location != nil && *filter.Location != "" {
		w.add("location = $%d", *filter.Location)
	}
	if filter.Search != nil && *filter.Search != "" {
		w.add(`(name ILIKE $%[1]d ESCAPE '\' OR description ILIKE $%[1]d ESCAPE '\')`, containsPattern(*filter.Search))
	}
	return w
}

func (r *propertyRepository) Create(ctx context.Context, property *entity.Property) error {
	query := `
		INSERT INTO properties (id, host_id, name, description, location, price, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		property.ID,
		property.HostID,
		property.Name,
		property.Description,
		property.Location,
		property.Price,
		property.Available,
		property.CreatedAt,
		property.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create property",
			zap.Error(err),
			zap.String("name", property.Name),
			zap.String("host_id", property.HostID.String()),
		)
		return fmt.Errorf("create property %s: %w", property.Name, err)
	}

	return nil
}

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	property, err := scanProperty(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find property by ID",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return nil, fmt.Errorf("find property by ID %s: %w", id.String(), err)
	}

	return property, nil
}

func (r *propertyRepository) FindAll(ctx context.Context, filter entity.PropertyFilter, limit, offset int) ([]*entity.Property, error) {
	w := propertyWhere(filter)
	query := `SELECT ` + propertyColumns + ` FROM properties` + w.sql() +
		` ORDER BY created_at DESC` + w.page(limit, offset)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		r.log.Error("Failed to find properties",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find properties limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var properties []*entity.Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			r.log.Error("Failed to scan property row", zap.Error(err))
			return nil, fmt.Errorf("scan property row: %w", err)
		}
		properties = append(properties, property)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate property rows: %w", err)
	}

	return properties, nil
}

func (r *propertyRepository) CountAll(ctx context.Context, filter entity.PropertyFilter) (int64, error) {
	w := propertyWhere(filter)
	query := `SELECT COUNT(*) FROM properties` + w.sql()

	var total int64
	if err := r.db.QueryRow(ctx, query, w.args...).Scan(&total); err != nil {
		r.log.Error("Failed to count properties", zap.Error(err))
		return 0, fmt.Errorf("count properties: %w", err)
	}

	return total, nil
}

func (r *propertyRepository) Update(ctx context.Context, property *entity.Property) error {
	query := `
		UPDATE properties
		SET name = $2, description = $3, location = $4, price = $5, available = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		property.ID,
		property.Name,
		property.Description,
		property.Location,
		property.Price,
		property.Available,
		property.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update property",
			zap.Error(err),
			zap.String("property_id", property.ID.String()),
		)
		return fmt.Errorf("update property %s: %w", property.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("property %s: %w", property.ID.String(), ErrNoRowsAffected)
	}

	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM properties WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete property",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return fmt.Errorf("delete property %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("property %s: %w", id.String(), ErrNoRowsAffected)
	}

	r.log.Info("Property deleted", zap.String("property_id", id.String()))
	return nil
}
