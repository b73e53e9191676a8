package location

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/beanmap/drip/pkg/database"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/tracing"
)

// LocationRepository defines the projection operations for locations.
type LocationRepository interface {
	Upsert(ctx context.Context, entity models.Location) error
	Delete(ctx context.Context, documentID string) error
	GetByDocumentID(ctx context.Context, documentID string) (*Row, error)
}

// Repository implements LocationRepository.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new location repository.
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts or replaces the location row, then rewrites the denormalized
// location name on dependent shops and city areas.
func (r *Repository) Upsert(ctx context.Context, entity models.Location) error {
	ctx, span := tracing.StartSpan(ctx, "LocationRepository.Upsert")
	defer span.End()

	row := FromLocation(entity)

	ib := rowStruct.InsertInto(tableName, row)
	ub := ib.OnConflict("document_id")
	ub.Set(
		ub.Assign("cms_id", database.Excluded("cms_id")),
		ub.Assign("name", database.Excluded("name")),
		ub.Assign("slug", database.Excluded("slug")),
		ub.Assign("story", database.Excluded("story")),
		ub.Assign("story_author_name", database.Excluded("story_author_name")),
		ub.Assign("story_author_photo_url", database.Excluded("story_author_photo_url")),
		ub.Assign("lat", database.Excluded("lat")),
		ub.Assign("lng", database.Excluded("lng")),
		ub.Assign("country_document_id", database.Excluded("country_document_id")),
		ub.Assign("country_code", database.Excluded("country_code")),
		ub.Assign("country_name", database.Excluded("country_name")),
		ub.Assign("country_primary_color", database.Excluded("country_primary_color")),
		ub.Assign("country_secondary_color", database.Excluded("country_secondary_color")),
		ub.Assign("updated_at", database.Excluded("updated_at")),
	)
	query, args := ib.Build()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": entity.DocumentID,
		}).Error("failed to upsert location")
		return fmt.Errorf("failed to upsert location: %w", err)
	}

	if err := r.syncDependents(ctx, tx, row); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id": entity.DocumentID,
		"name":        entity.Name,
	}).Info("upserted location")

	return nil
}

// Delete removes the location row and nulls the denormalized location name on
// dependent shops and city areas.
func (r *Repository) Delete(ctx context.Context, documentID string) error {
	ctx, span := tracing.StartSpan(ctx, "LocationRepository.Delete")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	db := database.NewDeleteBuilder()
	db.DeleteFrom(tableName)
	db.Where(db.Equal("document_id", documentID))
	query, args := db.Build()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": documentID,
		}).Error("failed to delete location")
		return fmt.Errorf("failed to delete location: %w", err)
	}

	for _, dependent := range []string{"shops", "city_areas"} {
		ub := database.NewUpdateBuilder()
		ub.Update(dependent)
		ub.Set(ub.Assign("location_name", nil))
		ub.Where(ub.Equal("location_document_id", documentID))
		query, args = ub.Build()

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"document_id": documentID,
				"table":       dependent,
			}).Error("failed to null location name on dependents")
			return fmt.Errorf("failed to null location name on %s: %w", dependent, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id":   documentID,
		"rows_affected": rowsAffected,
	}).Info("deleted location")

	return nil
}

// GetByDocumentID gets a location projection row.
func (r *Repository) GetByDocumentID(ctx context.Context, documentID string) (*Row, error) {
	ctx, span := tracing.StartSpan(ctx, "LocationRepository.GetByDocumentID")
	defer span.End()

	sb := rowStruct.SelectFrom(tableName)
	sb.Where(sb.Equal("document_id", documentID))
	query, args := sb.Build()

	var row Row
	err := r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get location")
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	return &row, nil
}

func (r *Repository) syncDependents(ctx context.Context, tx database.Tx, row *Row) error {
	for _, dependent := range []string{"shops", "city_areas"} {
		ub := database.NewUpdateBuilder()
		ub.Update(dependent)
		ub.Set(ub.Assign("location_name", row.Name))
		ub.Where(ub.Equal("location_document_id", row.DocumentID))
		query, args := ub.Build()

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"document_id": row.DocumentID,
				"table":       dependent,
			}).Error("failed to sync location name on dependents")
			return fmt.Errorf("failed to sync location name on %s: %w", dependent, err)
		}
	}

	return nil
}
