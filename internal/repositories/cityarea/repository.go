package cityarea

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/beanmap/drip/pkg/database"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/tracing"
)

// CityAreaRepository defines the projection operations for city areas.
type CityAreaRepository interface {
	Upsert(ctx context.Context, entity models.CityArea) error
	Delete(ctx context.Context, documentID string) error
	GetByDocumentID(ctx context.Context, documentID string) (*Row, error)
}

// Repository implements CityAreaRepository.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new city area repository.
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts or replaces the city area row, then rewrites the
// denormalized city area name on dependent shops.
func (r *Repository) Upsert(ctx context.Context, entity models.CityArea) error {
	ctx, span := tracing.StartSpan(ctx, "CityAreaRepository.Upsert")
	defer span.End()

	row := FromCityArea(entity)

	ib := rowStruct.InsertInto(tableName, row)
	ub := ib.OnConflict("document_id")
	ub.Set(
		ub.Assign("cms_id", database.Excluded("cms_id")),
		ub.Assign("name", database.Excluded("name")),
		ub.Assign("slug", database.Excluded("slug")),
		ub.Assign("featured_image_url", database.Excluded("featured_image_url")),
		ub.Assign("boundary", database.Excluded("boundary")),
		ub.Assign("location_document_id", database.Excluded("location_document_id")),
		ub.Assign("location_name", database.Excluded("location_name")),
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
		}).Error("failed to upsert city area")
		return fmt.Errorf("failed to upsert city area: %w", err)
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
	}).Info("upserted city area")

	return nil
}

// Delete removes the city area row and nulls the denormalized city area name
// on dependent shops.
func (r *Repository) Delete(ctx context.Context, documentID string) error {
	ctx, span := tracing.StartSpan(ctx, "CityAreaRepository.Delete")
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
		}).Error("failed to delete city area")
		return fmt.Errorf("failed to delete city area: %w", err)
	}

	ub := database.NewUpdateBuilder()
	ub.Update("shops")
	ub.Set(ub.Assign("city_area_name", nil))
	ub.Where(ub.Equal("city_area_document_id", documentID))
	query, args = ub.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": documentID,
		}).Error("failed to null city area name on shops")
		return fmt.Errorf("failed to null city area name on shops: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id":   documentID,
		"rows_affected": rowsAffected,
	}).Info("deleted city area")

	return nil
}

// GetByDocumentID gets a city area projection row.
func (r *Repository) GetByDocumentID(ctx context.Context, documentID string) (*Row, error) {
	ctx, span := tracing.StartSpan(ctx, "CityAreaRepository.GetByDocumentID")
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
		r.logger.WithContext(ctx).WithError(err).Error("failed to get city area")
		return nil, fmt.Errorf("failed to get city area: %w", err)
	}

	return &row, nil
}

func (r *Repository) syncDependents(ctx context.Context, tx database.Tx, row *Row) error {
	ub := database.NewUpdateBuilder()
	ub.Update("shops")
	ub.Set(ub.Assign("city_area_name", row.Name))
	ub.Where(ub.Equal("city_area_document_id", row.DocumentID))
	query, args := ub.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": row.DocumentID,
		}).Error("failed to sync city area name on shops")
		return fmt.Errorf("failed to sync city area name on shops: %w", err)
	}

	return nil
}
