package country

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/beanmap/drip/pkg/database"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/tracing"
)

// CountryRepository defines the projection operations for countries.
type CountryRepository interface {
	Upsert(ctx context.Context, entity models.Country) error
	Delete(ctx context.Context, documentID string) error
	GetByDocumentID(ctx context.Context, documentID string) (*Row, error)
}

// Repository implements CountryRepository.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new country repository.
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts or replaces the country row keyed by document id, then
// rewrites the denormalized country columns on every dependent location.
func (r *Repository) Upsert(ctx context.Context, entity models.Country) error {
	ctx, span := tracing.StartSpan(ctx, "CountryRepository.Upsert")
	defer span.End()

	row := FromCountry(entity)

	ib := rowStruct.InsertInto(tableName, row)
	ub := ib.OnConflict("document_id")
	ub.Set(
		ub.Assign("cms_id", database.Excluded("cms_id")),
		ub.Assign("code", database.Excluded("code")),
		ub.Assign("name", database.Excluded("name")),
		ub.Assign("primary_color", database.Excluded("primary_color")),
		ub.Assign("secondary_color", database.Excluded("secondary_color")),
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
		}).Error("failed to upsert country")
		return fmt.Errorf("failed to upsert country: %w", err)
	}

	if err := r.syncDependents(ctx, tx, row); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id": entity.DocumentID,
		"code":        entity.Code,
	}).Info("upserted country")

	return nil
}

// Delete removes the country row and nulls the denormalized country columns
// on dependent locations. The locations themselves survive.
func (r *Repository) Delete(ctx context.Context, documentID string) error {
	ctx, span := tracing.StartSpan(ctx, "CountryRepository.Delete")
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
		}).Error("failed to delete country")
		return fmt.Errorf("failed to delete country: %w", err)
	}

	ub := database.NewUpdateBuilder()
	ub.Update("locations")
	ub.Set(
		ub.Assign("country_code", nil),
		ub.Assign("country_name", nil),
		ub.Assign("country_primary_color", nil),
		ub.Assign("country_secondary_color", nil),
	)
	ub.Where(ub.Equal("country_document_id", documentID))
	query, args = ub.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": documentID,
		}).Error("failed to null country columns on locations")
		return fmt.Errorf("failed to null country columns on locations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id":   documentID,
		"rows_affected": rowsAffected,
	}).Info("deleted country")

	return nil
}

// GetByDocumentID gets a country projection row.
func (r *Repository) GetByDocumentID(ctx context.Context, documentID string) (*Row, error) {
	ctx, span := tracing.StartSpan(ctx, "CountryRepository.GetByDocumentID")
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
		r.logger.WithContext(ctx).WithError(err).Error("failed to get country")
		return nil, fmt.Errorf("failed to get country: %w", err)
	}

	return &row, nil
}

func (r *Repository) syncDependents(ctx context.Context, tx database.Tx, row *Row) error {
	ub := database.NewUpdateBuilder()
	ub.Update("locations")
	ub.Set(
		ub.Assign("country_code", row.Code),
		ub.Assign("country_name", row.Name),
		ub.Assign("country_primary_color", row.PrimaryColor),
		ub.Assign("country_secondary_color", row.SecondaryColor),
	)
	ub.Where(ub.Equal("country_document_id", row.DocumentID))
	query, args := ub.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": row.DocumentID,
		}).Error("failed to sync country columns on locations")
		return fmt.Errorf("failed to sync country columns on locations: %w", err)
	}

	return nil
}
