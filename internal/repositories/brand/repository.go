package brand

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/beanmap/drip/pkg/database"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/tracing"
)

// BrandRepository defines the projection operations for brands.
type BrandRepository interface {
	Upsert(ctx context.Context, entity models.Brand) error
	Delete(ctx context.Context, documentID string) error
	GetByDocumentID(ctx context.Context, documentID string) (*Row, error)
	GetSuppliers(ctx context.Context, brandDocumentID string) ([]SupplierRow, error)
	GetRoastCountries(ctx context.Context, brandDocumentID string) ([]RoastCountryRow, error)
}

// Repository implements BrandRepository.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new brand repository.
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts or replaces the brand row, rewrites the supplier and roast
// country junction sets, then rewrites the denormalized brand columns on
// dependent shops and beans. The whole sequence runs in one transaction.
func (r *Repository) Upsert(ctx context.Context, entity models.Brand) error {
	ctx, span := tracing.StartSpan(ctx, "BrandRepository.Upsert")
	defer span.End()

	row := FromBrand(entity)

	ib := rowStruct.InsertInto(tableName, row)
	ub := ib.OnConflict("document_id")
	ub.Set(
		ub.Assign("cms_id", database.Excluded("cms_id")),
		ub.Assign("name", database.Excluded("name")),
		ub.Assign("slug", database.Excluded("slug")),
		ub.Assign("description", database.Excluded("description")),
		ub.Assign("website", database.Excluded("website")),
		ub.Assign("founded_year", database.Excluded("founded_year")),
		ub.Assign("logo_url", database.Excluded("logo_url")),
		ub.Assign("own_roast", database.Excluded("own_roast")),
		ub.Assign("own_roast_country_code", database.Excluded("own_roast_country_code")),
		ub.Assign("own_roast_country_name", database.Excluded("own_roast_country_name")),
		ub.Assign("awards", database.Excluded("awards")),
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
		}).Error("failed to upsert brand")
		return fmt.Errorf("failed to upsert brand: %w", err)
	}

	if err := r.replaceSuppliers(ctx, tx, entity); err != nil {
		return err
	}

	if err := r.replaceRoastCountries(ctx, tx, entity); err != nil {
		return err
	}

	if err := r.syncDependents(ctx, tx, row); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id":     entity.DocumentID,
		"name":            entity.Name,
		"suppliers":       len(entity.Suppliers),
		"roast_countries": len(entity.RoastCountries),
	}).Info("upserted brand")

	return nil
}

// Delete removes the brand row and its junction rows, then nulls the
// denormalized brand columns on dependent shops and beans.
func (r *Repository) Delete(ctx context.Context, documentID string) error {
	ctx, span := tracing.StartSpan(ctx, "BrandRepository.Delete")
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
		}).Error("failed to delete brand")
		return fmt.Errorf("failed to delete brand: %w", err)
	}

	for _, junction := range []string{suppliersTableName, roastCountriesTableName} {
		db := database.NewDeleteBuilder()
		db.DeleteFrom(junction)
		db.Where(db.Equal("brand_document_id", documentID))
		query, args = db.Build()

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"document_id": documentID,
				"table":       junction,
			}).Error("failed to clear brand junction rows")
			return fmt.Errorf("failed to clear %s: %w", junction, err)
		}
	}

	ub := database.NewUpdateBuilder()
	ub.Update("shops")
	ub.Set(
		ub.Assign("brand_name", nil),
		ub.Assign("brand_logo_url", nil),
	)
	ub.Where(ub.Equal("brand_document_id", documentID))
	query, args = ub.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": documentID,
		}).Error("failed to null brand columns on shops")
		return fmt.Errorf("failed to null brand columns on shops: %w", err)
	}

	ub = database.NewUpdateBuilder()
	ub.Update("shops")
	ub.Set(
		ub.Assign("coffee_partner_name", nil),
		ub.Assign("coffee_partner_logo_url", nil),
	)
	ub.Where(ub.Equal("coffee_partner_document_id", documentID))
	query, args = ub.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": documentID,
		}).Error("failed to null coffee partner columns on shops")
		return fmt.Errorf("failed to null coffee partner columns on shops: %w", err)
	}

	ub = database.NewUpdateBuilder()
	ub.Update("beans")
	ub.Set(ub.Assign("brand_name", nil))
	ub.Where(ub.Equal("brand_document_id", documentID))
	query, args = ub.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": documentID,
		}).Error("failed to null brand name on beans")
		return fmt.Errorf("failed to null brand name on beans: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id":   documentID,
		"rows_affected": rowsAffected,
	}).Info("deleted brand")

	return nil
}

// GetByDocumentID gets a brand projection row.
func (r *Repository) GetByDocumentID(ctx context.Context, documentID string) (*Row, error) {
	ctx, span := tracing.StartSpan(ctx, "BrandRepository.GetByDocumentID")
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
		r.logger.WithContext(ctx).WithError(err).Error("failed to get brand")
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}

	return &row, nil
}

// GetSuppliers gets the supplier junction rows for a brand.
func (r *Repository) GetSuppliers(ctx context.Context, brandDocumentID string) ([]SupplierRow, error) {
	ctx, span := tracing.StartSpan(ctx, "BrandRepository.GetSuppliers")
	defer span.End()

	sb := supplierStruct.SelectFrom(suppliersTableName)
	sb.Where(sb.Equal("brand_document_id", brandDocumentID))
	sb.OrderBy("supplier_document_id")
	query, args := sb.Build()

	var rows []SupplierRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to get brand suppliers")
		return nil, fmt.Errorf("failed to get brand suppliers: %w", err)
	}

	return rows, nil
}

// GetRoastCountries gets the roast country junction rows for a brand.
func (r *Repository) GetRoastCountries(ctx context.Context, brandDocumentID string) ([]RoastCountryRow, error) {
	ctx, span := tracing.StartSpan(ctx, "BrandRepository.GetRoastCountries")
	defer span.End()

	sb := roastCountryStruct.SelectFrom(roastCountriesTableName)
	sb.Where(sb.Equal("brand_document_id", brandDocumentID))
	sb.OrderBy("country_document_id")
	query, args := sb.Build()

	var rows []RoastCountryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to get brand roast countries")
		return nil, fmt.Errorf("failed to get brand roast countries: %w", err)
	}

	return rows, nil
}

// replaceSuppliers clears and rewrites the supplier set for the brand.
func (r *Repository) replaceSuppliers(ctx context.Context, tx database.Tx, entity models.Brand) error {
	db := database.NewDeleteBuilder()
	db.DeleteFrom(suppliersTableName)
	db.Where(db.Equal("brand_document_id", entity.DocumentID))
	query, args := db.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": entity.DocumentID,
		}).Error("failed to clear brand suppliers")
		return fmt.Errorf("failed to clear brand suppliers: %w", err)
	}

	rows := SuppliersFromBrand(entity)
	if len(rows) == 0 {
		return nil
	}

	values := make([]interface{}, len(rows))
	for i, row := range rows {
		values[i] = row
	}
	ib := supplierStruct.InsertInto(suppliersTableName, values...)
	query, args = ib.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": entity.DocumentID,
		}).Error("failed to insert brand suppliers")
		return fmt.Errorf("failed to insert brand suppliers: %w", err)
	}

	return nil
}

// replaceRoastCountries clears and rewrites the roast country set for the brand.
func (r *Repository) replaceRoastCountries(ctx context.Context, tx database.Tx, entity models.Brand) error {
	db := database.NewDeleteBuilder()
	db.DeleteFrom(roastCountriesTableName)
	db.Where(db.Equal("brand_document_id", entity.DocumentID))
	query, args := db.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": entity.DocumentID,
		}).Error("failed to clear brand roast countries")
		return fmt.Errorf("failed to clear brand roast countries: %w", err)
	}

	rows := RoastCountriesFromBrand(entity)
	if len(rows) == 0 {
		return nil
	}

	values := make([]interface{}, len(rows))
	for i, row := range rows {
		values[i] = row
	}
	ib := roastCountryStruct.InsertInto(roastCountriesTableName, values...)
	query, args = ib.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": entity.DocumentID,
		}).Error("failed to insert brand roast countries")
		return fmt.Errorf("failed to insert brand roast countries: %w", err)
	}

	return nil
}

func (r *Repository) syncDependents(ctx context.Context, tx database.Tx, row *Row) error {
	ub := database.NewUpdateBuilder()
	ub.Update("shops")
	ub.Set(
		ub.Assign("brand_name", row.Name),
		ub.Assign("brand_logo_url", row.LogoURL),
	)
	ub.Where(ub.Equal("brand_document_id", row.DocumentID))
	query, args := ub.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": row.DocumentID,
		}).Error("failed to sync brand columns on shops")
		return fmt.Errorf("failed to sync brand columns on shops: %w", err)
	}

	ub = database.NewUpdateBuilder()
	ub.Update("shops")
	ub.Set(
		ub.Assign("coffee_partner_name", row.Name),
		ub.Assign("coffee_partner_logo_url", row.LogoURL),
	)
	ub.Where(ub.Equal("coffee_partner_document_id", row.DocumentID))
	query, args = ub.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": row.DocumentID,
		}).Error("failed to sync coffee partner columns on shops")
		return fmt.Errorf("failed to sync coffee partner columns on shops: %w", err)
	}

	ub = database.NewUpdateBuilder()
	ub.Update("beans")
	ub.Set(ub.Assign("brand_name", row.Name))
	ub.Where(ub.Equal("brand_document_id", row.DocumentID))
	query, args = ub.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": row.DocumentID,
		}).Error("failed to sync brand name on beans")
		return fmt.Errorf("failed to sync brand name on beans: %w", err)
	}

	return nil
}
