package shop

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/beanmap/drip/pkg/database"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/tracing"
)

// ShopRepository defines the projection operations for shops.
type ShopRepository interface {
	Upsert(ctx context.Context, entity models.Shop) error
	Delete(ctx context.Context, documentID string) error
	GetByDocumentID(ctx context.Context, documentID string) (*Row, error)
}

// Repository implements ShopRepository.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new shop repository.
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts or replaces the shop row keyed by document id. Shops are a
// leaf in the dependency graph, so nothing fans out from here.
func (r *Repository) Upsert(ctx context.Context, entity models.Shop) error {
	ctx, span := tracing.StartSpan(ctx, "ShopRepository.Upsert")
	defer span.End()

	row := FromShop(entity)

	ib := rowStruct.InsertInto(tableName, row)
	ub := ib.OnConflict("document_id")
	ub.Set(
		ub.Assign("cms_id", database.Excluded("cms_id")),
		ub.Assign("name", database.Excluded("name")),
		ub.Assign("slug", database.Excluded("slug")),
		ub.Assign("description", database.Excluded("description")),
		ub.Assign("address", database.Excluded("address")),
		ub.Assign("lat", database.Excluded("lat")),
		ub.Assign("lng", database.Excluded("lng")),
		ub.Assign("opening_hours", database.Excluded("opening_hours")),
		ub.Assign("equipment", database.Excluded("equipment")),
		ub.Assign("tags", database.Excluded("tags")),
		ub.Assign("menus", database.Excluded("menus")),
		ub.Assign("has_wifi", database.Excluded("has_wifi")),
		ub.Assign("has_food", database.Excluded("has_food")),
		ub.Assign("has_outdoor_seating", database.Excluded("has_outdoor_seating")),
		ub.Assign("has_power_outlets", database.Excluded("has_power_outlets")),
		ub.Assign("is_wheelchair_accessible", database.Excluded("is_wheelchair_accessible")),
		ub.Assign("serves_espresso", database.Excluded("serves_espresso")),
		ub.Assign("serves_filter", database.Excluded("serves_filter")),
		ub.Assign("serves_cold_brew", database.Excluded("serves_cold_brew")),
		ub.Assign("serves_decaf", database.Excluded("serves_decaf")),
		ub.Assign("brand_document_id", database.Excluded("brand_document_id")),
		ub.Assign("brand_name", database.Excluded("brand_name")),
		ub.Assign("brand_logo_url", database.Excluded("brand_logo_url")),
		ub.Assign("coffee_partner_document_id", database.Excluded("coffee_partner_document_id")),
		ub.Assign("coffee_partner_name", database.Excluded("coffee_partner_name")),
		ub.Assign("coffee_partner_logo_url", database.Excluded("coffee_partner_logo_url")),
		ub.Assign("location_document_id", database.Excluded("location_document_id")),
		ub.Assign("location_name", database.Excluded("location_name")),
		ub.Assign("city_area_document_id", database.Excluded("city_area_document_id")),
		ub.Assign("city_area_name", database.Excluded("city_area_name")),
		ub.Assign("updated_at", database.Excluded("updated_at")),
	)
	query, args := ib.Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": entity.DocumentID,
		}).Error("failed to upsert shop")
		return fmt.Errorf("failed to upsert shop: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id": entity.DocumentID,
		"name":        entity.Name,
	}).Info("upserted shop")

	return nil
}

// Delete removes the shop row.
func (r *Repository) Delete(ctx context.Context, documentID string) error {
	ctx, span := tracing.StartSpan(ctx, "ShopRepository.Delete")
	defer span.End()

	db := database.NewDeleteBuilder()
	db.DeleteFrom(tableName)
	db.Where(db.Equal("document_id", documentID))
	query, args := db.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": documentID,
		}).Error("failed to delete shop")
		return fmt.Errorf("failed to delete shop: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id":   documentID,
		"rows_affected": rowsAffected,
	}).Info("deleted shop")

	return nil
}

// GetByDocumentID gets a shop projection row.
func (r *Repository) GetByDocumentID(ctx context.Context, documentID string) (*Row, error) {
	ctx, span := tracing.StartSpan(ctx, "ShopRepository.GetByDocumentID")
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
		r.logger.WithContext(ctx).WithError(err).Error("failed to get shop")
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	return &row, nil
}
