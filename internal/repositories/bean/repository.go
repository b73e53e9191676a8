package bean

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/beanmap/drip/pkg/database"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/tracing"
)

// BeanRepository defines the projection operations for beans.
type BeanRepository interface {
	Upsert(ctx context.Context, entity models.Bean) error
	Delete(ctx context.Context, documentID string) error
	GetByDocumentID(ctx context.Context, documentID string) (*Row, error)
	GetOrigins(ctx context.Context, beanDocumentID string) ([]OriginRow, error)
	GetFlavorTags(ctx context.Context, beanDocumentID string) ([]FlavorTagRow, error)
}

// Repository implements BeanRepository.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new bean repository.
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts or replaces the bean row and rewrites its origin and flavor
// tag junction sets in one transaction.
func (r *Repository) Upsert(ctx context.Context, entity models.Bean) error {
	ctx, span := tracing.StartSpan(ctx, "BeanRepository.Upsert")
	defer span.End()

	row := FromBean(entity)

	ib := rowStruct.InsertInto(tableName, row)
	ub := ib.OnConflict("document_id")
	ub.Set(
		ub.Assign("cms_id", database.Excluded("cms_id")),
		ub.Assign("name", database.Excluded("name")),
		ub.Assign("slug", database.Excluded("slug")),
		ub.Assign("roast_level", database.Excluded("roast_level")),
		ub.Assign("process_method", database.Excluded("process_method")),
		ub.Assign("tasting_notes", database.Excluded("tasting_notes")),
		ub.Assign("is_decaf", database.Excluded("is_decaf")),
		ub.Assign("photo_url", database.Excluded("photo_url")),
		ub.Assign("brand_document_id", database.Excluded("brand_document_id")),
		ub.Assign("brand_name", database.Excluded("brand_name")),
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
		}).Error("failed to upsert bean")
		return fmt.Errorf("failed to upsert bean: %w", err)
	}

	if err := r.replaceOrigins(ctx, tx, entity); err != nil {
		return err
	}

	if err := r.replaceFlavorTags(ctx, tx, entity); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id": entity.DocumentID,
		"name":        entity.Name,
		"origins":     len(entity.Origins),
		"flavor_tags": len(entity.FlavorTags),
	}).Info("upserted bean")

	return nil
}

// Delete removes the bean row and its junction rows.
func (r *Repository) Delete(ctx context.Context, documentID string) error {
	ctx, span := tracing.StartSpan(ctx, "BeanRepository.Delete")
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
		}).Error("failed to delete bean")
		return fmt.Errorf("failed to delete bean: %w", err)
	}

	for _, junction := range []string{originsTableName, flavorTagsTableName} {
		db := database.NewDeleteBuilder()
		db.DeleteFrom(junction)
		db.Where(db.Equal("bean_document_id", documentID))
		query, args = db.Build()

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"document_id": documentID,
				"table":       junction,
			}).Error("failed to clear bean junction rows")
			return fmt.Errorf("failed to clear %s: %w", junction, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id":   documentID,
		"rows_affected": rowsAffected,
	}).Info("deleted bean")

	return nil
}

// GetByDocumentID gets a bean projection row.
func (r *Repository) GetByDocumentID(ctx context.Context, documentID string) (*Row, error) {
	ctx, span := tracing.StartSpan(ctx, "BeanRepository.GetByDocumentID")
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
		r.logger.WithContext(ctx).WithError(err).Error("failed to get bean")
		return nil, fmt.Errorf("failed to get bean: %w", err)
	}

	return &row, nil
}

// GetOrigins gets the origin junction rows for a bean.
func (r *Repository) GetOrigins(ctx context.Context, beanDocumentID string) ([]OriginRow, error) {
	ctx, span := tracing.StartSpan(ctx, "BeanRepository.GetOrigins")
	defer span.End()

	sb := originStruct.SelectFrom(originsTableName)
	sb.Where(sb.Equal("bean_document_id", beanDocumentID))
	sb.OrderBy("country_document_id")
	query, args := sb.Build()

	var rows []OriginRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to get bean origins")
		return nil, fmt.Errorf("failed to get bean origins: %w", err)
	}

	return rows, nil
}

// GetFlavorTags gets the flavor tag junction rows for a bean.
func (r *Repository) GetFlavorTags(ctx context.Context, beanDocumentID string) ([]FlavorTagRow, error) {
	ctx, span := tracing.StartSpan(ctx, "BeanRepository.GetFlavorTags")
	defer span.End()

	sb := flavorTagStruct.SelectFrom(flavorTagsTableName)
	sb.Where(sb.Equal("bean_document_id", beanDocumentID))
	sb.OrderBy("tag_document_id")
	query, args := sb.Build()

	var rows []FlavorTagRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to get bean flavor tags")
		return nil, fmt.Errorf("failed to get bean flavor tags: %w", err)
	}

	return rows, nil
}

// replaceOrigins clears and rewrites the origin set for the bean.
func (r *Repository) replaceOrigins(ctx context.Context, tx database.Tx, entity models.Bean) error {
	db := database.NewDeleteBuilder()
	db.DeleteFrom(originsTableName)
	db.Where(db.Equal("bean_document_id", entity.DocumentID))
	query, args := db.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": entity.DocumentID,
		}).Error("failed to clear bean origins")
		return fmt.Errorf("failed to clear bean origins: %w", err)
	}

	rows := OriginsFromBean(entity)
	if len(rows) == 0 {
		return nil
	}

	values := make([]interface{}, len(rows))
	for i, row := range rows {
		values[i] = row
	}
	ib := originStruct.InsertInto(originsTableName, values...)
	query, args = ib.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": entity.DocumentID,
		}).Error("failed to insert bean origins")
		return fmt.Errorf("failed to insert bean origins: %w", err)
	}

	return nil
}

// replaceFlavorTags clears and rewrites the flavor tag set for the bean.
func (r *Repository) replaceFlavorTags(ctx context.Context, tx database.Tx, entity models.Bean) error {
	db := database.NewDeleteBuilder()
	db.DeleteFrom(flavorTagsTableName)
	db.Where(db.Equal("bean_document_id", entity.DocumentID))
	query, args := db.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": entity.DocumentID,
		}).Error("failed to clear bean flavor tags")
		return fmt.Errorf("failed to clear bean flavor tags: %w", err)
	}

	rows := FlavorTagsFromBean(entity)
	if len(rows) == 0 {
		return nil
	}

	values := make([]interface{}, len(rows))
	for i, row := range rows {
		values[i] = row
	}
	ib := flavorTagStruct.InsertInto(flavorTagsTableName, values...)
	query, args = ib.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_id": entity.DocumentID,
		}).Error("failed to insert bean flavor tags")
		return fmt.Errorf("failed to insert bean flavor tags: %w", err)
	}

	return nil
}
