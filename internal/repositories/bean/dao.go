package bean

import (
	"database/sql"
	"time"

	"github.com/beanmap/drip/pkg/database"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/normalize"
)

const (
	tableName           = "beans"
	originsTableName    = "bean_origins"
	flavorTagsTableName = "bean_flavor_tags"
)

// Row is the projection row for a bean.
type Row struct {
	DocumentID      string         `db:"document_id"`
	CmsID           sql.NullInt64  `db:"cms_id"`
	Name            sql.NullString `db:"name"`
	Slug            sql.NullString `db:"slug"`
	RoastLevel      sql.NullString `db:"roast_level"`
	ProcessMethod   sql.NullString `db:"process_method"`
	TastingNotes    sql.NullString `db:"tasting_notes"`
	IsDecaf         sql.NullBool   `db:"is_decaf"`
	PhotoURL        sql.NullString `db:"photo_url"`
	BrandDocumentID sql.NullString `db:"brand_document_id"`
	BrandName       sql.NullString `db:"brand_name"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// OriginRow is a bean origin junction row.
type OriginRow struct {
	BeanDocumentID    string         `db:"bean_document_id"`
	CountryDocumentID string         `db:"country_document_id"`
	CountryCode       sql.NullString `db:"country_code"`
	CountryName       sql.NullString `db:"country_name"`
}

// FlavorTagRow is a bean flavor tag junction row.
type FlavorTagRow struct {
	BeanDocumentID string         `db:"bean_document_id"`
	TagDocumentID  string         `db:"tag_document_id"`
	TagLabel       sql.NullString `db:"tag_label"`
}

var (
	rowStruct       = database.NewStruct(new(Row))
	originStruct    = database.NewStruct(new(OriginRow))
	flavorTagStruct = database.NewStruct(new(FlavorTagRow))
)

// FromBean flattens a rehydrated bean onto its projection row.
func FromBean(b models.Bean) *Row {
	now := time.Now().UTC()
	row := &Row{
		DocumentID:    b.DocumentID,
		CmsID:         sql.NullInt64{Int64: int64(b.ID), Valid: b.ID != 0},
		Name:          normalize.String(b.Name),
		Slug:          normalize.String(b.Slug),
		RoastLevel:    normalize.String(b.RoastLevel),
		ProcessMethod: normalize.String(b.ProcessMethod),
		TastingNotes:  normalize.JSONText(b.TastingNotes),
		IsDecaf:       normalize.Bool(b.IsDecaf),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if b.Photo != nil {
		row.PhotoURL = normalize.String(b.Photo.URL)
	}

	if b.Brand != nil {
		row.BrandDocumentID = normalize.String(b.Brand.DocumentID)
		row.BrandName = normalize.String(b.Brand.Name)
	}

	return row
}

// OriginsFromBean builds the origin junction rows for a bean. Members without
// a code are skipped.
func OriginsFromBean(b models.Bean) []*OriginRow {
	rows := make([]*OriginRow, 0, len(b.Origins))
	for _, c := range b.Origins {
		if c.Code == "" || c.DocumentID == "" {
			continue
		}
		rows = append(rows, &OriginRow{
			BeanDocumentID:    b.DocumentID,
			CountryDocumentID: c.DocumentID,
			CountryCode:       normalize.String(c.Code),
			CountryName:       normalize.String(c.Name),
		})
	}
	return rows
}

// FlavorTagsFromBean builds the flavor tag junction rows for a bean.
func FlavorTagsFromBean(b models.Bean) []*FlavorTagRow {
	rows := make([]*FlavorTagRow, 0, len(b.FlavorTags))
	for _, t := range b.FlavorTags {
		if t.DocumentID == "" {
			continue
		}
		rows = append(rows, &FlavorTagRow{
			BeanDocumentID: b.DocumentID,
			TagDocumentID:  t.DocumentID,
			TagLabel:       normalize.String(t.Label),
		})
	}
	return rows
}
