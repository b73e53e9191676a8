package cityarea

import (
	"database/sql"
	"time"

	"github.com/beanmap/drip/pkg/database"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/normalize"
)

const tableName = "city_areas"

// Row is the projection row for a city area.
type Row struct {
	DocumentID         string         `db:"document_id"`
	CmsID              sql.NullInt64  `db:"cms_id"`
	Name               sql.NullString `db:"name"`
	Slug               sql.NullString `db:"slug"`
	FeaturedImageURL   sql.NullString `db:"featured_image_url"`
	Boundary           sql.NullString `db:"boundary"`
	LocationDocumentID sql.NullString `db:"location_document_id"`
	LocationName       sql.NullString `db:"location_name"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

var rowStruct = database.NewStruct(new(Row))

// FromCityArea flattens a rehydrated city area onto its projection row.
func FromCityArea(a models.CityArea) *Row {
	now := time.Now().UTC()
	row := &Row{
		DocumentID: a.DocumentID,
		CmsID:      sql.NullInt64{Int64: int64(a.ID), Valid: a.ID != 0},
		Name:       normalize.String(a.Name),
		Slug:       normalize.String(a.Slug),
		Boundary:   normalize.JSONText(a.Boundary),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if a.FeaturedImage != nil {
		row.FeaturedImageURL = normalize.String(a.FeaturedImage.URL)
	}

	if a.Location != nil {
		row.LocationDocumentID = normalize.String(a.Location.DocumentID)
		row.LocationName = normalize.String(a.Location.Name)
	}

	return row
}
