package location

import (
	"database/sql"
	"time"

	"github.com/beanmap/drip/pkg/database"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/normalize"
)

const tableName = "locations"

// Row is the projection row for a location. Country fields are denormalized
// from the owning country so read queries never join.
type Row struct {
	DocumentID            string          `db:"document_id"`
	CmsID                 sql.NullInt64   `db:"cms_id"`
	Name                  sql.NullString  `db:"name"`
	Slug                  sql.NullString  `db:"slug"`
	Story                 sql.NullString  `db:"story"`
	StoryAuthorName       sql.NullString  `db:"story_author_name"`
	StoryAuthorPhotoURL   sql.NullString  `db:"story_author_photo_url"`
	Lat                   sql.NullFloat64 `db:"lat"`
	Lng                   sql.NullFloat64 `db:"lng"`
	CountryDocumentID     sql.NullString  `db:"country_document_id"`
	CountryCode           sql.NullString  `db:"country_code"`
	CountryName           sql.NullString  `db:"country_name"`
	CountryPrimaryColor   sql.NullString  `db:"country_primary_color"`
	CountrySecondaryColor sql.NullString  `db:"country_secondary_color"`
	CreatedAt             time.Time       `db:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at"`
}

var rowStruct = database.NewStruct(new(Row))

// FromLocation flattens a rehydrated location onto its projection row.
func FromLocation(l models.Location) *Row {
	now := time.Now().UTC()
	row := &Row{
		DocumentID: l.DocumentID,
		CmsID:      sql.NullInt64{Int64: int64(l.ID), Valid: l.ID != 0},
		Name:       normalize.String(l.Name),
		Slug:       normalize.String(l.Slug),
		Story:      normalize.String(l.Story),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if l.StoryAuthor != nil {
		row.StoryAuthorName = normalize.String(l.StoryAuthor.Name)
		if l.StoryAuthor.Photo != nil {
			row.StoryAuthorPhotoURL = normalize.String(l.StoryAuthor.Photo.URL)
		}
	}

	if l.Coordinates != nil {
		row.Lat = normalize.Float(l.Coordinates.Lat)
		row.Lng = normalize.Float(l.Coordinates.Lng)
	}

	if l.Country != nil {
		row.CountryDocumentID = normalize.String(l.Country.DocumentID)
		row.CountryCode = normalize.String(l.Country.Code)
		row.CountryName = normalize.String(l.Country.Name)
		row.CountryPrimaryColor = normalize.String(l.Country.PrimaryColor)
		row.CountrySecondaryColor = normalize.String(l.Country.SecondaryColor)
	}

	return row
}
