package country

import (
	"database/sql"
	"time"

	"github.com/beanmap/drip/pkg/database"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/normalize"
)

const tableName = "countries"

// Row is the projection row for a country.
type Row struct {
	DocumentID     string         `db:"document_id"`
	CmsID          sql.NullInt64  `db:"cms_id"`
	Code           sql.NullString `db:"code"`
	Name           sql.NullString `db:"name"`
	PrimaryColor   sql.NullString `db:"primary_color"`
	SecondaryColor sql.NullString `db:"secondary_color"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

var rowStruct = database.NewStruct(new(Row))

// FromCountry flattens a rehydrated country onto its projection row.
func FromCountry(c models.Country) *Row {
	now := time.Now().UTC()
	return &Row{
		DocumentID:     c.DocumentID,
		CmsID:          sql.NullInt64{Int64: int64(c.ID), Valid: c.ID != 0},
		Code:           normalize.String(c.Code),
		Name:           normalize.String(c.Name),
		PrimaryColor:   normalize.String(c.PrimaryColor),
		SecondaryColor: normalize.String(c.SecondaryColor),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
