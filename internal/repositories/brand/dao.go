package brand

import (
	"database/sql"
	"time"

	"github.com/beanmap/drip/pkg/database"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/normalize"
)

const (
	tableName               = "brands"
	suppliersTableName      = "brand_suppliers"
	roastCountriesTableName = "brand_roast_countries"
)

// Row is the projection row for a brand.
type Row struct {
	DocumentID          string         `db:"document_id"`
	CmsID               sql.NullInt64  `db:"cms_id"`
	Name                sql.NullString `db:"name"`
	Slug                sql.NullString `db:"slug"`
	Description         sql.NullString `db:"description"`
	Website             sql.NullString `db:"website"`
	FoundedYear         sql.NullInt64  `db:"founded_year"`
	LogoURL             sql.NullString `db:"logo_url"`
	OwnRoast            sql.NullBool   `db:"own_roast"`
	OwnRoastCountryCode sql.NullString `db:"own_roast_country_code"`
	OwnRoastCountryName sql.NullString `db:"own_roast_country_name"`
	Awards              sql.NullString `db:"awards"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

// SupplierRow is a brand supplier junction row.
type SupplierRow struct {
	BrandDocumentID    string         `db:"brand_document_id"`
	SupplierDocumentID string         `db:"supplier_document_id"`
	SupplierName       sql.NullString `db:"supplier_name"`
}

// RoastCountryRow is a brand roast country junction row.
type RoastCountryRow struct {
	BrandDocumentID   string         `db:"brand_document_id"`
	CountryDocumentID string         `db:"country_document_id"`
	CountryCode       sql.NullString `db:"country_code"`
	CountryName       sql.NullString `db:"country_name"`
}

var (
	rowStruct          = database.NewStruct(new(Row))
	supplierStruct     = database.NewStruct(new(SupplierRow))
	roastCountryStruct = database.NewStruct(new(RoastCountryRow))
)

// FromBrand flattens a rehydrated brand onto its projection row.
func FromBrand(b models.Brand) *Row {
	now := time.Now().UTC()
	row := &Row{
		DocumentID:  b.DocumentID,
		CmsID:       sql.NullInt64{Int64: int64(b.ID), Valid: b.ID != 0},
		Name:        normalize.String(b.Name),
		Slug:        normalize.String(b.Slug),
		Description: normalize.String(b.Description),
		Website:     normalize.String(b.Website),
		FoundedYear: normalize.Int(b.FoundedYear),
		OwnRoast:    normalize.Bool(b.OwnRoast),
		Awards:      normalize.JSONText(b.Awards),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if b.Logo != nil {
		row.LogoURL = normalize.String(b.Logo.URL)
	}

	if b.OwnRoastCountry != nil {
		row.OwnRoastCountryCode = normalize.String(b.OwnRoastCountry.Code)
		row.OwnRoastCountryName = normalize.String(b.OwnRoastCountry.Name)
	}

	return row
}

// SuppliersFromBrand builds the supplier junction rows for a brand. Members
// without a document id are skipped.
func SuppliersFromBrand(b models.Brand) []*SupplierRow {
	rows := make([]*SupplierRow, 0, len(b.Suppliers))
	for _, s := range b.Suppliers {
		if s.DocumentID == "" {
			continue
		}
		rows = append(rows, &SupplierRow{
			BrandDocumentID:    b.DocumentID,
			SupplierDocumentID: s.DocumentID,
			SupplierName:       normalize.String(s.Name),
		})
	}
	return rows
}

// RoastCountriesFromBrand builds the roast country junction rows for a brand.
// Members without a code are skipped.
func RoastCountriesFromBrand(b models.Brand) []*RoastCountryRow {
	rows := make([]*RoastCountryRow, 0, len(b.RoastCountries))
	for _, c := range b.RoastCountries {
		if c.Code == "" || c.DocumentID == "" {
			continue
		}
		rows = append(rows, &RoastCountryRow{
			BrandDocumentID:   b.DocumentID,
			CountryDocumentID: c.DocumentID,
			CountryCode:       normalize.String(c.Code),
			CountryName:       normalize.String(c.Name),
		})
	}
	return rows
}
