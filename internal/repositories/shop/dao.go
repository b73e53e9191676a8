package shop

import (
	"database/sql"
	"time"

	"github.com/beanmap/drip/pkg/database"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/normalize"
)

const tableName = "shops"

// Row is the projection row for a shop. Relation columns are denormalized
// pairs of document id plus display fields so read queries never join.
type Row struct {
	DocumentID  string         `db:"document_id"`
	CmsID       sql.NullInt64  `db:"cms_id"`
	Name        sql.NullString `db:"name"`
	Slug        sql.NullString `db:"slug"`
	Description sql.NullString `db:"description"`
	Address     sql.NullString `db:"address"`

	Lat sql.NullFloat64 `db:"lat"`
	Lng sql.NullFloat64 `db:"lng"`

	OpeningHours sql.NullString `db:"opening_hours"`
	Equipment    sql.NullString `db:"equipment"`
	Tags         sql.NullString `db:"tags"`
	Menus        sql.NullString `db:"menus"`

	HasWifi                sql.NullBool `db:"has_wifi"`
	HasFood                sql.NullBool `db:"has_food"`
	HasOutdoorSeating      sql.NullBool `db:"has_outdoor_seating"`
	HasPowerOutlets        sql.NullBool `db:"has_power_outlets"`
	IsWheelchairAccessible sql.NullBool `db:"is_wheelchair_accessible"`
	ServesEspresso         sql.NullBool `db:"serves_espresso"`
	ServesFilter           sql.NullBool `db:"serves_filter"`
	ServesColdBrew         sql.NullBool `db:"serves_cold_brew"`
	ServesDecaf            sql.NullBool `db:"serves_decaf"`

	BrandDocumentID         sql.NullString `db:"brand_document_id"`
	BrandName               sql.NullString `db:"brand_name"`
	BrandLogoURL            sql.NullString `db:"brand_logo_url"`
	CoffeePartnerDocumentID sql.NullString `db:"coffee_partner_document_id"`
	CoffeePartnerName       sql.NullString `db:"coffee_partner_name"`
	CoffeePartnerLogoURL    sql.NullString `db:"coffee_partner_logo_url"`
	LocationDocumentID      sql.NullString `db:"location_document_id"`
	LocationName            sql.NullString `db:"location_name"`
	CityAreaDocumentID      sql.NullString `db:"city_area_document_id"`
	CityAreaName            sql.NullString `db:"city_area_name"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

var rowStruct = database.NewStruct(new(Row))

// FromShop flattens a rehydrated shop onto its projection row.
func FromShop(s models.Shop) *Row {
	now := time.Now().UTC()
	row := &Row{
		DocumentID:  s.DocumentID,
		CmsID:       sql.NullInt64{Int64: int64(s.ID), Valid: s.ID != 0},
		Name:        normalize.String(s.Name),
		Slug:        normalize.String(s.Slug),
		Description: normalize.String(s.Description),
		Address:     normalize.String(s.Address),

		OpeningHours: normalize.JSONText(s.OpeningHours),
		Equipment:    normalize.JSONText(s.Equipment),
		Tags:         normalize.JSONText(s.Tags),
		Menus:        normalize.JSONText(s.Menus),

		HasWifi:                normalize.Bool(s.HasWifi),
		HasFood:                normalize.Bool(s.HasFood),
		HasOutdoorSeating:      normalize.Bool(s.HasOutdoorSeating),
		HasPowerOutlets:        normalize.Bool(s.HasPowerOutlets),
		IsWheelchairAccessible: normalize.Bool(s.IsWheelchairAccessible),
		ServesEspresso:         normalize.Bool(s.ServesEspresso),
		ServesFilter:           normalize.Bool(s.ServesFilter),
		ServesColdBrew:         normalize.Bool(s.ServesColdBrew),
		ServesDecaf:            normalize.Bool(s.ServesDecaf),

		CreatedAt: now,
		UpdatedAt: now,
	}

	if s.Coordinates != nil {
		row.Lat = normalize.Float(s.Coordinates.Lat)
		row.Lng = normalize.Float(s.Coordinates.Lng)
	}

	if s.Brand != nil {
		row.BrandDocumentID = normalize.String(s.Brand.DocumentID)
		row.BrandName = normalize.String(s.Brand.Name)
		if s.Brand.Logo != nil {
			row.BrandLogoURL = normalize.String(s.Brand.Logo.URL)
		}
	}

	if s.CoffeePartner != nil {
		row.CoffeePartnerDocumentID = normalize.String(s.CoffeePartner.DocumentID)
		row.CoffeePartnerName = normalize.String(s.CoffeePartner.Name)
		if s.CoffeePartner.Logo != nil {
			row.CoffeePartnerLogoURL = normalize.String(s.CoffeePartner.Logo.URL)
		}
	}

	if s.Location != nil {
		row.LocationDocumentID = normalize.String(s.Location.DocumentID)
		row.LocationName = normalize.String(s.Location.Name)
	}

	if s.CityArea != nil {
		row.CityAreaDocumentID = normalize.String(s.CityArea.DocumentID)
		row.CityAreaName = normalize.String(s.CityArea.Name)
	}

	return row
}
