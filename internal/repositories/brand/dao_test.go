package brand

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beanmap/drip/pkg/models"
)

func TestFromBrand(t *testing.T) {
	ownRoast := true
	year := 2012

	entity := models.Brand{
		ID:          7,
		DocumentID:  "brand-doc-1",
		Name:        "Five Elephant",
		Slug:        "five-elephant",
		Website:     "https://fiveelephant.com",
		FoundedYear: &year,
		Logo:        &models.Media{URL: "https://cdn.example.com/fe.png"},
		OwnRoast:    &ownRoast,
		OwnRoastCountry: &models.CountryRef{
			DocumentID: "country-doc-de",
			Code:       "DE",
			Name:       "Germany",
		},
		Awards: json.RawMessage(`["best roaster 2019"]`),
	}

	row := FromBrand(entity)

	assert.Equal(t, "brand-doc-1", row.DocumentID)
	require.True(t, row.FoundedYear.Valid)
	assert.Equal(t, int64(2012), row.FoundedYear.Int64)
	assert.Equal(t, "https://cdn.example.com/fe.png", row.LogoURL.String)
	require.True(t, row.OwnRoast.Valid)
	assert.True(t, row.OwnRoast.Bool)
	assert.Equal(t, "DE", row.OwnRoastCountryCode.String)
	assert.Equal(t, "Germany", row.OwnRoastCountryName.String)
	assert.Equal(t, `["best roaster 2019"]`, row.Awards.String)
}

func TestSuppliersFromBrand(t *testing.T) {
	entity := models.Brand{
		DocumentID: "brand-doc-1",
		Suppliers: []models.SupplierRef{
			{DocumentID: "sup-1", Name: "Finca El Paraiso"},
			{DocumentID: "", Name: "orphan without id"},
			{DocumentID: "sup-2"},
		},
	}

	rows := SuppliersFromBrand(entity)

	require.Len(t, rows, 2)
	assert.Equal(t, "sup-1", rows[0].SupplierDocumentID)
	assert.Equal(t, "Finca El Paraiso", rows[0].SupplierName.String)
	assert.Equal(t, "sup-2", rows[1].SupplierDocumentID)
	assert.False(t, rows[1].SupplierName.Valid)
}

func TestRoastCountriesFromBrand(t *testing.T) {
	entity := models.Brand{
		DocumentID: "brand-doc-1",
		RoastCountries: []models.CountryRef{
			{DocumentID: "country-doc-et", Code: "ET", Name: "Ethiopia"},
			{DocumentID: "country-doc-x", Code: "", Name: "no code, skipped"},
			{DocumentID: "", Code: "CO", Name: "no document id, skipped"},
		},
	}

	rows := RoastCountriesFromBrand(entity)

	require.Len(t, rows, 1)
	assert.Equal(t, "country-doc-et", rows[0].CountryDocumentID)
	assert.Equal(t, "ET", rows[0].CountryCode.String)
	assert.Equal(t, "Ethiopia", rows[0].CountryName.String)
}
