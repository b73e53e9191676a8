package shop

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beanmap/drip/pkg/models"
)

func TestFromShop(t *testing.T) {
	yes, no := true, false
	lat, lng := 52.5200, 13.4050

	entity := models.Shop{
		ID:          42,
		DocumentID:  "shop-doc-1",
		Name:        "Bonanza",
		Slug:        "bonanza",
		Description: "Third wave pioneer",
		Address:     "Oderberger Str. 35",
		Coordinates: &models.Coordinates{Lat: &lat, Lng: &lng},
		OpeningHours: json.RawMessage(`{"mon":"08:00-18:00"}`),
		Equipment:    json.RawMessage(`["v60","aeropress"]`),
		HasWifi:      &yes,
		HasFood:      &no,
		Brand: &models.BrandRef{
			DocumentID: "brand-doc-1",
			Name:       "Bonanza Roasters",
			Logo:       &models.Media{URL: "https://cdn.example.com/bonanza.png"},
		},
		CoffeePartner: &models.BrandRef{
			DocumentID: "brand-doc-2",
			Name:       "Partner Roasters",
		},
		Location: &models.LocationRef{DocumentID: "loc-doc-1", Name: "Berlin"},
		CityArea: &models.CityAreaRef{DocumentID: "area-doc-1", Name: "Prenzlauer Berg"},
	}

	row := FromShop(entity)

	assert.Equal(t, "shop-doc-1", row.DocumentID)
	require.True(t, row.CmsID.Valid)
	assert.Equal(t, int64(42), row.CmsID.Int64)
	assert.Equal(t, "Bonanza", row.Name.String)

	require.True(t, row.Lat.Valid)
	assert.Equal(t, 52.52, row.Lat.Float64)
	require.True(t, row.Lng.Valid)
	assert.Equal(t, 13.405, row.Lng.Float64)

	assert.Equal(t, `{"mon":"08:00-18:00"}`, row.OpeningHours.String)
	assert.Equal(t, `["v60","aeropress"]`, row.Equipment.String)
	assert.False(t, row.Tags.Valid)
	assert.False(t, row.Menus.Valid)

	require.True(t, row.HasWifi.Valid)
	assert.True(t, row.HasWifi.Bool)
	require.True(t, row.HasFood.Valid)
	assert.False(t, row.HasFood.Bool)
	assert.False(t, row.ServesEspresso.Valid, "absent flag must stay unknown")

	assert.Equal(t, "brand-doc-1", row.BrandDocumentID.String)
	assert.Equal(t, "Bonanza Roasters", row.BrandName.String)
	assert.Equal(t, "https://cdn.example.com/bonanza.png", row.BrandLogoURL.String)
	assert.Equal(t, "brand-doc-2", row.CoffeePartnerDocumentID.String)
	assert.False(t, row.CoffeePartnerLogoURL.Valid)
	assert.Equal(t, "loc-doc-1", row.LocationDocumentID.String)
	assert.Equal(t, "area-doc-1", row.CityAreaDocumentID.String)
}

func TestFromShopMinimal(t *testing.T) {
	row := FromShop(models.Shop{DocumentID: "shop-doc-2", Name: "Tiny"})

	assert.Equal(t, "shop-doc-2", row.DocumentID)
	assert.False(t, row.CmsID.Valid)
	assert.False(t, row.Lat.Valid)
	assert.False(t, row.BrandDocumentID.Valid)
	assert.False(t, row.LocationDocumentID.Valid)
	assert.False(t, row.HasWifi.Valid)
	assert.False(t, row.OpeningHours.Valid)
}

func TestShopCoordinateVariants(t *testing.T) {
	t.Run("lat lng keys", func(t *testing.T) {
		var entity models.Shop
		err := json.Unmarshal([]byte(`{"documentId":"s1","name":"A","coordinates":{"lat":1.5,"lng":2.5}}`), &entity)
		require.NoError(t, err)

		row := FromShop(entity)
		assert.Equal(t, 1.5, row.Lat.Float64)
		assert.Equal(t, 2.5, row.Lng.Float64)
	})

	t.Run("latitude longitude keys", func(t *testing.T) {
		var entity models.Shop
		err := json.Unmarshal([]byte(`{"documentId":"s2","name":"B","coordinates":{"latitude":3.5,"longitude":4.5}}`), &entity)
		require.NoError(t, err)

		row := FromShop(entity)
		assert.Equal(t, 3.5, row.Lat.Float64)
		assert.Equal(t, 4.5, row.Lng.Float64)
	})
}
