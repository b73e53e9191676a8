package cityarea

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beanmap/drip/pkg/models"
)

func TestFromCityArea(t *testing.T) {
	entity := models.CityArea{
		ID:         4,
		DocumentID: "area-doc-1",
		Name:       "Prenzlauer Berg",
		Slug:       "prenzlauer-berg",
		Location:   &models.LocationRef{DocumentID: "loc-doc-1", Name: "Berlin"},
		FeaturedImage: &models.Media{
			URL: "https://cdn.example.com/pberg.jpg",
		},
		Boundary: json.RawMessage(`{"type":"Polygon","coordinates":[]}`),
	}

	row := FromCityArea(entity)

	assert.Equal(t, "area-doc-1", row.DocumentID)
	assert.Equal(t, "Prenzlauer Berg", row.Name.String)
	assert.Equal(t, "https://cdn.example.com/pberg.jpg", row.FeaturedImageURL.String)
	assert.Equal(t, `{"type":"Polygon","coordinates":[]}`, row.Boundary.String)
	assert.Equal(t, "loc-doc-1", row.LocationDocumentID.String)
	assert.Equal(t, "Berlin", row.LocationName.String)
}

func TestFromCityAreaWithoutRelations(t *testing.T) {
	row := FromCityArea(models.CityArea{DocumentID: "area-doc-2", Name: "Bare"})

	assert.False(t, row.FeaturedImageURL.Valid)
	assert.False(t, row.Boundary.Valid)
	assert.False(t, row.LocationDocumentID.Valid)
	assert.False(t, row.LocationName.Valid)
}
