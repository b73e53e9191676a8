package location

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beanmap/drip/pkg/models"
)

func TestFromLocation(t *testing.T) {
	lat, lng := 38.7223, -9.1393

	entity := models.Location{
		ID:         9,
		DocumentID: "loc-doc-1",
		Name:       "Lisbon",
		Slug:       "lisbon",
		Story:      "A city of miradouros and bicas.",
		StoryAuthor: &models.Author{
			Name:  "Ana",
			Photo: &models.Media{URL: "https://cdn.example.com/ana.jpg"},
		},
		Country: &models.CountryRef{
			DocumentID:     "country-doc-pt",
			Code:           "PT",
			Name:           "Portugal",
			PrimaryColor:   "#006600",
			SecondaryColor: "#FF0000",
		},
		Coordinates: &models.Coordinates{Lat: &lat, Lng: &lng},
	}

	row := FromLocation(entity)

	assert.Equal(t, "loc-doc-1", row.DocumentID)
	assert.Equal(t, "Lisbon", row.Name.String)
	assert.Equal(t, "Ana", row.StoryAuthorName.String)
	assert.Equal(t, "https://cdn.example.com/ana.jpg", row.StoryAuthorPhotoURL.String)
	require.True(t, row.Lat.Valid)
	assert.Equal(t, 38.7223, row.Lat.Float64)
	assert.Equal(t, "country-doc-pt", row.CountryDocumentID.String)
	assert.Equal(t, "PT", row.CountryCode.String)
	assert.Equal(t, "#006600", row.CountryPrimaryColor.String)
	assert.Equal(t, "#FF0000", row.CountrySecondaryColor.String)
}

func TestFromLocationWithoutRelations(t *testing.T) {
	row := FromLocation(models.Location{DocumentID: "loc-doc-2", Name: "Nowhere"})

	assert.False(t, row.StoryAuthorName.Valid)
	assert.False(t, row.Lat.Valid)
	assert.False(t, row.CountryDocumentID.Valid)
	assert.False(t, row.CountryCode.Valid)
}

func TestFromLocationCoordinateVariants(t *testing.T) {
	var entity models.Location
	err := json.Unmarshal([]byte(`{"documentId":"l1","name":"A","coordinates":{"latitude":7.7,"longitude":8.8}}`), &entity)
	require.NoError(t, err)

	row := FromLocation(entity)
	assert.Equal(t, 7.7, row.Lat.Float64)
	assert.Equal(t, 8.8, row.Lng.Float64)
}
