package strapi

import "github.com/beanmap/drip/pkg/models"

// Route describes how a model is fetched from the CMS: the plural collection
// endpoint and the populate spec that expands the relations the projection
// needs. Webhook payloads are minimal, so every rehydration fetch must ask
// for the full relation graph explicitly.
type Route struct {
	Collection string
	Populate   string
}

// Routes maps each handled model to its fetch route. The table is passed to
// the client at construction so tests can swap it out.
type Routes map[models.Model]Route

// DefaultRoutes returns the production route table.
func DefaultRoutes() Routes {
	return Routes{
		models.ModelShop: {
			Collection: "shops",
			Populate: "populate[brand][populate][0]=logo" +
				"&populate[coffeePartner][populate][0]=logo" +
				"&populate[location]=true" +
				"&populate[cityArea]=true" +
				"&populate[menus]=true",
		},
		models.ModelBrand: {
			Collection: "brands",
			Populate: "populate[logo]=true" +
				"&populate[ownRoastCountry]=true" +
				"&populate[suppliers]=true" +
				"&populate[roastCountries]=true",
		},
		models.ModelBean: {
			Collection: "beans",
			Populate: "populate[brand]=true" +
				"&populate[photo]=true" +
				"&populate[origins]=true" +
				"&populate[flavorTags]=true",
		},
		models.ModelLocation: {
			Collection: "locations",
			Populate: "populate[country]=true" +
				"&populate[storyAuthor][populate][0]=photo",
		},
		models.ModelCountry: {
			Collection: "countries",
		},
		models.ModelCityArea: {
			Collection: "city-areas",
			Populate: "populate[location]=true" +
				"&populate[featuredImage]=true",
		},
	}
}
