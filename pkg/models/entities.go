package models

import "encoding/json"

// Coordinates is the normalized {lat, lng} pair. The CMS has stored
// coordinates under two field-name variants over time, so both are accepted.
type Coordinates struct {
	Lat *float64
	Lng *float64
}

func (c *Coordinates) UnmarshalJSON(b []byte) error {
	var raw struct {
		Lat       *float64 `json:"lat"`
		Lng       *float64 `json:"lng"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	c.Lat = raw.Lat
	if c.Lat == nil {
		c.Lat = raw.Latitude
	}
	c.Lng = raw.Lng
	if c.Lng == nil {
		c.Lng = raw.Longitude
	}
	return nil
}

// Media is an uploaded CMS asset.
type Media struct {
	ID              int    `json:"id"`
	DocumentID      string `json:"documentId"`
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText"`
}

// BrandRef is a brand relation as embedded on dependent entities.
type BrandRef struct {
	DocumentID string `json:"documentId"`
	Name       string `json:"name"`
	Logo       *Media `json:"logo"`
}

// LocationRef is a location relation as embedded on dependent entities.
type LocationRef struct {
	DocumentID string `json:"documentId"`
	Name       string `json:"name"`
}

// CityAreaRef is a city area relation as embedded on shops.
type CityAreaRef struct {
	DocumentID string `json:"documentId"`
	Name       string `json:"name"`
}

// CountryRef is a country relation. Code is the required key for junction
// rows; members without one are skipped.
type CountryRef struct {
	DocumentID     string `json:"documentId"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
}

// SupplierRef is a roaster supplying a brand.
type SupplierRef struct {
	DocumentID string `json:"documentId"`
	Name       string `json:"name"`
}

// FlavorTagRef is a tasting descriptor attached to beans.
type FlavorTagRef struct {
	DocumentID string `json:"documentId"`
	Label      string `json:"label"`
}

// Author is the byline on a location story.
type Author struct {
	Name  string `json:"name"`
	Photo *Media `json:"photo"`
}

// Shop is the rehydrated shop entity with its relation graph.
type Shop struct {
	ID          int    `json:"id"`
	DocumentID  string `json:"documentId" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Address     string `json:"address"`

	Coordinates *Coordinates `json:"coordinates"`

	OpeningHours json.RawMessage `json:"openingHours"`
	Equipment    json.RawMessage `json:"equipment"`
	Tags         json.RawMessage `json:"tags"`
	Menus        json.RawMessage `json:"menus"`

	// Facility and brew method flags are tri-state: absent means unknown.
	HasWifi                *bool `json:"hasWifi"`
	HasFood                *bool `json:"hasFood"`
	HasOutdoorSeating      *bool `json:"hasOutdoorSeating"`
	HasPowerOutlets        *bool `json:"hasPowerOutlets"`
	IsWheelchairAccessible *bool `json:"isWheelchairAccessible"`
	ServesEspresso         *bool `json:"servesEspresso"`
	ServesFilter           *bool `json:"servesFilter"`
	ServesColdBrew         *bool `json:"servesColdBrew"`
	ServesDecaf            *bool `json:"servesDecaf"`

	Brand         *BrandRef    `json:"brand"`
	CoffeePartner *BrandRef    `json:"coffeePartner"`
	Location      *LocationRef `json:"location"`
	CityArea      *CityAreaRef `json:"cityArea"`
}

// Brand is the rehydrated brand entity.
type Brand struct {
	ID          int    `json:"id"`
	DocumentID  string `json:"documentId" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Website     string `json:"website"`
	FoundedYear *int   `json:"foundedYear"`

	Logo            *Media          `json:"logo"`
	OwnRoast        *bool           `json:"ownRoast"`
	OwnRoastCountry *CountryRef     `json:"ownRoastCountry"`
	Awards          json.RawMessage `json:"awards"`

	Suppliers      []SupplierRef `json:"suppliers"`
	RoastCountries []CountryRef  `json:"roastCountries"`
}

// Bean is the rehydrated bean entity.
type Bean struct {
	ID            int    `json:"id"`
	DocumentID    string `json:"documentId" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Slug          string `json:"slug"`
	RoastLevel    string `json:"roastLevel"`
	ProcessMethod string `json:"processMethod"`

	TastingNotes json.RawMessage `json:"tastingNotes"`
	IsDecaf      *bool           `json:"isDecaf"`

	Brand      *BrandRef      `json:"brand"`
	Photo      *Media         `json:"photo"`
	Origins    []CountryRef   `json:"origins"`
	FlavorTags []FlavorTagRef `json:"flavorTags"`
}

// Location is the rehydrated location (city) entity.
type Location struct {
	ID         int    `json:"id"`
	DocumentID string `json:"documentId" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Slug       string `json:"slug"`

	Story       string       `json:"story"`
	StoryAuthor *Author      `json:"storyAuthor"`
	Country     *CountryRef  `json:"country"`
	Coordinates *Coordinates `json:"coordinates"`
}

// Country is the rehydrated country entity.
type Country struct {
	ID             int    `json:"id"`
	DocumentID     string `json:"documentId" validate:"required"`
	Code           string `json:"code" validate:"required"`
	Name           string `json:"name"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
}

// CityArea is the rehydrated city area entity.
type CityArea struct {
	ID         int    `json:"id"`
	DocumentID string `json:"documentId" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Slug       string `json:"slug"`

	Location      *LocationRef    `json:"location"`
	FeaturedImage *Media          `json:"featuredImage"`
	Boundary      json.RawMessage `json:"boundary"`
}
