// Package catalog defines the normalized restaurant data model and the
// place-catalog contract consumed by the ranking and booking engines.
package catalog

import (
	"context"
)

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// RestaurantRecord is a normalized restaurant snapshot returned by a place
// catalog. Service flags use *bool so that "unknown" is distinguishable from
// an explicit false. Records are immutable for the duration of one scoring or
// booking pass.
type RestaurantRecord struct {
	PlaceID          string   `json:"placeId" yaml:"placeId"`
	Name             string   `json:"name" yaml:"name"`
	Address          string   `json:"address,omitempty" yaml:"address,omitempty"`
	Location         GeoPoint `json:"location" yaml:"location"`
	Rating           *float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
	UserRatingsTotal int      `json:"userRatingsTotal,omitempty" yaml:"userRatingsTotal,omitempty"`
	PriceLevel       *int     `json:"priceLevel,omitempty" yaml:"priceLevel,omitempty"`
	CuisineTypes     []string `json:"cuisineTypes,omitempty" yaml:"cuisineTypes,omitempty"`

	Reservable           *bool `json:"reservable,omitempty" yaml:"reservable,omitempty"`
	Delivery             *bool `json:"delivery,omitempty" yaml:"delivery,omitempty"`
	DineIn               *bool `json:"dineIn,omitempty" yaml:"dineIn,omitempty"`
	Takeout              *bool `json:"takeout,omitempty" yaml:"takeout,omitempty"`
	ServesBreakfast      *bool `json:"servesBreakfast,omitempty" yaml:"servesBreakfast,omitempty"`
	ServesLunch          *bool `json:"servesLunch,omitempty" yaml:"servesLunch,omitempty"`
	ServesDinner         *bool `json:"servesDinner,omitempty" yaml:"servesDinner,omitempty"`
	ServesBrunch         *bool `json:"servesBrunch,omitempty" yaml:"servesBrunch,omitempty"`
	ServesBeer           *bool `json:"servesBeer,omitempty" yaml:"servesBeer,omitempty"`
	ServesWine           *bool `json:"servesWine,omitempty" yaml:"servesWine,omitempty"`
	ServesVegetarianFood *bool `json:"servesVegetarianFood,omitempty" yaml:"servesVegetarianFood,omitempty"`

	OpeningHours  []string `json:"openingHours,omitempty" yaml:"openingHours,omitempty"`
	PhoneNumber   string   `json:"phoneNumber,omitempty" yaml:"phoneNumber,omitempty"`
	Website       string   `json:"website,omitempty" yaml:"website,omitempty"`
	GoogleMapsURL string   `json:"googleMapsUrl,omitempty" yaml:"googleMapsUrl,omitempty"`

	// Distance from the search origin in meters, when the record was produced
	// by a location search. Absent for direct detail lookups.
	Distance *float64 `json:"distance,omitempty" yaml:"distance,omitempty"`
}

// SearchCriteria selects restaurants by location and intent. Exactly one of
// the coordinate pair or PlaceName must be set.
type SearchCriteria struct {
	Latitude     *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	PlaceName    string   `json:"placeName,omitempty" yaml:"placeName,omitempty"`
	CuisineTypes []string `json:"cuisineTypes,omitempty" yaml:"cuisineTypes,omitempty"`
	Keyword      string   `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Mood         string   `json:"mood" yaml:"mood"`
	Event        string   `json:"event" yaml:"event"`
	Radius       float64  `json:"radius" yaml:"radius"`
	PriceLevel   *int     `json:"priceLevel,omitempty" yaml:"priceLevel,omitempty"`
	Locale       string   `json:"locale,omitempty" yaml:"locale,omitempty"`
}

// HasCoordinates reports whether the criteria selects by coordinate pair.
func (c *SearchCriteria) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// PlaceCatalog is the external collaborator that produces restaurant records.
// GetDetails returns (nil, nil) when the place does not exist, which callers
// must treat differently from an error.
type PlaceCatalog interface {
	Search(ctx context.Context, criteria *SearchCriteria) ([]RestaurantRecord, error)
	GetDetails(ctx context.Context, placeID, locale string) (*RestaurantRecord, error)
}
