package restaurants_test

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/effective-security/dinefind/pkg/catalog"
)

// fakeCatalog is an in-memory PlaceCatalog for tool tests.
type fakeCatalog struct {
	records      map[string]*catalog.RestaurantRecord
	searchResult []catalog.RestaurantRecord
	searchErr    error
	detailsErr   error

	lastCriteria *catalog.SearchCriteria
}

var _ catalog.PlaceCatalog = (*fakeCatalog)(nil)

func (f *fakeCatalog) Search(_ context.Context, criteria *catalog.SearchCriteria) ([]catalog.RestaurantRecord, error) {
	f.lastCriteria = criteria
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResult, nil
}

func (f *fakeCatalog) GetDetails(_ context.Context, placeID, _ string) (*catalog.RestaurantRecord, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	return f.records[placeID], nil
}

var errCatalogDown = errors.New("catalog unavailable")

func boolPtr(v bool) *bool       { return &v }
func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

func testRecord(placeID, name string) *catalog.RestaurantRecord {
	return &catalog.RestaurantRecord{
		PlaceID:          placeID,
		Name:             name,
		Address:          "123 Main St, Springfield",
		Location:         catalog.GeoPoint{Latitude: 47.6062, Longitude: -122.3321},
		Rating:           floatPtr(4.6),
		UserRatingsTotal: 800,
		PriceLevel:       intPtr(3),
		CuisineTypes:     []string{"italian", "restaurant"},
		Reservable:       boolPtr(true),
		DineIn:           boolPtr(true),
		ServesDinner:     boolPtr(true),
		ServesWine:       boolPtr(true),
		OpeningHours:     []string{"Monday: 11:00 AM – 10:00 PM"},
		PhoneNumber:      "+1 555-0100",
		Website:          "https://example.com/bella",
		GoogleMapsURL:    "https://maps.google.com/?cid=1",
		Distance:         floatPtr(400),
	}
}
