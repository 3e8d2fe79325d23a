package catalog

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// detail fields requested from the Places API; the ranking engine depends on
// the price/serves/reservable set, so they must not be dropped here.
const detailFields = "place_id,name,formatted_address,geometry,rating,user_ratings_total,price_level,types," +
	"reservable,delivery,dine_in,takeout,serves_breakfast,serves_lunch,serves_dinner,serves_brunch," +
	"serves_beer,serves_wine,serves_vegetarian_food,opening_hours,formatted_phone_number,website,url"

// GooglePlaces implements PlaceCatalog on top of the Google Places Web
// Service API.
type GooglePlaces struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ PlaceCatalog = (*GooglePlaces)(nil)

func NewGooglePlaces(apiKey string) (*GooglePlaces, error) {
	if apiKey == "" {
		return nil, errors.New("google places API key is not set")
	}
	return &GooglePlaces{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}, nil
}

func (g *GooglePlaces) WithBaseURL(baseURL string) *GooglePlaces {
	g.baseURL = strings.TrimSuffix(baseURL, "/")
	return g
}

func (g *GooglePlaces) WithHTTPClient(client *http.Client) *GooglePlaces {
	g.httpClient = client
	return g
}

type placesResponse struct {
	Results      []placeResult `json:"results"`
	Result       *placeResult  `json:"result"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
}

type placeResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Vicinity         string   `json:"vicinity"`
	Geometry         geometry `json:"geometry"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	PriceLevel       *int     `json:"price_level"`
	Types            []string `json:"types"`

	Reservable           *bool `json:"reservable"`
	Delivery             *bool `json:"delivery"`
	DineIn               *bool `json:"dine_in"`
	Takeout              *bool `json:"takeout"`
	ServesBreakfast      *bool `json:"serves_breakfast"`
	ServesLunch          *bool `json:"serves_lunch"`
	ServesDinner         *bool `json:"serves_dinner"`
	ServesBrunch         *bool `json:"serves_brunch"`
	ServesBeer           *bool `json:"serves_beer"`
	ServesWine           *bool `json:"serves_wine"`
	ServesVegetarianFood *bool `json:"serves_vegetarian_food"`

	OpeningHours *struct {
		WeekdayText []string `json:"weekday_text"`
	} `json:"opening_hours"`
	FormattedPhoneNumber string `json:"formatted_phone_number"`
	Website              string `json:"website"`
	URL                  string `json:"url"`
}

type geometry struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

// Search finds restaurants either around a coordinate pair (nearby search)
// or by free-text place name (text search).
func (g *GooglePlaces) Search(ctx context.Context, criteria *SearchCriteria) ([]RestaurantRecord, error) {
	q := url.Values{}
	q.Set("key", g.apiKey)
	q.Set("type", "restaurant")
	if criteria.Locale != "" {
		q.Set("language", criteria.Locale)
	}

	var endpoint string
	switch {
	case criteria.HasCoordinates():
		endpoint = "/nearbysearch/json"
		q.Set("location", formatLatLng(*criteria.Latitude, *criteria.Longitude))
		q.Set("radius", strconv.FormatFloat(criteria.Radius, 'f', 0, 64))
		if kw := searchKeyword(criteria); kw != "" {
			q.Set("keyword", kw)
		}
	case criteria.PlaceName != "":
		endpoint = "/textsearch/json"
		query := criteria.PlaceName
		if kw := searchKeyword(criteria); kw != "" {
			query += " " + kw
		}
		q.Set("query", query+" restaurant")
	default:
		return nil, errors.New("search criteria must provide coordinates or a place name")
	}

	var resp placesResponse
	if err := g.get(ctx, endpoint, q, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nil, errors.Newf("places search failed: %s: %s", resp.Status, resp.ErrorMessage)
	}

	records := make([]RestaurantRecord, 0, len(resp.Results))
	for i := range resp.Results {
		rec := toRecord(&resp.Results[i])
		if criteria.HasCoordinates() {
			d := haversineMeters(*criteria.Latitude, *criteria.Longitude,
				rec.Location.Latitude, rec.Location.Longitude)
			rec.Distance = &d
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetDetails returns the full record for a place, or (nil, nil) when the
// place does not exist.
func (g *GooglePlaces) GetDetails(ctx context.Context, placeID, locale string) (*RestaurantRecord, error) {
	if placeID == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("key", g.apiKey)
	q.Set("place_id", placeID)
	q.Set("fields", detailFields)
	if locale != "" {
		q.Set("language", locale)
	}

	var resp placesResponse
	if err := g.get(ctx, "/details/json", q, &resp); err != nil {
		return nil, err
	}
	switch resp.Status {
	case "OK":
	case "NOT_FOUND", "ZERO_RESULTS", "INVALID_REQUEST":
		return nil, nil
	default:
		return nil, errors.Newf("place details failed: %s: %s", resp.Status, resp.ErrorMessage)
	}
	if resp.Result == nil {
		return nil, nil
	}
	rec := toRecord(resp.Result)
	return &rec, nil
}

func (g *GooglePlaces) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	res, err := g.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "places request failed")
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return errors.Newf("places request failed: status %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode places response")
	}
	return nil
}

func toRecord(p *placeResult) RestaurantRecord {
	rec := RestaurantRecord{
		PlaceID:          p.PlaceID,
		Name:             p.Name,
		Address:          values.StringsCoalesce(p.FormattedAddress, p.Vicinity),
		Rating:           p.Rating,
		UserRatingsTotal: p.UserRatingsTotal,
		PriceLevel:       p.PriceLevel,
		CuisineTypes:     cuisineTypes(p.Types),

		Reservable:           p.Reservable,
		Delivery:             p.Delivery,
		DineIn:               p.DineIn,
		Takeout:              p.Takeout,
		ServesBreakfast:      p.ServesBreakfast,
		ServesLunch:          p.ServesLunch,
		ServesDinner:         p.ServesDinner,
		ServesBrunch:         p.ServesBrunch,
		ServesBeer:           p.ServesBeer,
		ServesWine:           p.ServesWine,
		ServesVegetarianFood: p.ServesVegetarianFood,

		PhoneNumber:   p.FormattedPhoneNumber,
		Website:       p.Website,
		GoogleMapsURL: p.URL,
	}
	rec.Location.Latitude = p.Geometry.Location.Lat
	rec.Location.Longitude = p.Geometry.Location.Lng
	if p.OpeningHours != nil {
		rec.OpeningHours = p.OpeningHours.WeekdayText
	}
	return rec
}

// cuisineTypes keeps the place types that describe what the venue serves,
// dropping generic tags like "establishment" or "point_of_interest".
func cuisineTypes(types []string) []string {
	var res []string
	for _, t := range types {
		switch t {
		case "establishment", "point_of_interest", "food", "store":
			continue
		}
		res = append(res, t)
	}
	return res
}

func searchKeyword(criteria *SearchCriteria) string {
	parts := append([]string{}, criteria.CuisineTypes...)
	if criteria.Keyword != "" {
		parts = append(parts, criteria.Keyword)
	}
	return strings.Join(parts, " ")
}

func formatLatLng(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

const earthRadiusMeters = 6371000

func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
