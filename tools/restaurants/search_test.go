package restaurants_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/effective-security/dinefind/pkg/catalog"
	"github.com/effective-security/dinefind/pkg/llmutils"
	"github.com/effective-security/dinefind/tools"
	"github.com/effective-security/dinefind/tools/restaurants"
)

func Test_SearchTool(t *testing.T) {
	ctx := context.Background()

	cat := &fakeCatalog{
		searchResult: []catalog.RestaurantRecord{
			*testRecord("place_001", "Bella Vista"),
			*testRecord("place_002", "The Oak Room"),
		},
	}

	tool, err := restaurants.NewSearchTool(cat)
	require.NoError(t, err)

	assert.Equal(t, restaurants.SearchToolName, tool.Name())
	assert.Contains(t, tool.Description(), "romantic")
	assert.Contains(t, tool.Description(), "business")
	assert.NotNil(t, tool.Parameters())

	_, err = tool.Call(ctx, "plain string")
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))
	assert.EqualError(t, err, "failed to unmarshal input: check the schema and try again")

	input := &restaurants.SearchRequest{
		Latitude:     floatPtr(47.6062),
		Longitude:    floatPtr(-122.3321),
		CuisineTypes: []string{"italian"},
		Mood:         "romantic",
		Event:        "dating",
	}

	resp, err := tool.Run(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalFound)
	require.Equal(t, 2, len(resp.Recommendations))
	for _, rec := range resp.Recommendations {
		assert.GreaterOrEqual(t, rec.Score, 0.0)
		assert.LessOrEqual(t, rec.Score, 10.0)
		assert.NotEmpty(t, rec.Reasoning)
	}

	// criteria passed through with the default radius
	require.NotNil(t, cat.lastCriteria)
	assert.Equal(t, "romantic", cat.lastCriteria.Mood)
	assert.Equal(t, "dating", cat.lastCriteria.Event)
	assert.Equal(t, float64(2000), cat.lastCriteria.Radius)
	assert.Equal(t, []string{"italian"}, cat.lastCriteria.CuisineTypes)

	out, err := tool.Call(ctx, llmutils.ToJSON(input))
	require.NoError(t, err)
	assert.Contains(t, out, `"totalFound":2`)
	assert.Contains(t, out, `"placeId":"place_001"`)
}

func Test_SearchTool_MaxResults(t *testing.T) {
	ctx := context.Background()

	var records []catalog.RestaurantRecord
	for i := 0; i < 15; i++ {
		records = append(records, *testRecord(
			"place_"+string(rune('a'+i)), "Restaurant "+string(rune('A'+i))))
	}
	cat := &fakeCatalog{searchResult: records}

	tool, err := restaurants.NewSearchTool(cat)
	require.NoError(t, err)

	// default limit of 10
	resp, err := tool.Run(ctx, &restaurants.SearchRequest{
		PlaceName: "Seattle",
		Mood:      "casual",
		Event:     "gathering",
	})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.TotalFound)
	assert.Equal(t, 10, len(resp.Recommendations))

	resp, err = tool.Run(ctx, &restaurants.SearchRequest{
		PlaceName:  "Seattle",
		Mood:       "casual",
		Event:      "gathering",
		MaxResults: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.TotalFound)
	assert.Equal(t, 3, len(resp.Recommendations))
}

func Test_SearchTool_Validation(t *testing.T) {
	ctx := context.Background()
	tool, err := restaurants.NewSearchTool(&fakeCatalog{})
	require.NoError(t, err)

	tcases := []struct {
		name string
		req  *restaurants.SearchRequest
		exp  string
	}{
		{
			name: "no location",
			req:  &restaurants.SearchRequest{Mood: "casual", Event: "gathering"},
			exp:  "invalid request: provide either latitude/longitude or placeName",
		},
		{
			name: "both locations",
			req: &restaurants.SearchRequest{
				Latitude:  floatPtr(47.6),
				Longitude: floatPtr(-122.3),
				PlaceName: "Seattle",
				Mood:      "casual",
				Event:     "gathering",
			},
			exp: "invalid request: provide either latitude/longitude or placeName",
		},
		{
			name: "missing mood",
			req:  &restaurants.SearchRequest{PlaceName: "Seattle", Event: "gathering"},
			exp:  "invalid request: mood is required",
		},
		{
			name: "missing event",
			req:  &restaurants.SearchRequest{PlaceName: "Seattle", Mood: "casual"},
			exp:  "invalid request: event is required",
		},
		{
			name: "price level too high",
			req: &restaurants.SearchRequest{
				PlaceName:  "Seattle",
				Mood:       "casual",
				Event:      "gathering",
				PriceLevel: intPtr(5),
			},
			exp: "invalid request: priceLevel must be between 1 and 4",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tool.Run(ctx, tc.req)
			assert.EqualError(t, err, tc.exp)
		})
	}
}

func Test_SearchTool_CatalogError(t *testing.T) {
	ctx := context.Background()
	tool, err := restaurants.NewSearchTool(&fakeCatalog{searchErr: errCatalogDown})
	require.NoError(t, err)

	_, err = tool.Run(ctx, &restaurants.SearchRequest{
		PlaceName: "Seattle",
		Mood:      "casual",
		Event:     "gathering",
	})
	require.Error(t, err)
	assert.EqualError(t, err, "restaurant search failed: catalog unavailable")
}
