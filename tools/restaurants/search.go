package restaurants

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	mcp "github.com/metoro-io/mcp-golang"

	"github.com/effective-security/dinefind/pkg/catalog"
	"github.com/effective-security/dinefind/pkg/llmutils"
	"github.com/effective-security/dinefind/pkg/metricskey"
	"github.com/effective-security/dinefind/pkg/recommend"
	"github.com/effective-security/dinefind/pkg/schema"
	"github.com/effective-security/dinefind/tools"
)

const SearchToolName = "search_restaurants"

const defaultRadiusMeters = 2000

// SearchRequest represents the search tool input.
type SearchRequest struct {
	Latitude     *float64 `json:"latitude,omitempty" jsonschema:"title=Latitude,description=Latitude of the search origin. Provide together with longitude; mutually exclusive with placeName."`
	Longitude    *float64 `json:"longitude,omitempty" jsonschema:"title=Longitude,description=Longitude of the search origin. Provide together with latitude; mutually exclusive with placeName."`
	PlaceName    string   `json:"placeName,omitempty" jsonschema:"title=Place Name,description=A named area to search in such as a city or district. Mutually exclusive with latitude/longitude."`
	CuisineTypes []string `json:"cuisineTypes,omitempty" jsonschema:"title=Cuisine Types,description=Preferred cuisines such as italian or sushi."`
	Keyword      string   `json:"keyword,omitempty" jsonschema:"title=Keyword,description=Free-text keyword to narrow the search."`
	Mood         string   `json:"mood" jsonschema:"title=Mood,description=The desired dining mood such as romantic or casual."`
	Event        string   `json:"event" jsonschema:"title=Event,description=The occasion such as dating or business."`
	Radius       float64  `json:"radius,omitempty" jsonschema:"title=Radius,description=Search radius in meters. Defaults to 2000."`
	PriceLevel   *int     `json:"priceLevel,omitempty" jsonschema:"title=Price Level,description=Target price level from 1 (inexpensive) to 4 (very expensive)."`
	Locale       string   `json:"locale,omitempty" jsonschema:"title=Locale,description=BCP-47 language tag for localized results."`
	MaxResults   int      `json:"maxResults,omitempty" jsonschema:"title=Max Results,description=Maximum number of recommendations to return. Defaults to 10."`
}

// SearchResponse is the ranked recommendation set for one search.
type SearchResponse struct {
	SearchCriteria  catalog.SearchCriteria     `json:"searchCriteria"`
	TotalFound      int                        `json:"totalFound"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// SearchTool finds restaurants through the place catalog and ranks them with
// the recommendation engine.
type SearchTool struct {
	catalog    catalog.PlaceCatalog
	engine     *recommend.Engine
	funcParams any
}

var (
	_ tools.Tool[SearchRequest, SearchResponse] = (*SearchTool)(nil)
	_ tools.MCPTool[SearchRequest]              = (*SearchTool)(nil)
)

func NewSearchTool(cat catalog.PlaceCatalog) (*SearchTool, error) {
	sc, err := schema.New(reflect.TypeOf(SearchRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &SearchTool{
		catalog:    cat,
		engine:     recommend.NewEngine(),
		funcParams: sc.Parameters,
	}, nil
}

func (t *SearchTool) Name() string {
	return SearchToolName
}

func (t *SearchTool) Description() string {
	return fmt.Sprintf("Searches for restaurants around a location and returns scored, explained recommendations. "+
		"Supported moods: %s. Supported events: %s.",
		strings.Join(recommend.MoodTokens(), ", "),
		strings.Join(recommend.EventTokens(), ", "))
}

func (t *SearchTool) Parameters() any {
	return t.funcParams
}

func (t *SearchTool) Run(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	criteria, err := req.criteria()
	if err != nil {
		return nil, err
	}

	records, err := t.catalog.Search(ctx, criteria)
	if err != nil {
		metricskey.StatsCatalogErrors.IncrCounter(1, SearchToolName)
		return nil, errors.WithMessage(err, "restaurant search failed")
	}

	ranked := t.engine.Rank(records, criteria)
	total := len(ranked)
	limit := req.MaxResults
	if limit <= 0 {
		limit = 10
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return &SearchResponse{
		SearchCriteria:  *criteria,
		TotalFound:      total,
		Recommendations: ranked,
	}, nil
}

func (t *SearchTool) Call(ctx context.Context, input string) (string, error) {
	started := time.Now()
	defer metricskey.PerfToolCall.MeasureSince(started, SearchToolName)

	req, err := unmarshalInput[SearchRequest](input)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, SearchToolName)
		return "", err
	}
	out, err := t.Run(ctx, req)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, SearchToolName)
		return "", err
	}
	metricskey.StatsToolCallsSucceeded.IncrCounter(1, SearchToolName)
	return llmutils.ToJSON(out), nil
}

func (t *SearchTool) RunMCP(ctx context.Context, req *SearchRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}

func (t *SearchTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(),
		func(ctx context.Context, req SearchRequest) (*mcp.ToolResponse, error) {
			return t.RunMCP(ctx, &req)
		})
}

// criteria validates the request and produces engine search criteria.
// Exactly one of the coordinate pair or placeName must be provided.
func (req *SearchRequest) criteria() (*catalog.SearchCriteria, error) {
	hasCoords := req.Latitude != nil && req.Longitude != nil
	hasName := strings.TrimSpace(req.PlaceName) != ""
	if hasCoords == hasName {
		return nil, errors.New("invalid request: provide either latitude/longitude or placeName")
	}
	if req.Mood == "" {
		return nil, errors.New("invalid request: mood is required")
	}
	if req.Event == "" {
		return nil, errors.New("invalid request: event is required")
	}
	if req.PriceLevel != nil && (*req.PriceLevel < 1 || *req.PriceLevel > 4) {
		return nil, errors.New("invalid request: priceLevel must be between 1 and 4")
	}

	radius := req.Radius
	if radius <= 0 {
		radius = defaultRadiusMeters
	}
	return &catalog.SearchCriteria{
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		PlaceName:    strings.TrimSpace(req.PlaceName),
		CuisineTypes: req.CuisineTypes,
		Keyword:      req.Keyword,
		Mood:         req.Mood,
		Event:        req.Event,
		Radius:       radius,
		PriceLevel:   req.PriceLevel,
		Locale:       req.Locale,
	}, nil
}
