package restaurants

import (
	"context"
	"reflect"
	"time"

	"github.com/cockroachdb/errors"
	mcp "github.com/metoro-io/mcp-golang"

	"github.com/effective-security/dinefind/pkg/catalog"
	"github.com/effective-security/dinefind/pkg/llmutils"
	"github.com/effective-security/dinefind/pkg/metricskey"
	"github.com/effective-security/dinefind/pkg/schema"
	"github.com/effective-security/dinefind/tools"
)

const DetailsToolName = "get_restaurant_details"

// DetailsRequest represents the details tool input.
type DetailsRequest struct {
	PlaceID string `json:"placeId" jsonschema:"title=Place ID,description=The placeId of the restaurant returned by search_restaurants."`
	Locale  string `json:"locale,omitempty" jsonschema:"title=Locale,description=BCP-47 language tag for localized results."`
}

// DetailsTool looks up the full record for one restaurant.
type DetailsTool struct {
	catalog    catalog.PlaceCatalog
	funcParams any
}

var (
	_ tools.Tool[DetailsRequest, catalog.RestaurantRecord] = (*DetailsTool)(nil)
	_ tools.MCPTool[DetailsRequest]                        = (*DetailsTool)(nil)
)

func NewDetailsTool(cat catalog.PlaceCatalog) (*DetailsTool, error) {
	sc, err := schema.New(reflect.TypeOf(DetailsRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &DetailsTool{
		catalog:    cat,
		funcParams: sc.Parameters,
	}, nil
}

func (t *DetailsTool) Name() string {
	return DetailsToolName
}

func (t *DetailsTool) Description() string {
	return "Returns full details for one restaurant: address, contact, opening hours, price level and service options."
}

func (t *DetailsTool) Parameters() any {
	return t.funcParams
}

// Run returns the restaurant record, or ErrRestaurantNotFound when the
// placeId does not resolve.
func (t *DetailsTool) Run(ctx context.Context, req *DetailsRequest) (*catalog.RestaurantRecord, error) {
	if req.PlaceID == "" {
		return nil, errors.New("invalid request: placeId is required")
	}
	rec, err := t.catalog.GetDetails(ctx, req.PlaceID, req.Locale)
	if err != nil {
		metricskey.StatsCatalogErrors.IncrCounter(1, DetailsToolName)
		return nil, errors.WithMessage(err, "restaurant details lookup failed")
	}
	if rec == nil {
		return nil, ErrRestaurantNotFound
	}
	return rec, nil
}

func (t *DetailsTool) Call(ctx context.Context, input string) (string, error) {
	started := time.Now()
	defer metricskey.PerfToolCall.MeasureSince(started, DetailsToolName)

	req, err := unmarshalInput[DetailsRequest](input)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, DetailsToolName)
		return "", err
	}
	out, err := t.Run(ctx, req)
	if errors.Is(err, ErrRestaurantNotFound) {
		metricskey.StatsToolCallsSucceeded.IncrCounter(1, DetailsToolName)
		return DetailsNotFoundText, nil
	}
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, DetailsToolName)
		return "", err
	}
	metricskey.StatsToolCallsSucceeded.IncrCounter(1, DetailsToolName)
	return llmutils.ToJSON(out), nil
}

func (t *DetailsTool) RunMCP(ctx context.Context, req *DetailsRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(ctx, req)
	if errors.Is(err, ErrRestaurantNotFound) {
		return mcp.NewToolResponse(mcp.NewTextContent(DetailsNotFoundText)), nil
	}
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}

func (t *DetailsTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(),
		func(ctx context.Context, req DetailsRequest) (*mcp.ToolResponse, error) {
			return t.RunMCP(ctx, &req)
		})
}
