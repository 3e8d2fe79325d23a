package restaurants

import (
	"context"
	"reflect"
	"time"

	"github.com/cockroachdb/errors"
	mcp "github.com/metoro-io/mcp-golang"

	"github.com/effective-security/dinefind/pkg/booking"
	"github.com/effective-security/dinefind/pkg/catalog"
	"github.com/effective-security/dinefind/pkg/llmutils"
	"github.com/effective-security/dinefind/pkg/metricskey"
	"github.com/effective-security/dinefind/pkg/schema"
	"github.com/effective-security/dinefind/tools"
)

const AvailabilityToolName = "check_availability"

// AvailabilityRequest represents the availability tool input.
type AvailabilityRequest struct {
	PlaceID   string `json:"placeId" jsonschema:"title=Place ID,description=The placeId of the restaurant."`
	DateTime  string `json:"dateTime" jsonschema:"title=Date and Time,description=The requested slot in YYYY-MM-DDTHH:MM format."`
	PartySize int    `json:"partySize" jsonschema:"title=Party Size,description=Number of guests between 1 and 20."`
	Locale    string `json:"locale,omitempty" jsonschema:"title=Locale,description=BCP-47 language tag for localized results."`
}

// RestaurantRef identifies a restaurant in availability responses.
type RestaurantRef struct {
	Name    string `json:"name"`
	PlaceID string `json:"placeId"`
}

// AvailabilityResponse is the availability verdict for one request.
type AvailabilityResponse struct {
	Restaurant        RestaurantRef               `json:"restaurant"`
	RequestedDateTime string                      `json:"requestedDateTime"`
	PartySize         int                         `json:"partySize"`
	Availability      booking.AvailabilityVerdict `json:"availability"`
}

// AvailabilityTool checks whether a restaurant can seat a party at a
// requested time.
type AvailabilityTool struct {
	catalog    catalog.PlaceCatalog
	engine     *booking.Engine
	funcParams any
}

var (
	_ tools.Tool[AvailabilityRequest, AvailabilityResponse] = (*AvailabilityTool)(nil)
	_ tools.MCPTool[AvailabilityRequest]                    = (*AvailabilityTool)(nil)
)

func NewAvailabilityTool(cat catalog.PlaceCatalog, engine *booking.Engine) (*AvailabilityTool, error) {
	sc, err := schema.New(reflect.TypeOf(AvailabilityRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &AvailabilityTool{
		catalog:    cat,
		engine:     engine,
		funcParams: sc.Parameters,
	}, nil
}

func (t *AvailabilityTool) Name() string {
	return AvailabilityToolName
}

func (t *AvailabilityTool) Description() string {
	return "Checks whether a restaurant has a table for a party at the requested date and time."
}

func (t *AvailabilityTool) Parameters() any {
	return t.funcParams
}

func (t *AvailabilityTool) Run(ctx context.Context, req *AvailabilityRequest) (*AvailabilityResponse, error) {
	if req.PlaceID == "" {
		return nil, errors.New("invalid request: placeId is required")
	}
	rec, err := t.catalog.GetDetails(ctx, req.PlaceID, req.Locale)
	if err != nil {
		metricskey.StatsCatalogErrors.IncrCounter(1, AvailabilityToolName)
		return nil, errors.WithMessage(err, "restaurant details lookup failed")
	}
	if rec == nil {
		return nil, ErrRestaurantNotFound
	}

	verdict := t.engine.CheckAvailability(rec, req.DateTime, req.PartySize)
	return &AvailabilityResponse{
		Restaurant: RestaurantRef{
			Name:    rec.Name,
			PlaceID: rec.PlaceID,
		},
		RequestedDateTime: req.DateTime,
		PartySize:         req.PartySize,
		Availability:      verdict,
	}, nil
}

func (t *AvailabilityTool) Call(ctx context.Context, input string) (string, error) {
	started := time.Now()
	defer metricskey.PerfToolCall.MeasureSince(started, AvailabilityToolName)

	req, err := unmarshalInput[AvailabilityRequest](input)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, AvailabilityToolName)
		return "", err
	}
	out, err := t.Run(ctx, req)
	if errors.Is(err, ErrRestaurantNotFound) {
		metricskey.StatsToolCallsSucceeded.IncrCounter(1, AvailabilityToolName)
		return NotFoundText, nil
	}
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, AvailabilityToolName)
		return "", err
	}
	metricskey.StatsToolCallsSucceeded.IncrCounter(1, AvailabilityToolName)
	return llmutils.ToJSON(out), nil
}

func (t *AvailabilityTool) RunMCP(ctx context.Context, req *AvailabilityRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(ctx, req)
	if errors.Is(err, ErrRestaurantNotFound) {
		return mcp.NewToolResponse(mcp.NewTextContent(NotFoundText)), nil
	}
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}

func (t *AvailabilityTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(),
		func(ctx context.Context, req AvailabilityRequest) (*mcp.ToolResponse, error) {
			return t.RunMCP(ctx, &req)
		})
}
