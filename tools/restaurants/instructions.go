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
	"github.com/effective-security/dinefind/pkg/metricskey"
	"github.com/effective-security/dinefind/pkg/schema"
	"github.com/effective-security/dinefind/tools"
)

const InstructionsToolName = "get_booking_instructions"

// InstructionsRequest represents the booking-instructions tool input.
type InstructionsRequest struct {
	PlaceID string `json:"placeId" jsonschema:"title=Place ID,description=The placeId of the restaurant."`
	Locale  string `json:"locale,omitempty" jsonschema:"title=Locale,description=BCP-47 language tag for localized results."`
}

// InstructionsResult carries the free-text booking instructions.
type InstructionsResult struct {
	Instructions string `json:"instructions"`
}

func (r *InstructionsResult) String() string {
	return r.Instructions
}

// InstructionsTool derives human-readable booking instructions from the
// restaurant record fields.
type InstructionsTool struct {
	catalog    catalog.PlaceCatalog
	funcParams any
}

var (
	_ tools.Tool[InstructionsRequest, InstructionsResult] = (*InstructionsTool)(nil)
	_ tools.MCPTool[InstructionsRequest]                  = (*InstructionsTool)(nil)
)

func NewInstructionsTool(cat catalog.PlaceCatalog) (*InstructionsTool, error) {
	sc, err := schema.New(reflect.TypeOf(InstructionsRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &InstructionsTool{
		catalog:    cat,
		funcParams: sc.Parameters,
	}, nil
}

func (t *InstructionsTool) Name() string {
	return InstructionsToolName
}

func (t *InstructionsTool) Description() string {
	return "Explains how to book a table at a restaurant: phone, website, hours and whether it takes reservations."
}

func (t *InstructionsTool) Parameters() any {
	return t.funcParams
}

func (t *InstructionsTool) Run(ctx context.Context, req *InstructionsRequest) (*InstructionsResult, error) {
	if req.PlaceID == "" {
		return nil, errors.New("invalid request: placeId is required")
	}
	rec, err := t.catalog.GetDetails(ctx, req.PlaceID, req.Locale)
	if err != nil {
		metricskey.StatsCatalogErrors.IncrCounter(1, InstructionsToolName)
		return nil, errors.WithMessage(err, "restaurant details lookup failed")
	}
	if rec == nil {
		return nil, ErrRestaurantNotFound
	}
	return &InstructionsResult{Instructions: buildInstructions(rec)}, nil
}

func (t *InstructionsTool) Call(ctx context.Context, input string) (string, error) {
	started := time.Now()
	defer metricskey.PerfToolCall.MeasureSince(started, InstructionsToolName)

	req, err := unmarshalInput[InstructionsRequest](input)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, InstructionsToolName)
		return "", err
	}
	out, err := t.Run(ctx, req)
	if errors.Is(err, ErrRestaurantNotFound) {
		metricskey.StatsToolCallsSucceeded.IncrCounter(1, InstructionsToolName)
		return NotFoundText, nil
	}
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, InstructionsToolName)
		return "", err
	}
	metricskey.StatsToolCallsSucceeded.IncrCounter(1, InstructionsToolName)
	return out.String(), nil
}

func (t *InstructionsTool) RunMCP(ctx context.Context, req *InstructionsRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(ctx, req)
	if errors.Is(err, ErrRestaurantNotFound) {
		return mcp.NewToolResponse(mcp.NewTextContent(NotFoundText)), nil
	}
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(out.String())), nil
}

func (t *InstructionsTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(),
		func(ctx context.Context, req InstructionsRequest) (*mcp.ToolResponse, error) {
			return t.RunMCP(ctx, &req)
		})
}

func buildInstructions(rec *catalog.RestaurantRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Booking instructions for %s:\n", rec.Name)

	switch {
	case rec.Reservable != nil && *rec.Reservable:
		b.WriteString("- This restaurant accepts reservations. Use the make_reservation tool, or contact the restaurant directly.\n")
	case rec.Reservable != nil && !*rec.Reservable:
		b.WriteString("- This restaurant does not take reservations; seating is walk-in only.\n")
	default:
		b.WriteString("- Reservation policy is not listed; call ahead to confirm.\n")
	}

	if rec.PhoneNumber != "" {
		fmt.Fprintf(&b, "- Call %s to book by phone.\n", rec.PhoneNumber)
	}
	if rec.Website != "" {
		fmt.Fprintf(&b, "- Book online or check the menu at %s\n", rec.Website)
	}
	if rec.Address != "" {
		fmt.Fprintf(&b, "- Address: %s\n", rec.Address)
	}
	if len(rec.OpeningHours) > 0 {
		b.WriteString("- Opening hours:\n")
		for _, line := range rec.OpeningHours {
			fmt.Fprintf(&b, "    %s\n", line)
		}
	}
	if rec.GoogleMapsURL != "" {
		fmt.Fprintf(&b, "- Map: %s\n", rec.GoogleMapsURL)
	}
	return b.String()
}
