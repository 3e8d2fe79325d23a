// Package restaurants implements the restaurant discovery and reservation
// tools exposed to LLM agents: search, detail lookup, availability checks,
// reservations and booking instructions.
package restaurants

import (
	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"

	"github.com/effective-security/dinefind/pkg/llmutils"
	"github.com/effective-security/dinefind/tools"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/dinefind", "restaurants")

// NotFoundText is the literal surfaced for an unknown placeId, so callers
// can pattern-match on it.
const NotFoundText = "Restaurant not found"

// DetailsNotFoundText is the literal returned by the details tool for an
// unknown placeId.
const DetailsNotFoundText = "Restaurant not found or unable to retrieve details."

// ErrRestaurantNotFound marks an unknown placeId. Tool Call implementations
// convert it into the not-found literal instead of a protocol fault.
var ErrRestaurantNotFound = errors.New(NotFoundText)

// unmarshalInput parses LLM-authored tool input leniently, trimming chatter
// around the JSON payload.
func unmarshalInput[I any](input string) (*I, error) {
	var req I
	if err := ljson.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return nil, tools.ErrFailedUnmarshalInput
	}
	return &req, nil
}
