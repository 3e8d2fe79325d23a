// Package metricskey describes the metrics published by the tool server.
package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsCatalogErrors = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_catalog_errors",
		Help:         "stats_catalog_errors provides total place catalog failures",
		RequiredTags: []string{"tool"},
	}

	StatsReservationsConfirmed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_reservations_confirmed",
		Help:         "stats_reservations_confirmed provides total reservations confirmed",
		RequiredTags: []string{"tool"},
	}

	StatsReservationsDeclined = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_reservations_declined",
		Help:         "stats_reservations_declined provides total reservations declined or rejected",
		RequiredTags: []string{"tool"},
	}
)

// Perf
var (
	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfToolCall,
	&StatsCatalogErrors,
	&StatsReservationsConfirmed,
	&StatsReservationsDeclined,
	&StatsToolCallsFailed,
	&StatsToolCallsSucceeded,
}
