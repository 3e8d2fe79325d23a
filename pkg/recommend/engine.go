// Package recommend ranks restaurant records against mood, event, price and
// location criteria, producing explained recommendations. The engine is a
// pure function of its inputs: identical inputs yield identical,
// identically-ordered output.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/effective-security/dinefind/pkg/catalog"
)

// Recommendation is one ranked restaurant with its composite score and the
// factors that drove it. Scores are in [0,10], rounded to one decimal place
// for display; ranking uses the unrounded value.
type Recommendation struct {
	Restaurant          *catalog.RestaurantRecord `json:"restaurant"`
	Score               float64                   `json:"score"`
	Reasoning           []string                  `json:"reasoning"`
	SuitabilityForEvent float64                   `json:"suitabilityForEvent"`
	MoodMatch           float64                   `json:"moodMatch"`
}

const (
	weightQuality   = 0.30
	weightPriceFit  = 0.15
	weightMood      = 0.175
	weightEvent     = 0.175
	weightProximity = 0.20

	neutralQuality   = 5.0
	neutralPriceFit  = 7.0
	neutralMoodEvent = 5.0
	neutralProximity = 10.0

	// reviewBonusFactor scales log(1+reviews) so that ~800 reviews earn the
	// full +1.0 confidence bonus.
	reviewBonusFactor = 0.15

	// deviation from neutral below which a sub-score is left out of the
	// reasoning, to keep explanations focused on what drove the ranking.
	reasonThreshold = 1.0
)

// Engine scores and orders restaurant records. It is stateless and safe for
// concurrent use.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

type scored struct {
	rec Recommendation
	raw float64
}

// Rank scores every restaurant against the criteria and returns them in
// descending score order. An empty input produces an empty result. The engine
// does not cap the result count; callers may truncate.
func (e *Engine) Rank(restaurants []catalog.RestaurantRecord, criteria *catalog.SearchCriteria) []Recommendation {
	ranked := make([]scored, 0, len(restaurants))
	for i := range restaurants {
		ranked = append(ranked, e.scoreOne(&restaurants[i], criteria))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		if a.raw != b.raw {
			return a.raw > b.raw
		}
		ar, br := ratingOrder(a.rec.Restaurant), ratingOrder(b.rec.Restaurant)
		if ar != br {
			return ar > br
		}
		if a.rec.Restaurant.UserRatingsTotal != b.rec.Restaurant.UserRatingsTotal {
			return a.rec.Restaurant.UserRatingsTotal > b.rec.Restaurant.UserRatingsTotal
		}
		return a.rec.Restaurant.Name < b.rec.Restaurant.Name
	})

	res := make([]Recommendation, 0, len(ranked))
	for i := range ranked {
		res = append(res, ranked[i].rec)
	}
	return res
}

func (e *Engine) scoreOne(r *catalog.RestaurantRecord, criteria *catalog.SearchCriteria) scored {
	quality := qualityScore(r)
	priceFit := priceFitScore(r, criteria)
	moodMatch, moodTraits, moodKnown := lexiconScore(moodLexicon, criteria.Mood, r)
	eventFit, eventTraits, eventKnown := lexiconScore(eventLexicon, criteria.Event, r)
	proximity := proximityScore(r.Distance, criteria.Radius)

	raw := weightQuality*quality +
		weightPriceFit*priceFit +
		weightMood*moodMatch +
		weightEvent*eventFit +
		weightProximity*proximity
	raw = clamp(raw)

	var reasons []string
	if quality > neutralQuality+reasonThreshold {
		reasons = append(reasons, fmt.Sprintf("Highly rated: %.1f stars across %d reviews",
			ratingOrder(r), r.UserRatingsTotal))
	} else if quality < neutralQuality-reasonThreshold {
		reasons = append(reasons, fmt.Sprintf("Below-average rating of %.1f stars", ratingOrder(r)))
	}
	if priceFit > neutralPriceFit+reasonThreshold {
		reasons = append(reasons, "Price level matches your budget")
	} else if priceFit < neutralPriceFit-reasonThreshold {
		reasons = append(reasons, "Price level differs from your budget")
	}
	if moodKnown {
		if moodMatch > neutralMoodEvent+reasonThreshold {
			reasons = append(reasons, fmt.Sprintf("Great fit for a %q mood: %s",
				criteria.Mood, strings.Join(moodTraits, ", ")))
		} else if moodMatch < neutralMoodEvent-reasonThreshold {
			reasons = append(reasons, fmt.Sprintf("Weak fit for a %q mood", criteria.Mood))
		}
	}
	if eventKnown {
		if eventFit > neutralMoodEvent+reasonThreshold {
			reasons = append(reasons, fmt.Sprintf("Well suited for %s: %s",
				criteria.Event, strings.Join(eventTraits, ", ")))
		} else if eventFit < neutralMoodEvent-reasonThreshold {
			reasons = append(reasons, fmt.Sprintf("Not ideal for %s", criteria.Event))
		}
	}
	if proximity < neutralProximity-reasonThreshold && r.Distance != nil {
		reasons = append(reasons, fmt.Sprintf("Relatively far from the search area (%.0f m)", *r.Distance))
	}

	return scored{
		raw: raw,
		rec: Recommendation{
			Restaurant:          r,
			Score:               roundScore(raw),
			Reasoning:           reasons,
			SuitabilityForEvent: roundScore(eventFit),
			MoodMatch:           roundScore(moodMatch),
		},
	}
}

// qualityScore rescales the star rating from [0,5] to [0,10] and adds a
// review-count confidence bonus capped at +1.0, preferring well-reviewed
// venues over sparsely-reviewed ones with the same raw rating.
func qualityScore(r *catalog.RestaurantRecord) float64 {
	base := neutralQuality
	if r.Rating != nil {
		base = *r.Rating * 2
	}
	bonus := math.Min(1.0, reviewBonusFactor*math.Log1p(float64(r.UserRatingsTotal)))
	return clamp(base + bonus)
}

// priceFitScore penalizes distance between the restaurant's price level and
// the requested one. Absence of either is neutral: no preference never
// penalizes a restaurant.
func priceFitScore(r *catalog.RestaurantRecord, criteria *catalog.SearchCriteria) float64 {
	if r.PriceLevel == nil || criteria.PriceLevel == nil {
		return neutralPriceFit
	}
	diff := math.Abs(float64(*r.PriceLevel - *criteria.PriceLevel))
	return clamp(10 - 2.5*diff)
}

// proximityScore is 10 within 20% of the radius, decays linearly to 0 at the
// radius edge, and is 0 beyond it. Records beyond the radius should already
// be excluded upstream; they still score without panicking.
func proximityScore(distance *float64, radius float64) float64 {
	if distance == nil || radius <= 0 {
		return neutralProximity
	}
	inner := 0.2 * radius
	d := *distance
	switch {
	case d <= inner:
		return 10
	case d >= radius:
		return 0
	default:
		return 10 * (radius - d) / (radius - inner)
	}
}

func ratingOrder(r *catalog.RestaurantRecord) float64 {
	if r.Rating == nil {
		return -1
	}
	return *r.Rating
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(10, v))
}

func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
