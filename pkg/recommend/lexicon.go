package recommend

import (
	"sort"
	"strings"

	"github.com/effective-security/dinefind/pkg/catalog"
)

// attributePredicate is one restaurant trait implied by a mood or event
// token. Predicates are evaluated generically, so adding a token is a data
// change, not a new code path.
type attributePredicate struct {
	name string
	test func(*catalog.RestaurantRecord) bool
}

func flagSet(get func(*catalog.RestaurantRecord) *bool) func(*catalog.RestaurantRecord) bool {
	return func(r *catalog.RestaurantRecord) bool {
		v := get(r)
		return v != nil && *v
	}
}

func priceAtLeast(level int) attributePredicate {
	return attributePredicate{
		name: "an upscale price level",
		test: func(r *catalog.RestaurantRecord) bool {
			return r.PriceLevel != nil && *r.PriceLevel >= level
		},
	}
}

func priceAtMost(level int) attributePredicate {
	return attributePredicate{
		name: "an affordable price level",
		test: func(r *catalog.RestaurantRecord) bool {
			return r.PriceLevel != nil && *r.PriceLevel <= level
		},
	}
}

func anyOf(name string, preds ...attributePredicate) attributePredicate {
	return attributePredicate{
		name: name,
		test: func(r *catalog.RestaurantRecord) bool {
			for _, p := range preds {
				if p.test(r) {
					return true
				}
			}
			return false
		},
	}
}

var (
	servesAlcohol = anyOf("beer or wine service",
		attributePredicate{test: flagSet(func(r *catalog.RestaurantRecord) *bool { return r.ServesBeer })},
		attributePredicate{test: flagSet(func(r *catalog.RestaurantRecord) *bool { return r.ServesWine })},
	)
	dineIn       = attributePredicate{name: "dine-in seating", test: flagSet(func(r *catalog.RestaurantRecord) *bool { return r.DineIn })}
	reservable   = attributePredicate{name: "accepting reservations", test: flagSet(func(r *catalog.RestaurantRecord) *bool { return r.Reservable })}
	servesDinner = attributePredicate{name: "dinner service", test: flagSet(func(r *catalog.RestaurantRecord) *bool { return r.ServesDinner })}
	servesBrunch = attributePredicate{name: "brunch service", test: flagSet(func(r *catalog.RestaurantRecord) *bool { return r.ServesBrunch })}
	vegetarian   = attributePredicate{name: "vegetarian options", test: flagSet(func(r *catalog.RestaurantRecord) *bool { return r.ServesVegetarianFood })}
	quickService = anyOf("takeout or delivery",
		attributePredicate{test: flagSet(func(r *catalog.RestaurantRecord) *bool { return r.Takeout })},
		attributePredicate{test: flagSet(func(r *catalog.RestaurantRecord) *bool { return r.Delivery })},
	)
	groupFriendly = anyOf("delivery or dine-in",
		attributePredicate{test: flagSet(func(r *catalog.RestaurantRecord) *bool { return r.Delivery })},
		attributePredicate{test: flagSet(func(r *catalog.RestaurantRecord) *bool { return r.DineIn })},
	)
)

// moodLexicon maps a lowercase mood token to the restaurant traits it
// implies. Unknown tokens score neutral rather than failing the request.
var moodLexicon = map[string][]attributePredicate{
	"romantic": {priceAtLeast(3), servesAlcohol, dineIn},
	"casual":   {priceAtMost(2), quickService},
	"cozy":     {priceAtMost(3), dineIn},
	"lively":   {servesAlcohol, dineIn},
	"quiet":    {priceAtLeast(2), dineIn, reservable},
	"upscale":  {priceAtLeast(3), reservable, dineIn},
}

// eventLexicon maps a lowercase event token to the traits it implies.
var eventLexicon = map[string][]attributePredicate{
	"dating":      {servesDinner, reservable},
	"date":        {servesDinner, reservable},
	"business":    {reservable, dineIn, priceAtLeast(2)},
	"gathering":   {groupFriendly, priceAtMost(3)},
	"celebration": {servesAlcohol, priceAtLeast(3)},
	"family":      {dineIn, vegetarian, priceAtMost(3)},
	"brunch":      {servesBrunch, dineIn},
}

// MoodTokens returns the supported mood tokens in sorted order, for use in
// tool descriptions.
func MoodTokens() []string {
	return sortedKeys(moodLexicon)
}

// EventTokens returns the supported event tokens in sorted order.
func EventTokens() []string {
	return sortedKeys(eventLexicon)
}

func sortedKeys(m map[string][]attributePredicate) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// lexiconScore returns 10 * satisfied/implied for a known token along with
// the names of the satisfied traits, or the neutral score and false for an
// unknown one.
func lexiconScore(lexicon map[string][]attributePredicate, token string, r *catalog.RestaurantRecord) (float64, []string, bool) {
	preds, ok := lexicon[strings.ToLower(strings.TrimSpace(token))]
	if !ok || len(preds) == 0 {
		return neutralMoodEvent, nil, false
	}
	var satisfied []string
	for _, p := range preds {
		if p.test(r) {
			satisfied = append(satisfied, p.name)
		}
	}
	return 10 * float64(len(satisfied)) / float64(len(preds)), satisfied, true
}
