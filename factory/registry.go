/*
Package factory provides the reporter registry.

PURPOSE:
  Maps reporter slugs to their entity adapters. The CLI and the HTTP API
  both resolve user-supplied reporter names through this one table, so
  adding an entity type means adding one registry entry, nothing else.

SLUGS:
  reward-groups, audience-groups, product-groups, location-groups,
  tiers, promotions, rewards

SEE ALSO:
  - generic/adapter.go: What a registry entry produces
  - groups/, tiers/, promotions/: The adapter definitions
*/
package factory

import (
	"fmt"
	"sort"

	"github.com/warp/loyalty-reporter/generic"
	"github.com/warp/loyalty-reporter/groups"
	"github.com/warp/loyalty-reporter/promotions"
	"github.com/warp/loyalty-reporter/tiers"
)

// builders defers adapter construction so the registry carries no
// package-level mutable adapter state.
var builders = map[string]func() generic.Adapter{
	"reward-groups":   groups.RewardGroups,
	"audience-groups": groups.AudienceGroups,
	"product-groups":  groups.ProductGroups,
	"location-groups": groups.LocationGroups,
	"tiers":           tiers.TierSets,
	"promotions":      promotions.Promotions,
	"rewards":         promotions.Rewards,
}

// Adapter resolves a reporter slug to its adapter.
func Adapter(slug string) (generic.Adapter, error) {
	builder, ok := builders[slug]
	if !ok {
		return generic.Adapter{}, fmt.Errorf("%w: %q", generic.ErrUnknownReporter, slug)
	}
	return builder(), nil
}

// Slugs lists every registered reporter slug, sorted.
func Slugs() []string {
	slugs := make([]string, 0, len(builders))
	for slug := range builders {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Adapters returns every registered adapter, ordered by slug.
func Adapters() []generic.Adapter {
	adapters := make([]generic.Adapter, 0, len(builders))
	for _, slug := range Slugs() {
		adapters = append(adapters, builders[slug]())
	}
	return adapters
}
