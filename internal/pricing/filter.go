/**
 * @description
 * Filter resolution: turns free-text tokens from the UI controls into the set of
 * keys (place_id or terminal name) a view should include.
 *
 * @notes
 * - Tokens are literal, case-sensitive substrings joined with OR. They are never
 *   compiled as patterns or interpolated into SQL.
 * - An empty token list falls back to the call site's default token.
 */

package pricing

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jojuma-project/backend/internal/models"
)

// KeySet is the set of keys a filter resolved to.
type KeySet[K cmp.Ordered] map[K]struct{}

// NewKeySet builds a set from keys.
func NewKeySet[K cmp.Ordered](keys ...K) KeySet[K] {
	s := make(KeySet[K], len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s KeySet[K]) Has(k K) bool {
	_, ok := s[k]
	return ok
}

// Sorted returns the keys in ascending order.
func (s KeySet[K]) Sorted() []K {
	out := make([]K, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// TokenMatcher returns a predicate that is true when a value contains any token,
// or the default token when tokens is empty.
func TokenMatcher(tokens []string, defaultToken string) func(string) bool {
	if len(tokens) == 0 {
		return func(value string) bool {
			return strings.Contains(value, defaultToken)
		}
	}
	active := slices.Clone(tokens)
	return func(value string) bool {
		for _, token := range active {
			if strings.Contains(value, token) {
				return true
			}
		}
		return false
	}
}

// Resolve returns the keys of every row whose match field satisfies the token filter.
func Resolve[R any, K cmp.Ordered](rows []R, field func(R) string, key func(R) K, tokens []string, defaultToken string) KeySet[K] {
	matches := TokenMatcher(tokens, defaultToken)
	out := make(KeySet[K])
	for _, row := range rows {
		if matches(field(row)) {
			out[key(row)] = struct{}{}
		}
	}
	return out
}

// ResolveSites maps permit-id tokens to place_ids via the site table.
func ResolveSites(sites []models.SiteRow, tokens []string, defaultToken string) KeySet[int64] {
	return Resolve(sites,
		func(s models.SiteRow) string { return s.CreID },
		func(s models.SiteRow) int64 { return s.PlaceID },
		tokens, defaultToken)
}

// ResolveCity returns the place_ids of every site in exactly the given municipality.
func ResolveCity(sites []models.SiteRow, city string) KeySet[int64] {
	out := make(KeySet[int64])
	for _, s := range sites {
		if s.Municipio == city {
			out[s.PlaceID] = struct{}{}
		}
	}
	return out
}

// ResolveTerminals maps terminal-name tokens to terminal names present in costs.
func ResolveTerminals(costs []models.CostRow, tokens []string, defaultToken string) KeySet[string] {
	return Resolve(costs,
		func(c models.CostRow) string { return c.Terminal },
		func(c models.CostRow) string { return c.Terminal },
		tokens, defaultToken)
}
