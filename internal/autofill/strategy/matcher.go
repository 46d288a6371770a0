// Package strategy implements the rule-based classification engine. An
// ordered list of rules is tried against the candidate fields of a fill
// or save request; the first rule whose required matchers all succeed
// and whose result passes the origin-consistency check wins.
package strategy

import (
	"github.com/fillscope/fillscope-cli/internal/autofill/fields"
)

// predicate tests one candidate field. alreadyMatched holds every field
// claimed by earlier steps of the same rule, so predicates can express
// adjacency constraints against prior matches.
type predicate func(f *fields.Field, alreadyMatched []*fields.Field) bool

// pairPredicate tests one document-order-consecutive candidate pair.
type pairPredicate func(a, b *fields.Field, alreadyMatched []*fields.Field) bool

// matcher narrows a candidate pool down to exactly one match (a single
// field or an adjacent pair). A nil result means the requirement was not
// met; a matcher never returns a partial match.
type matcher interface {
	match(candidates, alreadyMatched []*fields.Field) []*fields.Field
}

// singleMatcher selects exactly one unclaimed field satisfying take.
// Tie-breakers are a priority list, not a scoring function: they run in
// declared order, each one narrowing the candidate set unless it would
// eliminate every candidate, in which case it is skipped. The match
// succeeds only if exactly one candidate survives.
type singleMatcher struct {
	take        predicate
	tieBreakers []predicate
}

func (m singleMatcher) match(candidates, alreadyMatched []*fields.Field) []*fields.Field {
	current := make([]*fields.Field, 0, len(candidates))
	for _, f := range candidates {
		if claimed(f, alreadyMatched) {
			continue
		}
		if m.take(f, alreadyMatched) {
			current = append(current, f)
		}
	}
	if len(current) == 0 {
		return nil
	}
	for _, tb := range m.tieBreakers {
		if len(current) == 1 {
			break
		}
		narrowed := current[:0:0]
		for _, f := range current {
			if tb(f, alreadyMatched) {
				narrowed = append(narrowed, f)
			}
		}
		if len(narrowed) == 0 {
			// A tie-breaker that eliminates everyone is skipped, not
			// applied.
			continue
		}
		current = narrowed
	}
	if len(current) != 1 {
		return nil
	}
	return current
}

// pairMatcher selects exactly one adjacent pair of unclaimed fields.
// Adjacency is strict: the two indexes must be consecutive, so any node
// between the fields (even an ignored one) breaks the pair.
type pairMatcher struct {
	take        pairPredicate
	tieBreakers []pairPredicate
}

type fieldPair struct {
	first, second *fields.Field
}

func (m pairMatcher) match(candidates, alreadyMatched []*fields.Field) []*fields.Field {
	var current []fieldPair
	for i := 0; i < len(candidates); i++ {
		for j := 0; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if b.Index != a.Index+1 {
				continue
			}
			if claimed(a, alreadyMatched) || claimed(b, alreadyMatched) {
				continue
			}
			if m.take(a, b, alreadyMatched) {
				current = append(current, fieldPair{a, b})
			}
		}
	}
	if len(current) == 0 {
		return nil
	}
	for _, tb := range m.tieBreakers {
		if len(current) == 1 {
			break
		}
		narrowed := current[:0:0]
		for _, p := range current {
			if tb(p.first, p.second, alreadyMatched) {
				narrowed = append(narrowed, p)
			}
		}
		if len(narrowed) == 0 {
			continue
		}
		current = narrowed
	}
	if len(current) != 1 {
		return nil
	}
	return []*fields.Field{current[0].first, current[0].second}
}

func claimed(f *fields.Field, matched []*fields.Field) bool {
	for _, m := range matched {
		if m == f {
			return true
		}
	}
	return false
}
