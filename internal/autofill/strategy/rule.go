package strategy

import (
	"go.uber.org/zap"

	"github.com/fillscope/fillscope-cli/internal/autofill/fields"
	"github.com/fillscope/fillscope-cli/internal/autofill/scenario"
)

// role is the scenario slot a step's match is recorded into.
type role int

const (
	roleUsername role = iota
	roleCurrentPassword
	roleNewPassword
	roleGenericPassword
)

func (r role) String() string {
	switch r {
	case roleUsername:
		return "username"
	case roleCurrentPassword:
		return "current_password"
	case roleNewPassword:
		return "new_password"
	case roleGenericPassword:
		return "generic_password"
	default:
		return "unknown"
	}
}

// step is one typed matcher slot of a rule. Username steps draw from the
// username candidate pool, all other roles from the password pool.
// Steps only consider visible fields unless matchHidden is set; the
// two-step login rules are the only users of matchHidden.
type step struct {
	role        role
	optional    bool
	matchHidden bool
	matcher     matcher
}

// rule is a fixed, ordered list of steps plus two gating flags. Rules
// are declarative records; applying one never mutates it.
type rule struct {
	name string
	// singleOriginOK lets the rule run for surfaces that cannot
	// annotate per-field origins. Rules without it are skipped outright
	// in single-origin mode; this is the central cross-origin gate.
	singleOriginOK bool
	// manualOnly restricts the rule to requests the user triggered
	// explicitly, keeping the broad catch-alls away from automatic
	// on-focus classification.
	manualOnly bool
	steps      []step
}

// request carries the per-invocation inputs a rule needs.
type request struct {
	usernameCandidates []*fields.Field
	passwordCandidates []*fields.Field
	singleOrigin       bool
	manual             bool
}

// apply evaluates the rule against the request. It returns nil when any
// required step fails, when the rule is gated off, or when the built
// scenario fails the origin-consistency check.
func (r *rule) apply(req request, logger *zap.Logger) *scenario.Scenario {
	if req.singleOrigin && !r.singleOriginOK {
		return nil
	}
	if r.manualOnly && !req.manual {
		return nil
	}

	var (
		builder scenario.Builder
		matched []*fields.Field
	)
	for _, st := range r.steps {
		pool := req.passwordCandidates
		if st.role == roleUsername {
			pool = req.usernameCandidates
		}
		if !st.matchHidden {
			pool = visibleOnly(pool)
		}
		res := st.matcher.match(pool, matched)
		if res == nil {
			if st.optional {
				continue
			}
			return nil
		}
		switch st.role {
		case roleUsername:
			builder.Username = res[0]
			// Hidden two-step carriers are save-only: they are never
			// auto-filled.
			builder.FillUsername = !st.matchHidden
		case roleCurrentPassword:
			builder.CurrentPassword = append(builder.CurrentPassword, res...)
		case roleNewPassword:
			builder.NewPassword = append(builder.NewPassword, res...)
		case roleGenericPassword:
			builder.Generic = append(builder.Generic, res...)
		}
		matched = append(matched, res...)
	}

	scn, err := builder.Build()
	if err != nil {
		// Only reachable through a malformed rule definition.
		logger.Error("Discarding invalid scenario", zap.String("rule", r.name), zap.Error(err))
		return nil
	}
	if !originsConsistent(scn, req.singleOrigin) {
		logger.Debug("Scenario rejected by origin check", zap.String("rule", r.name))
		return nil
	}
	logger.Debug("Rule matched", zap.String("rule", r.name), zap.Int("fields", len(matched)))
	return scn
}

func visibleOnly(pool []*fields.Field) []*fields.Field {
	out := make([]*fields.Field, 0, len(pool))
	for _, f := range pool {
		if f.Visible {
			out = append(out, f)
		}
	}
	return out
}

// originsConsistent is the last line of defense against cross-origin
// credential leakage and runs on every successful rule match without
// exception.
//
// In single-origin mode the surface cannot be trusted to label fields,
// so any per-field origin annotation at all betrays an embedded frame
// and rejects the scenario. In multi-origin mode every field of the
// scenario must carry the same non-empty origin; a scenario spanning a
// main page and an iframe is rejected no matter which rule matched.
func originsConsistent(s *scenario.Scenario, singleOrigin bool) bool {
	all := s.AllFields()
	if singleOrigin {
		for _, f := range all {
			if f.Origin != "" {
				return false
			}
		}
		return true
	}
	common := ""
	for _, f := range all {
		if f.Origin == "" {
			return false
		}
		if common == "" {
			common = f.Origin
		} else if f.Origin != common {
			return false
		}
	}
	return common != ""
}
