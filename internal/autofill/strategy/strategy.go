package strategy

import (
	"go.uber.org/zap"

	"github.com/fillscope/fillscope-cli/internal/autofill/fields"
	"github.com/fillscope/fillscope-cli/internal/autofill/scenario"
)

// Strategy classifies forms with an ordered rule table. The zero value
// is not usable; construct one with New.
//
// A Strategy holds no mutable state: concurrent Classify calls are
// fully independent.
type Strategy struct {
	rules  []*rule
	logger *zap.Logger
}

// New returns a Strategy backed by the default rule table.
func New(logger *zap.Logger) *Strategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Strategy{
		rules:  defaultRules,
		logger: logger.Named("Strategy"),
	}
}

// Classify runs the rule table over the request's fields and returns the
// first scenario that matches and survives the origin-consistency check.
// The boolean result is false when no rule matched; that is the normal
// "decline autofill" outcome, not an error.
//
// singleOrigin must be true for surfaces that cannot annotate per-field
// origins; manual must be true only when the user explicitly requested
// autofill.
func (s *Strategy) Classify(all []*fields.Field, singleOrigin, manual bool) (*scenario.Scenario, bool) {
	req := request{
		singleOrigin: singleOrigin,
		manual:       manual,
	}
	for _, f := range all {
		if f.PasswordCertainty.AtLeast(fields.Possible) {
			req.passwordCandidates = append(req.passwordCandidates, f)
		}
		if f.UsernameCertainty.AtLeast(fields.Possible) {
			req.usernameCandidates = append(req.usernameCandidates, f)
		}
	}
	if len(req.passwordCandidates) == 0 && len(req.usernameCandidates) == 0 {
		return nil, false
	}

	for _, r := range s.rules {
		if scn := r.apply(req, s.logger); scn != nil {
			s.logger.Debug("Classification complete",
				zap.String("rule", r.name),
				zap.Bool("single_origin", singleOrigin),
				zap.Bool("manual", manual),
			)
			return scn, true
		}
	}
	return nil, false
}
