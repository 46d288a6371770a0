// Package scenario holds the immutable result of form classification:
// which fields play which role, and the role-specific fill and save
// policies derived from that assignment.
package scenario

import (
	"errors"

	"github.com/fillscope/fillscope-cli/internal/autofill/fields"
)

// Action is the reason fields are being filled. The set of fields to
// fill depends on it: matching a saved credential targets current
// passwords, generating a fresh one targets new passwords, and an
// SMS-sourced OTP must never be accompanied by anything else.
type Action int

const (
	// Match fills from a previously saved credential.
	Match Action = iota
	// Search fills from a credential the user picked out of a list.
	Search
	// Generate offers a freshly generated password.
	Generate
	// FillOtpFromSms fills a one-time password received over SMS.
	FillOtpFromSms
)

func (a Action) String() string {
	switch a {
	case Match:
		return "match"
	case Search:
		return "search"
	case Generate:
		return "generate"
	case FillOtpFromSms:
		return "fill_otp_from_sms"
	default:
		return "unknown"
	}
}

// Scenario is the classified shape of one form. It comes in two
// variants: a classified scenario distinguishes current-password fields
// from new-password fields (change-password forms), a generic scenario
// has a single undifferentiated password group (plain login or signup
// forms). Exactly one variant is ever populated.
//
// A Scenario references fields by identity and is immutable once built.
type Scenario struct {
	// Username is the matched username field, nil when none matched.
	Username *fields.Field
	// FillUsername is false for username fields that may be saved but
	// must never be filled, such as hidden two-step-login carriers.
	FillUsername bool
	// Otp is the matched one-time-password field, if any.
	Otp *fields.Field

	// Generic is populated for the generic variant only.
	Generic []*fields.Field
	// CurrentPassword and NewPassword are populated for the classified
	// variant only.
	CurrentPassword []*fields.Field
	NewPassword     []*fields.Field
}

// IsGeneric reports which variant this scenario is.
func (s *Scenario) IsGeneric() bool { return len(s.Generic) > 0 }

// passwordCount is the total number of password-role fields across
// whichever variant is populated.
func (s *Scenario) passwordCount() int {
	return len(s.Generic) + len(s.CurrentPassword) + len(s.NewPassword)
}

// AllFields returns every field the scenario references, in role order:
// username, passwords, OTP. This is the set the origin-consistency check
// runs over.
func (s *Scenario) AllFields() []*fields.Field {
	all := make([]*fields.Field, 0, s.passwordCount()+2)
	if s.Username != nil {
		all = append(all, s.Username)
	}
	all = append(all, s.CurrentPassword...)
	all = append(all, s.NewPassword...)
	all = append(all, s.Generic...)
	if s.Otp != nil {
		all = append(all, s.Otp)
	}
	return all
}

// FieldsToFill returns the fields to fill for the given action, username
// first when it participates. An empty result means the action has
// nothing to offer on this scenario.
func (s *Scenario) FieldsToFill(action Action) []*fields.Field {
	// An SMS-sourced OTP is filled strictly alone. Filling credentials
	// alongside it would let an unsolicited SMS trigger a credential
	// fill.
	if action == FillOtpFromSms {
		if s.Otp == nil {
			return nil
		}
		return []*fields.Field{s.Otp}
	}

	var base []*fields.Field
	switch action {
	case Match, Search:
		if s.IsGeneric() {
			if len(s.Generic) == 1 {
				base = append(base, s.Generic...)
			}
		} else {
			base = append(base, s.CurrentPassword...)
		}
		if s.Otp != nil {
			base = append(base, s.Otp)
		}
	case Generate:
		if s.IsGeneric() {
			if len(s.Generic) == 1 {
				base = append(base, s.Generic...)
			}
		} else {
			base = append(base, s.NewPassword...)
		}
	}

	// A generated password fills password fields only; the username is
	// never touched.
	if action == Generate {
		return base
	}
	if s.Username == nil || !s.FillUsername {
		return base
	}
	if len(base) > 0 {
		return append([]*fields.Field{s.Username}, base...)
	}
	// Two-step flows: with no password fields at all the username alone
	// is still worth offering, except when generating a password.
	if s.passwordCount() == 0 && action != Generate {
		return []*fields.Field{s.Username}
	}
	return base
}

// FieldsToSave returns the fields whose content should be captured when
// offering to save a credential. New-password fields win over current
// ones, and the username is always save-eligible, even when it is not
// fill-eligible.
func (s *Scenario) FieldsToSave() []*fields.Field {
	var save []*fields.Field
	if s.Username != nil {
		save = append(save, s.Username)
	}
	switch {
	case len(s.NewPassword) > 0:
		save = append(save, s.NewPassword...)
	case len(s.CurrentPassword) > 0:
		save = append(save, s.CurrentPassword...)
	default:
		save = append(save, s.Generic...)
	}
	return save
}

// ErrMixedVariants is returned by Builder.Build when both the generic
// password group and a classified group were populated. Rules are typed
// so this cannot happen during normal classification; hitting it means a
// rule definition is broken.
var ErrMixedVariants = errors.New("scenario: generic and classified password groups are mutually exclusive")

// Builder accumulates per-role matches while a rule executes and
// finalizes them into a validated Scenario.
type Builder struct {
	Username     *fields.Field
	FillUsername bool
	Otp          *fields.Field

	Generic         []*fields.Field
	CurrentPassword []*fields.Field
	NewPassword     []*fields.Field
}

// Build validates the accumulated roles and produces the Scenario.
func (b *Builder) Build() (*Scenario, error) {
	if len(b.Generic) > 0 && (len(b.CurrentPassword) > 0 || len(b.NewPassword) > 0) {
		return nil, ErrMixedVariants
	}
	return &Scenario{
		Username:        b.Username,
		FillUsername:    b.FillUsername,
		Otp:             b.Otp,
		Generic:         b.Generic,
		CurrentPassword: b.CurrentPassword,
		NewPassword:     b.NewPassword,
	}, nil
}
