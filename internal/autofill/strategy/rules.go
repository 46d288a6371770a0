package strategy

import (
	"github.com/fillscope/fillscope-cli/internal/autofill/fields"
)

// Shared predicates. Each takes the candidate plus the fields already
// claimed by earlier steps of the same rule.

func takeAlways(_ *fields.Field, _ []*fields.Field) bool { return true }

func isFocused(f *fields.Field, _ []*fields.Field) bool { return f.Focused }

func declaresUsername(f *fields.Field, _ []*fields.Field) bool {
	return f.HasAutocompleteUsername()
}

func declaresCurrentPassword(f *fields.Field, _ []*fields.Field) bool {
	return f.HasAutocompleteCurrentPassword()
}

func declaresNewPassword(f *fields.Field, _ []*fields.Field) bool {
	return f.HasAutocompleteNewPassword()
}

func passwordLikely(f *fields.Field, _ []*fields.Field) bool {
	return f.PasswordCertainty.AtLeast(fields.Likely)
}

func passwordCertain(f *fields.Field, _ []*fields.Field) bool {
	return f.PasswordCertainty.AtLeast(fields.Certain)
}

func usernameLikely(f *fields.Field, _ []*fields.Field) bool {
	return f.UsernameCertainty.AtLeast(fields.Likely)
}

func usernameCertain(f *fields.Field, _ []*fields.Field) bool {
	return f.UsernameCertainty.AtLeast(fields.Certain)
}

func precedesMatched(f *fields.Field, matched []*fields.Field) bool {
	return f.DirectlyPrecedes(matched...)
}

func adjacentToMatched(f *fields.Field, matched []*fields.Field) bool {
	return f.DirectlyPrecedes(matched...) || f.DirectlyFollows(matched...)
}

func and(ps ...predicate) predicate {
	return func(f *fields.Field, matched []*fields.Field) bool {
		for _, p := range ps {
			if !p(f, matched) {
				return false
			}
		}
		return true
	}
}

// usernameFallback is the tie-breaker chain shared by the broad
// heuristic rules: prefer a certain username, then one directly
// preceding the matched password, then the focused one.
var usernameFallbackTieBreakers = []predicate{
	usernameCertain,
	precedesMatched,
	isFocused,
}

// defaultRules is the rule table, in strict priority order. The order
// encodes real-world form-shape frequency and specificity: the precise
// change-password and two-step patterns come first, broad single-field
// rules later, and the manual-request wildcards absolutely last. The
// first rule to yield a scenario that survives the origin check wins.
var defaultRules = []*rule{
	// 1. Change-password form: an adjacent pair of declared new-password
	// fields, optionally flanked by a declared current-password field,
	// optionally a declared username.
	{
		name: "declared_new_password_pair",
		steps: []step{
			{role: roleNewPassword, matcher: pairMatcher{
				take: func(a, b *fields.Field, _ []*fields.Field) bool {
					return a.HasAutocompleteNewPassword() && b.HasAutocompleteNewPassword()
				},
			}},
			{role: roleCurrentPassword, optional: true, matcher: singleMatcher{
				take: and(declaresCurrentPassword, adjacentToMatched),
			}},
			{role: roleUsername, optional: true, matcher: singleMatcher{
				take: declaresUsername,
			}},
		},
	},
	// 2. Second screen of a two-step login: a hidden username carrier
	// alongside the focused, declared current-password field. The
	// username is matched despite being hidden and marked save-only.
	{
		name: "two_step_hidden_username",
		steps: []step{
			{role: roleUsername, matchHidden: true, matcher: singleMatcher{
				take: func(f *fields.Field, _ []*fields.Field) bool {
					return f.CouldBeTwoStepHiddenUsername()
				},
			}},
			{role: roleCurrentPassword, matcher: singleMatcher{
				take: and(declaresCurrentPassword, isFocused),
			}},
		},
	},
	// 3. Plain login form with declared autocomplete.
	{
		name: "declared_current_password",
		steps: []step{
			{role: roleCurrentPassword, matcher: singleMatcher{
				take:        declaresCurrentPassword,
				tieBreakers: []predicate{isFocused},
			}},
			{role: roleUsername, optional: true, matcher: singleMatcher{
				take:        declaresUsername,
				tieBreakers: []predicate{precedesMatched, isFocused},
			}},
		},
	},
	// 4. Signup or change-password form without declared autocomplete:
	// an adjacent pair of likely password fields, treated as new.
	{
		name: "likely_password_pair",
		steps: []step{
			{role: roleNewPassword, matcher: pairMatcher{
				take: func(a, b *fields.Field, _ []*fields.Field) bool {
					return a.PasswordCertainty.AtLeast(fields.Likely) &&
						b.PasswordCertainty.AtLeast(fields.Likely)
				},
				tieBreakers: []pairPredicate{
					func(a, b *fields.Field, _ []*fields.Field) bool {
						return a.PasswordCertainty.AtLeast(fields.Certain) &&
							b.PasswordCertainty.AtLeast(fields.Certain)
					},
					func(a, b *fields.Field, _ []*fields.Field) bool {
						return a.Focused || b.Focused
					},
				},
			}},
			{role: roleUsername, optional: true, matcher: singleMatcher{
				take:        usernameLikely,
				tieBreakers: usernameFallbackTieBreakers,
			}},
		},
	},
	// 5. Plain login form without declared autocomplete.
	{
		name: "likely_single_password",
		steps: []step{
			{role: roleGenericPassword, matcher: singleMatcher{
				take:        passwordLikely,
				tieBreakers: []predicate{passwordCertain, isFocused},
			}},
			{role: roleUsername, optional: true, matcher: singleMatcher{
				take:        usernameLikely,
				tieBreakers: usernameFallbackTieBreakers,
			}},
		},
	},
	// 6-8. Focused-field rules, safe in single-origin mode because they
	// only ever touch the field group around the focus.
	{
		name:           "focused_new_password",
		singleOriginOK: true,
		steps: []step{
			{role: roleNewPassword, matcher: singleMatcher{
				take: and(declaresNewPassword, isFocused),
			}},
			{role: roleUsername, optional: true, matcher: singleMatcher{
				take: and(usernameLikely, precedesMatched),
			}},
		},
	},
	{
		name:           "focused_current_password",
		singleOriginOK: true,
		steps: []step{
			{role: roleCurrentPassword, matcher: singleMatcher{
				take: and(declaresCurrentPassword, isFocused),
			}},
			{role: roleUsername, optional: true, matcher: singleMatcher{
				take: and(usernameLikely, precedesMatched),
			}},
		},
	},
	{
		name:           "focused_likely_password",
		singleOriginOK: true,
		steps: []step{
			{role: roleGenericPassword, matcher: singleMatcher{
				take: and(passwordLikely, isFocused),
			}},
			{role: roleUsername, optional: true, matcher: singleMatcher{
				take: and(usernameLikely, precedesMatched),
			}},
		},
	},
	// 9. First screen of a two-step login: the focused, declared
	// username directly followed by a hidden password carrier. The
	// password is matched only through the adjacency plus heuristic, so
	// it is never silently filled off an unrelated hidden field.
	{
		name: "two_step_hidden_password",
		steps: []step{
			{role: roleUsername, matcher: singleMatcher{
				take: and(declaresUsername, isFocused),
			}},
			{role: roleCurrentPassword, matchHidden: true, matcher: singleMatcher{
				take: func(f *fields.Field, matched []*fields.Field) bool {
					return f.CouldBeTwoStepHiddenPassword() && f.DirectlyFollows(matched...)
				},
			}},
		},
	},
	// 10. Username-only screen of a two-step login.
	{
		name:           "focused_username",
		singleOriginOK: true,
		steps: []step{
			{role: roleUsername, matcher: singleMatcher{
				take:        and(usernameLikely, isFocused),
				tieBreakers: []predicate{usernameCertain, declaresUsername},
			}},
		},
	},
	// 11-12. Manual-request wildcards. When the user explicitly asked
	// for autofill, the focused field is taken at face value.
	{
		name:           "manual_focused_password",
		singleOriginOK: true,
		manualOnly:     true,
		steps: []step{
			{role: roleGenericPassword, matcher: singleMatcher{
				take: isFocused,
			}},
			{role: roleUsername, optional: true, matcher: singleMatcher{
				take: and(usernameLikely, precedesMatched),
			}},
		},
	},
	{
		name:           "manual_focused_username",
		singleOriginOK: true,
		manualOnly:     true,
		steps: []step{
			{role: roleUsername, matcher: singleMatcher{
				take: isFocused,
			}},
		},
	},
}
