package fields

import (
	"strings"
)

// HTML input types that accept free text and can therefore hold a
// credential.
var fillableHTMLTypes = map[string]bool{
	"text":     true,
	"email":    true,
	"tel":      true,
	"password": true,
}

// Autofill hints that keep a field in the relevant set. A field declaring
// hints is excluded only if none of them appear here; declaring no hints
// never excludes.
var acceptedHints = map[string]bool{
	HintUsername: true,
	HintPassword: true,
	HintEmail:    true,
	HintName:     true,
	HintPhone:    true,
}

// Identifier substrings that mark a field as something we must never fill:
// browser chrome, search boxes and captchas.
var excludedTerms = []string{
	"url_bar",
	"url_field",
	"location_bar_edit_text",
	"search",
	"find",
	"captcha",
}

// Identifier substrings hinting at a password field.
var passwordTerms = []string{"password", "pwd", "pswd", "passwort"}

// Identifier substrings hinting at a username field.
var usernameTerms = []string{"user", "name", "email"}

// Field is the normalized, immutable form of one fillable UI node. All
// classification inputs are computed once in New; a Field is never
// mutated afterwards and never persisted.
type Field struct {
	Handle string
	// Index is the node's position in a single consistent document-order
	// traversal. Ignored nodes consume indexes too, so consecutive
	// indexes mean nothing at all sits between two fields.
	Index int

	Visible bool
	Focused bool

	// Origin is the per-node web origin, empty when unknown.
	Origin string

	PasswordCertainty Certainty
	UsernameCertainty Certainty

	isText              bool
	htmlInput           bool
	htmlType            string
	autocomplete        string
	hasAutocompleteAttr bool
	hints               []string
	hintText            string
	idEntry             string
	htmlID              string
	htmlName            string
	excluded            bool
}

// New normalizes one raw node into a Field. The boolean result is false
// when the node is not classifiable at all (wrong widget kind, wrong
// autofill type, or hint-excluded); such nodes still consume their index
// for adjacency purposes but get no certainty scores.
//
// New is a pure transform: malformed or missing metadata lowers certainty,
// it never fails.
func New(n Node, index int) (*Field, bool) {
	htmlInput := strings.EqualFold(n.HTMLTag, "input")

	htmlType := ""
	if htmlInput {
		htmlType = strings.ToLower(attr(n, "type"))
		if htmlType == "" {
			// An <input> without a type attribute is a text input.
			htmlType = "text"
		}
	}

	isText := (!htmlInput && n.InputText) || (htmlInput && fillableHTMLTypes[htmlType])

	hints := make([]string, 0, len(n.Hints))
	for _, h := range n.Hints {
		hints = append(hints, strings.ToLower(h))
	}
	hintExcluded := len(hints) > 0
	for _, h := range hints {
		if acceptedHints[h] {
			hintExcluded = false
			break
		}
	}

	autofillType := n.AutofillType
	if autofillType == "" && htmlInput {
		autofillType = AutofillTypeText
	}

	if !isText || autofillType != AutofillTypeText || hintExcluded {
		return nil, false
	}

	autocomplete, hasAutocompleteAttr := lookupAttr(n, "autocomplete")
	f := &Field{
		Handle:              n.Handle,
		Index:               index,
		Visible:             n.Visible,
		Focused:             n.Focused,
		Origin:              n.Origin,
		isText:              isText,
		htmlInput:           htmlInput,
		htmlType:            htmlType,
		autocomplete:        strings.ToLower(autocomplete),
		hasAutocompleteAttr: hasAutocompleteAttr,
		hints:               hints,
		hintText:            strings.ToLower(n.HintText),
		idEntry:             strings.ToLower(n.IDEntry),
		htmlID:              strings.ToLower(attr(n, "id")),
		htmlName:            strings.ToLower(attr(n, "name")),
	}

	f.excluded = f.containsAny(excludedTerms, f.idEntry, f.htmlID, f.hintText)

	// Password classification runs first; username classification only
	// considers fields not already password-like. This keeps the two
	// certainties mutually exclusive at Likely and above.
	f.PasswordCertainty = f.scorePassword(n)
	f.UsernameCertainty = f.scoreUsername()

	return f, true
}

func (f *Field) scorePassword(n Node) Certainty {
	if f.excluded {
		return Impossible
	}
	possible := n.InputPassword || f.htmlType == "password"
	if !possible {
		return Impossible
	}
	certain := f.htmlType == "password" ||
		f.hasHint(HintPassword) ||
		f.autocomplete == "current-password" ||
		f.autocomplete == "new-password"
	if certain {
		return Certain
	}
	if f.containsAny(passwordTerms, f.idEntry, f.htmlID, f.hintText, f.htmlName) {
		return Likely
	}
	return Possible
}

func (f *Field) scoreUsername() Certainty {
	if f.excluded || f.PasswordCertainty >= Possible {
		return Impossible
	}
	if f.hasHint(HintUsername) || f.autocomplete == "username" {
		return Certain
	}
	if f.containsAny(usernameTerms, f.idEntry, f.htmlID, f.hintText, f.htmlName) {
		return Likely
	}
	// Every relevant, unexcluded non-password field could in principle
	// hold a username.
	return Possible
}

// -- Declared-hint predicates --

func (f *Field) hasHint(hint string) bool {
	for _, h := range f.hints {
		if h == hint {
			return true
		}
	}
	return false
}

// HasAutocompleteUsername reports an explicit username declaration, via
// either the HTML autocomplete attribute or a platform hint.
func (f *Field) HasAutocompleteUsername() bool {
	return f.autocomplete == "username" || f.hasHint(HintUsername)
}

func (f *Field) HasAutocompleteCurrentPassword() bool {
	return f.autocomplete == "current-password"
}

func (f *Field) HasAutocompleteNewPassword() bool {
	return f.autocomplete == "new-password"
}

// -- Two-step login heuristics --

// CouldBeTwoStepHiddenUsername reports whether the field looks like the
// invisible username carrier of a two-step login form: hidden, text
// typed, and explicitly declared as a username. Such a field may be
// saved but must never be filled.
func (f *Field) CouldBeTwoStepHiddenUsername() bool {
	return !f.Visible && f.isText && f.HasAutocompleteUsername()
}

// CouldBeTwoStepHiddenPassword reports whether the field looks like the
// invisible password carrier of a two-step login form: a hidden
// password-typed field that either declares current-password or carries
// no autocomplete attribute at all.
func (f *Field) CouldBeTwoStepHiddenPassword() bool {
	return !f.Visible && f.PasswordCertainty >= Possible &&
		(f.autocomplete == "current-password" || !f.hasAutocompleteAttr)
}

// -- Adjacency --

// DirectlyPrecedes reports whether f sits immediately before the given
// group in document order. Adjacency is decided purely by index; there is
// no geometric reasoning.
func (f *Field) DirectlyPrecedes(group ...*Field) bool {
	min, _, ok := indexRange(group)
	return ok && f.Index == min-1
}

// DirectlyFollows reports whether f sits immediately after the given
// group in document order.
func (f *Field) DirectlyFollows(group ...*Field) bool {
	_, max, ok := indexRange(group)
	return ok && f.Index == max+1
}

func indexRange(group []*Field) (min, max int, ok bool) {
	if len(group) == 0 {
		return 0, 0, false
	}
	min, max = group[0].Index, group[0].Index
	for _, g := range group[1:] {
		if g.Index < min {
			min = g.Index
		}
		if g.Index > max {
			max = g.Index
		}
	}
	return min, max, true
}

func (f *Field) containsAny(terms []string, haystacks ...string) bool {
	for _, h := range haystacks {
		if h == "" {
			continue
		}
		for _, t := range terms {
			if strings.Contains(h, t) {
				return true
			}
		}
	}
	return false
}

func attr(n Node, name string) string {
	v, _ := lookupAttr(n, name)
	return v
}

func lookupAttr(n Node, name string) (string, bool) {
	for k, v := range n.HTMLAttributes {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
