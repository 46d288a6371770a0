package fields

// Declared autofill hint values recognized by the classifier. These match
// the hint strings reported by host platforms for credential-bearing
// fields; comparison is case-insensitive.
const (
	HintUsername = "username"
	HintPassword = "password"
	HintEmail    = "emailaddress"
	HintName     = "name"
	HintPhone    = "phone"
)

// AutofillTypeText is the host-reported value type for plain text fields.
// Only fields of this type are classifiable; dates, toggles and lists are
// never credential fields.
const AutofillTypeText = "text"

// Node is the raw, host-extracted snapshot of a single UI node. It is the
// input to field normalization and carries everything the host traversal
// observed: widget metadata for native fields, the attribute map for
// web-rendered fields, and per-node state (visibility, focus, origin).
//
// A Node is a dumb record; all interpretation happens in New.
type Node struct {
	// Handle is the opaque, stable identifier the host uses for this
	// node. Fill and save responses refer to fields by handle only.
	Handle string `json:"handle"`

	// Native widget signals.
	WidgetClass   string `json:"widget_class,omitempty"`
	InputText     bool   `json:"input_text,omitempty"`
	InputPassword bool   `json:"input_password,omitempty"`

	// AutofillType is the host-reported value type ("text", "list",
	// "date", "toggle"). Empty when the host did not report one.
	AutofillType string `json:"autofill_type,omitempty"`

	// Hints are the autofill hints declared by the app, if any.
	Hints []string `json:"hints,omitempty"`

	// HintText is nearby label, placeholder or hint text.
	HintText string `json:"hint_text,omitempty"`

	// IDEntry is the resource id entry name of a native view.
	IDEntry string `json:"id_entry,omitempty"`

	// Web-rendered signals. HTMLTag is empty for native views.
	HTMLTag        string            `json:"html_tag,omitempty"`
	HTMLAttributes map[string]string `json:"html_attributes,omitempty"`

	Visible bool `json:"visible"`
	Focused bool `json:"focused"`

	// Origin is the already-resolved web origin of the node, when the
	// rendering surface annotates fields individually. Empty means no
	// per-node origin information exists.
	Origin string `json:"origin,omitempty"`
}
