// Package schemas defines the exported, JSON-stable result types the
// CLI and any embedding tool consume. Values are lowercase snake_case
// strings so reports diff cleanly and survive storage as enums.
package schemas

import (
	"time"
)

// FieldRole names the part a field plays in a classified scenario.
type FieldRole string

const (
	RoleUsername        FieldRole = "username"
	RoleCurrentPassword FieldRole = "current_password"
	RoleNewPassword     FieldRole = "new_password"
	RolePassword        FieldRole = "password" // generic, undifferentiated
	RoleOtp             FieldRole = "otp"
)

// FillAction mirrors the classifier's fill actions.
type FillAction string

const (
	ActionMatch          FillAction = "match"
	ActionSearch         FillAction = "search"
	ActionGenerate       FillAction = "generate"
	ActionFillOtpFromSms FillAction = "fill_otp_from_sms"
)

// AllFillActions lists every action a report carries fill sets for.
var AllFillActions = []FillAction{ActionMatch, ActionSearch, ActionGenerate, ActionFillOtpFromSms}

// CertaintyLevel is the string form of the classifier's ordinal
// confidence scale.
type CertaintyLevel string

const (
	CertaintyImpossible CertaintyLevel = "impossible"
	CertaintyPossible   CertaintyLevel = "possible"
	CertaintyLikely     CertaintyLevel = "likely"
	CertaintyCertain    CertaintyLevel = "certain"
)

// FieldReport describes one matched field.
type FieldReport struct {
	Handle string    `json:"handle"`
	Index  int       `json:"index"`
	Role   FieldRole `json:"role"`

	PasswordCertainty CertaintyLevel `json:"password_certainty"`
	UsernameCertainty CertaintyLevel `json:"username_certainty"`

	Visible bool   `json:"visible"`
	Focused bool   `json:"focused"`
	Origin  string `json:"origin,omitempty"`
}

// ScenarioKind distinguishes the two scenario variants.
type ScenarioKind string

const (
	ScenarioClassified ScenarioKind = "classified"
	ScenarioGeneric    ScenarioKind = "generic"
)

// ScenarioReport is the serialized form of a classification result's
// scenario: the role assignment plus the derived fill and save sets,
// expressed as field handles.
type ScenarioReport struct {
	Kind ScenarioKind `json:"kind"`

	Username     *FieldReport `json:"username,omitempty"`
	FillUsername bool         `json:"fill_username"`
	Otp          *FieldReport `json:"otp,omitempty"`

	Fields []FieldReport `json:"fields"`

	// FillSets maps each action to the handles to fill, in fill order.
	FillSets map[FillAction][]string `json:"fill_sets"`
	// SaveSet holds the handles whose content a save prompt captures.
	SaveSet []string `json:"save_set"`
}

// ClassificationResult wraps one classified surface snapshot.
type ClassificationResult struct {
	RequestID  string    `json:"request_id"`
	ObservedAt time.Time `json:"observed_at"`

	Source  string `json:"source,omitempty"` // input file or capture label
	Surface string `json:"surface,omitempty"`

	SingleOriginMode bool `json:"single_origin_mode"`
	ManualRequest    bool `json:"manual_request"`

	// FieldCount and IgnoredCount describe the extracted snapshot.
	FieldCount   int `json:"field_count"`
	IgnoredCount int `json:"ignored_count"`

	// Matched is false when no rule produced a scenario; the surface
	// then gets no autofill at all.
	Matched  bool            `json:"matched"`
	Scenario *ScenarioReport `json:"scenario,omitempty"`
}

// BatchReport is the top-level envelope the CLI emits.
type BatchReport struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Results     []ClassificationResult `json:"results"`
}
