package engine

import (
	"github.com/fillscope/fillscope-cli/api/schemas"
	"github.com/fillscope/fillscope-cli/internal/autofill/fields"
	"github.com/fillscope/fillscope-cli/internal/autofill/scenario"
)

var actionByName = map[schemas.FillAction]scenario.Action{
	schemas.ActionMatch:          scenario.Match,
	schemas.ActionSearch:         scenario.Search,
	schemas.ActionGenerate:       scenario.Generate,
	schemas.ActionFillOtpFromSms: scenario.FillOtpFromSms,
}

// buildScenarioReport serializes a scenario: the role assignment plus
// the fill set of every action and the save set, all as field handles.
func buildScenarioReport(s *scenario.Scenario) *schemas.ScenarioReport {
	report := &schemas.ScenarioReport{
		Kind:         schemas.ScenarioClassified,
		FillUsername: s.FillUsername,
		FillSets:     make(map[schemas.FillAction][]string, len(schemas.AllFillActions)),
	}
	if s.IsGeneric() {
		report.Kind = schemas.ScenarioGeneric
	}

	if s.Username != nil {
		fr := fieldReport(s.Username, schemas.RoleUsername)
		report.Username = &fr
		report.Fields = append(report.Fields, fr)
	}
	for _, f := range s.CurrentPassword {
		report.Fields = append(report.Fields, fieldReport(f, schemas.RoleCurrentPassword))
	}
	for _, f := range s.NewPassword {
		report.Fields = append(report.Fields, fieldReport(f, schemas.RoleNewPassword))
	}
	for _, f := range s.Generic {
		report.Fields = append(report.Fields, fieldReport(f, schemas.RolePassword))
	}
	if s.Otp != nil {
		fr := fieldReport(s.Otp, schemas.RoleOtp)
		report.Otp = &fr
		report.Fields = append(report.Fields, fr)
	}

	for _, name := range schemas.AllFillActions {
		report.FillSets[name] = handles(s.FieldsToFill(actionByName[name]))
	}
	report.SaveSet = handles(s.FieldsToSave())
	return report
}

func fieldReport(f *fields.Field, role schemas.FieldRole) schemas.FieldReport {
	return schemas.FieldReport{
		Handle:            f.Handle,
		Index:             f.Index,
		Role:              role,
		PasswordCertainty: schemas.CertaintyLevel(f.PasswordCertainty.String()),
		UsernameCertainty: schemas.CertaintyLevel(f.UsernameCertainty.String()),
		Visible:           f.Visible,
		Focused:           f.Focused,
		Origin:            f.Origin,
	}
}

func handles(fs []*fields.Field) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Handle)
	}
	return out
}
