package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fillscope/fillscope-cli/internal/autofill/fields"
)

// field synthesizes a classified field for policy tests; the scenario
// layer never looks past handle, index and visibility.
func field(t *testing.T, handle string, index int) *fields.Field {
	t.Helper()
	f, ok := fields.New(fields.Node{
		Handle:       handle,
		InputText:    true,
		AutofillType: fields.AutofillTypeText,
		Visible:      true,
	}, index)
	require.True(t, ok)
	return f
}

func handles(fs []*fields.Field) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Handle)
	}
	return out
}

func TestBuilderRejectsMixedVariants(t *testing.T) {
	t.Parallel()

	b := Builder{
		Generic:         []*fields.Field{field(t, "g", 0)},
		CurrentPassword: []*fields.Field{field(t, "c", 1)},
	}
	_, err := b.Build()
	assert.ErrorIs(t, err, ErrMixedVariants)

	b = Builder{
		Generic:     []*fields.Field{field(t, "g", 0)},
		NewPassword: []*fields.Field{field(t, "n", 1)},
	}
	_, err = b.Build()
	assert.ErrorIs(t, err, ErrMixedVariants)
}

func TestFieldsToFillClassified(t *testing.T) {
	t.Parallel()

	user := field(t, "user", 0)
	current := field(t, "current", 1)
	new1 := field(t, "new1", 2)
	new2 := field(t, "new2", 3)

	scn, err := (&Builder{
		Username:        user,
		FillUsername:    true,
		CurrentPassword: []*fields.Field{current},
		NewPassword:     []*fields.Field{new1, new2},
	}).Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"user", "current"}, handles(scn.FieldsToFill(Match)))
	assert.Equal(t, []string{"user", "current"}, handles(scn.FieldsToFill(Search)))
	assert.Equal(t, []string{"new1", "new2"}, handles(scn.FieldsToFill(Generate)), "generate never touches the username")
	assert.Empty(t, scn.FieldsToFill(FillOtpFromSms), "no otp field, nothing to fill")
}

func TestFieldsToFillGeneric(t *testing.T) {
	t.Parallel()

	t.Run("single generic password fills for every credential action", func(t *testing.T) {
		t.Parallel()
		user := field(t, "user", 0)
		pw := field(t, "pw", 1)
		scn, err := (&Builder{Username: user, FillUsername: true, Generic: []*fields.Field{pw}}).Build()
		require.NoError(t, err)

		assert.Equal(t, []string{"user", "pw"}, handles(scn.FieldsToFill(Match)))
		assert.Equal(t, []string{"pw"}, handles(scn.FieldsToFill(Generate)))
	})

	t.Run("ambiguous generic group fills nothing", func(t *testing.T) {
		t.Parallel()
		scn, err := (&Builder{Generic: []*fields.Field{field(t, "a", 0), field(t, "b", 1)}}).Build()
		require.NoError(t, err)

		assert.Empty(t, scn.FieldsToFill(Match))
		assert.Empty(t, scn.FieldsToFill(Generate))
	})
}

func TestFieldsToFillUsernameRules(t *testing.T) {
	t.Parallel()

	t.Run("save-only username is never filled", func(t *testing.T) {
		t.Parallel()
		user := field(t, "user", 0)
		pw := field(t, "pw", 1)
		scn, err := (&Builder{Username: user, FillUsername: false, CurrentPassword: []*fields.Field{pw}}).Build()
		require.NoError(t, err)

		assert.Equal(t, []string{"pw"}, handles(scn.FieldsToFill(Match)))
	})

	t.Run("username alone is offered on two-step screens", func(t *testing.T) {
		t.Parallel()
		user := field(t, "user", 0)
		scn, err := (&Builder{Username: user, FillUsername: true}).Build()
		require.NoError(t, err)

		assert.Equal(t, []string{"user"}, handles(scn.FieldsToFill(Match)))
		assert.Equal(t, []string{"user"}, handles(scn.FieldsToFill(Search)))
		assert.Empty(t, scn.FieldsToFill(Generate), "generate never offers a bare username")
	})
}

func TestFieldsToFillOtp(t *testing.T) {
	t.Parallel()

	user := field(t, "user", 0)
	pw := field(t, "pw", 1)
	otp := field(t, "otp", 2)
	scn, err := (&Builder{
		Username:        user,
		FillUsername:    true,
		Otp:             otp,
		CurrentPassword: []*fields.Field{pw},
	}).Build()
	require.NoError(t, err)

	// An SMS-sourced OTP fills strictly alone.
	assert.Equal(t, []string{"otp"}, handles(scn.FieldsToFill(FillOtpFromSms)))
	// Credential actions include the OTP field alongside the password.
	assert.Equal(t, []string{"user", "pw", "otp"}, handles(scn.FieldsToFill(Match)))
	assert.Empty(t, scn.FieldsToFill(Generate), "no new-password fields to generate into")
}

func TestFieldsToSave(t *testing.T) {
	t.Parallel()

	user := field(t, "user", 0)
	current := field(t, "current", 1)
	new1 := field(t, "new1", 2)

	t.Run("new passwords win over current", func(t *testing.T) {
		t.Parallel()
		scn, err := (&Builder{
			Username:        user,
			FillUsername:    true,
			CurrentPassword: []*fields.Field{current},
			NewPassword:     []*fields.Field{new1},
		}).Build()
		require.NoError(t, err)
		assert.Equal(t, []string{"user", "new1"}, handles(scn.FieldsToSave()))
	})

	t.Run("current passwords saved when no new exist", func(t *testing.T) {
		t.Parallel()
		scn, err := (&Builder{Username: user, CurrentPassword: []*fields.Field{current}}).Build()
		require.NoError(t, err)
		assert.Equal(t, []string{"user", "current"}, handles(scn.FieldsToSave()))
	})

	t.Run("hidden username is save-eligible", func(t *testing.T) {
		t.Parallel()
		scn, err := (&Builder{Username: user, FillUsername: false, CurrentPassword: []*fields.Field{current}}).Build()
		require.NoError(t, err)
		assert.Contains(t, handles(scn.FieldsToSave()), "user")
	})

	t.Run("generic group saved as-is", func(t *testing.T) {
		t.Parallel()
		scn, err := (&Builder{Generic: []*fields.Field{current}}).Build()
		require.NoError(t, err)
		assert.Equal(t, []string{"current"}, handles(scn.FieldsToSave()))
	})
}

func TestAllFields(t *testing.T) {
	t.Parallel()

	user := field(t, "user", 0)
	pw := field(t, "pw", 1)
	otp := field(t, "otp", 2)
	scn, err := (&Builder{Username: user, Otp: otp, Generic: []*fields.Field{pw}}).Build()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"user", "pw", "otp"}, handles(scn.AllFields()))
	assert.True(t, scn.IsGeneric())
}
