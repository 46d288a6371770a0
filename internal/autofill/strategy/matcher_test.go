package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fillscope/fillscope-cli/internal/autofill/fields"
)

// textField synthesizes a plain relevant field at the given index.
func textField(t *testing.T, handle string, index int, focused bool) *fields.Field {
	t.Helper()
	f, ok := fields.New(fields.Node{
		Handle:       handle,
		InputText:    true,
		AutofillType: fields.AutofillTypeText,
		Visible:      true,
		Focused:      focused,
	}, index)
	require.True(t, ok)
	return f
}

func matchHandles(fs []*fields.Field) []string {
	if fs == nil {
		return nil
	}
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Handle)
	}
	return out
}

func TestSingleMatcher(t *testing.T) {
	t.Parallel()

	a := textField(t, "a", 0, false)
	b := textField(t, "b", 1, true)
	c := textField(t, "c", 2, false)

	t.Run("unique candidate matches without tie-breakers", func(t *testing.T) {
		t.Parallel()
		m := singleMatcher{take: func(f *fields.Field, _ []*fields.Field) bool { return f.Handle == "b" }}
		assert.Equal(t, []string{"b"}, matchHandles(m.match([]*fields.Field{a, b, c}, nil)))
	})

	t.Run("no candidate fails", func(t *testing.T) {
		t.Parallel()
		m := singleMatcher{take: func(*fields.Field, []*fields.Field) bool { return false }}
		assert.Nil(t, m.match([]*fields.Field{a, b, c}, nil))
	})

	t.Run("ambiguity without tie-breakers fails", func(t *testing.T) {
		t.Parallel()
		m := singleMatcher{take: takeAlways}
		assert.Nil(t, m.match([]*fields.Field{a, b, c}, nil))
	})

	t.Run("tie-breaker narrows to one", func(t *testing.T) {
		t.Parallel()
		m := singleMatcher{take: takeAlways, tieBreakers: []predicate{isFocused}}
		assert.Equal(t, []string{"b"}, matchHandles(m.match([]*fields.Field{a, b, c}, nil)))
	})

	t.Run("tie-breaker eliminating everyone is skipped", func(t *testing.T) {
		t.Parallel()
		m := singleMatcher{
			take: takeAlways,
			tieBreakers: []predicate{
				func(*fields.Field, []*fields.Field) bool { return false }, // must be skipped
				func(f *fields.Field, _ []*fields.Field) bool { return f.Handle == "c" },
			},
		}
		assert.Equal(t, []string{"c"}, matchHandles(m.match([]*fields.Field{a, b, c}, nil)))
	})

	t.Run("tie-breakers apply in declared order", func(t *testing.T) {
		t.Parallel()
		m := singleMatcher{
			take: takeAlways,
			tieBreakers: []predicate{
				func(f *fields.Field, _ []*fields.Field) bool { return f.Handle != "a" }, // narrows to b, c
				func(f *fields.Field, _ []*fields.Field) bool { return f.Handle != "b" }, // narrows to c
			},
		}
		assert.Equal(t, []string{"c"}, matchHandles(m.match([]*fields.Field{a, b, c}, nil)))
	})

	t.Run("residual ambiguity after all tie-breakers fails", func(t *testing.T) {
		t.Parallel()
		m := singleMatcher{
			take:        takeAlways,
			tieBreakers: []predicate{func(f *fields.Field, _ []*fields.Field) bool { return f.Handle != "a" }},
		}
		assert.Nil(t, m.match([]*fields.Field{a, b, c}, nil))
	})

	t.Run("claimed fields are out of the running", func(t *testing.T) {
		t.Parallel()
		m := singleMatcher{take: takeAlways}
		assert.Equal(t, []string{"c"}, matchHandles(m.match([]*fields.Field{a, b, c}, []*fields.Field{a, b})))
	})
}

func TestPairMatcher(t *testing.T) {
	t.Parallel()

	a := textField(t, "a", 0, false)
	b := textField(t, "b", 1, false)
	c := textField(t, "c", 2, true)
	gap := textField(t, "gap", 4, false)

	anyPair := func(_, _ *fields.Field, _ []*fields.Field) bool { return true }

	t.Run("unique adjacent pair matches", func(t *testing.T) {
		t.Parallel()
		m := pairMatcher{take: anyPair}
		assert.Equal(t, []string{"a", "b"}, matchHandles(m.match([]*fields.Field{a, b}, nil)))
	})

	t.Run("index gap breaks adjacency", func(t *testing.T) {
		t.Parallel()
		m := pairMatcher{take: anyPair}
		assert.Nil(t, m.match([]*fields.Field{c, gap}, nil))
	})

	t.Run("overlapping pairs are ambiguous without tie-breakers", func(t *testing.T) {
		t.Parallel()
		m := pairMatcher{take: anyPair}
		assert.Nil(t, m.match([]*fields.Field{a, b, c}, nil))
	})

	t.Run("tie-breaker picks the focused pair", func(t *testing.T) {
		t.Parallel()
		m := pairMatcher{
			take: anyPair,
			tieBreakers: []pairPredicate{
				func(x, y *fields.Field, _ []*fields.Field) bool { return x.Focused || y.Focused },
			},
		}
		assert.Equal(t, []string{"b", "c"}, matchHandles(m.match([]*fields.Field{a, b, c}, nil)))
	})

	t.Run("claimed member disqualifies the pair", func(t *testing.T) {
		t.Parallel()
		m := pairMatcher{take: anyPair}
		assert.Nil(t, m.match([]*fields.Field{a, b}, []*fields.Field{b}))
	})
}
