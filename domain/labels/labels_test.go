package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featurespace/domain/core"
)

func TestNew_SortedUniqueLevels(t *testing.T) {
	l := New("cell_type", []string{"B", "A", "B", "C", "A"})

	assert.Equal(t, []core.ClassName{"A", "B", "C"}, l.Levels)
	assert.Equal(t, 5, l.Len())
	assert.Equal(t, 2, l.Count("A"))
	assert.True(t, l.Has("C"))
	assert.False(t, l.Has("D"))
}

func TestMask(t *testing.T) {
	l := New("cell_type", []string{"A", "B", "A"})
	assert.Equal(t, []bool{true, false, true}, l.Mask("A"))
}

func TestNormalize_NoopWhenValid(t *testing.T) {
	l := New("cell_type", []string{"Tcell", "Bcell"})

	out, notice, err := l.Normalize()
	require.NoError(t, err)
	assert.Nil(t, notice)
	assert.Equal(t, l, out)
	assert.Equal(t, "cell_type", out.Field)
}

func TestNormalize_SanitizesUnsafeLevels(t *testing.T) {
	l := New("cell_type", []string{"CD8 T-cell", "B cell", "CD8 T-cell"})

	out, notice, err := l.Normalize()
	require.NoError(t, err)
	require.NotNil(t, notice)

	assert.Equal(t, "cell_type.valid", out.Field)
	assert.Equal(t, "cell_type", notice.FromField)
	assert.Equal(t, "cell_type.valid", notice.ToField)

	assert.Equal(t, []core.ClassName{"B_cell", "CD8_T_cell"}, out.Levels)
	assert.Equal(t, []core.ClassName{"CD8_T_cell", "B_cell", "CD8_T_cell"}, out.Values)
	assert.Equal(t, core.ClassName("CD8_T_cell"), notice.Renamed["CD8 T-cell"])
}

func TestNormalize_LeadingDigitPrefixed(t *testing.T) {
	l := New("stage", []string{"1st", "2nd"})

	out, notice, err := l.Normalize()
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, []core.ClassName{"X1st", "X2nd"}, out.Levels)
}

func TestNormalize_CollisionIsConfigurationError(t *testing.T) {
	l := New("cell_type", []string{"a b", "a_b"})

	_, _, err := l.Normalize()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAmbiguousClassNames)
}

func TestSanitizeLevel(t *testing.T) {
	cases := map[string]string{
		"CD8 T-cell": "CD8_T_cell",
		"NK (rare)":  "NK__rare_",
		"8th":        "X8th",
		"":           "X",
		"fine_name":  "fine_name",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeLevel(in), "input %q", in)
	}
}
