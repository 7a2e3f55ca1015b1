package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClassifier(t *testing.T) {
	tests := []struct {
		name       string
		errMsg     string
		categories []Category
		wantErr    bool
	}{
		{
			name:       "defaults compile",
			categories: DefaultCategories(),
		},
		{
			name:       "empty set",
			categories: []Category{},
		},
		{
			name:       "invalid regex",
			categories: []Category{{Name: "Bad", Pattern: `[unclosed`}},
			wantErr:    true,
			errMsg:     "failed to compile pattern",
		},
		{
			name:       "missing name",
			categories: []Category{{Pattern: "ewe"}},
			wantErr:    true,
			errMsg:     "name is required",
		},
		{
			name:       "reserved name",
			categories: []Category{{Name: "other"}},
			wantErr:    true,
			errMsg:     "reserved",
		},
		{
			name:       "duplicate name",
			categories: []Category{{Name: "Ewes"}, {Name: "EWES"}},
			wantErr:    true,
			errMsg:     "duplicate name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClassifier(tt.categories)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Other, c.Buckets()[len(c.Buckets())-1])
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := MustDefault()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Full Wool", want: "Full Wool"},
		{raw: "full wool ewes", want: "Full Wool"},
		{raw: "  Lambs ", want: "Lambs"},
		{raw: "lamb", want: "Lambs"},
		{raw: "2nd shear", want: "Second Shear"},
		{raw: "Crutching ewes", want: "Crutching"},
		{raw: "crutched", want: "Crutching"},
		{raw: "Alpacas", want: Other},
		{raw: "", want: Other},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.raw))
		})
	}
}

func TestClassifier_ExactNameWithoutPattern(t *testing.T) {
	c, err := NewClassifier([]Category{{Name: "Stud Rams"}})
	require.NoError(t, err)

	assert.Equal(t, "Stud Rams", c.Classify(" stud rams "))
	assert.Equal(t, Other, c.Classify("stud rams extra"))
	assert.Equal(t, []string{"Stud Rams", Other}, c.Buckets())
}

func TestClassifier_PriorityOrder(t *testing.T) {
	c, err := NewClassifier([]Category{
		{Name: "Ewes", Pattern: `ewe`},
		{Name: "Crutching", Pattern: `crutch`, Priority: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, "Crutching", c.Classify("crutching ewes"))
	// Buckets keep configured order regardless of priority.
	assert.Equal(t, []string{"Ewes", "Crutching", Other}, c.Buckets())
}

func TestIsCrutchWork(t *testing.T) {
	assert.True(t, IsCrutchWork("crutching"))
	assert.True(t, IsCrutchWork("Ewes CRUTCHED"))
	assert.False(t, IsCrutchWork("Full Wool"))
	assert.False(t, IsCrutchWork(""))
}
