package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAddIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewSet("python", "docker")
	require.True(t, s.Add("kafka"))
	before := s.Terms()

	assert.False(t, s.Add("kafka"), "second add must report false")
	assert.False(t, s.Add("  KAFKA "), "add must be case-insensitive")
	assert.Equal(t, before, s.Terms())
}

func TestSetRemoveThenAddAppends(t *testing.T) {
	t.Parallel()

	s := NewSet("python", "docker", "aws")
	require.True(t, s.Remove("python"))
	assert.Equal(t, []string{"docker", "aws"}, s.Terms())

	s.Add("python")
	assert.Equal(t, []string{"docker", "aws", "python"}, s.Terms())
}

func TestSetRemoveMissing(t *testing.T) {
	t.Parallel()

	s := NewSet("python")
	assert.False(t, s.Remove("java"))
	assert.Equal(t, 1, s.Len())
}

func TestValidateTerm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		expect  string
		invalid bool
	}{
		{input: "  Go  ", expect: "Go"},
		{input: "", invalid: true},
		{input: "   ", invalid: true},
		{input: "/start", invalid: true},
		{input: " /help", invalid: true},
	}

	for _, tt := range tests {
		got, err := ValidateTerm(tt.input)
		if tt.invalid {
			assert.ErrorIs(t, err, ErrInvalidSkillTerm, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expect, got)
	}
}

func TestFromExtractedFlattensInOrder(t *testing.T) {
	t.Parallel()

	e := &Extracted{Groups: []Group{
		{Category: ProgrammingLanguages, Terms: []string{"python"}},
		{Category: CloudPlatforms, Terms: []string{"docker", "aws"}},
		{Category: ToolsTechnologies, Terms: []string{"docker", "kafka"}},
	}}

	assert.Equal(t, []string{"python", "docker", "aws", "kafka"}, FromExtracted(e).Terms())
	assert.Zero(t, FromExtracted(nil).Len())
}

func TestSetCloneIsIndependent(t *testing.T) {
	t.Parallel()

	s := NewSet("python")
	c := s.Clone()
	c.Add("go")

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, c.Len())
}
