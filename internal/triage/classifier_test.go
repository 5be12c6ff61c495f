package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	c := New()

	tests := []struct {
		name    string
		message string
		want    Severity
	}{
		{"plain message", "I had a nice walk today", SeverityNone},
		{"crisis phrase", "sometimes I want to kill myself", SeverityCrisis},
		{"crisis uppercase", "I just want to DIE", SeverityCrisis},
		{"crisis embedded substring", "I could just dietary my way out", SeverityCrisis},
		{"anxiety", "I've been so anxious about work", SeverityAnxiety},
		{"anxiety panic", "panic attacks every morning", SeverityAnxiety},
		{"depression", "I feel worthless and empty", SeverityDepression},
		{"empty input", "", SeverityNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.message)
			assert.Equal(t, tt.want, got.Severity)
		})
	}
}

func TestClassify_CrisisOutranksLowerTiers(t *testing.T) {
	t.Parallel()

	c := New()

	// A message containing keywords from several tiers must resolve to the
	// highest-priority tier regardless of keyword order in the text.
	got := c.Classify("I'm so sad and anxious I want to end it all")
	assert.Equal(t, SeverityCrisis, got.Severity)
	assert.Equal(t, "end it all", got.Keyword)

	got = c.Classify("feeling sad and overwhelmed")
	assert.Equal(t, SeverityAnxiety, got.Severity)
}

func TestClassify_FirstMatchWinsWithinTier(t *testing.T) {
	t.Parallel()

	c := New()

	got := c.Classify("anxiety and panic all week")
	assert.Equal(t, SeverityAnxiety, got.Severity)
	// "anxious" is checked before "anxiety" and matches as a substring of
	// neither here, so "anxiety" is the first hit.
	assert.Equal(t, "anxiety", got.Keyword)
}
