// Package triage classifies free-text chat input for crisis language so the
// responder can route users to safety resources before any external AI call.
package triage

import "strings"

type Severity string

const (
	SeverityNone       Severity = "none"
	SeverityCrisis     Severity = "crisis"
	SeverityAnxiety    Severity = "anxiety"
	SeverityDepression Severity = "depression"
)

// Result reports the matched tier and the keyword that triggered it.
type Result struct {
	Severity Severity
	Keyword  string
}

type tier struct {
	severity Severity
	keywords []string
}

// Classifier matches message text against ordered keyword tiers. Tiers are
// checked in priority order and the first matching keyword wins.
type Classifier struct {
	tiers []tier
}

// New returns a classifier with the default tiers: crisis outranks anxiety,
// anxiety outranks depression.
func New() *Classifier {
	return &Classifier{
		tiers: []tier{
			{SeverityCrisis, []string{
				"suicide", "kill myself", "end it all", "harm myself", "die", "hurt myself",
			}},
			{SeverityAnxiety, []string{
				"anxious", "anxiety", "panic", "worried", "stressed", "overwhelmed",
			}},
			{SeverityDepression, []string{
				"depressed", "sad", "hopeless", "empty", "worthless", "lonely",
			}},
		},
	}
}

// Classify inspects message case-insensitively by substring match.
func (c *Classifier) Classify(message string) Result {
	lowered := strings.ToLower(message)
	for _, t := range c.tiers {
		for _, kw := range t.keywords {
			if strings.Contains(lowered, kw) {
				return Result{Severity: t.severity, Keyword: kw}
			}
		}
	}
	return Result{Severity: SeverityNone}
}
