// Package responder generates assistant replies for chat sessions: crisis
// triage first, then an optional external model, then canned supportive
// responses.
package responder

import (
	"context"
	"math/rand"
	"strings"

	"github.com/sirupsen/logrus"

	"sergeai-server/internal/domain"
	"sergeai-server/internal/triage"
)

const crisisResponse = "I'm really concerned about what you're sharing with me. " +
	"Your life has value and meaning. Please reach out to a crisis helpline " +
	"immediately - you can call 988 (Suicide & Crisis Lifeline) or text HOME to " +
	"741741. You don't have to go through this alone. Would you like me to help " +
	"you find additional professional support resources?"

const anxietyResponse = "I understand that anxiety can be really overwhelming. " +
	"Would you like to try a quick breathing exercise together, or would you " +
	"prefer to talk about what's been making you feel anxious? Remember, these " +
	"feelings are temporary and manageable."

const depressionResponse = "I hear that you're going through a difficult time. " +
	"These feelings of sadness are valid, and I want you to know that you're " +
	"not alone. Would you like to explore some small steps that might help you " +
	"feel a bit better today?"

var supportiveResponses = []string{
	"I understand how you're feeling. Would you like to explore some coping strategies together?",
	"That sounds challenging. Remember that it's okay to feel this way, and you're taking a positive step by reaching out.",
	"I'm here to support you. Would you like to try a quick mindfulness exercise?",
	"Your feelings are valid. Let's work through this together. What would be most helpful right now?",
	"Thank you for sharing that with me. How long have you been experiencing these feelings?",
	"It's completely normal to have these thoughts. Would you like to practice some grounding techniques?",
	"I appreciate you opening up to me. Sometimes talking through our feelings can really help.",
	"You're being very brave by reaching out. Would you like me to suggest some helpful resources?",
	"I hear that you're struggling. Remember that seeking help is a sign of strength, not weakness.",
	"Let's take this one step at a time. What's the most pressing thing on your mind right now?",
}

// Reply is a generated assistant message plus its classification metadata.
type Reply struct {
	Content  string
	Severity triage.Severity
	Keyword  string
	// FromModel reports whether the external model produced the content.
	FromModel bool
}

// Responder orchestrates triage, the optional external model, and canned
// fallback responses.
type Responder struct {
	classifier *triage.Classifier
	generator  Generator
	logger     *logrus.Logger
	pick       func(n int) int
}

// New builds a responder. generator may be nil when no model is configured.
func New(generator Generator, logger *logrus.Logger) *Responder {
	return &Responder{
		classifier: triage.New(),
		generator:  generator,
		logger:     logger,
		pick:       rand.Intn,
	}
}

// Respond produces the assistant reply for userMessage. A triage match
// short-circuits the external model so crisis language always gets the fixed
// safety response.
func (r *Responder) Respond(ctx context.Context, userMessage string, history []domain.ChatMessage) Reply {
	result := r.classifier.Classify(userMessage)
	switch result.Severity {
	case triage.SeverityCrisis:
		return Reply{Content: crisisResponse, Severity: result.Severity, Keyword: result.Keyword}
	case triage.SeverityAnxiety:
		return Reply{Content: anxietyResponse, Severity: result.Severity, Keyword: result.Keyword}
	case triage.SeverityDepression:
		return Reply{Content: depressionResponse, Severity: result.Severity, Keyword: result.Keyword}
	}

	if r.generator != nil {
		content, err := r.generator.Generate(ctx, userMessage, history)
		if err == nil && strings.TrimSpace(content) != "" {
			return Reply{Content: strings.TrimSpace(content), Severity: triage.SeverityNone, FromModel: true}
		}
		if err != nil {
			r.logger.Warnf("model generate failed, using canned response: %v", err)
		}
	}

	return Reply{
		Content:  supportiveResponses[r.pick(len(supportiveResponses))],
		Severity: triage.SeverityNone,
	}
}

// WelcomeMessage greets a user at the start of a new session.
func WelcomeMessage(fullName string) string {
	first := fullName
	if fields := strings.Fields(fullName); len(fields) > 0 {
		first = fields[0]
	}
	if first == "" {
		first = "there"
	}
	return "Hello " + first + "! I'm your SergeAI assistant. I'm here to support you " +
		"through any challenges you're facing. How are you feeling today?"
}
