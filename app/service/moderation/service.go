// Package moderation is the seam between a chat message and a verdict.
// It owns the only write path into the session state: exactly one append
// per successful evaluation, none on any failure.
package moderation

import (
	"context"
	"convoease/app/client/groq"
	"convoease/app/config"
	"convoease/app/service/rules"
	"convoease/app/service/session"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/do"
)

type Service struct {
	cfg        *config.Config
	rulesSvc   *rules.Service
	sessionSvc *session.Service
	agent      *VerdictAgent

	// evaluations are serialized; overlapping calls against the same
	// session are disallowed by contract
	mu sync.Mutex
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	client := do.MustInvoke[*groq.Client](di)

	return &Service{
		cfg:        cfg,
		rulesSvc:   do.MustInvoke[*rules.Service](di),
		sessionSvc: do.MustInvoke[*session.Service](di),
		agent:      NewVerdictAgent(client, cfg.Classifier.Model),
	}, nil
}

// Evaluate runs one message through the moderation pipeline and records
// the outcome. Failures leave the session untouched and are never
// coerced into an allow or block decision.
func (s *Service) Evaluate(ctx context.Context, sender, text string) (session.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return session.Entry{}, fmt.Errorf("%w: empty text", ErrInvalidMessage)
	}
	if maxLen := s.cfg.Moderation.MaxMessageLength; len(text) > maxLen {
		return session.Entry{}, fmt.Errorf("%w: text is too long (%d > %d)", ErrInvalidMessage, len(text), maxLen)
	}

	if len(s.rulesSvc.Snapshot()) == 0 {
		return session.Entry{}, rules.ErrEmptyRuleSet
	}

	msg := session.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}

	if s.cfg.Moderation.Prefilter {
		if reason, hit := checkSpamPatterns(text); hit {
			entry := s.sessionSvc.Append(msg, session.Verdict{
				Allowed: false,
				Reason:  reason,
			})

			slog.Info("Message blocked by prefilter",
				"sender", sender,
				"reason", reason)

			return entry, nil
		}
	}

	start := time.Now()

	verdict, err := s.agent.Call(ctx, s.rulesSvc.Format(), text)
	if err != nil {
		return session.Entry{}, fmt.Errorf("verdict agent: %w", err)
	}

	entry := s.sessionSvc.Append(msg, verdict)

	slog.Info("Moderated message",
		"sender", sender,
		"allowed", verdict.Allowed,
		"reason", verdict.Reason,
		"duration", time.Since(start))

	return entry, nil
}

// Clear wipes the session transcript, flagged log and counters.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessionSvc.Clear()

	slog.Info("Session cleared")
}
