// Package panel runs one message through several classifier models side
// by side. It is a testing surface for comparing model behavior and
// never touches the session state.
package panel

import (
	"context"
	"convoease/app/client/groq"
	"convoease/app/config"
	"convoease/app/service/moderation"
	"convoease/app/service/rules"
	"convoease/app/service/session"
	"fmt"
	"log/slog"
	"time"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

type Result struct {
	Model    string          `json:"model"`
	Verdict  session.Verdict `json:"verdict"`
	Error    string          `json:"error,omitempty"`
	Duration time.Duration   `json:"duration_ns"`
}

type Report struct {
	Results   []Result `json:"results"`
	Allowed   int      `json:"allowed"`
	Blocked   int      `json:"blocked"`
	Errors    int      `json:"errors"`
	Unanimous bool     `json:"unanimous"`
}

type Service struct {
	cfg      *config.Config
	rulesSvc *rules.Service
	client   moderation.CompletionClient
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		rulesSvc: do.MustInvoke[*rules.Service](di),
		client:   do.MustInvoke[*groq.Client](di),
	}, nil
}

// Models returns the full comparison lineup: the primary classifier
// model followed by the configured extras, deduplicated.
func (s *Service) Models() []string {
	models := append([]string{s.cfg.Classifier.Model}, s.cfg.Panel.Models...)

	return pie.Unique(models)
}

// Evaluate fans the same (ruleset, message) pair out to every model in
// the lineup and aggregates the verdicts. Per-model failures are
// reported in place, they do not abort the other calls.
func (s *Service) Evaluate(ctx context.Context, text string) (*Report, error) {
	if len(s.rulesSvc.Snapshot()) == 0 {
		return nil, rules.ErrEmptyRuleSet
	}

	models := s.Models()
	if len(models) == 0 {
		return nil, fmt.Errorf("no models configured")
	}

	rulesText := s.rulesSvc.Format()
	results := make([]Result, len(models))

	g, groupCtx := errgroup.WithContext(ctx)

	for i, model := range models {
		g.Go(func() error {
			agent := moderation.NewVerdictAgent(s.client, model)

			start := time.Now()
			verdict, err := agent.Call(groupCtx, rulesText, text)

			results[i] = Result{
				Model:    model,
				Verdict:  verdict,
				Duration: time.Since(start),
			}
			if err != nil {
				results[i].Error = err.Error()
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Results: results}

	for _, r := range results {
		switch {
		case r.Error != "":
			report.Errors++
		case r.Verdict.Allowed:
			report.Allowed++
		default:
			report.Blocked++
		}
	}

	decided := report.Allowed + report.Blocked
	report.Unanimous = decided > 0 && (report.Allowed == decided || report.Blocked == decided)

	slog.Info("Panel evaluation finished",
		"models", len(models),
		"allowed", report.Allowed,
		"blocked", report.Blocked,
		"errors", report.Errors)

	return report, nil
}
