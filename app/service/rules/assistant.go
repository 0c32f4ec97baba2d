package rules

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/elliotchance/pie/v2"
	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

const (
	draftTimeout   = 30 * time.Second
	draftMaxTokens = 300
)

const draftPromptTemplate = `You are helping a chat group owner write moderation rules.
Turn the following description of the desired chat policy into a short list of clear,
enforceable moderation rules. Write one rule per line. Do not number the rules and do
not add any commentary before or after the list.

Description:
{description}`

// initDraftModel builds the langchaingo model used by Draft. Called once
// from New; kept separate so tests can skip it.
func (s *Service) initDraftModel() error {
	llm, err := lcopenai.New(
		lcopenai.WithBaseURL(s.cfg.Classifier.BaseURL),
		lcopenai.WithToken(s.cfg.Classifier.Token),
		lcopenai.WithModel(s.cfg.Classifier.DraftModel),
	)
	if err != nil {
		return fmt.Errorf("failed to create draft model: %w", err)
	}

	s.draftModel = llm

	return nil
}

// Draft turns a plain-language policy description into rule lines.
// The result is a suggestion only; it is not applied to the active set.
func (s *Service) Draft(ctx context.Context, description string) ([]string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("policy description is empty")
	}

	if s.draftModel == nil {
		return nil, fmt.Errorf("draft model is not configured")
	}

	prompt := strings.ReplaceAll(draftPromptTemplate, "{description}", description)

	ctx, cancel := context.WithTimeout(ctx, draftTimeout)
	defer cancel()

	out, err := llms.GenerateFromSinglePrompt(ctx, s.draftModel, prompt,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(draftMaxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to draft rules: %w", err)
	}

	lines := pie.Filter(pie.Map(strings.Split(out, "\n"), cleanDraftLine), func(line string) bool {
		return line != ""
	})

	if len(lines) == 0 {
		return nil, fmt.Errorf("draft produced no rules")
	}

	return lines, nil
}

// cleanDraftLine strips list markers the model tends to emit despite the
// prompt asking for bare lines.
func cleanDraftLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*•")
	line = strings.TrimSpace(line)

	// "1." / "12)" style prefixes
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		line = line[i+1:]
	}

	return strings.TrimSpace(line)
}
