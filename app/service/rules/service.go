// Package rules holds the active moderation policy as opaque rule text.
// Interpretation of the rules is left entirely to the classifier.
package rules

import (
	"convoease/app/config"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"github.com/tmc/langchaingo/llms"
)

var (
	ErrEmptyRuleSet = errors.New("no moderation rules defined")
	ErrRulesTooLong = errors.New("ruleset exceeds the maximum length")
)

type Service struct {
	cfg        *config.Config
	draftModel llms.Model

	mu    sync.RWMutex
	rules []string
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg: do.MustInvoke[*config.Config](di),
	}

	if err := s.initDraftModel(); err != nil {
		return nil, err
	}

	return s, nil
}

// Update replaces the active ruleset wholesale. Blank lines are dropped;
// an effectively empty set is a configuration error, not a wildcard.
func (s *Service) Update(ruleLines []string) error {
	normalized := pie.Filter(pie.Map(ruleLines, strings.TrimSpace), func(r string) bool {
		return r != ""
	})

	if len(normalized) == 0 {
		return ErrEmptyRuleSet
	}

	total := 0
	for _, r := range normalized {
		total += len(r)
	}
	if total > s.cfg.Moderation.MaxRulesLength {
		return fmt.Errorf("%w (%d > %d)", ErrRulesTooLong, total, s.cfg.Moderation.MaxRulesLength)
	}

	s.mu.Lock()
	s.rules = normalized
	s.mu.Unlock()

	return nil
}

func (s *Service) Snapshot() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]string, len(s.rules))
	copy(result, s.rules)

	return result
}

// Format renders the active ruleset as a numbered list for prompts.
func (s *Service) Format() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var builder strings.Builder

	for i, rule := range s.rules {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, rule))
	}

	return builder.String()
}

func (s *Service) Templates() map[string][]string {
	result := make(map[string][]string, len(ruleTemplates))

	for name, lines := range ruleTemplates {
		result[name] = append([]string(nil), lines...)
	}

	return result
}
