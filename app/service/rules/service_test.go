package rules

import (
	"convoease/app/config"
	"errors"
	"strings"
	"testing"

	"github.com/samber/do"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	cfg := &config.Config{
		Server: config.Server{Addr: ":0"},
		Classifier: config.Classifier{
			BaseURL:    "http://localhost:0/v1",
			Token:      "test-token",
			Model:      "test-model",
			DraftModel: "test-model",
		},
		Moderation: config.Moderation{
			MaxMessageLength: 500,
			MaxRulesLength:   1000,
		},
	}

	di := do.New()
	do.ProvideValue(di, cfg)

	svc, err := New(di)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return svc
}

func TestUpdate_Normalization(t *testing.T) {
	svc := newTestService(t)

	err := svc.Update([]string{"  No profanity  ", "", "No spam", "\t"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got := svc.Snapshot()
	want := []string{"No profanity", "No spam"}

	if len(got) != len(want) {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Snapshot()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUpdate_EmptySet(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		input []string
	}{
		{"nil", nil},
		{"empty slice", []string{}},
		{"only blanks", []string{"", "   ", "\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Update(tt.input); !errors.Is(err, ErrEmptyRuleSet) {
				t.Errorf("Update(%v) error = %v, want ErrEmptyRuleSet", tt.input, err)
			}
		})
	}
}

func TestUpdate_LengthCap(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Update([]string{strings.Repeat("a", 1001)}); !errors.Is(err, ErrRulesTooLong) {
		t.Errorf("Update() error = %v, want ErrRulesTooLong", err)
	}

	// a failed update must not clobber the previous set
	if err := svc.Update([]string{"No profanity"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := svc.Update([]string{strings.Repeat("a", 1001)}); !errors.Is(err, ErrRulesTooLong) {
		t.Fatalf("Update() error = %v, want ErrRulesTooLong", err)
	}
	if got := svc.Snapshot(); len(got) != 1 || got[0] != "No profanity" {
		t.Errorf("Snapshot() = %v after failed update, want previous set", got)
	}
}

func TestFormat_NumbersRules(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Update([]string{"No profanity", "Stay on topic"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got := svc.Format()
	want := "1. No profanity\n2. Stay on topic\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Update([]string{"No profanity"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	snapshot := svc.Snapshot()
	snapshot[0] = "mutated"

	if got := svc.Snapshot()[0]; got != "No profanity" {
		t.Errorf("internal ruleset mutated through snapshot: %q", got)
	}
}

func TestTemplates(t *testing.T) {
	svc := newTestService(t)

	templates := svc.Templates()

	for _, name := range []string{"Professional", "Educational", "No Spam", "Respectful"} {
		lines, ok := templates[name]
		if !ok {
			t.Errorf("Templates() missing %q", name)
			continue
		}
		if len(lines) == 0 {
			t.Errorf("Templates()[%q] is empty", name)
		}
	}

	// returned map must be safe to mutate
	templates["Professional"][0] = "mutated"
	if got := svc.Templates()["Professional"][0]; got == "mutated" {
		t.Error("template mutated through the returned copy")
	}
}

func TestCleanDraftLine(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"- No profanity", "No profanity"},
		{"* Stay on topic", "Stay on topic"},
		{"1. Be kind", "Be kind"},
		{"12) No links", "No links"},
		{"  plain rule  ", "plain rule"},
		{"", ""},
		{"- ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := cleanDraftLine(tt.input); got != tt.want {
				t.Errorf("cleanDraftLine(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
