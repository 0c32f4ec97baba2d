package panel

import (
	"context"
	"convoease/app/client/groq"
	"convoease/app/config"
	"convoease/app/service/rules"
	"errors"
	"testing"

	"github.com/samber/do"
)

// fakeClassifier answers per model so panel runs can disagree.
type fakeClassifier struct {
	responses map[string]string
	errs      map[string]error
}

func (f *fakeClassifier) Complete(_ context.Context, req groq.Request) (string, error) {
	if err := f.errs[req.Model]; err != nil {
		return "", err
	}

	return f.responses[req.Model], nil
}

func testConfig(extraModels ...string) *config.Config {
	return &config.Config{
		Server: config.Server{Addr: ":0"},
		Classifier: config.Classifier{
			BaseURL:    "http://localhost:0/v1",
			Token:      "test-token",
			Model:      "model-a",
			DraftModel: "model-a",
		},
		Panel: config.Panel{Models: extraModels},
		Moderation: config.Moderation{
			MaxMessageLength: 500,
			MaxRulesLength:   1000,
		},
	}
}

func newTestService(t *testing.T, cfg *config.Config, fake *fakeClassifier) *Service {
	t.Helper()

	di := do.New()
	do.ProvideValue(di, cfg)

	rulesSvc, err := rules.New(di)
	if err != nil {
		t.Fatalf("rules.New() error = %v", err)
	}
	if err := rulesSvc.Update([]string{"No profanity"}); err != nil {
		t.Fatalf("rulesSvc.Update() error = %v", err)
	}

	return &Service{
		cfg:      cfg,
		rulesSvc: rulesSvc,
		client:   fake,
	}
}

func TestModels_DeduplicatesLineup(t *testing.T) {
	svc := newTestService(t, testConfig("model-b", "model-a", "model-b"), &fakeClassifier{})

	got := svc.Models()
	if len(got) != 2 {
		t.Fatalf("Models() = %v, want 2 unique models", got)
	}

	seen := map[string]bool{}
	for _, m := range got {
		seen[m] = true
	}
	if !seen["model-a"] || !seen["model-b"] {
		t.Errorf("Models() = %v, want model-a and model-b", got)
	}
}

func TestEvaluate_Unanimous(t *testing.T) {
	fake := &fakeClassifier{
		responses: map[string]string{
			"model-a": `{"allowed": true}`,
			"model-b": `{"allowed": true}`,
		},
	}
	svc := newTestService(t, testConfig("model-b"), fake)

	report, err := svc.Evaluate(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if report.Allowed != 2 || report.Blocked != 0 || report.Errors != 0 {
		t.Errorf("report counts = %d/%d/%d, want 2/0/0", report.Allowed, report.Blocked, report.Errors)
	}
	if !report.Unanimous {
		t.Error("Unanimous = false, want true")
	}
}

func TestEvaluate_Disagreement(t *testing.T) {
	fake := &fakeClassifier{
		responses: map[string]string{
			"model-a": `{"allowed": true}`,
			"model-b": `{"allowed": false, "reason": "profanity"}`,
		},
	}
	svc := newTestService(t, testConfig("model-b"), fake)

	report, err := svc.Evaluate(context.Background(), "damn it")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if report.Allowed != 1 || report.Blocked != 1 {
		t.Errorf("report counts = %d allowed / %d blocked, want 1/1", report.Allowed, report.Blocked)
	}
	if report.Unanimous {
		t.Error("Unanimous = true, want false")
	}
}

func TestEvaluate_PerModelFailuresAreReportedInPlace(t *testing.T) {
	fake := &fakeClassifier{
		responses: map[string]string{
			"model-a": `{"allowed": true}`,
		},
		errs: map[string]error{
			"model-b": errors.New("rate limited"),
		},
	}
	svc := newTestService(t, testConfig("model-b"), fake)

	report, err := svc.Evaluate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if report.Errors != 1 {
		t.Errorf("report.Errors = %d, want 1", report.Errors)
	}
	if report.Allowed != 1 {
		t.Errorf("report.Allowed = %d, want 1", report.Allowed)
	}
	// one decided verdict is trivially unanimous
	if !report.Unanimous {
		t.Error("Unanimous = false, want true")
	}

	for _, r := range report.Results {
		if r.Model == "model-b" && r.Error == "" {
			t.Error("model-b result is missing its error text")
		}
	}
}

func TestEvaluate_EmptyRuleSet(t *testing.T) {
	cfg := testConfig()

	di := do.New()
	do.ProvideValue(di, cfg)

	rulesSvc, err := rules.New(di)
	if err != nil {
		t.Fatalf("rules.New() error = %v", err)
	}

	svc := &Service{cfg: cfg, rulesSvc: rulesSvc, client: &fakeClassifier{}}

	if _, err := svc.Evaluate(context.Background(), "hello"); !errors.Is(err, rules.ErrEmptyRuleSet) {
		t.Errorf("Evaluate() error = %v, want ErrEmptyRuleSet", err)
	}
}
