package moderation

import (
	"context"
	"convoease/app/client/groq"
	"convoease/app/service/session"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "embed"
)

//go:embed verdict_prompt_template.txt
var verdictPromptTemplate string

const (
	maxVerdictDuration = 30 * time.Second
	verdictMaxTokens   = 200
	verdictTemperature = 0.1
)

// CompletionClient is the seam to the external classifier endpoint.
// The production implementation is *groq.Client; tests substitute fakes.
type CompletionClient interface {
	Complete(ctx context.Context, req groq.Request) (string, error)
}

// VerdictAgent turns one (ruleset, message) pair into a verdict through
// a single classifier round-trip with a strict parse-or-fail policy.
type VerdictAgent struct {
	client CompletionClient
	model  string
}

func NewVerdictAgent(client CompletionClient, model string) *VerdictAgent {
	return &VerdictAgent{
		client: client,
		model:  model,
	}
}

// verdictResponse is the shape the classifier is instructed to return.
// "valid" is accepted as an alias for "allowed"; some models keep using
// the field name from older prompt revisions.
type verdictResponse struct {
	Allowed *bool  `json:"allowed"`
	Valid   *bool  `json:"valid"`
	Reason  string `json:"reason"`
}

func (a *VerdictAgent) Call(ctx context.Context, rulesText, messageText string) (session.Verdict, error) {
	templateValues := map[string]any{
		"rules":   rulesText,
		"message": messageText,
	}

	prompt := verdictPromptTemplate
	for key, value := range templateValues {
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", fmt.Sprint(value))
	}

	ctx, cancel := context.WithTimeout(ctx, maxVerdictDuration)
	defer cancel()

	raw, err := a.client.Complete(ctx, groq.Request{
		Model:       a.model,
		Prompt:      prompt,
		MaxTokens:   verdictMaxTokens,
		Temperature: verdictTemperature,
		JSONMode:    true,
	})
	if err != nil {
		return session.Verdict{}, fmt.Errorf("%w: %s", ErrClassifierUnavailable, err)
	}

	return parseVerdict(raw)
}

// parseVerdict enforces the response contract: anything that does not
// carry an allow/deny boolean is a malformed response, never an implicit
// allow or block. An empty reason on a blocked verdict is accepted.
func parseVerdict(raw string) (session.Verdict, error) {
	result := strings.TrimSpace(raw)
	result = strings.Trim(result, "`")
	result = strings.TrimSpace(result)
	result = strings.TrimPrefix(result, "json")
	result = strings.TrimSpace(result)

	var response verdictResponse
	if err := json.Unmarshal([]byte(result), &response); err != nil {
		return session.Verdict{}, fmt.Errorf("%w: %s", ErrResponseMalformed, err)
	}

	decision := response.Allowed
	if decision == nil {
		decision = response.Valid
	}
	if decision == nil {
		return session.Verdict{}, fmt.Errorf("%w: missing allow/deny field", ErrResponseMalformed)
	}

	verdict := session.Verdict{
		Allowed: *decision,
	}
	if !verdict.Allowed {
		verdict.Reason = strings.TrimSpace(response.Reason)
	}

	return verdict, nil
}
