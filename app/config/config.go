package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log        Log        `yaml:"log"`
	Server     Server     `yaml:"server"`
	Classifier Classifier `yaml:"classifier"`
	Panel      Panel      `yaml:"panel"`
	Moderation Moderation `yaml:"moderation"`
	MCP        MCP        `yaml:"mcp"`
}

type Classifier struct {
	// OpenAI-compatible base url, Groq by default
	BaseURL string `yaml:"base_url" example:"https://api.groq.com/openai/v1" validate:"required"`
	// API token
	Token string `yaml:"token" example:"gsk_abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// Model used for verdicts
	Model string `yaml:"model" example:"llama-3.1-8b-instant" validate:"required"`
	// Model used for drafting rules, falls back to Model when empty
	DraftModel string `yaml:"draft_model" example:"llama-3.1-70b-versatile"`
}

type Panel struct {
	// Extra models to compare verdicts against, in addition to classifier.model
	Models []string `yaml:"models"`
}

type Moderation struct {
	// Run local spam pattern checks before calling the classifier
	Prefilter bool `yaml:"prefilter" example:"false"`
	// Maximum accepted message length in characters
	MaxMessageLength int `yaml:"max_message_length" example:"500"`
	// Maximum total length of the ruleset in characters
	MaxRulesLength int `yaml:"max_rules_length" example:"1000"`
}

type Server struct {
	// HTTP listen address
	Addr string `yaml:"addr" example:":8080" validate:"required"`
}

type MCP struct {
	// Serve moderation tools over MCP stdio
	Enabled bool `yaml:"enabled" example:"false"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Server.Addr == "" {
		result.Server.Addr = ":8080"
	}
	if result.Classifier.BaseURL == "" {
		result.Classifier.BaseURL = "https://api.groq.com/openai/v1"
	}
	if result.Classifier.DraftModel == "" {
		result.Classifier.DraftModel = result.Classifier.Model
	}
	if result.Moderation.MaxMessageLength == 0 {
		result.Moderation.MaxMessageLength = 500
	}
	if result.Moderation.MaxRulesLength == 0 {
		result.Moderation.MaxRulesLength = 1000
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
