package server

import (
	"convoease/app/service/moderation"
	"convoease/app/service/rules"
	"errors"

	"github.com/gofiber/fiber/v2"
)

const defaultSender = "User"

type postMessageRequest struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type putRulesRequest struct {
	Rules []string `json:"rules"`
}

type draftRulesRequest struct {
	Description string `json:"description"`
}

type panelRequest struct {
	Text string `json:"text"`
}

func (s *Service) handlePostMessage(c *fiber.Ctx) error {
	var req postMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if req.Sender == "" {
		req.Sender = defaultSender
	}

	entry, err := s.moderationSvc.Evaluate(c.Context(), req.Sender, req.Text)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(entry)
}

func (s *Service) handleGetTranscript(c *fiber.Ctx) error {
	return c.JSON(s.sessionSvc.Transcript())
}

func (s *Service) handleGetFlagged(c *fiber.Ctx) error {
	return c.JSON(s.sessionSvc.Flagged())
}

func (s *Service) handleGetStats(c *fiber.Ctx) error {
	return c.JSON(s.sessionSvc.Stats())
}

func (s *Service) handleGetRules(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"rules": s.rulesSvc.Snapshot(),
	})
}

func (s *Service) handlePutRules(c *fiber.Ctx) error {
	var req putRulesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := s.rulesSvc.Update(req.Rules); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"rules": s.rulesSvc.Snapshot(),
	})
}

func (s *Service) handleGetRuleTemplates(c *fiber.Ctx) error {
	return c.JSON(s.rulesSvc.Templates())
}

func (s *Service) handleDraftRules(c *fiber.Ctx) error {
	var req draftRulesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	drafted, err := s.rulesSvc.Draft(c.Context(), req.Description)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"rules": drafted,
	})
}

func (s *Service) handlePanel(c *fiber.Ctx) error {
	var req panelRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	report, err := s.panelSvc.Evaluate(c.Context(), req.Text)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(report)
}

func (s *Service) handleClear(c *fiber.Ctx) error {
	s.moderationSvc.Clear()

	return c.JSON(s.sessionSvc.Stats())
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

// serviceError maps the pipeline's error kinds onto HTTP statuses.
// Classifier failures are surfaced as gateway errors so callers can
// tell them apart from an actual block decision.
func serviceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, moderation.ErrInvalidMessage),
		errors.Is(err, rules.ErrEmptyRuleSet),
		errors.Is(err, rules.ErrRulesTooLong):
		status = fiber.StatusBadRequest
	case errors.Is(err, moderation.ErrClassifierUnavailable),
		errors.Is(err, moderation.ErrResponseMalformed):
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
