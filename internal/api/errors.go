package api

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"

	"github.com/amit/captainhub/internal/feedback"
	"github.com/amit/captainhub/internal/team"
)

const (
	codeInvalidBody          = "INVALID_BODY"
	codeConfirmationRequired = "CONFIRMATION_REQUIRED"
	codeExportFailed         = "EXPORT_FAILED"
	codeInternal             = "INTERNAL"
)

// statusFor maps engine errors to HTTP status codes
func statusFor(err error) int {
	e, ok := team.AsError(err)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch e.Kind {
	case team.KindValidation:
		if e.Code == team.CodeAlreadyExists {
			return fiber.StatusConflict
		}
		return fiber.StatusBadRequest
	case team.KindRoster:
		switch e.Code {
		case team.CodeIndexOutOfRange:
			return fiber.StatusNotFound
		case team.CodeMissingName:
			return fiber.StatusBadRequest
		}
		return fiber.StatusConflict
	case team.KindNotReady:
		return fiber.StatusPreconditionFailed
	}
	return fiber.StatusInternalServerError
}

func errorBody(lang language.Tag, err error) fiber.Map {
	body := fiber.Map{"feedback": feedback.ForError(lang, err)}
	if e, ok := team.AsError(err); ok {
		body["error"] = string(e.Code)
		body["kind"] = string(e.Kind)
	} else {
		body["error"] = codeInternal
	}
	return body
}

func (s *Server) fail(c *fiber.Ctx, lang language.Tag, err error) error {
	return c.Status(statusFor(err)).JSON(errorBody(lang, err))
}

func (s *Server) badBody(c *fiber.Ctx, lang language.Tag) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":    codeInvalidBody,
		"feedback": feedback.ForError(lang, team.ErrMissingField),
	})
}
