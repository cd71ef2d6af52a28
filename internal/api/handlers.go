package api

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/text/language"

	"github.com/amit/captainhub/internal/export"
	"github.com/amit/captainhub/internal/feedback"
)

// Routes registers the REST and websocket endpoints on app
func (s *Server) Routes(app *fiber.App) {
	// WebSocket endpoint
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(s.serveWS))

	app.Get("/health", s.handleHealth)
	app.Get("/state", s.handleState)
	app.Get("/summary", s.handleSummary)
	app.Get("/challenges", s.handleChallenges)
	app.Get("/audit", s.handleAudit)

	app.Post("/team", s.handleCreateTeam)
	app.Post("/members", s.handleAddMember)
	app.Delete("/members/:index", s.handleRemoveMember)
	app.Post("/challenges", s.handleRecordChallenge)
	app.Post("/actions/:kind", s.handleCaptainAction)
	app.Put("/notes", s.handleSaveNotes)

	app.Get("/export", s.handleExport)
	app.Post("/export/archive", s.handleArchive)
	app.Post("/reset", s.handleReset)
}

// locale honours ?lang= and falls back to the configured locale
func (s *Server) locale(c *fiber.Ctx) language.Tag {
	if q := strings.TrimSpace(c.Query("lang")); q != "" {
		return feedback.ParseLocale(q)
	}
	return s.lang
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	body := fiber.Map{
		"status":  "ok",
		"created": s.engine.Created(),
		"clients": s.hub.Count(),
	}
	if w := s.engine.PersistenceWarning(); w != nil {
		body["warning"] = w.Error()
	}
	return c.JSON(body)
}

func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"created": s.engine.Created(),
		"team":    s.engine.Snapshot(),
	})
}

func (s *Server) handleSummary(c *fiber.Ctx) error {
	return c.JSON(s.engine.Summary())
}

type challengeView struct {
	ID            int64  `json:"id"`
	BarName       string `json:"barName"`
	ChallengeType string `json:"challengeType"`
	Label         string `json:"label"`
	PointsEarned  int    `json:"pointsEarned"`
	Notes         string `json:"notes"`
	CompletedAt   string `json:"completedAt"`
}

// handleChallenges lists challenges newest first with display labels
func (s *Server) handleChallenges(c *fiber.Ctx) error {
	lang := s.locale(c)
	challenges := s.engine.Snapshot().Challenges
	views := make([]challengeView, 0, len(challenges))
	for i := len(challenges) - 1; i >= 0; i-- {
		ch := challenges[i]
		views = append(views, challengeView{
			ID:            ch.ID,
			BarName:       ch.BarName,
			ChallengeType: string(ch.ChallengeType),
			Label:         feedback.ChallengeLabel(lang, ch.ChallengeType),
			PointsEarned:  ch.PointsEarned,
			Notes:         ch.Notes,
			CompletedAt:   ch.CompletedAt,
		})
	}
	return c.JSON(fiber.Map{
		"challenges": views,
		"count":      len(views),
	})
}

func (s *Server) handleAudit(c *fiber.Ctx) error {
	if s.observer == nil {
		return c.JSON(fiber.Map{"entries": []interface{}{}})
	}
	limit := c.QueryInt("limit", 50)
	return c.JSON(fiber.Map{
		"entries": s.observer.GetRecentAudits(limit),
		"stats":   s.observer.GetStats(),
	})
}

func (s *Server) handleCreateTeam(c *fiber.Ctx) error {
	lang := s.locale(c)
	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return s.badBody(c, lang)
	}
	body, err := s.createTeam(c.UserContext(), lang, req)
	if err != nil {
		return s.fail(c, lang, err)
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

func (s *Server) handleAddMember(c *fiber.Ctx) error {
	lang := s.locale(c)
	var req memberRequest
	if err := c.BodyParser(&req); err != nil {
		return s.badBody(c, lang)
	}
	body, err := s.addMember(c.UserContext(), lang, req.Name)
	if err != nil {
		return s.fail(c, lang, err)
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

func (s *Server) handleRemoveMember(c *fiber.Ctx) error {
	lang := s.locale(c)
	index, err := c.ParamsInt("index")
	if err != nil {
		index = -1
	}
	body, err := s.removeMember(c.UserContext(), lang, index)
	if err != nil {
		return s.fail(c, lang, err)
	}
	return c.JSON(body)
}

func (s *Server) handleRecordChallenge(c *fiber.Ctx) error {
	lang := s.locale(c)
	var req challengeRequest
	if err := c.BodyParser(&req); err != nil {
		return s.badBody(c, lang)
	}
	body, err := s.recordChallenge(c.UserContext(), lang, req)
	if err != nil {
		return s.fail(c, lang, err)
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

func (s *Server) handleCaptainAction(c *fiber.Ctx) error {
	lang := s.locale(c)
	body, err := s.captainAction(c.UserContext(), lang, c.Params("kind"))
	if err != nil {
		return s.fail(c, lang, err)
	}
	return c.JSON(body)
}

func (s *Server) handleSaveNotes(c *fiber.Ctx) error {
	lang := s.locale(c)
	var req notesRequest
	if err := c.BodyParser(&req); err != nil {
		return s.badBody(c, lang)
	}
	body, err := s.saveNotes(c.UserContext(), lang, req.Notes)
	if err != nil {
		return s.fail(c, lang, err)
	}
	return c.JSON(body)
}

// handleExport downloads the backup document as a file
func (s *Server) handleExport(c *fiber.Ctx) error {
	lang := s.locale(c)
	name, data, err := export.Render(s.engine, time.Now())
	if err != nil {
		log.Printf("❌ Export failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    codeExportFailed,
			"feedback": feedback.For(lang, feedback.ExportFailed),
		})
	}
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(data)
}

// handleArchive stores a backup in the configured sink
func (s *Server) handleArchive(c *fiber.Ctx) error {
	lang := s.locale(c)
	if s.archiver == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":    codeExportFailed,
			"feedback": feedback.For(lang, feedback.ExportFailed),
		})
	}
	res, err := s.archiver.Archive(c.UserContext())
	if err != nil {
		log.Printf("❌ Archive failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":    codeExportFailed,
			"feedback": feedback.For(lang, feedback.ExportFailed),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"backup":   res,
		"feedback": feedback.For(lang, feedback.ExportCreated),
	})
}

// handleReset wipes everything, but only with an explicit confirmation
func (s *Server) handleReset(c *fiber.Ctx) error {
	lang := s.locale(c)
	var req resetRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return s.badBody(c, lang)
		}
	}
	if !req.Confirm {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    codeConfirmationRequired,
			"feedback": feedback.For(lang, feedback.ResetConfirm),
		})
	}
	return c.JSON(s.reset(c.UserContext(), lang))
}
