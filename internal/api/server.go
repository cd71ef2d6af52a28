package api

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"

	"github.com/amit/captainhub/internal/export"
	"github.com/amit/captainhub/internal/feedback"
	"github.com/amit/captainhub/internal/observability"
	"github.com/amit/captainhub/internal/team"
)

// Server exposes the team engine over HTTP and websocket
type Server struct {
	engine   *team.Engine
	observer *observability.Observer
	archiver *export.Archiver
	hub      *Hub
	lang     language.Tag
}

// NewServer wires the engine to the transport. archiver may be nil when no
// backup sink is configured.
func NewServer(engine *team.Engine, observer *observability.Observer, archiver *export.Archiver, lang language.Tag) *Server {
	return &Server{
		engine:   engine,
		observer: observer,
		archiver: archiver,
		hub:      NewHub(),
		lang:     lang,
	}
}

// Hub returns the websocket client registry
func (s *Server) Hub() *Hub {
	return s.hub
}

type teamRequest struct {
	TeamName    string `json:"teamName"`
	CaptainName string `json:"captainName"`
}

type memberRequest struct {
	Name string `json:"name"`
}

type challengeRequest struct {
	BarName       string          `json:"barName"`
	ChallengeType string          `json:"challengeType"`
	Points        json.RawMessage `json:"points"`
	Notes         string          `json:"notes"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

// points arrive as a number or as raw form text
func pointsFrom(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return team.ParsePoints(text)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil || n <= 0 {
		return 0
	}
	if n >= team.MaxPoints {
		return team.MaxPoints
	}
	return int(n)
}

// Every mutation below returns the response body on success and broadcasts
// the new state to websocket clients.

func (s *Server) createTeam(ctx context.Context, lang language.Tag, req teamRequest) (fiber.Map, error) {
	t, err := s.engine.CreateTeam(ctx, req.TeamName, req.CaptainName)
	if err != nil {
		return nil, err
	}
	return s.changed(lang, fiber.Map{
		"team":     t,
		"feedback": feedback.For(lang, feedback.TeamCreated, t.TeamName, t.CaptainName),
	}), nil
}

func (s *Server) addMember(ctx context.Context, lang language.Tag, name string) (fiber.Map, error) {
	m, err := s.engine.AddMember(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.changed(lang, fiber.Map{
		"member":   m,
		"feedback": feedback.For(lang, feedback.MemberAdded, m.Name),
	}), nil
}

func (s *Server) removeMember(ctx context.Context, lang language.Tag, index int) (fiber.Map, error) {
	m, err := s.engine.RemoveMember(ctx, index)
	if err != nil {
		return nil, err
	}
	return s.changed(lang, fiber.Map{
		"member":   m,
		"feedback": feedback.For(lang, feedback.MemberRemoved, m.Name),
	}), nil
}

func (s *Server) recordChallenge(ctx context.Context, lang language.Tag, req challengeRequest) (fiber.Map, error) {
	ct, _ := team.ParseChallengeType(req.ChallengeType)
	c, err := s.engine.RecordChallenge(ctx, req.BarName, ct, pointsFrom(req.Points), req.Notes)
	if err != nil {
		return nil, err
	}
	return s.changed(lang, fiber.Map{
		"challenge": c,
		"label":     feedback.ChallengeLabel(lang, c.ChallengeType),
		"feedback":  feedback.ForChallenge(lang, c),
	}), nil
}

func (s *Server) captainAction(ctx context.Context, lang language.Tag, raw string) (fiber.Map, error) {
	kind, err := team.ParseActionKind(raw)
	if err != nil {
		return nil, err
	}
	delta, err := s.engine.ApplyCaptainAction(ctx, kind)
	if err != nil {
		return nil, err
	}
	return s.changed(lang, fiber.Map{
		"action":   kind,
		"delta":    delta,
		"feedback": feedback.ForAction(lang, kind),
	}), nil
}

func (s *Server) saveNotes(ctx context.Context, lang language.Tag, notes string) (fiber.Map, error) {
	if err := s.engine.SaveNotes(ctx, notes); err != nil {
		return nil, err
	}
	return s.changed(lang, fiber.Map{
		"feedback": feedback.For(lang, feedback.NotesSaved),
	}), nil
}

func (s *Server) reset(ctx context.Context, lang language.Tag) fiber.Map {
	s.engine.ResetAll(ctx)
	return s.changed(lang, fiber.Map{
		"feedback": feedback.For(lang, feedback.TeamReset),
	})
}

// changed completes a success body with the fresh team and pushes it to
// every websocket client
func (s *Server) changed(lang language.Tag, body fiber.Map) fiber.Map {
	snapshot := s.engine.Snapshot()
	if _, ok := body["team"]; !ok {
		body["team"] = snapshot
	}
	if w := s.engine.PersistenceWarning(); w != nil {
		body["warning"] = feedback.ForError(lang, w)
	}
	s.hub.Broadcast(s.stateMessage(snapshot))
	return body
}

func (s *Server) stateMessage(t team.Team) fiber.Map {
	return fiber.Map{
		"type":    "state",
		"team":    t,
		"summary": s.engine.Summary(),
	}
}
