package api

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/text/language"

	"github.com/amit/captainhub/internal/feedback"
)

// wsMessage is an intent sent by a websocket client
type wsMessage struct {
	Type          string          `json:"type"`
	TeamName      string          `json:"teamName"`
	CaptainName   string          `json:"captainName"`
	Name          string          `json:"name"`
	Index         *int            `json:"index"`
	BarName       string          `json:"barName"`
	ChallengeType string          `json:"challengeType"`
	Points        json.RawMessage `json:"points"`
	Notes         string          `json:"notes"`
	Action        string          `json:"action"`
}

func (s *Server) serveWS(conn *websocket.Conn) {
	lang := s.lang
	if q := conn.Query("lang"); q != "" {
		lang = feedback.ParseLocale(q)
	}

	c := s.hub.add(conn)
	defer s.hub.remove(c.id)
	log.Printf("WebSocket client %s connected", c.id)
	if s.observer != nil {
		s.observer.Audit("client_connected", c.id, "", nil)
	}

	// Send initial team state
	if err := c.send(s.initMessage(c.id)); err != nil {
		log.Printf("WebSocket write error: %v", err)
		return
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("WebSocket read error: %v", err)
			break
		}
		if err := c.send(s.dispatch(context.Background(), lang, msg)); err != nil {
			log.Printf("WebSocket write error: %v", err)
			break
		}
	}

	log.Printf("WebSocket client %s disconnected", c.id)
	if s.observer != nil {
		s.observer.Audit("client_disconnected", c.id, "", nil)
	}
}

func (s *Server) initMessage(clientID string) fiber.Map {
	return fiber.Map{
		"type":    "init",
		"client":  clientID,
		"created": s.engine.Created(),
		"team":    s.engine.Snapshot(),
		"summary": s.engine.Summary(),
	}
}

// dispatch runs one intent and returns the reply for the sender.
// Successful mutations also reach every client through the state broadcast.
func (s *Server) dispatch(ctx context.Context, lang language.Tag, msg wsMessage) fiber.Map {
	var (
		body fiber.Map
		err  error
	)
	switch msg.Type {
	case "create_team":
		body, err = s.createTeam(ctx, lang, teamRequest{TeamName: msg.TeamName, CaptainName: msg.CaptainName})
	case "add_member":
		body, err = s.addMember(ctx, lang, msg.Name)
	case "remove_member":
		index := -1
		if msg.Index != nil {
			index = *msg.Index
		}
		body, err = s.removeMember(ctx, lang, index)
	case "record_challenge":
		body, err = s.recordChallenge(ctx, lang, challengeRequest{
			BarName:       msg.BarName,
			ChallengeType: msg.ChallengeType,
			Points:        msg.Points,
			Notes:         msg.Notes,
		})
	case "captain_action":
		body, err = s.captainAction(ctx, lang, msg.Action)
	case "save_notes":
		body, err = s.saveNotes(ctx, lang, msg.Notes)
	case "get_state":
		return s.stateMessage(s.engine.Snapshot())
	default:
		return fiber.Map{
			"type":  "error",
			"for":   msg.Type,
			"error": "UNKNOWN_INTENT",
		}
	}

	if err != nil {
		reply := errorBody(lang, err)
		reply["type"] = "error"
		reply["for"] = msg.Type
		return reply
	}
	body["type"] = "result"
	body["for"] = msg.Type
	return body
}
