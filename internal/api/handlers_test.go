package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/amit/captainhub/internal/export"
	"github.com/amit/captainhub/internal/feedback"
	"github.com/amit/captainhub/internal/observability"
	"github.com/amit/captainhub/internal/store"
	"github.com/amit/captainhub/internal/team"
)

type testSink struct {
	names []string
	err   error
}

func (s *testSink) Put(_ context.Context, name string, _ []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.names = append(s.names, name)
	return "mem://" + name, nil
}

type fixture struct {
	app    *fiber.App
	server *Server
	engine *team.Engine
	store  *store.Memory
	sink   *testSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	observer, err := observability.NewObserver(observability.ObserverConfig{Enabled: true})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	st := store.NewMemory()
	engine := team.NewEngine(context.Background(), st, team.WithAuditor(observer))
	sink := &testSink{}
	server := NewServer(engine, observer, export.NewArchiver(engine, sink, observer), feedback.Italian)

	app := fiber.New()
	server.Routes(app)
	return &fixture{app: app, server: server, engine: engine, store: st, sink: sink}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("%s %s: bad json %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, out
}

func (f *fixture) createTeam(t *testing.T) {
	t.Helper()
	status, body := f.do(t, http.MethodPost, "/team", map[string]string{"teamName": "Spartani", "captainName": "Leonida"})
	if status != fiber.StatusCreated {
		t.Fatalf("create team status = %d body = %v", status, body)
	}
}

func feedbackTitle(body map[string]interface{}) string {
	fb, _ := body["feedback"].(map[string]interface{})
	title, _ := fb["title"].(string)
	return title
}

func TestCreateTeamEndpoint(t *testing.T) {
	f := newFixture(t)
	status, body := f.do(t, http.MethodPost, "/team", map[string]string{"teamName": "Spartani", "captainName": "Leonida"})
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d, body = %v", status, body)
	}
	if feedbackTitle(body) != "🏆 Dinastia Fondata!" {
		t.Errorf("feedback = %v", body["feedback"])
	}
	tm, _ := body["team"].(map[string]interface{})
	if tm["teamName"] != "Spartani" || tm["captainName"] != "Leonida" {
		t.Errorf("team = %v", tm)
	}

	status, body = f.do(t, http.MethodPost, "/team", map[string]string{"teamName": "Ateniesi", "captainName": "Pericle"})
	if status != fiber.StatusConflict || body["error"] != string(team.CodeAlreadyExists) {
		t.Errorf("second create: status = %d body = %v", status, body)
	}
}

func TestCreateTeamValidation(t *testing.T) {
	f := newFixture(t)
	status, body := f.do(t, http.MethodPost, "/team", map[string]string{"teamName": "Spartani"})
	if status != fiber.StatusBadRequest || body["error"] != string(team.CodeMissingField) {
		t.Errorf("missing captain: status = %d body = %v", status, body)
	}
	if feedbackTitle(body) != "⚠️ Campi Obbligatori" {
		t.Errorf("feedback = %v", body["feedback"])
	}

	status, body = f.do(t, http.MethodPost, "/team", map[string]string{"teamName": "Ab", "captainName": "Leonida"})
	if status != fiber.StatusBadRequest || body["error"] != string(team.CodeNameTooShort) {
		t.Errorf("short name: status = %d body = %v", status, body)
	}
}

func TestNotReadyIs412(t *testing.T) {
	f := newFixture(t)
	status, body := f.do(t, http.MethodPost, "/members", map[string]string{"name": "Brasida"})
	if status != fiber.StatusPreconditionFailed || body["error"] != string(team.CodeNotReady) {
		t.Errorf("add member: status = %d body = %v", status, body)
	}
	status, _ = f.do(t, http.MethodPost, "/actions/rally", nil)
	if status != fiber.StatusPreconditionFailed {
		t.Errorf("rally: status = %d", status)
	}
}

func TestMembersEndpoints(t *testing.T) {
	f := newFixture(t)
	f.createTeam(t)

	status, body := f.do(t, http.MethodPost, "/members", map[string]string{"name": "Brasida"})
	if status != fiber.StatusCreated || feedbackTitle(body) != "⚡ Nuovo Atleta!" {
		t.Fatalf("add: status = %d body = %v", status, body)
	}

	status, body = f.do(t, http.MethodPost, "/members", map[string]string{"name": "brasida"})
	if status != fiber.StatusConflict || body["error"] != string(team.CodeDuplicateName) {
		t.Errorf("duplicate: status = %d body = %v", status, body)
	}

	status, body = f.do(t, http.MethodPost, "/members", map[string]string{"name": "  "})
	if status != fiber.StatusBadRequest || body["error"] != string(team.CodeMissingName) {
		t.Errorf("blank: status = %d body = %v", status, body)
	}

	status, body = f.do(t, http.MethodDelete, "/members/0", nil)
	if status != fiber.StatusConflict || body["error"] != string(team.CodeCannotRemoveCaptain) {
		t.Errorf("remove captain: status = %d body = %v", status, body)
	}

	status, _ = f.do(t, http.MethodDelete, "/members/7", nil)
	if status != fiber.StatusNotFound {
		t.Errorf("remove missing: status = %d", status)
	}
	status, _ = f.do(t, http.MethodDelete, "/members/abc", nil)
	if status != fiber.StatusNotFound {
		t.Errorf("remove bad index: status = %d", status)
	}

	status, body = f.do(t, http.MethodDelete, "/members/1", nil)
	if status != fiber.StatusOK || feedbackTitle(body) != "👋 Atleta Partito" {
		t.Errorf("remove: status = %d body = %v", status, body)
	}
	if n := len(f.engine.Snapshot().Members); n != 1 {
		t.Errorf("members = %d, want 1", n)
	}
}

func TestRosterFullFeedback(t *testing.T) {
	f := newFixture(t)
	f.createTeam(t)
	for _, name := range []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7"} {
		if status, body := f.do(t, http.MethodPost, "/members", map[string]string{"name": name}); status != fiber.StatusCreated {
			t.Fatalf("add %s: status = %d body = %v", name, status, body)
		}
	}
	status, body := f.do(t, http.MethodPost, "/members", map[string]string{"name": "A8"})
	if status != fiber.StatusConflict || body["error"] != string(team.CodeRosterFull) {
		t.Fatalf("full: status = %d body = %v", status, body)
	}
	fb := body["feedback"].(map[string]interface{})
	if !strings.Contains(fb["message"].(string), "8 atleti") {
		t.Errorf("feedback = %v", fb)
	}
}

func TestRecordChallengeAcceptsStringAndNumberPoints(t *testing.T) {
	f := newFixture(t)
	f.createTeam(t)

	status, body := f.do(t, http.MethodPost, "/challenges", map[string]interface{}{
		"barName": "Taverna Zeus", "challengeType": "quiz", "points": "85",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("string points: status = %d body = %v", status, body)
	}
	if body["label"] != "🧠 Quiz Olimpico" || feedbackTitle(body) != "🎯 Sfida Registrata!" {
		t.Errorf("body = %v", body)
	}

	status, _ = f.do(t, http.MethodPost, "/challenges", map[string]interface{}{
		"barName": "Bar Olimpo", "challengeType": "final", "points": 40,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("numeric points: status = %d", status)
	}

	status, _ = f.do(t, http.MethodPost, "/challenges", map[string]interface{}{
		"barName": "Bar Olimpo", "challengeType": "penalty", "points": "tanti",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("garbage points: status = %d", status)
	}

	stats := f.engine.Snapshot().Stats
	if stats.TotalPoints != 125 || stats.ChallengesCompleted != 3 || stats.BarsVisited != 2 {
		t.Errorf("stats = %+v", stats)
	}

	status, body = f.do(t, http.MethodPost, "/challenges", map[string]interface{}{
		"barName": "Bar Olimpo", "challengeType": "karaoke",
	})
	if status != fiber.StatusBadRequest || body["error"] != string(team.CodeMissingField) {
		t.Errorf("bad type: status = %d body = %v", status, body)
	}

	_, body = f.do(t, http.MethodGet, "/challenges?lang=en", nil)
	list := body["challenges"].([]interface{})
	if len(list) != 3 {
		t.Fatalf("challenges = %v", list)
	}
	first := list[0].(map[string]interface{})
	if first["challengeType"] != "penalty" || first["label"] != "😅 Goliardic Forfeits" {
		t.Errorf("newest challenge = %v", first)
	}
}

func TestPointsFrom(t *testing.T) {
	cases := map[string]int{
		``:                      0,
		`null`:                  0,
		`42`:                    42,
		`12.9`:                  12,
		`-5`:                    0,
		`"60 punti"`:            60,
		`"-3"`:                  0,
		`true`:                  0,
		`1e20`:                  team.MaxPoints,
		`"1e20"`:                1,
		`"9223372036854775807"`: team.MaxPoints,
	}
	for raw, want := range cases {
		if got := pointsFrom(json.RawMessage(raw)); got != want {
			t.Errorf("pointsFrom(%s) = %d, want %d", raw, got, want)
		}
	}
}

func TestCaptainActionEndpoint(t *testing.T) {
	f := newFixture(t)
	f.createTeam(t)

	status, body := f.do(t, http.MethodPost, "/actions/strategy", nil)
	if status != fiber.StatusOK || feedbackTitle(body) != "🗺️ CONSIGLIO DI GUERRA!" {
		t.Fatalf("strategy: status = %d body = %v", status, body)
	}
	delta := body["delta"].(map[string]interface{})
	if delta["strategy"].(float64) != 15 {
		t.Errorf("delta = %v", delta)
	}

	status, body = f.do(t, http.MethodPost, "/actions/feast", nil)
	if status != fiber.StatusBadRequest || body["error"] != string(team.CodeUnknownAction) {
		t.Errorf("unknown: status = %d body = %v", status, body)
	}

	status, _ = f.do(t, http.MethodPost, "/actions/VICTORY", nil)
	if status != fiber.StatusOK || f.engine.Snapshot().Stats.Morale != 100 {
		t.Errorf("victory: status = %d", status)
	}
}

func TestNotesEndpoint(t *testing.T) {
	f := newFixture(t)
	f.createTeam(t)
	status, body := f.do(t, http.MethodPut, "/notes?lang=en", map[string]string{"notes": "Attack at dawn"})
	if status != fiber.StatusOK || feedbackTitle(body) != "📜 Notes Archived!" {
		t.Fatalf("status = %d body = %v", status, body)
	}
	if f.engine.Snapshot().StrategyNotes != "Attack at dawn" {
		t.Errorf("notes not saved")
	}
}

func TestPersistenceWarningIsReported(t *testing.T) {
	f := newFixture(t)
	f.createTeam(t)
	f.store.SaveErr = errors.New("disk full")

	status, body := f.do(t, http.MethodPost, "/members", map[string]string{"name": "Brasida"})
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d body = %v", status, body)
	}
	if _, ok := body["warning"]; !ok {
		t.Errorf("expected warning in %v", body)
	}
	_, health := f.do(t, http.MethodGet, "/health", nil)
	if !strings.Contains(health["warning"].(string), "disk full") {
		t.Errorf("health = %v", health)
	}
}

func TestExportDownload(t *testing.T) {
	f := newFixture(t)
	f.createTeam(t)

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	resp, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatalf("GET /export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	disposition := resp.Header.Get("Content-Disposition")
	if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, "olimpiadi_spartani_backup_") {
		t.Errorf("Content-Disposition = %q", disposition)
	}

	data, _ := io.ReadAll(resp.Body)
	doc, err := team.Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if doc.TeamName != "Spartani" || len(doc.Members) != 1 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestArchiveEndpoint(t *testing.T) {
	f := newFixture(t)
	f.createTeam(t)

	status, body := f.do(t, http.MethodPost, "/export/archive", nil)
	if status != fiber.StatusCreated || feedbackTitle(body) != "💾 Backup Creato!" {
		t.Fatalf("status = %d body = %v", status, body)
	}
	if len(f.sink.names) != 1 {
		t.Errorf("sink = %v", f.sink.names)
	}

	f.sink.err = errors.New("offline")
	status, body = f.do(t, http.MethodPost, "/export/archive", nil)
	if status != fiber.StatusBadGateway || feedbackTitle(body) != "❌ Errore Export" {
		t.Errorf("failure: status = %d body = %v", status, body)
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	f.createTeam(t)

	status, body := f.do(t, http.MethodPost, "/reset", map[string]bool{"confirm": false})
	if status != fiber.StatusBadRequest || body["error"] != codeConfirmationRequired {
		t.Fatalf("unconfirmed: status = %d body = %v", status, body)
	}
	if !f.engine.Created() {
		t.Fatal("unconfirmed reset wiped the team")
	}

	status, _ = f.do(t, http.MethodPost, "/reset", map[string]bool{"confirm": true})
	if status != fiber.StatusOK || f.engine.Created() {
		t.Fatalf("confirmed: status = %d created = %v", status, f.engine.Created())
	}
	if _, ok, _ := f.store.Load(context.Background(), team.StorageKey); ok {
		t.Error("stored blob survived reset")
	}
}

func TestSummaryAndAudit(t *testing.T) {
	f := newFixture(t)
	f.createTeam(t)
	f.do(t, http.MethodPost, "/members", map[string]string{"name": "Brasida"})

	_, summary := f.do(t, http.MethodGet, "/summary", nil)
	if summary["teamName"] != "Spartani" || summary["memberCount"].(float64) != 2 {
		t.Errorf("summary = %v", summary)
	}

	_, audit := f.do(t, http.MethodGet, "/audit?limit=1", nil)
	entries := audit["entries"].([]interface{})
	if len(entries) != 1 || entries[0].(map[string]interface{})["event"] != "member_added" {
		t.Errorf("audit = %v", entries)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{team.ErrMissingField, fiber.StatusBadRequest},
		{team.ErrAlreadyExists, fiber.StatusConflict},
		{team.ErrNotReady, fiber.StatusPreconditionFailed},
		{team.ErrRosterFull, fiber.StatusConflict},
		{team.ErrIndexOutOfRange, fiber.StatusNotFound},
		{team.ErrMissingName, fiber.StatusBadRequest},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
