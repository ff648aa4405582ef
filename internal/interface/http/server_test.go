package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaan-arena/arena-hub/internal/application/command"
	"github.com/gyaan-arena/arena-hub/internal/application/eventhandler"
	"github.com/gyaan-arena/arena-hub/internal/application/query"
	"github.com/gyaan-arena/arena-hub/internal/application/saga"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/messaging"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/persistence/kv"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	mem := kv.NewMemory()
	progressRepo := kv.NewProgressRepository(mem, nil)
	profileRepo := kv.NewProfileRepository(mem, nil)
	leaderboardRepo := kv.NewLeaderboardRepository(mem, nil)
	achievementRepo := kv.NewAchievementRepository(mem, nil)

	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.AsyncMode = false
	bus := messaging.NewInMemoryEventBus(busCfg)

	recordSession := command.NewRecordSessionHandler(progressRepo, bus)
	trackProgress := command.NewTrackProgressHandler(profileRepo, bus)
	submitScore := command.NewSubmitScoreHandler(leaderboardRepo, profileRepo, bus)
	checkAchievements := command.NewCheckAchievementsHandler(achievementRepo, profileRepo, bus)

	deps := Dependencies{
		RecordSession:     recordSession,
		TrackProgress:     trackProgress,
		SubmitScore:       submitScore,
		CheckAchievements: checkAchievements,
		UnlockAchievement: command.NewUnlockAchievementHandler(achievementRepo, profileRepo, bus),
		RecordLanguage:    command.NewRecordLanguageHandler(achievementRepo, bus),
		ResetProgress:     command.NewResetProgressHandler(progressRepo, bus),
		RenamePlayer:      command.NewRenamePlayerHandler(profileRepo),
		GameResultFlow: saga.NewGameResultFlow(
			recordSession, trackProgress, submitScore, checkAchievements, nil,
		),
		GetLeaderboard:  query.NewGetLeaderboardHandler(leaderboardRepo, profileRepo),
		GetDashboard:    query.NewGetDashboardHandler(progressRepo, profileRepo, leaderboardRepo),
		GetAchievements: query.NewGetAchievementsHandler(achievementRepo),
		GetShareText:    query.NewGetShareTextHandler(profileRepo),
		ExportProgress:  query.NewExportProgressHandler(progressRepo),
		Notifications:   eventhandler.NewNotificationFeed(0),
		AuthGate:        NewAuthGate(mem, time.Hour, nil),
	}

	return NewServer(cfg, deps)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, _ := resp.Data.(map[string]any)
	return data
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := doJSON(t, s.Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecordSessionEndpoint(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/sessions",
		`{"game":"math","score":8,"total":10,"completed":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	assert.Equal(t, float64(1), data["totalSessions"])
	assert.Equal(t, float64(80), data["averageScore"])
	assert.NotEmpty(t, data["sessionId"])
}

func TestRecordSessionRejectsNegativeScore(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/sessions",
		`{"game":"math","score":-5,"total":10,"completed":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestSubmitScoreRejectsNegativeScore(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/scores",
		`{"category":"science","score":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestTrackProgressRejectsCorrectAboveTotal(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/progress",
		`{"subject":"math","correct":11,"total":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestRecordSessionRejectsUnknownGame(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/sessions",
		`{"game":"history","score":5,"total":10,"completed":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordSessionRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/sessions", `{"game":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGameResultFlowEndpoint(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/games/result",
		`{"game":"math","score":8,"total":10,"completed":true,"correct":8,"questions":10}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	assert.Equal(t, float64(80), data["totalPoints"])
	assert.Equal(t, true, data["scoreAccepted"])
	assert.Equal(t, float64(1), data["subjectRank"])

	// Cumulative math score 80 unlocks first_win only.
	unlocked, ok := data["unlockedAchievements"].([]any)
	require.True(t, ok)
	require.Len(t, unlocked, 1)
}

func TestLeaderboardEndpoint(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	doJSON(t, s.Handler(), http.MethodPost, "/api/v1/games/result",
		`{"game":"science","score":9,"total":10,"completed":true,"correct":9,"questions":10}`)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/v1/leaderboard/science", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	entries, ok := data["entries"].([]any)
	require.True(t, ok)
	assert.Len(t, entries, 1)

	rec = doJSON(t, s.Handler(), http.MethodGet, "/api/v1/leaderboard/chess", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWeeklyBoardDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableWeeklyBoard = false
	s := newTestServer(t, cfg)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/v1/leaderboard/weekly", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The other boards stay up.
	rec = doJSON(t, s.Handler(), http.MethodGet, "/api/v1/leaderboard/math", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSharingDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableSharing = false
	s := newTestServer(t, cfg)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/v1/share-text", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardEndpointDefaults(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, "Guest Player", data["username"])
	assert.Equal(t, float64(1), data["level"])
}

func TestExportCSVEndpoint(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	doJSON(t, s.Handler(), http.MethodPost, "/api/v1/sessions",
		`{"game":"math","score":5,"total":10,"completed":false}`)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/v1/export.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "stem_progress_")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Timestamp,Game,Score,Total,Completed"))
}

func TestResetEndpointClearsProgressOnly(t *testing.T) {
	s := newTestServer(t, DefaultConfig())
	h := s.Handler()

	doJSON(t, h, http.MethodPost, "/api/v1/games/result",
		`{"game":"math","score":8,"total":10,"completed":true,"correct":8,"questions":10}`)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/reset", `{"reason":"fresh start"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/dashboard", "")
	data := decodeData(t, rec)
	assert.Equal(t, float64(0), data["totalSessions"])
	assert.Equal(t, float64(80), data["totalPoints"])
}

func TestLoginAndGuardedRoutes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableAuth = true
	s := newTestServer(t, cfg)
	h := s.Handler()

	// Guarded route without a token.
	rec := doJSON(t, h, http.MethodGet, "/api/v1/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Malformed credentials.
	rec = doJSON(t, h, http.MethodPost, "/api/v1/login", `{"studentId":"asha","schoolId":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// First login enrolls.
	rec = doJSON(t, h, http.MethodPost, "/api/v1/login", `{"studentId":"asha","schoolId":"school-42"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decodeData(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	// Wrong school ID after enrollment.
	rec = doJSON(t, h, http.MethodPost, "/api/v1/login", `{"studentId":"asha","schoolId":"wrong-school"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token unlocks the guarded route.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	okRec := httptest.NewRecorder()
	h.ServeHTTP(okRec, req)
	assert.Equal(t, http.StatusOK, okRec.Code)
}

func TestAuthGateSessionExpiry(t *testing.T) {
	gate := NewAuthGate(kv.NewMemory(), time.Hour, nil)

	session, err := gate.Login(context.Background(), "asha", "school-42")
	require.NoError(t, err)
	assert.True(t, gate.ValidateToken(session.Token))

	gate.Logout(session.Token)
	assert.False(t, gate.ValidateToken(session.Token))
	assert.False(t, gate.ValidateToken("unknown-token"))
}
