// Package http implements the REST API for Gyaan Arena Hub.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/application/command"
	"github.com/gyaan-arena/arena-hub/internal/application/query"
	"github.com/gyaan-arena/arena-hub/internal/application/saga"
	"github.com/gyaan-arena/arena-hub/internal/domain/achievement"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Gyaan Arena Hub API",
		"version":     "v1",
		"description": "Progress, leaderboard and achievement API for the Gyaan Arena quiz suite",
		"endpoints": map[string]string{
			"health":      "/health",
			"login":       "/api/v1/login",
			"dashboard":   "/api/v1/dashboard",
			"leaderboard": "/api/v1/leaderboard/{category}",
			"export":      "/api/v1/export.csv",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN
// ══════════════════════════════════════════════════════════════════════════════

type loginRequest struct {
	StudentID string `json:"studentId"`
	SchoolID  string `json:"schoolId"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleLogin handles POST /api/v1/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.deps.AuthGate == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Login is not configured")
		return
	}

	var req loginRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	session, err := s.deps.AuthGate.Login(r.Context(), req.StudentID, req.SchoolID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Student ID or school ID is incorrect")
		case errors.Is(err, ErrMalformedCredentials):
			writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			s.logger.Error("login failed", logger.Err(err))
			writeJSONError(w, http.StatusInternalServerError, "internal_error", "Login failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// WRITE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type recordSessionRequest struct {
	Game      string  `json:"game"`
	Score     float64 `json:"score"`
	Total     float64 `json:"total"`
	Completed bool    `json:"completed"`
}

type recordSessionResponse struct {
	SessionID     string    `json:"sessionId"`
	TotalSessions int       `json:"totalSessions"`
	Engagement    int       `json:"engagement"`
	AverageScore  int       `json:"averageScore"`
	RecordedAt    time.Time `json:"recordedAt"`
}

// handleRecordSession handles POST /api/v1/sessions.
func (s *Server) handleRecordSession(w http.ResponseWriter, r *http.Request) {
	var req recordSessionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RecordSession.Handle(r.Context(), command.RecordSessionCommand{
		Game:      req.Game,
		Score:     req.Score,
		Total:     req.Total,
		Completed: req.Completed,
	})
	if err != nil {
		s.writeCommandError(w, err, "Failed to record session")
		return
	}

	writeJSON(w, http.StatusCreated, recordSessionResponse{
		SessionID:     result.SessionID,
		TotalSessions: result.TotalSessions,
		Engagement:    result.Engagement,
		AverageScore:  result.AverageScore,
		RecordedAt:    result.RecordedAt,
	})
}

type trackProgressRequest struct {
	Subject string `json:"subject"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

type trackProgressResponse struct {
	PointsEarned int                    `json:"pointsEarned"`
	TotalPoints  int                    `json:"totalPoints"`
	Level        int                    `json:"level"`
	LeveledUp    bool                   `json:"leveledUp"`
	DailyStreak  int                    `json:"dailyStreak"`
	SubjectStats query.SubjectStatsDTO  `json:"subjectStats"`
}

// handleTrackProgress handles POST /api/v1/progress.
func (s *Server) handleTrackProgress(w http.ResponseWriter, r *http.Request) {
	var req trackProgressRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.TrackProgress.Handle(r.Context(), command.TrackProgressCommand{
		Subject: req.Subject,
		Correct: req.Correct,
		Total:   req.Total,
	})
	if err != nil {
		s.writeCommandError(w, err, "Failed to track progress")
		return
	}

	writeJSON(w, http.StatusOK, trackProgressResponse{
		PointsEarned: result.PointsEarned,
		TotalPoints:  result.TotalPoints,
		Level:        result.Level,
		LeveledUp:    result.LeveledUp,
		DailyStreak:  result.DailyStreak,
		SubjectStats: query.SubjectStatsDTO{
			Score:       result.SubjectStats.Score,
			GamesPlayed: result.SubjectStats.GamesPlayed,
			Accuracy:    result.SubjectStats.Accuracy,
		},
	})
}

type submitScoreRequest struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

type submitScoreResponse struct {
	Accepted    bool   `json:"accepted"`
	Username    string `json:"username"`
	SubjectRank int    `json:"subjectRank"`
	OverallRank int    `json:"overallRank"`
}

// handleSubmitScore handles POST /api/v1/scores.
func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var req submitScoreRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.SubmitScore.Handle(r.Context(), command.SubmitScoreCommand{
		Category: req.Category,
		Score:    req.Score,
	})
	if err != nil {
		s.writeCommandError(w, err, "Failed to submit score")
		return
	}

	writeJSON(w, http.StatusOK, submitScoreResponse{
		Accepted:    result.Accepted,
		Username:    result.Username,
		SubjectRank: result.SubjectRank,
		OverallRank: result.OverallRank,
	})
}

type checkAchievementsRequest struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
}

type achievementsUnlockedResponse struct {
	Unlocked []achievement.Definition `json:"unlocked"`
}

// handleCheckAchievements handles POST /api/v1/achievements/check.
func (s *Server) handleCheckAchievements(w http.ResponseWriter, r *http.Request) {
	var req checkAchievementsRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.CheckAchievements.Handle(r.Context(), command.CheckAchievementsCommand{
		Subject: req.Subject,
		Score:   req.Score,
	})
	if err != nil {
		s.writeCommandError(w, err, "Failed to check achievements")
		return
	}

	writeJSON(w, http.StatusOK, achievementsUnlockedResponse{Unlocked: result.Unlocked})
}

type unlockAchievementRequest struct {
	ID string `json:"id"`
}

type unlockAchievementResponse struct {
	Achievement achievement.Definition `json:"achievement"`
	Fresh       bool                   `json:"fresh"`
}

// handleUnlockAchievement handles POST /api/v1/achievements/unlock.
// External triggers only: streaks, polyglot and the share button.
func (s *Server) handleUnlockAchievement(w http.ResponseWriter, r *http.Request) {
	var req unlockAchievementRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.UnlockAchievement.Handle(r.Context(), command.UnlockAchievementCommand{
		ID: req.ID,
	})
	if err != nil {
		s.writeCommandError(w, err, "Failed to unlock achievement")
		return
	}

	writeJSON(w, http.StatusOK, unlockAchievementResponse{
		Achievement: result.Achievement,
		Fresh:       result.Fresh,
	})
}

type recordLanguageRequest struct {
	Language string `json:"language"`
}

type recordLanguageResponse struct {
	Language      string `json:"language"`
	Count         int    `json:"count"`
	LanguagesUsed int    `json:"languagesUsed"`
}

// handleRecordLanguage handles POST /api/v1/languages.
func (s *Server) handleRecordLanguage(w http.ResponseWriter, r *http.Request) {
	var req recordLanguageRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RecordLanguage.Handle(r.Context(), command.RecordLanguageCommand{
		Language: req.Language,
	})
	if err != nil {
		s.writeCommandError(w, err, "Failed to record language use")
		return
	}

	writeJSON(w, http.StatusOK, recordLanguageResponse{
		Language:      result.Language,
		Count:         result.Count,
		LanguagesUsed: result.LanguagesUsed,
	})
}

type gameResultRequest struct {
	Game      string  `json:"game"`
	Score     float64 `json:"score"`
	Total     float64 `json:"total"`
	Completed bool    `json:"completed"`
	Correct   int     `json:"correct"`
	Questions int     `json:"questions"`
}

type gameResultResponse struct {
	SessionID            string                   `json:"sessionId"`
	Engagement           int                      `json:"engagement"`
	AverageScore         int                      `json:"averageScore"`
	PointsEarned         int                      `json:"pointsEarned"`
	TotalPoints          int                      `json:"totalPoints"`
	Level                int                      `json:"level"`
	LeveledUp            bool                     `json:"leveledUp"`
	DailyStreak          int                      `json:"dailyStreak"`
	ScoreAccepted        bool                     `json:"scoreAccepted"`
	SubjectRank          int                      `json:"subjectRank"`
	OverallRank          int                      `json:"overallRank"`
	UnlockedAchievements []achievement.Definition `json:"unlockedAchievements"`
	ProcessedAt          time.Time                `json:"processedAt"`
}

// handleGameResult handles POST /api/v1/games/result.
// Runs the full orchestrated flow: session, progress, score, achievements.
func (s *Server) handleGameResult(w http.ResponseWriter, r *http.Request) {
	var req gameResultRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.GameResultFlow.Execute(r.Context(), saga.GameResultInput{
		Game:      req.Game,
		Score:     req.Score,
		Total:     req.Total,
		Completed: req.Completed,
		Correct:   req.Correct,
		Questions: req.Questions,
	})
	if err != nil {
		s.writeCommandError(w, err, "Failed to process game result")
		return
	}

	writeJSON(w, http.StatusOK, gameResultResponse{
		SessionID:            result.SessionID,
		Engagement:           result.Engagement,
		AverageScore:         result.AverageScore,
		PointsEarned:         result.PointsEarned,
		TotalPoints:          result.TotalPoints,
		Level:                result.Level,
		LeveledUp:            result.LeveledUp,
		DailyStreak:          result.DailyStreak,
		ScoreAccepted:        result.ScoreAccepted,
		SubjectRank:          result.SubjectRank,
		OverallRank:          result.OverallRank,
		UnlockedAchievements: result.UnlockedAchievements,
		ProcessedAt:          result.ProcessedAt,
	})
}

type renamePlayerRequest struct {
	Username string `json:"username"`
}

type renamePlayerResponse struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// handleRenamePlayer handles POST /api/v1/profile/rename.
func (s *Server) handleRenamePlayer(w http.ResponseWriter, r *http.Request) {
	var req renamePlayerRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RenamePlayer.Handle(r.Context(), command.RenamePlayerCommand{
		Username: req.Username,
	})
	if err != nil {
		s.writeCommandError(w, err, "Failed to rename player")
		return
	}

	writeJSON(w, http.StatusOK, renamePlayerResponse{
		Username: result.Username,
		Avatar:   result.Avatar,
	})
}

type resetRequest struct {
	Reason string `json:"reason"`
}

// handleReset handles POST /api/v1/reset.
// Clears the session log only; profile, boards and badges survive.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if r.Body != nil && r.ContentLength > 0 {
		if !s.decodeBody(w, r, &req) {
			return
		}
	}

	result, err := s.deps.ResetProgress.Handle(r.Context(), command.ResetProgressCommand{
		Reason: req.Reason,
	})
	if err != nil {
		s.writeCommandError(w, err, "Failed to reset progress")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"cleared": result.Cleared})
}

// ══════════════════════════════════════════════════════════════════════════════
// READ HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeaderboard handles GET /api/v1/leaderboard/{category}.
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")

	if !s.config.EnableWeeklyBoard && category == shared.CategoryWeekly.String() {
		writeJSONError(w, http.StatusNotFound, "not_found", "Weekly leaderboard is disabled")
		return
	}

	result, err := s.deps.GetLeaderboard.Handle(r.Context(), query.GetLeaderboardQuery{
		Category: category,
	})
	if err != nil {
		s.writeCommandError(w, err, "Failed to get leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetDashboard handles GET /api/v1/dashboard.
func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetDashboard.Handle(r.Context(), query.GetDashboardQuery{})
	if err != nil {
		s.writeCommandError(w, err, "Failed to get dashboard")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetAchievements handles GET /api/v1/achievements.
func (s *Server) handleGetAchievements(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetAchievements.Handle(r.Context(), query.GetAchievementsQuery{})
	if err != nil {
		s.writeCommandError(w, err, "Failed to get achievements")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetShareText handles GET /api/v1/share-text.
func (s *Server) handleGetShareText(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetShareText.Handle(r.Context(), query.GetShareTextQuery{})
	if err != nil {
		s.writeCommandError(w, err, "Failed to get share text")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleExportCSV handles GET /api/v1/export.csv.
// The response is the raw CSV file, not the JSON envelope.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ExportProgress.Handle(r.Context(), query.ExportProgressQuery{})
	if err != nil {
		s.writeCommandError(w, err, "Failed to export progress")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.CSV))
}

// handleGetNotifications handles GET /api/v1/notifications.
// Drains the pending toast feed; each toast is delivered once.
func (s *Server) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	if s.deps.Notifications == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"toasts": []interface{}{}})
		return
	}

	toasts := s.deps.Notifications.Drain()
	writeJSON(w, http.StatusOK, map[string]interface{}{"toasts": toasts})
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST / ERROR HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody decodes a JSON request body, writing a 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON")
		return false
	}
	return true
}

// writeCommandError maps application errors to HTTP statuses.
func (s *Server) writeCommandError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		s.logger.Error("request failed", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}
