package query

import (
	"context"
	"fmt"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/domain/leaderboard"
	"github.com/gyaan-arena/arena-hub/internal/domain/profile"
	"github.com/gyaan-arena/arena-hub/internal/domain/progress"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// Сводная модель чтения для главного экрана: вовлечённость, средний
// балл, профиль, позиция в общем зачёте. Отсутствующие документы
// читаются как состояния по умолчанию.
// ══════════════════════════════════════════════════════════════════════════════

// GetDashboardQuery содержит параметры запроса сводки.
type GetDashboardQuery struct {
	// At - момент, относительно которого считаются производные
	// метрики (ноль = сейчас).
	At time.Time
}

// SubjectStatsDTO - статистика по одному предмету.
type SubjectStatsDTO struct {
	// Score - накопленные очки по предмету.
	Score int `json:"score"`

	// GamesPlayed - количество сыгранных раундов.
	GamesPlayed int `json:"gamesPlayed"`

	// Accuracy - средняя точность (0-100).
	Accuracy int `json:"accuracy"`
}

// GetDashboardResult содержит сводку для главного экрана.
type GetDashboardResult struct {
	// Username - имя игрока.
	Username string `json:"username"`

	// Avatar - однобуквенный аватар.
	Avatar string `json:"avatar"`

	// Level - уровень игрока.
	Level int `json:"level"`

	// TotalPoints - суммарные очки.
	TotalPoints int `json:"totalPoints"`

	// DailyStreak - текущая серия дней.
	DailyStreak int `json:"dailyStreak"`

	// TotalSessions - количество сессий в журнале.
	TotalSessions int `json:"totalSessions"`

	// CompletedSessions - количество завершённых сессий.
	CompletedSessions int `json:"completedSessions"`

	// Engagement - оценка вовлечённости (0-100).
	Engagement int `json:"engagement"`

	// AverageScore - взвешенный средний балл (0-100).
	AverageScore int `json:"averageScore"`

	// GamesPlayed - всего раундов по всем предметам.
	GamesPlayed int `json:"gamesPlayed"`

	// AverageAccuracy - средняя точность по предметам (0-100).
	AverageAccuracy int `json:"averageAccuracy"`

	// BestSubject - предмет с наибольшим счётом (пусто, если игр не было).
	BestSubject string `json:"bestSubject,omitempty"`

	// Subjects - статистика по каждому предмету.
	Subjects map[string]SubjectStatsDTO `json:"subjects"`

	// OverallRank - позиция в общем зачёте (0 = вне топа).
	OverallRank int `json:"overallRank"`

	// Achievements - идентификаторы полученных достижений.
	Achievements []string `json:"achievements"`

	// JoinDate - дата создания профиля.
	JoinDate time.Time `json:"joinDate"`

	// GeneratedAt - время генерации сводки.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetDashboardHandler обрабатывает запрос сводки.
type GetDashboardHandler struct {
	progressRepo    progress.Repository
	profileRepo     profile.Repository
	leaderboardRepo leaderboard.Repository
}

// NewGetDashboardHandler создаёт новый обработчик сводки.
func NewGetDashboardHandler(
	progressRepo progress.Repository,
	profileRepo profile.Repository,
	leaderboardRepo leaderboard.Repository,
) *GetDashboardHandler {
	return &GetDashboardHandler{
		progressRepo:    progressRepo,
		profileRepo:     profileRepo,
		leaderboardRepo: leaderboardRepo,
	}
}

// Handle выполняет запрос сводки.
func (h *GetDashboardHandler) Handle(ctx context.Context, query GetDashboardQuery) (*GetDashboardResult, error) {
	now := query.At
	if now.IsZero() {
		now = time.Now()
	}

	state, err := h.progressRepo.Load(ctx)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("get_dashboard: failed to load progress: %w", err)
		}
		state = progress.NewState(now)
	}

	prof, err := h.profileRepo.Load(ctx)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("get_dashboard: failed to load profile: %w", err)
		}
		prof = profile.New(now)
	}

	result := &GetDashboardResult{
		Username:          prof.Username,
		Avatar:            prof.Avatar,
		Level:             prof.Level,
		TotalPoints:       prof.TotalPoints,
		DailyStreak:       prof.DailyStreak,
		TotalSessions:     state.TotalSessions(),
		CompletedSessions: state.CompletedSessions(),
		Engagement:        state.Engagement(now),
		AverageScore:      state.AverageScore(),
		GamesPlayed:       prof.GamesPlayed(),
		AverageAccuracy:   prof.AverageAccuracy(),
		Achievements:      append([]string(nil), prof.Achievements...),
		JoinDate:          prof.JoinDate,
		GeneratedAt:       now,
	}

	if best, ok := prof.BestSubject(); ok {
		result.BestSubject = best.String()
	}

	result.Subjects = make(map[string]SubjectStatsDTO, len(prof.Subjects))
	for subject, stats := range prof.Subjects {
		result.Subjects[subject.String()] = SubjectStatsDTO{
			Score:       stats.Score,
			GamesPlayed: stats.GamesPlayed,
			Accuracy:    stats.Accuracy,
		}
	}

	if board, boardErr := h.leaderboardRepo.Load(ctx); boardErr == nil {
		if rank, rankErr := board.RankOf(shared.CategoryOverall, prof.Username); rankErr == nil {
			result.OverallRank = rank
		}
	}

	return result, nil
}
