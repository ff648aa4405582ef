// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/domain/leaderboard"
	"github.com/gyaan-arena/arena-hub/internal/domain/profile"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Возвращает топ-10 выбранной таблицы и позицию текущего игрока.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery содержит параметры запроса лидерборда.
type GetLeaderboardQuery struct {
	// Category - таблица: overall, math, science, coding или weekly.
	Category string
}

// Validate проверяет корректность параметров запроса.
func (q GetLeaderboardQuery) Validate() error {
	if q.Category == "" {
		return fmt.Errorf("get_leaderboard: %w: category is required", shared.ErrInvalidCategory)
	}
	if _, err := shared.NewCategory(q.Category); err != nil {
		return fmt.Errorf("get_leaderboard: %w", err)
	}
	return nil
}

// LeaderboardEntryDTO - запись таблицы лидеров для отдачи наружу.
type LeaderboardEntryDTO struct {
	// Rank - позиция в рейтинге (начиная с 1).
	Rank int `json:"rank"`

	// Username - отображаемое имя игрока.
	Username string `json:"username"`

	// Score - сохранённый результат.
	Score float64 `json:"score"`

	// Level - уровень игрока на момент подачи.
	Level int `json:"level"`

	// Timestamp - время подачи результата.
	Timestamp time.Time `json:"timestamp"`
}

// GetLeaderboardResult содержит результат запроса лидерборда.
type GetLeaderboardResult struct {
	// Category - запрошенная таблица.
	Category string `json:"category"`

	// Entries - записи таблицы, не более 10.
	Entries []LeaderboardEntryDTO `json:"entries"`

	// UserRank - позиция текущего игрока (1-based, 0 = вне топа).
	UserRank int `json:"user_rank"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetLeaderboardHandler обрабатывает запросы таблицы лидеров.
type GetLeaderboardHandler struct {
	leaderboardRepo leaderboard.Repository
	profileRepo     profile.Repository
}

// NewGetLeaderboardHandler создаёт новый обработчик запроса лидерборда.
func NewGetLeaderboardHandler(
	leaderboardRepo leaderboard.Repository,
	profileRepo profile.Repository,
) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{
		leaderboardRepo: leaderboardRepo,
		profileRepo:     profileRepo,
	}
}

// Handle выполняет запрос таблицы лидеров.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, query GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	category, err := shared.NewCategory(query.Category)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: %w", err)
	}

	state, err := h.leaderboardRepo.Load(ctx)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("get_leaderboard: failed to load leaderboard: %w", err)
		}
		state = leaderboard.NewState()
	}

	entries, err := state.Ranked(category)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: %w", err)
	}

	dtos := make([]LeaderboardEntryDTO, 0, len(entries))
	for i, e := range entries {
		dtos = append(dtos, LeaderboardEntryDTO{
			Rank:      i + 1,
			Username:  e.Username,
			Score:     e.Score,
			Level:     e.Level,
			Timestamp: e.Timestamp,
		})
	}

	userRank := 0
	if prof, profErr := h.profileRepo.Load(ctx); profErr == nil {
		if rank, rankErr := state.RankOf(category, prof.Username); rankErr == nil {
			userRank = rank
		}
	}

	return &GetLeaderboardResult{
		Category:    category.String(),
		Entries:     dtos,
		UserRank:    userRank,
		GeneratedAt: time.Now(),
	}, nil
}
