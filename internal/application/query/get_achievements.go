package query

import (
	"context"
	"fmt"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/domain/achievement"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ACHIEVEMENTS QUERY
// Возвращает весь каталог достижений с отметками о разблокировке -
// ровно то, что нужно сетке бейджей в интерфейсе.
// ══════════════════════════════════════════════════════════════════════════════

// GetAchievementsQuery содержит параметры запроса достижений.
type GetAchievementsQuery struct{}

// AchievementDTO - одно достижение каталога с состоянием.
type AchievementDTO struct {
	// ID - идентификатор из каталога.
	ID string `json:"id"`

	// Name - название достижения.
	Name string `json:"name"`

	// Description - описание условия.
	Description string `json:"desc"`

	// Points - ценность достижения в очках.
	Points int `json:"points"`

	// Unlocked - получено ли достижение.
	Unlocked bool `json:"unlocked"`
}

// GetAchievementsResult содержит каталог с отметками.
type GetAchievementsResult struct {
	// Achievements - каталог в каноническом порядке.
	Achievements []AchievementDTO `json:"achievements"`

	// UnlockedCount - количество полученных достижений.
	UnlockedCount int `json:"unlocked_count"`

	// LanguagesUsed - количество разных языков интерфейса.
	LanguagesUsed int `json:"languages_used"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetAchievementsHandler обрабатывает запрос достижений.
type GetAchievementsHandler struct {
	achievementRepo achievement.Repository
}

// NewGetAchievementsHandler создаёт новый обработчик запроса достижений.
func NewGetAchievementsHandler(achievementRepo achievement.Repository) *GetAchievementsHandler {
	return &GetAchievementsHandler{achievementRepo: achievementRepo}
}

// Handle выполняет запрос достижений.
func (h *GetAchievementsHandler) Handle(ctx context.Context, _ GetAchievementsQuery) (*GetAchievementsResult, error) {
	state, err := h.achievementRepo.Load(ctx)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("get_achievements: failed to load achievements: %w", err)
		}
		state = achievement.NewState()
	}

	catalog := achievement.Catalog()
	dtos := make([]AchievementDTO, 0, len(catalog))
	unlocked := 0
	for _, def := range catalog {
		isUnlocked := state.IsUnlocked(def.ID)
		if isUnlocked {
			unlocked++
		}
		dtos = append(dtos, AchievementDTO{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Points:      def.Points,
			Unlocked:    isUnlocked,
		})
	}

	return &GetAchievementsResult{
		Achievements:  dtos,
		UnlockedCount: unlocked,
		LanguagesUsed: state.LanguagesUsed(),
		GeneratedAt:   time.Now(),
	}, nil
}
