package eventhandler

import (
	"fmt"

	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON ACHIEVEMENT UNLOCKED HANDLER
// Обрабатывает событие разблокировки достижения.
//
// Публикует уведомление в ленту, чтобы интерфейсный слой показал игроку
// тост с названием достижения и начисленными очками.
// ═══════════════════════════════════════════════════════════════════════════

// OnAchievementUnlockedHandler обрабатывает событие разблокировки достижения.
type OnAchievementUnlockedHandler struct {
	feed *NotificationFeed
	log  *logger.Logger
}

// NewOnAchievementUnlockedHandler создаёт новый обработчик.
func NewOnAchievementUnlockedHandler(feed *NotificationFeed, log *logger.Logger) *OnAchievementUnlockedHandler {
	if log == nil {
		log = logger.Default()
	}
	return &OnAchievementUnlockedHandler{
		feed: feed,
		log:  log.With(logger.String("handler", "on_achievement_unlocked")),
	}
}

// Handle обрабатывает событие.
// Сигнатура совместима с shared.EventHandler.
func (h *OnAchievementUnlockedHandler) Handle(event shared.Event) error {
	unlocked, ok := event.(shared.AchievementUnlockedEvent)
	if !ok {
		h.log.Warn("received unexpected event type",
			logger.String("event_type", string(event.EventType())),
		)
		return nil
	}

	h.log.Info("achievement unlocked",
		logger.String("achievement_id", unlocked.AchievementID),
		logger.String("name", unlocked.Name),
		logger.Points(unlocked.Points),
	)

	h.feed.Push(Toast{
		Kind:       ToastAchievement,
		Title:      unlocked.Name,
		Message:    fmt.Sprintf("Achievement unlocked: %s (+%d pts)", unlocked.Name, unlocked.Points),
		Points:     unlocked.Points,
		OccurredAt: unlocked.OccurredAt(),
	})

	return nil
}

// EventType возвращает тип события, который обрабатывает этот handler.
func (h *OnAchievementUnlockedHandler) EventType() shared.EventType {
	return shared.EventAchievementUnlocked
}
