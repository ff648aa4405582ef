package eventhandler

import (
	"fmt"

	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON STREAK BROKEN HANDLER
// Обрабатывает событие прерванной дневной серии.
//
// Серия обнуляется молча на доменном уровне; этот обработчик превращает
// обнуление в видимое игроку уведомление.
// ═══════════════════════════════════════════════════════════════════════════

// OnStreakBrokenHandler обрабатывает событие прерванной серии.
type OnStreakBrokenHandler struct {
	feed *NotificationFeed
	log  *logger.Logger
}

// NewOnStreakBrokenHandler создаёт новый обработчик.
func NewOnStreakBrokenHandler(feed *NotificationFeed, log *logger.Logger) *OnStreakBrokenHandler {
	if log == nil {
		log = logger.Default()
	}
	return &OnStreakBrokenHandler{
		feed: feed,
		log:  log.With(logger.String("handler", "on_streak_broken")),
	}
}

// Handle обрабатывает событие.
func (h *OnStreakBrokenHandler) Handle(event shared.Event) error {
	broken, ok := event.(shared.StreakBrokenEvent)
	if !ok {
		h.log.Warn("received unexpected event type",
			logger.String("event_type", string(event.EventType())),
		)
		return nil
	}

	h.log.Info("daily streak broken",
		logger.Int("previous_streak", broken.PreviousStreak),
	)

	h.feed.Push(Toast{
		Kind:       ToastStreakBroken,
		Title:      "Streak lost",
		Message:    fmt.Sprintf("Your %d-day streak ended. Start a new one today!", broken.PreviousStreak),
		OccurredAt: broken.OccurredAt(),
	})

	return nil
}

// EventType возвращает тип события, который обрабатывает этот handler.
func (h *OnStreakBrokenHandler) EventType() shared.EventType {
	return shared.EventStreakBroken
}
