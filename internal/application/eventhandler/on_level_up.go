package eventhandler

import (
	"fmt"

	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON LEVEL UP HANDLER
// Обрабатывает событие перехода на новый уровень.
// ═══════════════════════════════════════════════════════════════════════════

// OnLevelUpHandler обрабатывает событие нового уровня.
type OnLevelUpHandler struct {
	feed *NotificationFeed
	log  *logger.Logger
}

// NewOnLevelUpHandler создаёт новый обработчик.
func NewOnLevelUpHandler(feed *NotificationFeed, log *logger.Logger) *OnLevelUpHandler {
	if log == nil {
		log = logger.Default()
	}
	return &OnLevelUpHandler{
		feed: feed,
		log:  log.With(logger.String("handler", "on_level_up")),
	}
}

// Handle обрабатывает событие.
func (h *OnLevelUpHandler) Handle(event shared.Event) error {
	levelUp, ok := event.(shared.LevelUpEvent)
	if !ok {
		h.log.Warn("received unexpected event type",
			logger.String("event_type", string(event.EventType())),
		)
		return nil
	}

	h.log.Info("level up",
		logger.Int("old_level", levelUp.OldLevel),
		logger.Int("new_level", levelUp.NewLevel),
		logger.Points(levelUp.TotalPoints),
	)

	h.feed.Push(Toast{
		Kind:       ToastLevelUp,
		Title:      fmt.Sprintf("Level %d", levelUp.NewLevel),
		Message:    fmt.Sprintf("You reached level %d!", levelUp.NewLevel),
		Points:     levelUp.TotalPoints,
		OccurredAt: levelUp.OccurredAt(),
	})

	return nil
}

// EventType возвращает тип события, который обрабатывает этот handler.
func (h *OnLevelUpHandler) EventType() shared.EventType {
	return shared.EventLevelUp
}
