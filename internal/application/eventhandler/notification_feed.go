// Package eventhandler содержит обработчики доменных событий.
package eventhandler

import (
	"sync"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// NOTIFICATION FEED
// Лента уведомлений ("тостов") для интерфейсного слоя.
//
// Обработчики событий складывают сюда краткие уведомления — разблокировку
// достижения, новый уровень, прерванную серию. HTTP-слой забирает их при
// следующем запросе и показывает игроку.
//
// Лента кольцевая: при переполнении самые старые записи вытесняются.
// ═══════════════════════════════════════════════════════════════════════════

// ToastKind классифицирует уведомление для отображения.
type ToastKind string

const (
	// ToastAchievement - разблокировано достижение.
	ToastAchievement ToastKind = "achievement"

	// ToastLevelUp - достигнут новый уровень.
	ToastLevelUp ToastKind = "level_up"

	// ToastStreakBroken - дневная серия прервана.
	ToastStreakBroken ToastKind = "streak_broken"
)

// Toast - одно уведомление для игрока.
type Toast struct {
	// Kind - тип уведомления.
	Kind ToastKind `json:"kind"`

	// Title - заголовок (например, название достижения).
	Title string `json:"title"`

	// Message - текст уведомления.
	Message string `json:"message"`

	// Points - связанные с событием очки (0, если неприменимо).
	Points int `json:"points,omitempty"`

	// OccurredAt - время события.
	OccurredAt time.Time `json:"occurredAt"`
}

// DefaultFeedCapacity - вместимость ленты по умолчанию.
const DefaultFeedCapacity = 50

// NotificationFeed - потокобезопасная кольцевая лента уведомлений.
type NotificationFeed struct {
	mu       sync.Mutex
	toasts   []Toast
	capacity int
}

// NewNotificationFeed создаёт ленту заданной вместимости.
// Неположительная вместимость заменяется на DefaultFeedCapacity.
func NewNotificationFeed(capacity int) *NotificationFeed {
	if capacity <= 0 {
		capacity = DefaultFeedCapacity
	}
	return &NotificationFeed{
		toasts:   make([]Toast, 0, capacity),
		capacity: capacity,
	}
}

// Push добавляет уведомление, вытесняя самое старое при переполнении.
func (f *NotificationFeed) Push(toast Toast) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.toasts) >= f.capacity {
		f.toasts = f.toasts[1:]
	}
	f.toasts = append(f.toasts, toast)
}

// Recent возвращает до limit последних уведомлений, новые в конце.
// Неположительный limit возвращает всю ленту.
func (f *NotificationFeed) Recent(limit int) []Toast {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.toasts)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Toast, n)
	copy(out, f.toasts[len(f.toasts)-n:])
	return out
}

// Drain возвращает все накопленные уведомления и очищает ленту.
func (f *NotificationFeed) Drain() []Toast {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Toast, len(f.toasts))
	copy(out, f.toasts)
	f.toasts = f.toasts[:0]
	return out
}

// Len возвращает текущее количество уведомлений в ленте.
func (f *NotificationFeed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.toasts)
}
