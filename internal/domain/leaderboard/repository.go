package leaderboard

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет контракт хранилища состояния рейтингов.
// Все пять таблиц хранятся как один документ: чтение и запись целиком.
type Repository interface {
	// Load загружает состояние рейтингов.
	// Возвращает shared.ErrLeaderboardNotFound, если документ отсутствует
	// или повреждён - вызывающий обязан создать состояние по умолчанию.
	Load(ctx context.Context) (*State, error)

	// Save сохраняет состояние целиком одной записью.
	Save(ctx context.Context, state *State) error

	// Clear удаляет сохранённое состояние.
	Clear(ctx context.Context) error
}
