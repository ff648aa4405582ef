package progress

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет контракт хранилища состояния прогресса.
// Состояние хранится как один документ: чтение и запись целиком.
type Repository interface {
	// Load загружает состояние прогресса.
	// Возвращает shared.ErrProgressNotFound, если документ отсутствует
	// или повреждён - вызывающий обязан создать состояние по умолчанию.
	Load(ctx context.Context) (*State, error)

	// Save сохраняет состояние целиком одной записью.
	Save(ctx context.Context, state *State) error

	// Clear удаляет сохранённое состояние.
	Clear(ctx context.Context) error
}
