package profile

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет контракт хранилища профиля игрока.
// Профиль хранится как один документ: чтение и запись целиком.
type Repository interface {
	// Load загружает профиль.
	// Возвращает shared.ErrProfileNotFound, если документ отсутствует
	// или повреждён - вызывающий обязан создать профиль по умолчанию.
	Load(ctx context.Context) (*Profile, error)

	// Save сохраняет профиль целиком одной записью.
	Save(ctx context.Context, p *Profile) error

	// Clear удаляет сохранённый профиль.
	Clear(ctx context.Context) error
}
