package query

import (
	"context"
	"fmt"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/domain/profile"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET SHARE TEXT QUERY
// Готовит текст для кнопки "поделиться прогрессом". Само нажатие
// кнопки - внешний триггер достижения sharing_is_caring, запрос
// текста состояние не меняет.
// ══════════════════════════════════════════════════════════════════════════════

// GetShareTextQuery содержит параметры запроса текста шаринга.
type GetShareTextQuery struct{}

// GetShareTextResult содержит готовый текст для шаринга.
type GetShareTextResult struct {
	// Text - многострочный текст с уровнем, очками и серией.
	Text string `json:"text"`

	// GeneratedAt - время генерации текста.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetShareTextHandler обрабатывает запрос текста шаринга.
type GetShareTextHandler struct {
	profileRepo profile.Repository
}

// NewGetShareTextHandler создаёт новый обработчик текста шаринга.
func NewGetShareTextHandler(profileRepo profile.Repository) *GetShareTextHandler {
	return &GetShareTextHandler{profileRepo: profileRepo}
}

// Handle выполняет запрос текста шаринга.
func (h *GetShareTextHandler) Handle(ctx context.Context, _ GetShareTextQuery) (*GetShareTextResult, error) {
	now := time.Now()

	prof, err := h.profileRepo.Load(ctx)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("get_share_text: failed to load profile: %w", err)
		}
		prof = profile.New(now)
	}

	return &GetShareTextResult{
		Text:        prof.ShareText(),
		GeneratedAt: now,
	}, nil
}
