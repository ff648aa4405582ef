package query

import (
	"context"
	"fmt"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/domain/progress"
	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT PROGRESS QUERY
// Формирует CSV-отчёт: строки сессий плюс блок сводной статистики.
// Формат фиксирован и является контрактом для внешних инструментов.
// ══════════════════════════════════════════════════════════════════════════════

// ExportProgressQuery содержит параметры экспорта.
type ExportProgressQuery struct {
	// At - момент, относительно которого считается вовлечённость
	// и формируется имя файла (ноль = сейчас).
	At time.Time
}

// ExportProgressResult содержит готовый CSV-отчёт.
type ExportProgressResult struct {
	// CSV - содержимое отчёта.
	CSV string `json:"csv"`

	// Filename - предлагаемое имя файла с датой экспорта.
	Filename string `json:"filename"`

	// Sessions - количество строк сессий в отчёте.
	Sessions int `json:"sessions"`

	// GeneratedAt - время генерации отчёта.
	GeneratedAt time.Time `json:"generated_at"`
}

// ExportProgressHandler обрабатывает запрос экспорта.
type ExportProgressHandler struct {
	progressRepo progress.Repository
}

// NewExportProgressHandler создаёт новый обработчик экспорта.
func NewExportProgressHandler(progressRepo progress.Repository) *ExportProgressHandler {
	return &ExportProgressHandler{progressRepo: progressRepo}
}

// Handle выполняет запрос экспорта.
func (h *ExportProgressHandler) Handle(ctx context.Context, query ExportProgressQuery) (*ExportProgressResult, error) {
	now := query.At
	if now.IsZero() {
		now = time.Now()
	}

	state, err := h.progressRepo.Load(ctx)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("export_progress: failed to load progress: %w", err)
		}
		state = progress.NewState(now)
	}

	return &ExportProgressResult{
		CSV:         state.ExportCSV(now),
		Filename:    fmt.Sprintf("stem_progress_%s.csv", timeutil.FormatDateStr(now)),
		Sessions:    state.TotalSessions(),
		GeneratedAt: now,
	}, nil
}
