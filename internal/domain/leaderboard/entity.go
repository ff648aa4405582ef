// Package leaderboard содержит доменную модель рейтингов Gyaan Arena.
// Пять категорий: общий зачёт, три предметных и недельный срез.
package leaderboard

import (
	"sort"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// MaxEntries - максимальный размер каждой таблицы.
const MaxEntries = 10

// WeeklyWindowDays - окно недельного среза в днях.
const WeeklyWindowDays = 7

// ══════════════════════════════════════════════════════════════════════════════
// ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// Entry представляет одну строку таблицы рейтинга.
type Entry struct {
	// Username - имя игрока, не более одной записи на имя в категории.
	Username string `json:"username"`

	// Score - очки записи.
	Score float64 `json:"score"`

	// Level - уровень игрока на момент записи.
	Level int `json:"level"`

	// Timestamp - время последнего обновления записи.
	Timestamp time.Time `json:"timestamp"`
}

// ══════════════════════════════════════════════════════════════════════════════
// STATE (Aggregate Root)
// ══════════════════════════════════════════════════════════════════════════════

// State представляет все таблицы рейтинга.
// Недельная таблица полностью производная: пересчитывается из общей
// при каждом обновлении, а не ведётся инкрементально.
type State struct {
	Overall []Entry `json:"overall"`
	Math    []Entry `json:"math"`
	Science []Entry `json:"science"`
	Coding  []Entry `json:"coding"`
	Weekly  []Entry `json:"weekly"`
}

// NewState создаёт пустое состояние рейтингов.
func NewState() *State {
	return &State{
		Overall: make([]Entry, 0),
		Math:    make([]Entry, 0),
		Science: make([]Entry, 0),
		Coding:  make([]Entry, 0),
		Weekly:  make([]Entry, 0),
	}
}

// Normalize восстанавливает инварианты после загрузки из хранилища.
func (st *State) Normalize() {
	for _, c := range shared.AllCategories() {
		board := st.board(c)
		if *board == nil {
			*board = make([]Entry, 0)
		}
		sortAndTruncate(board)
	}
}

// board возвращает указатель на таблицу категории.
func (st *State) board(category shared.Category) *[]Entry {
	switch category {
	case shared.CategoryMath:
		return &st.Math
	case shared.CategoryScience:
		return &st.Science
	case shared.CategoryCoding:
		return &st.Coding
	case shared.CategoryWeekly:
		return &st.Weekly
	default:
		return &st.Overall
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT
// ══════════════════════════════════════════════════════════════════════════════

// SubmitResult описывает итог подачи результата.
type SubmitResult struct {
	// Accepted - попала ли подача в предметную таблицу
	// (false, если там уже хранится строго больший результат).
	Accepted bool

	// SubjectRank - позиция игрока в предметной таблице (1-based, 0 = вне топа).
	SubjectRank int

	// OverallRank - позиция игрока в общей таблице (1-based, 0 = вне топа).
	OverallRank int
}

// Submit подаёт результат в предметную таблицу и обновляет общий зачёт.
// Предметные таблицы хранят лучший результат за всё время: замена только
// при строго большем счёте. Общая таблица всегда перезаписывается текущими
// totalPoints - намеренная асимметрия.
func (st *State) Submit(category shared.Category, score float64, username string, level, totalPoints int, now time.Time) (SubmitResult, error) {
	if !category.IsSubjectBoard() {
		return SubmitResult{}, shared.ErrInvalidCategory
	}
	name, err := shared.NewPlayerName(username)
	if err != nil {
		return SubmitResult{}, err
	}
	if _, err := shared.NewScore(score); err != nil {
		return SubmitResult{}, err
	}

	entry := Entry{
		Username:  name.String(),
		Score:     score,
		Level:     level,
		Timestamp: now,
	}

	board := st.board(category)
	accepted := upsert(board, entry, false)
	sortAndTruncate(board)

	overallEntry := Entry{
		Username:  name.String(),
		Score:     float64(totalPoints),
		Level:     level,
		Timestamp: now,
	}
	upsert(&st.Overall, overallEntry, true)
	sortAndTruncate(&st.Overall)

	st.recomputeWeekly(now)

	return SubmitResult{
		Accepted:    accepted,
		SubjectRank: rankOf(*board, name.String()),
		OverallRank: rankOf(st.Overall, name.String()),
	}, nil
}

// upsert вставляет или заменяет запись игрока в таблице.
// При unconditional=false замена происходит только на строго больший счёт.
// Возвращает true, если таблица изменилась.
func upsert(board *[]Entry, entry Entry, unconditional bool) bool {
	for i, e := range *board {
		if e.Username != entry.Username {
			continue
		}
		if unconditional || entry.Score > e.Score {
			(*board)[i] = entry
			return true
		}
		return false
	}
	*board = append(*board, entry)
	return true
}

// sortAndTruncate сортирует таблицу по убыванию счёта и обрезает до лимита.
// Сортировка стабильная: при равном счёте ранее вставленная запись выше.
func sortAndTruncate(board *[]Entry) {
	sort.SliceStable(*board, func(i, j int) bool {
		return (*board)[i].Score > (*board)[j].Score
	})
	if len(*board) > MaxEntries {
		*board = (*board)[:MaxEntries]
	}
}

// RefreshWeekly пересчитывает недельный срез относительно текущего момента.
// Срез обновляется при каждой подаче результата, но между подачами записи
// устаревают; периодический вызов убирает выпавшие из окна.
// Возвращает true, если срез изменился.
func (st *State) RefreshWeekly(now time.Time) bool {
	before := len(st.Weekly)
	st.recomputeWeekly(now)
	return len(st.Weekly) != before
}

// recomputeWeekly пересчитывает недельный срез из общей таблицы.
func (st *State) recomputeWeekly(now time.Time) {
	cutoff := now.AddDate(0, 0, -WeeklyWindowDays)
	weekly := make([]Entry, 0, len(st.Overall))
	for _, e := range st.Overall {
		if e.Timestamp.After(cutoff) {
			weekly = append(weekly, e)
		}
	}
	st.Weekly = weekly
}

// ══════════════════════════════════════════════════════════════════════════════
// QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// Ranked возвращает копию таблицы категории (<=10 записей, по убыванию счёта).
func (st *State) Ranked(category shared.Category) ([]Entry, error) {
	if !category.IsValid() {
		return nil, shared.ErrInvalidCategory
	}
	board := *st.board(category)
	out := make([]Entry, len(board))
	copy(out, board)
	return out, nil
}

// RankOf возвращает 1-based позицию игрока в категории.
// Возвращает 0, если игрок вне топа ("unranked").
func (st *State) RankOf(category shared.Category, username string) (int, error) {
	if !category.IsValid() {
		return 0, shared.ErrInvalidCategory
	}
	return rankOf(*st.board(category), username), nil
}

func rankOf(board []Entry, username string) int {
	for i, e := range board {
		if e.Username == username {
			return i + 1
		}
	}
	return 0
}

// Clone возвращает глубокую копию состояния.
func (st *State) Clone() *State {
	clone := NewState()
	for _, c := range shared.AllCategories() {
		src := *st.board(c)
		dst := make([]Entry, len(src))
		copy(dst, src)
		*clone.board(c) = dst
	}
	return clone
}
