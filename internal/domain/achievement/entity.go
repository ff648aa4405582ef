// Package achievement содержит каталог достижений Gyaan Arena и логику разблокировки.
// Разблокировка монотонна: попав в набор, достижение не удаляется никогда.
package achievement

import (
	"strings"

	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG
// ══════════════════════════════════════════════════════════════════════════════

// Идентификаторы достижений каталога.
const (
	FirstWin        = "first_win"
	MathMaster1     = "math_master_1"
	MathMaster2     = "math_master_2"
	Streak3         = "streak_3"
	Streak7         = "streak_7"
	Polyglot        = "polyglot"
	SharingIsCaring = "sharing_is_caring"
)

// Definition описывает одно достижение каталога.
type Definition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"desc"`
	Points      int    `json:"points"`
}

// Catalog возвращает фиксированный каталог достижений в каноническом порядке.
func Catalog() []Definition {
	return []Definition{
		{FirstWin, "First Win", "Answer your first question correctly", 10},
		{MathMaster1, "Math Beginner", "Score 100 points in Math", 100},
		{MathMaster2, "Math Adept", "Score 500 points in Math", 500},
		{Streak3, "On a Roll", "Maintain a 3-day streak", 30},
		{Streak7, "One Week Wonder", "Maintain a 7-day streak", 70},
		{Polyglot, "Polyglot", "Use the app in 3 different languages", 30},
		{SharingIsCaring, "Sharing is Caring", "Share your progress", 10},
	}
}

// Lookup возвращает определение достижения по идентификатору.
func Lookup(id string) (Definition, bool) {
	for _, def := range Catalog() {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// ══════════════════════════════════════════════════════════════════════════════
// STATE (Aggregate Root)
// ══════════════════════════════════════════════════════════════════════════════

// State представляет состояние достижений игрока.
type State struct {
	// Unlocked - полученные достижения в порядке разблокировки.
	Unlocked []string `json:"unlocked"`

	// CountByLang - счётчики использования приложения по языкам интерфейса.
	// Ведутся для достижения Polyglot; сама проверка требует внешнего триггера.
	CountByLang map[string]int `json:"countByLang"`
}

// NewState создаёт пустое состояние достижений.
func NewState() *State {
	return &State{
		Unlocked:    make([]string, 0),
		CountByLang: make(map[string]int),
	}
}

// Normalize восстанавливает инварианты после загрузки из хранилища.
func (st *State) Normalize() {
	if st.Unlocked == nil {
		st.Unlocked = make([]string, 0)
	}
	if st.CountByLang == nil {
		st.CountByLang = make(map[string]int)
	}
}

// IsUnlocked проверяет, получено ли достижение.
func (st *State) IsUnlocked(id string) bool {
	for _, u := range st.Unlocked {
		if u == id {
			return true
		}
	}
	return false
}

// Unlock добавляет достижение в набор (идемпотентно).
// Возвращает определение и true, если достижение разблокировано этим вызовом.
func (st *State) Unlock(id string) (Definition, bool, error) {
	def, ok := Lookup(id)
	if !ok {
		return Definition{}, false, shared.ErrUnknownAchievement
	}
	if st.IsUnlocked(id) {
		return def, false, nil
	}
	st.Unlocked = append(st.Unlocked, id)
	return def, true, nil
}

// RecordLanguageUse увеличивает счётчик использования языка интерфейса.
func (st *State) RecordLanguageUse(lang string) (int, error) {
	code := strings.ToLower(strings.TrimSpace(lang))
	if code == "" {
		return 0, shared.ErrInvalidLanguage
	}
	st.CountByLang[code]++
	return st.CountByLang[code], nil
}

// LanguagesUsed возвращает количество различных языков с ненулевым счётчиком.
func (st *State) LanguagesUsed() int {
	return len(st.CountByLang)
}

// ══════════════════════════════════════════════════════════════════════════════
// CHECK
// Автоматически проверяются только первые три предиката каталога.
// Остальные достижения требуют внешних триггеров через Unlock.
// ══════════════════════════════════════════════════════════════════════════════

// Check оценивает предикаты разблокировки для события со счётом.
// Предикаты независимы: разблокировка одного не влияет на другие,
// за один вызов могут сработать несколько.
func (st *State) Check(subject shared.Subject, score float64) ([]Definition, error) {
	if !subject.IsValid() {
		return nil, shared.ErrInvalidSubject
	}
	if !shared.IsFinite(score) {
		return nil, shared.ErrInvalidScore
	}

	var unlocked []Definition

	if score > 0 && !st.IsUnlocked(FirstWin) {
		if def, ok, _ := st.Unlock(FirstWin); ok {
			unlocked = append(unlocked, def)
		}
	}
	if subject == shared.SubjectMath && score >= 100 && !st.IsUnlocked(MathMaster1) {
		if def, ok, _ := st.Unlock(MathMaster1); ok {
			unlocked = append(unlocked, def)
		}
	}
	if subject == shared.SubjectMath && score >= 500 && !st.IsUnlocked(MathMaster2) {
		if def, ok, _ := st.Unlock(MathMaster2); ok {
			unlocked = append(unlocked, def)
		}
	}

	return unlocked, nil
}

// Clone возвращает глубокую копию состояния.
func (st *State) Clone() *State {
	clone := &State{
		Unlocked:    make([]string, len(st.Unlocked)),
		CountByLang: make(map[string]int, len(st.CountByLang)),
	}
	copy(clone.Unlocked, st.Unlocked)
	for k, v := range st.CountByLang {
		clone.CountByLang[k] = v
	}
	return clone
}
