// Package progress содержит доменную модель агрегации игровых сессий Gyaan Arena.
// Это ядро бизнес-логики - здесь нет зависимостей от инфраструктуры.
package progress

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION RECORD
// ══════════════════════════════════════════════════════════════════════════════

// MaxSessions - максимальная длина журнала сессий.
// При превышении старые записи вытесняются (FIFO).
const MaxSessions = 100

// SessionWindowDays - окно недавней активности для метрики вовлечённости
// и недельного лидерборда.
const SessionWindowDays = 7

// SessionRecord представляет одну завершённую (или прерванную) игровую сессию.
// Запись неизменяема после создания.
type SessionRecord struct {
	// ID - уникальный идентификатор сессии.
	ID shared.SessionID `json:"id"`

	// Subject - предмет, в котором шла игра.
	Subject shared.Subject `json:"game"`

	// Score - набранные очки за сессию.
	Score float64 `json:"score"`

	// Total - максимально возможные очки за сессию.
	Total float64 `json:"total"`

	// Completed - была ли сессия доиграна до конца.
	Completed bool `json:"completed"`

	// Timestamp - время завершения сессии.
	Timestamp time.Time `json:"timestamp"`
}

// NewSessionRecord создаёт запись сессии с валидацией параметров.
func NewSessionRecord(subject shared.Subject, score, total float64, completed bool, at time.Time) (SessionRecord, error) {
	if !subject.IsValid() {
		return SessionRecord{}, shared.ErrInvalidSubject
	}
	if !shared.IsFinite(score) || score < 0 {
		return SessionRecord{}, shared.ErrInvalidScore
	}
	if !shared.IsFinite(total) || total < 0 {
		return SessionRecord{}, shared.ErrInvalidTotal
	}

	return SessionRecord{
		ID:        shared.SessionID(uuid.New().String()),
		Subject:   subject,
		Score:     score,
		Total:     total,
		Completed: completed,
		Timestamp: at,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT TOTALS
// ══════════════════════════════════════════════════════════════════════════════

// SubjectTotals представляет накопительные счётчики по одному предмету.
type SubjectTotals struct {
	// CumulativeScore - суммарные набранные очки по предмету.
	CumulativeScore float64 `json:"cumulativeScore"`

	// CumulativeTotal - суммарные возможные очки по предмету.
	CumulativeTotal float64 `json:"cumulativeTotal"`

	// CompletedSessions - количество доигранных сессий.
	CompletedSessions int `json:"completedSessions"`
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS STATE (Aggregate Root)
// ══════════════════════════════════════════════════════════════════════════════

// State представляет полное агрегированное состояние прогресса.
// Один экземпляр на установку; создаётся лениво при первом обращении.
type State struct {
	// Sessions - журнал сессий в порядке добавления (не более MaxSessions).
	Sessions []SessionRecord `json:"sessions"`

	// Totals - накопительные счётчики по предметам.
	Totals map[shared.Subject]SubjectTotals `json:"games"`

	// FirstAccess - время первого обращения.
	FirstAccess time.Time `json:"firstAccess"`

	// LastAccess - время последней записи.
	LastAccess time.Time `json:"lastAccess"`
}

// NewState создаёт пустое состояние прогресса.
func NewState(now time.Time) *State {
	totals := make(map[shared.Subject]SubjectTotals, len(shared.AllSubjects()))
	for _, s := range shared.AllSubjects() {
		totals[s] = SubjectTotals{}
	}
	return &State{
		Sessions:    make([]SessionRecord, 0),
		Totals:      totals,
		FirstAccess: now,
		LastAccess:  now,
	}
}

// Normalize восстанавливает инварианты после загрузки из хранилища:
// отсутствующие предметы получают нулевые счётчики, журнал обрезается до лимита.
func (st *State) Normalize() {
	if st.Totals == nil {
		st.Totals = make(map[shared.Subject]SubjectTotals, len(shared.AllSubjects()))
	}
	for _, s := range shared.AllSubjects() {
		if _, ok := st.Totals[s]; !ok {
			st.Totals[s] = SubjectTotals{}
		}
	}
	if st.Sessions == nil {
		st.Sessions = make([]SessionRecord, 0)
	}
	if len(st.Sessions) > MaxSessions {
		st.Sessions = st.Sessions[len(st.Sessions)-MaxSessions:]
	}
}

// RecordSession добавляет сессию в журнал и обновляет счётчики предмета.
// Журнал ограничен MaxSessions записями: старейшие вытесняются первыми.
func (st *State) RecordSession(subject shared.Subject, score, total float64, completed bool, now time.Time) (SessionRecord, error) {
	record, err := NewSessionRecord(subject, score, total, completed, now)
	if err != nil {
		return SessionRecord{}, err
	}

	totals := st.Totals[subject]
	totals.CumulativeScore += score
	totals.CumulativeTotal += total
	if completed {
		totals.CompletedSessions++
	}
	st.Totals[subject] = totals

	st.Sessions = append(st.Sessions, record)
	if len(st.Sessions) > MaxSessions {
		st.Sessions = st.Sessions[len(st.Sessions)-MaxSessions:]
	}

	st.LastAccess = now
	return record, nil
}

// TotalSessions возвращает текущую длину журнала сессий.
func (st *State) TotalSessions() int {
	return len(st.Sessions)
}

// CompletedSessions возвращает количество доигранных сессий в журнале.
func (st *State) CompletedSessions() int {
	count := 0
	for _, s := range st.Sessions {
		if s.Completed {
			count++
		}
	}
	return count
}

// SessionsSince возвращает количество сессий позже указанного момента.
func (st *State) SessionsSince(cutoff time.Time) int {
	count := 0
	for _, s := range st.Sessions {
		if s.Timestamp.After(cutoff) {
			count++
		}
	}
	return count
}

// ══════════════════════════════════════════════════════════════════════════════
// DERIVED METRICS
// Метрики вычисляются на лету и никогда не сохраняются.
// ══════════════════════════════════════════════════════════════════════════════

// Engagement вычисляет вовлечённость (0-100) на момент now.
// Формула: 0.6 x доля завершённых сессий + 0.4 x частота игр за неделю.
func (st *State) Engagement(now time.Time) int {
	totalSessions := len(st.Sessions)
	if totalSessions == 0 {
		return 0
	}

	completionRate := float64(st.CompletedSessions()) / float64(totalSessions) * 100

	weekAgo := now.AddDate(0, 0, -SessionWindowDays)
	recent := st.SessionsSince(weekAgo)
	frequencyScore := math.Min(float64(recent)/float64(SessionWindowDays)*100, 100)

	return int(math.Round(completionRate*0.6 + frequencyScore*0.4))
}

// AverageScore вычисляет средний результат (0-100) как взвешенную смесь каналов:
// математика даёт сырой канал очки/вопросы, наука и программирование - по
// 100-балльному каналу каждая. Предметы без данных исключаются целиком.
func (st *State) AverageScore() int {
	var totalScore, totalPossible float64

	if m := st.Totals[shared.SubjectMath]; m.CumulativeTotal > 0 {
		totalScore += m.CumulativeScore
		totalPossible += m.CumulativeTotal
	}

	if s := st.Totals[shared.SubjectScience]; s.CumulativeTotal > 0 {
		totalScore += s.CumulativeScore / s.CumulativeTotal * 100
		totalPossible += 100
	}

	if c := st.Totals[shared.SubjectCoding]; c.CumulativeTotal > 0 {
		totalScore += c.CumulativeScore / c.CumulativeTotal * 100
		totalPossible += 100
	}

	if totalPossible == 0 {
		return 0
	}
	return int(math.Round(totalScore / totalPossible * 100))
}

// Clone возвращает глубокую копию состояния.
func (st *State) Clone() *State {
	clone := &State{
		Sessions:    make([]SessionRecord, len(st.Sessions)),
		Totals:      make(map[shared.Subject]SubjectTotals, len(st.Totals)),
		FirstAccess: st.FirstAccess,
		LastAccess:  st.LastAccess,
	}
	copy(clone.Sessions, st.Sessions)
	for k, v := range st.Totals {
		clone.Totals[k] = v
	}
	return clone
}
