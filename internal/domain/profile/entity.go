// Package profile содержит доменную модель локального профиля игрока Gyaan Arena.
// Профиль один на установку: уровень, очки, серия дней и статистика по предметам.
package profile

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
	"github.com/gyaan-arena/arena-hub/pkg/timeutil"
)

// DefaultUsername - имя игрока до того, как он представился.
const DefaultUsername = "Guest Player"

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT STATS
// ══════════════════════════════════════════════════════════════════════════════

// SubjectStats представляет статистику игрока по одному предмету.
type SubjectStats struct {
	// Score - накопленные очки по предмету (10 за правильный ответ).
	Score int `json:"score"`

	// GamesPlayed - количество сыгранных раундов.
	GamesPlayed int `json:"gamesPlayed"`

	// Accuracy - скользящая средняя точность (0-100).
	// Среднее по процентам раундов: короткие и длинные раунды весят одинаково.
	Accuracy int `json:"accuracy"`
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE (Aggregate Root)
// ══════════════════════════════════════════════════════════════════════════════

// Profile представляет единственного локального игрока.
type Profile struct {
	// Username - отображаемое имя, ключ идентичности на этом устройстве.
	Username string `json:"username"`

	// Avatar - один символ, первая буква имени.
	Avatar string `json:"avatar"`

	// Level - уровень игрока. Всегда floor(totalPoints/100)+1,
	// никогда не хранится независимо от очков.
	Level int `json:"level"`

	// TotalPoints - суммарные очки по всем предметам.
	TotalPoints int `json:"totalPoints"`

	// DailyStreak - серия календарных дней с хотя бы одной игрой.
	DailyStreak int `json:"dailyStreak"`

	// LastPlayed - время последней игры.
	LastPlayed time.Time `json:"lastPlayed"`

	// Subjects - статистика по предметам.
	Subjects map[shared.Subject]SubjectStats `json:"subjects"`

	// Achievements - идентификаторы полученных достижений.
	Achievements []string `json:"achievements"`

	// JoinDate - дата создания профиля.
	JoinDate time.Time `json:"joinDate"`
}

// New создаёт профиль по умолчанию.
func New(now time.Time) *Profile {
	subjects := make(map[shared.Subject]SubjectStats, len(shared.AllSubjects()))
	for _, s := range shared.AllSubjects() {
		subjects[s] = SubjectStats{}
	}
	return &Profile{
		Username:     DefaultUsername,
		Avatar:       "G",
		Level:        1,
		TotalPoints:  0,
		DailyStreak:  0,
		LastPlayed:   now,
		Subjects:     subjects,
		Achievements: make([]string, 0),
		JoinDate:     now,
	}
}

// Normalize восстанавливает инварианты после загрузки из хранилища.
func (p *Profile) Normalize() {
	if p.Username == "" {
		p.Username = DefaultUsername
	}
	if p.Avatar == "" {
		p.Avatar = avatarFor(p.Username)
	}
	if p.Subjects == nil {
		p.Subjects = make(map[shared.Subject]SubjectStats, len(shared.AllSubjects()))
	}
	for _, s := range shared.AllSubjects() {
		if _, ok := p.Subjects[s]; !ok {
			p.Subjects[s] = SubjectStats{}
		}
	}
	if p.Achievements == nil {
		p.Achievements = make([]string, 0)
	}
	if p.TotalPoints < 0 {
		p.TotalPoints = 0
	}
	p.Level = shared.Points(p.TotalPoints).Level().Int()
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Rename меняет имя игрока и обновляет аватар.
func (p *Profile) Rename(username string) error {
	name, err := shared.NewPlayerName(username)
	if err != nil {
		return err
	}
	p.Username = name.String()
	p.Avatar = avatarFor(p.Username)
	return nil
}

// Touch пересчитывает производные поля после любой игры:
// уровень из очков и дневную серию по правилу календарного дня.
// Возвращает true, если уровень вырос.
func (p *Profile) Touch(now time.Time) bool {
	oldLevel := p.Level
	p.Level = shared.Points(p.TotalPoints).Level().Int()

	p.advanceStreak(now)
	p.LastPlayed = now

	return p.Level > oldLevel
}

// advanceStreak применяет правило серии:
// тот же день - без изменений, ровно вчера - +1, пропуск - сброс в 1.
func (p *Profile) advanceStreak(now time.Time) {
	if p.LastPlayed.IsZero() {
		p.DailyStreak = 1
		return
	}

	daysDiff := timeutil.DaysBetween(p.LastPlayed, now)
	switch daysDiff {
	case 0:
		// Тот же календарный день - серия не меняется.
	case 1:
		p.DailyStreak++
	default:
		p.DailyStreak = 1
	}
}

// TrackSubjectProgress засчитывает раунд: +10 очков за правильный ответ
// предмету и общему счёту, точность - скользящее среднее процентов раундов.
// При total == 0 обновление точности пропускается: раунд без вопросов
// не несёт информации о точности.
func (p *Profile) TrackSubjectProgress(subject shared.Subject, correct, total int) error {
	if !subject.IsValid() {
		return shared.ErrInvalidSubject
	}
	if correct < 0 || total < 0 {
		return shared.WrapError("profile", "TrackSubjectProgress", shared.ErrNegativeValue, "correct and total must be non-negative", nil)
	}
	if correct > total && total > 0 {
		return shared.WrapError("profile", "TrackSubjectProgress", shared.ErrValueOutOfRange, "correct cannot exceed total", nil)
	}

	stats := p.Subjects[subject]
	stats.GamesPlayed++
	stats.Score += correct * 10

	if total > 0 {
		sessionPct := float64(correct) / float64(total) * 100
		prevGames := stats.GamesPlayed - 1
		newAvg := (float64(stats.Accuracy)*float64(prevGames) + sessionPct) / float64(stats.GamesPlayed)
		stats.Accuracy = int(math.Round(newAvg))
	}

	p.Subjects[subject] = stats
	p.TotalPoints += correct * 10
	return nil
}

// HasAchievement проверяет, отмечено ли достижение в профиле.
func (p *Profile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// AddAchievement отмечает достижение в профиле (идемпотентно).
func (p *Profile) AddAchievement(id string) {
	if !p.HasAchievement(id) {
		p.Achievements = append(p.Achievements, id)
	}
}

// GamesPlayed возвращает общее количество раундов по всем предметам.
func (p *Profile) GamesPlayed() int {
	total := 0
	for _, s := range p.Subjects {
		total += s.GamesPlayed
	}
	return total
}

// BestSubject возвращает предмет с наибольшим счётом.
// Возвращает false, если игр ещё не было.
func (p *Profile) BestSubject() (shared.Subject, bool) {
	var best shared.Subject
	bestScore := -1
	for _, s := range shared.AllSubjects() {
		if stats := p.Subjects[s]; stats.Score > bestScore {
			best = s
			bestScore = stats.Score
		}
	}
	if bestScore <= 0 && p.GamesPlayed() == 0 {
		return "", false
	}
	return best, true
}

// AverageAccuracy возвращает среднюю точность по всем предметам (0-100).
func (p *Profile) AverageAccuracy() int {
	subjects := shared.AllSubjects()
	if len(subjects) == 0 {
		return 0
	}
	sum := 0
	for _, s := range subjects {
		sum += p.Subjects[s].Accuracy
	}
	return int(math.Round(float64(sum) / float64(len(subjects))))
}

// ShareText формирует текст для шаринга прогресса.
func (p *Profile) ShareText() string {
	return fmt.Sprintf(
		"🎮 Gyaan Arena Progress\n📊 Level: %d\n🏆 Total Points: %d\n🔥 Daily Streak: %d days\nJoin me in mastering STEM subjects!",
		p.Level, p.TotalPoints, p.DailyStreak,
	)
}

// Clone возвращает глубокую копию профиля.
func (p *Profile) Clone() *Profile {
	clone := *p
	clone.Subjects = make(map[shared.Subject]SubjectStats, len(p.Subjects))
	for k, v := range p.Subjects {
		clone.Subjects[k] = v
	}
	clone.Achievements = make([]string, len(p.Achievements))
	copy(clone.Achievements, p.Achievements)
	return &clone
}

// avatarFor возвращает первую букву имени в верхнем регистре.
func avatarFor(username string) string {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "G"
	}
	return strings.ToUpper(string([]rune(trimmed)[0]))
}
