package saga

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaan-arena/arena-hub/internal/application/command"
	"github.com/gyaan-arena/arena-hub/internal/domain/achievement"
	"github.com/gyaan-arena/arena-hub/internal/infrastructure/persistence/kv"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newFlow() *GameResultFlow {
	store := kv.NewMemory()
	progressRepo := kv.NewProgressRepository(store, nil)
	profileRepo := kv.NewProfileRepository(store, nil)
	leaderboardRepo := kv.NewLeaderboardRepository(store, nil)
	achievementRepo := kv.NewAchievementRepository(store, nil)

	return NewGameResultFlow(
		command.NewRecordSessionHandler(progressRepo, nil),
		command.NewTrackProgressHandler(profileRepo, nil),
		command.NewSubmitScoreHandler(leaderboardRepo, profileRepo, nil),
		command.NewCheckAchievementsHandler(achievementRepo, profileRepo, nil),
		nil,
	)
}

func TestGameResultFlow_SingleMathGame(t *testing.T) {
	flow := newFlow()

	res, err := flow.Execute(context.Background(), GameResultInput{
		Game:      "math",
		Score:     8,
		Total:     10,
		Completed: true,
		Correct:   8,
		Questions: 10,
		Timestamp: testNow,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, 80, res.AverageScore)
	assert.Equal(t, 80, res.PointsEarned)
	assert.Equal(t, 80, res.TotalPoints)
	assert.Equal(t, 1, res.Level)
	assert.False(t, res.LeveledUp)
	assert.True(t, res.ScoreAccepted)
	assert.Equal(t, 1, res.SubjectRank)
	assert.Equal(t, 1, res.OverallRank)

	// 80 cumulative math points: only the first win badge trips.
	require.Len(t, res.UnlockedAchievements, 1)
	assert.Equal(t, achievement.FirstWin, res.UnlockedAchievements[0].ID)
}

func TestGameResultFlow_SecondGameCrossesMathThreshold(t *testing.T) {
	flow := newFlow()

	_, err := flow.Execute(context.Background(), GameResultInput{
		Game: "math", Score: 8, Total: 10, Completed: true,
		Correct: 8, Questions: 10, Timestamp: testNow,
	})
	require.NoError(t, err)

	res, err := flow.Execute(context.Background(), GameResultInput{
		Game: "math", Score: 6, Total: 10, Completed: true,
		Correct: 6, Questions: 10, Timestamp: testNow.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, 140, res.TotalPoints)
	assert.Equal(t, 2, res.Level)
	assert.True(t, res.LeveledUp)

	// Cumulative math score is now 140, past the 100 point milestone.
	require.Len(t, res.UnlockedAchievements, 1)
	assert.Equal(t, achievement.MathMaster1, res.UnlockedAchievements[0].ID)

	// The weaker session score does not displace the stored best.
	assert.False(t, res.ScoreAccepted)
}

func TestGameResultFlow_RejectsUnknownGame(t *testing.T) {
	flow := newFlow()

	_, err := flow.Execute(context.Background(), GameResultInput{
		Game: "geography", Score: 5, Total: 10, Correct: 5, Questions: 10,
	})
	require.Error(t, err)
}
