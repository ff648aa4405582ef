package eventhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaan-arena/arena-hub/internal/domain/shared"
)

func TestNotificationFeed_EvictsOldestWhenFull(t *testing.T) {
	feed := NewNotificationFeed(2)

	feed.Push(Toast{Kind: ToastAchievement, Title: "first"})
	feed.Push(Toast{Kind: ToastLevelUp, Title: "second"})
	feed.Push(Toast{Kind: ToastStreakBroken, Title: "third"})

	recent := feed.Recent(0)
	require.Len(t, recent, 2)
	assert.Equal(t, "second", recent[0].Title)
	assert.Equal(t, "third", recent[1].Title)
}

func TestNotificationFeed_DrainEmptiesFeed(t *testing.T) {
	feed := NewNotificationFeed(0)
	feed.Push(Toast{Kind: ToastAchievement, Title: "only"})

	drained := feed.Drain()
	require.Len(t, drained, 1)
	assert.Equal(t, "only", drained[0].Title)
	assert.Zero(t, feed.Len())
}

func TestOnAchievementUnlocked_PushesToast(t *testing.T) {
	feed := NewNotificationFeed(0)
	h := NewOnAchievementUnlockedHandler(feed, nil)

	event := shared.NewAchievementUnlockedEvent("first_win", "First Win", 10)
	require.NoError(t, h.Handle(event))

	toasts := feed.Recent(0)
	require.Len(t, toasts, 1)
	assert.Equal(t, ToastAchievement, toasts[0].Kind)
	assert.Equal(t, "First Win", toasts[0].Title)
	assert.Equal(t, 10, toasts[0].Points)
}

func TestOnAchievementUnlocked_IgnoresForeignEvents(t *testing.T) {
	feed := NewNotificationFeed(0)
	h := NewOnAchievementUnlockedHandler(feed, nil)

	require.NoError(t, h.Handle(shared.NewStreakUpdatedEvent(3)))
	assert.Zero(t, feed.Len())
}

func TestOnLevelUp_PushesToast(t *testing.T) {
	feed := NewNotificationFeed(0)
	h := NewOnLevelUpHandler(feed, nil)

	require.NoError(t, h.Handle(shared.NewLevelUpEvent(1, 2, 150)))

	toasts := feed.Recent(0)
	require.Len(t, toasts, 1)
	assert.Equal(t, ToastLevelUp, toasts[0].Kind)
	assert.Equal(t, "Level 2", toasts[0].Title)
}

func TestOnStreakBroken_PushesToast(t *testing.T) {
	feed := NewNotificationFeed(0)
	h := NewOnStreakBrokenHandler(feed, nil)

	require.NoError(t, h.Handle(shared.NewStreakBrokenEvent(5)))

	toasts := feed.Recent(0)
	require.Len(t, toasts, 1)
	assert.Equal(t, ToastStreakBroken, toasts[0].Kind)
	assert.Contains(t, toasts[0].Message, "5-day streak")
}
