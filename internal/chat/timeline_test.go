package chat

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func makeMessage(sender uuid.UUID, at time.Time) Message {
	return Message{
		ID:        uuid.New(),
		SenderID:  sender,
		Content:   "msg",
		CreatedAt: at,
	}
}

func TestBuildTimeline_Empty(t *testing.T) {
	require.Empty(t, BuildTimeline(nil, time.UTC))
	require.Empty(t, BuildTimeline([]Message{}, time.UTC))
}

func TestBuildTimeline_GroupsSameSenderWithinWindow(t *testing.T) {
	sender := uuid.New()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	groups := BuildTimeline([]Message{
		makeMessage(sender, base),
		makeMessage(sender, base.Add(2*time.Minute)),
	}, time.UTC)

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Messages, 2)
	require.False(t, groups[0].Messages[0].GroupedWithPrevious)
	require.True(t, groups[0].Messages[1].GroupedWithPrevious)
}

func TestBuildTimeline_WindowBoundary(t *testing.T) {
	sender := uuid.New()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	// 4:59 — группируется
	groups := BuildTimeline([]Message{
		makeMessage(sender, base),
		makeMessage(sender, base.Add(4*time.Minute+59*time.Second)),
	}, time.UTC)
	require.True(t, groups[0].Messages[1].GroupedWithPrevious)

	// Ровно 5:00 — уже нет, неравенство строгое
	groups = BuildTimeline([]Message{
		makeMessage(sender, base),
		makeMessage(sender, base.Add(5*time.Minute)),
	}, time.UTC)
	require.False(t, groups[0].Messages[1].GroupedWithPrevious)
}

func TestBuildTimeline_DifferentSenderBreaksGroup(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	groups := BuildTimeline([]Message{
		makeMessage(alice, base),
		makeMessage(alice, base.Add(2*time.Minute)),
		makeMessage(bob, base.Add(2*time.Minute+time.Second)),
	}, time.UTC)

	require.Len(t, groups, 1)
	require.True(t, groups[0].Messages[1].GroupedWithPrevious)
	require.False(t, groups[0].Messages[2].GroupedWithPrevious)
}

func TestBuildTimeline_MidnightSplitsDateGroups(t *testing.T) {
	sender := uuid.New()

	// Секунды вокруг полуночи — разные календарные дни
	beforeMidnight := time.Date(2025, 3, 10, 23, 59, 50, 0, time.UTC)
	afterMidnight := time.Date(2025, 3, 11, 0, 0, 10, 0, time.UTC)

	groups := BuildTimeline([]Message{
		makeMessage(sender, beforeMidnight),
		makeMessage(sender, afterMidnight),
	}, time.UTC)

	require.Len(t, groups, 2)
	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), groups[0].Day)
	require.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), groups[1].Day)

	// Первое сообщение каждой группы рендерится с полной шапкой,
	// даже если разрыв — секунды
	require.False(t, groups[1].Messages[0].GroupedWithPrevious)
}

func TestBuildTimeline_DayBoundaryFollowsLocation(t *testing.T) {
	sender := uuid.New()
	moscow := time.FixedZone("MSK", 3*60*60)

	// 23:30 UTC — уже следующий день в Москве
	at := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)

	groups := BuildTimeline([]Message{makeMessage(sender, at)}, moscow)
	require.Len(t, groups, 1)
	require.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, moscow), groups[0].Day)
}

func TestBuildTimeline_Deterministic(t *testing.T) {
	sender := uuid.New()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	msgs := []Message{
		makeMessage(sender, base),
		makeMessage(sender, base.Add(time.Minute)),
		makeMessage(uuid.New(), base.Add(2*time.Minute)),
	}

	require.Equal(t, BuildTimeline(msgs, time.UTC), BuildTimeline(msgs, time.UTC))
}
