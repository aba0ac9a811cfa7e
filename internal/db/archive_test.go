package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/giggles/internal/joke"
)

func TestStore_RecordJoke(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	j := joke.Joke{Setup: "Why did the tomato turn red?", Punchline: "Because it saw the salad dressing!", Topic: "food"}
	row, err := store.RecordJoke(ctx, j, "gemini")
	require.NoError(t, err)

	_, err = uuid.Parse(row.ID)
	assert.NoError(t, err)
	assert.Equal(t, joke.Fingerprint(j), row.Fingerprint)
	assert.Equal(t, j.Setup, row.Setup)
	assert.Equal(t, j.Punchline, row.Punchline)
	assert.Equal(t, "food", row.Topic)
	assert.Equal(t, "gemini", row.Source)
	assert.False(t, row.CreatedAt.IsZero())

	count, err := store.CountJokes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestStore_RecordRating(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()
	j := joke.Joke{Setup: "S", Punchline: "P"}

	t.Run("stores rating", func(t *testing.T) {
		row, err := store.RecordRating(ctx, j, 80, "happy")
		require.NoError(t, err)
		assert.Equal(t, int64(80), row.Rating)
		assert.Equal(t, "happy", row.Mood)
		assert.Equal(t, joke.Fingerprint(j), row.Fingerprint)
	})

	t.Run("rejects out of range", func(t *testing.T) {
		_, err := store.RecordRating(ctx, j, 101, "happy")
		assert.Error(t, err)
	})
}

func TestQueries_Stats(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	t.Run("empty archive", func(t *testing.T) {
		avg, err := store.AverageRating(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0.0, avg)

		topics, err := store.CountJokesByTopic(ctx)
		require.NoError(t, err)
		assert.Empty(t, topics)
	})

	for _, j := range []joke.Joke{
		{Setup: "A", Topic: "food"},
		{Setup: "B", Topic: "food"},
		{Setup: "C", Topic: "animals"},
		{Setup: "D"},
	} {
		_, err := store.RecordJoke(ctx, j, "gemini")
		require.NoError(t, err)
	}
	for _, r := range []struct {
		rating int
		mood   string
	}{{90, "happy"}, {10, "groan"}, {80, "happy"}} {
		_, err := store.RecordRating(ctx, joke.Joke{Setup: "A"}, r.rating, r.mood)
		require.NoError(t, err)
	}

	t.Run("jokes by topic", func(t *testing.T) {
		topics, err := store.CountJokesByTopic(ctx)
		require.NoError(t, err)
		require.Len(t, topics, 2)
		assert.Equal(t, TopicCount{Topic: "food", Count: 2}, *topics[0])
		assert.Equal(t, TopicCount{Topic: "animals", Count: 1}, *topics[1])
	})

	t.Run("ratings by mood", func(t *testing.T) {
		moods, err := store.CountRatingsByMood(ctx)
		require.NoError(t, err)
		require.Len(t, moods, 2)
		assert.Equal(t, MoodCount{Mood: "happy", Count: 2}, *moods[0])
		assert.Equal(t, MoodCount{Mood: "groan", Count: 1}, *moods[1])
	})

	t.Run("average", func(t *testing.T) {
		avg, err := store.AverageRating(ctx)
		require.NoError(t, err)
		assert.InDelta(t, 60.0, avg, 0.001)

		count, err := store.CountRatings(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("recent jokes newest first", func(t *testing.T) {
		recent, err := store.ListRecentJokes(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "D", recent[0].Setup)
		assert.Equal(t, "C", recent[1].Setup)
	})
}
