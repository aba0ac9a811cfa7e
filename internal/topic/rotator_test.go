package topic

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotator_Next(t *testing.T) {
	t.Run("covers every topic before repeating", func(t *testing.T) {
		topics := []string{"animals", "food", "science", "sports"}
		r := NewRotator(topics)

		var got []string
		for i := 0; i < len(topics)*2; i++ {
			got = append(got, r.Next())
		}
		assert.Equal(t, append(topics, topics...), got)
	})

	t.Run("empty list", func(t *testing.T) {
		r := NewRotator(nil)
		assert.Equal(t, "", r.Next())
		assert.Equal(t, "", r.Next())
	})

	t.Run("caller slice is copied", func(t *testing.T) {
		topics := []string{"a", "b"}
		r := NewRotator(topics)
		topics[0] = "z"
		assert.Equal(t, "a", r.Next())
	})
}

func TestRotator_Record(t *testing.T) {
	t.Run("recent keeps acceptance order", func(t *testing.T) {
		r := NewRotator(nil)
		r.Record("food")
		r.Record("animals")
		r.Record("food")
		assert.Equal(t, []string{"food", "animals", "food"}, r.Recent())
	})

	t.Run("empty topic ignored", func(t *testing.T) {
		r := NewRotator(nil)
		r.Record("")
		assert.Empty(t, r.Recent())
	})

	t.Run("history bounded at twenty and recent at fifteen", func(t *testing.T) {
		r := NewRotator(nil)
		for i := 0; i < 25; i++ {
			r.Record(fmt.Sprintf("t%d", i))
		}

		history := r.History()
		require.Len(t, history, HistorySize)
		assert.Equal(t, "t5", history[0])
		assert.Equal(t, "t24", history[HistorySize-1])

		recent := r.Recent()
		require.Len(t, recent, RecentSize)
		assert.Equal(t, "t10", recent[0])
		assert.Equal(t, "t24", recent[RecentSize-1])
	})

	t.Run("recent returns a copy", func(t *testing.T) {
		r := NewRotator(nil)
		r.Record("food")
		recent := r.Recent()
		recent[0] = "mutated"
		assert.Equal(t, []string{"food"}, r.Recent())
	})
}
