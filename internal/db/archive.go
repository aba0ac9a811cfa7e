package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/abdulachik/giggles/internal/joke"
)

// RecordJoke archives a generated joke.
func (s *Store) RecordJoke(ctx context.Context, j joke.Joke, source string) (*Joke, error) {
	id := uuid.NewString()
	err := s.CreateJoke(ctx, CreateJokeParams{
		ID:          id,
		Fingerprint: joke.Fingerprint(j),
		Setup:       j.Setup,
		Punchline:   j.Punchline,
		Topic:       j.Topic,
		Source:      source,
	})
	if err != nil {
		return nil, fmt.Errorf("create joke: %w", err)
	}
	return s.GetJoke(ctx, id)
}

// RecordRating archives a rating for a joke.
func (s *Store) RecordRating(ctx context.Context, j joke.Joke, rating int, mood string) (*Rating, error) {
	id := uuid.NewString()
	err := s.CreateRating(ctx, CreateRatingParams{
		ID:          id,
		Fingerprint: joke.Fingerprint(j),
		Rating:      int64(rating),
		Mood:        mood,
	})
	if err != nil {
		return nil, fmt.Errorf("create rating: %w", err)
	}
	return s.GetRating(ctx, id)
}
