package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries runs the archive queries.
type Queries struct {
	db DBTX
}

// New creates Queries over db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const createJoke = `
INSERT INTO jokes (id, fingerprint, setup, punchline, topic, source)
VALUES (?, ?, ?, ?, ?, ?)
`

// CreateJokeParams holds the columns of a new joke row.
type CreateJokeParams struct {
	ID          string
	Fingerprint string
	Setup       string
	Punchline   string
	Topic       string
	Source      string
}

func (q *Queries) CreateJoke(ctx context.Context, arg CreateJokeParams) error {
	_, err := q.db.ExecContext(ctx, createJoke,
		arg.ID, arg.Fingerprint, arg.Setup, arg.Punchline, arg.Topic, arg.Source)
	return err
}

const getJoke = `
SELECT id, fingerprint, setup, punchline, topic, source, created_at
FROM jokes
WHERE id = ?
`

func (q *Queries) GetJoke(ctx context.Context, id string) (*Joke, error) {
	row := q.db.QueryRowContext(ctx, getJoke, id)
	var i Joke
	err := row.Scan(&i.ID, &i.Fingerprint, &i.Setup, &i.Punchline, &i.Topic, &i.Source, &i.CreatedAt)
	return &i, err
}

const createRating = `
INSERT INTO ratings (id, fingerprint, rating, mood)
VALUES (?, ?, ?, ?)
`

// CreateRatingParams holds the columns of a new rating row.
type CreateRatingParams struct {
	ID          string
	Fingerprint string
	Rating      int64
	Mood        string
}

func (q *Queries) CreateRating(ctx context.Context, arg CreateRatingParams) error {
	_, err := q.db.ExecContext(ctx, createRating, arg.ID, arg.Fingerprint, arg.Rating, arg.Mood)
	return err
}

const getRating = `
SELECT id, fingerprint, rating, mood, created_at
FROM ratings
WHERE id = ?
`

func (q *Queries) GetRating(ctx context.Context, id string) (*Rating, error) {
	row := q.db.QueryRowContext(ctx, getRating, id)
	var i Rating
	err := row.Scan(&i.ID, &i.Fingerprint, &i.Rating, &i.Mood, &i.CreatedAt)
	return &i, err
}

const countJokes = `SELECT COUNT(*) FROM jokes`

func (q *Queries) CountJokes(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countJokes).Scan(&count)
	return count, err
}

const countRatings = `SELECT COUNT(*) FROM ratings`

func (q *Queries) CountRatings(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countRatings).Scan(&count)
	return count, err
}

const averageRating = `SELECT CAST(COALESCE(AVG(rating), 0) AS REAL) FROM ratings`

func (q *Queries) AverageRating(ctx context.Context) (float64, error) {
	var avg float64
	err := q.db.QueryRowContext(ctx, averageRating).Scan(&avg)
	return avg, err
}

const listRecentJokes = `
SELECT id, fingerprint, setup, punchline, topic, source, created_at
FROM jokes
ORDER BY created_at DESC, rowid DESC
LIMIT ?
`

func (q *Queries) ListRecentJokes(ctx context.Context, limit int64) ([]*Joke, error) {
	rows, err := q.db.QueryContext(ctx, listRecentJokes, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Joke
	for rows.Next() {
		var i Joke
		if err := rows.Scan(&i.ID, &i.Fingerprint, &i.Setup, &i.Punchline, &i.Topic, &i.Source, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countJokesByTopic = `
SELECT topic, COUNT(*) AS count
FROM jokes
WHERE topic != ''
GROUP BY topic
ORDER BY count DESC, topic ASC
`

func (q *Queries) CountJokesByTopic(ctx context.Context) ([]*TopicCount, error) {
	rows, err := q.db.QueryContext(ctx, countJokesByTopic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*TopicCount
	for rows.Next() {
		var i TopicCount
		if err := rows.Scan(&i.Topic, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, &i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countRatingsByMood = `
SELECT mood, COUNT(*) AS count
FROM ratings
GROUP BY mood
ORDER BY count DESC, mood ASC
`

func (q *Queries) CountRatingsByMood(ctx context.Context) ([]*MoodCount, error) {
	rows, err := q.db.QueryContext(ctx, countRatingsByMood)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*MoodCount
	for rows.Next() {
		var i MoodCount
		if err := rows.Scan(&i.Mood, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, &i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
