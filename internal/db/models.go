package db

import "time"

// Joke is an archived generated joke.
type Joke struct {
	ID          string
	Fingerprint string
	Setup       string
	Punchline   string
	Topic       string
	Source      string
	CreatedAt   time.Time
}

// Rating is an archived rating.
type Rating struct {
	ID          string
	Fingerprint string
	Rating      int64
	Mood        string
	CreatedAt   time.Time
}

// TopicCount is the number of archived jokes per topic.
type TopicCount struct {
	Topic string
	Count int64
}

// MoodCount is the number of ratings per mood.
type MoodCount struct {
	Mood  string
	Count int64
}
