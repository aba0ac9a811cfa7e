package presenter

// Mood is Giggles' reaction to a rating.
type Mood string

const (
	MoodNeutral Mood = "neutral"
	MoodHappy   Mood = "happy"
	MoodGroan   Mood = "groan"
)

// MoodFor maps a 0-100 rating to a mood: above 60 is happy, below 40 groans.
func MoodFor(rating int) Mood {
	switch {
	case rating > 60:
		return MoodHappy
	case rating < 40:
		return MoodGroan
	default:
		return MoodNeutral
	}
}
