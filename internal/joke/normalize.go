package joke

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Apology is the setup used when nothing usable can be recovered from a payload.
const Apology = "Sorry, the joke got lost on the way. Try again!"

var (
	questionLabel = regexp.MustCompile(`(?i)^(Q:|Question:)\s*`)
	answerLabel   = regexp.MustCompile(`(?i)^(A:|Answer:)\s*`)
)

// Payload is a raw provider result. The concrete types are Single, TwoPart
// and RawText.
type Payload interface {
	isPayload()
}

// Single is a one-field joke, e.g. a one-liner.
type Single struct {
	Text string
}

// TwoPart is a setup/punchline pair reported by the provider.
type TwoPart struct {
	Setup     string
	Punchline string
}

// RawText is loosely formatted text, usually model output.
type RawText struct {
	Text string
}

func (Single) isPayload()  {}
func (TwoPart) isPayload() {}
func (RawText) isPayload() {}

// Normalize converts a payload into a Joke. The bool is false when the payload
// carries no usable setup.
func Normalize(p Payload) (Joke, bool) {
	switch p := p.(type) {
	case Single:
		j := Joke{Setup: strings.TrimSpace(p.Text)}
		return j, j.Setup != ""
	case TwoPart:
		j := Joke{
			Setup:     strings.TrimSpace(p.Setup),
			Punchline: strings.TrimSpace(p.Punchline),
		}
		return j, j.Setup != ""
	case RawText:
		j := ParseText(p.Text)
		return j, j.Setup != Apology
	default:
		return Joke{}, false
	}
}

// ParseText recovers a joke from model output. It accepts clean JSON, fenced
// JSON, JSON whose setup is itself encoded JSON, JSON surrounded by prose, and
// freeform text. It always returns a joke with a non-empty setup.
func ParseText(raw string) Joke {
	text := strings.TrimSpace(raw)
	body := stripFence(text)

	fields, ok := decodeObject(body)
	if !ok {
		if span := extractJSON(body); span != "" {
			if nested, found := decodeObject(span); found {
				_, ok = nested["setup"].(string)
				fields = nested
			}
		}
	}

	var j Joke
	if ok {
		j = fromFields(unwrapNested(fields))
	} else {
		j = fromLines(body)
	}

	if j.Setup == "" {
		j.Setup = text
	}
	if j.Setup == "" {
		j.Setup = Apology
	}
	return j
}

// stripFence removes a leading ``` or ```json fence and a trailing ``` fence.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
			s = s[i+1:]
		} else if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func decodeObject(s string) (map[string]any, bool) {
	if !strings.HasPrefix(strings.TrimSpace(s), "{") {
		return nil, false
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(s), &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

// unwrapNested replaces the object with the one encoded in its setup field,
// one level deep.
func unwrapNested(fields map[string]any) map[string]any {
	setup, ok := fields["setup"].(string)
	if !ok || !strings.HasPrefix(strings.TrimSpace(setup), "{") {
		return fields
	}
	nested, ok := decodeObject(setup)
	if !ok {
		return fields
	}
	if _, has := nested["setup"]; !has {
		return fields
	}
	return nested
}

func fromFields(fields map[string]any) Joke {
	var j Joke
	if setup, ok := fields["setup"].(string); ok {
		j.Setup = strings.TrimSpace(setup)
	}
	j.Punchline = strings.TrimSpace(coerceString(fields["punchline"]))
	if topic, ok := fields["topic"].(string); ok {
		j.Topic = strings.TrimSpace(topic)
	}
	return j
}

func fromLines(text string) Joke {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	switch {
	case len(lines) >= 2:
		return Joke{
			Setup:     strings.TrimSpace(questionLabel.ReplaceAllString(lines[0], "")),
			Punchline: strings.TrimSpace(answerLabel.ReplaceAllString(strings.Join(lines[1:], " "), "")),
		}
	case len(lines) == 1:
		return Joke{Setup: lines[0]}
	default:
		return Joke{}
	}
}

func coerceString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// extractJSON finds the first balanced JSON object in text.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	return ""
}
