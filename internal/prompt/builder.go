// Package prompt builds the instruction sent to the generative model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/abdulachik/giggles/internal/catalog"
)

// Builder renders prompts from a fixed topic map and example set. Output is
// deterministic for a given input.
type Builder struct {
	descriptions map[string]string
	examples     []catalog.Example
}

// New creates a builder from a catalog.
func New(c *catalog.Catalog) *Builder {
	return &Builder{
		descriptions: c.Descriptions(),
		examples:     append([]catalog.Example(nil), c.Examples...),
	}
}

// Default returns a builder over the embedded catalog.
func Default() *Builder {
	return New(catalog.Default())
}

// Build renders the prompt for a topic, steering away from recent topics.
func Build(topic string, recent []string) string {
	return Default().Build(topic, recent)
}

// Build renders the prompt for a topic, steering away from recent topics.
func (b *Builder) Build(topic string, recent []string) string {
	var sb strings.Builder

	sb.WriteString(rolePrompt)
	sb.WriteString("\n\n")

	if len(b.examples) > 0 {
		sb.WriteString(examplesHeader)
		sb.WriteString("\n\n")
		for i, e := range b.examples {
			fmt.Fprintf(&sb, exampleTemplate, i+1, e.Setup, e.Punchline, e.Why)
			sb.WriteString("\n\n")
		}
	}

	name, desc := b.describe(topic)
	fmt.Fprintf(&sb, topicTemplate, name, desc)
	sb.WriteString("\n")

	if len(recent) > 0 {
		fmt.Fprintf(&sb, avoidTemplate, strings.Join(recent, ", "))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(outputDirective)
	return sb.String()
}

// describe returns the display name and description used for topic.
func (b *Builder) describe(topic string) (string, string) {
	topic = strings.TrimSpace(topic)
	if desc, ok := b.descriptions[topic]; ok && desc != "" {
		return topic, desc
	}
	if topic == "" {
		return genericTopic, genericDescription
	}
	return topic, genericDescription
}
