// Package coref attributes paragraphs to speakers using the person mentions
// an entity extraction service finds in a story.
package coref

import (
	"context"
	"strings"
)

// PersonType is the entity type kept for attribution
const PersonType = "Person"

// Provider extracts entities and their mentions from story text
type Provider interface {
	// Name returns the provider name
	Name() string

	// Analyze submits text and returns the service's annotations
	Analyze(ctx context.Context, text string) (*Annotations, error)
}

// Annotations is a service response. Entities is nil when the response
// carried no entities collection at all.
type Annotations struct {
	Entities *[]Entity `json:"entities,omitempty"`
}

// Entity is one extracted entity
type Entity struct {
	Type       string     `json:"_type"`
	CommonName string     `json:"commonname,omitempty"`
	Name       string     `json:"name,omitempty"`
	Instances  []Instance `json:"instances,omitempty"`
}

// Instance is one occurrence of an entity with its surrounding text
type Instance struct {
	Exact  *string `json:"exact,omitempty"`
	Prefix *string `json:"prefix,omitempty"`
	Suffix *string `json:"suffix,omitempty"`
}

// Mention is an instance with absent fields resolved to ""
type Mention struct {
	Exact  string
	Prefix string
	Suffix string
}

// CanonicalName returns the entity's preferred display name
func (e Entity) CanonicalName() string {
	if e.CommonName != "" {
		return e.CommonName
	}
	return e.Name
}

// Mention converts the instance, treating missing fields as empty
func (i Instance) Mention() Mention {
	return Mention{Exact: deref(i.Exact), Prefix: deref(i.Prefix), Suffix: deref(i.Suffix)}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Map groups mentions by canonical speaker name, remembering the order in
// which names were first seen
type Map struct {
	names    []string
	mentions map[string][]Mention
}

// NewMap builds the speaker map from the person entities in entities.
// Entities without a usable name are skipped.
func NewMap(entities []Entity) *Map {
	m := &Map{mentions: make(map[string][]Mention)}
	for _, e := range entities {
		if e.Type != PersonType {
			continue
		}
		name := e.CanonicalName()
		if name == "" {
			continue
		}
		if _, ok := m.mentions[name]; !ok {
			m.names = append(m.names, name)
			m.mentions[name] = []Mention{}
		}
		for _, inst := range e.Instances {
			m.mentions[name] = append(m.mentions[name], inst.Mention())
		}
	}
	return m
}

// Names returns the canonical names in first-seen order
func (m *Map) Names() []string {
	return m.names
}

// Mentions returns the mentions collected for name
func (m *Map) Mentions(name string) []Mention {
	return m.mentions[name]
}

// Len returns the number of speakers
func (m *Map) Len() int {
	return len(m.names)
}

// Matches reports whether the mention's context appears in text. Empty
// contexts never match.
func (mn Mention) Matches(text string) bool {
	return (mn.Prefix != "" && strings.Contains(text, mn.Prefix)) ||
		(mn.Suffix != "" && strings.Contains(text, mn.Suffix))
}
