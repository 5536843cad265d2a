package models

import "strings"

// Trait types offered by the mint form
const (
	TraitBackground = "background"
	TraitColor      = "color"
	TraitShape      = "shape"
)

// MinAttributes is the number of distinct traits a mint form must carry
const MinAttributes = 3

var (
	// Colors are the values offered for the color and background traits
	Colors = []string{"Red", "Green", "Blue", "Cyan", "Yellow", "Purple"}

	// Shapes are the values offered for the shape trait
	Shapes = []string{"Circle", "Square", "Triangle"}
)

// AttributeSet collects attributes keyed by trait type.
// Setting an existing trait replaces its value and keeps its position.
type AttributeSet struct {
	order  []string
	values map[string]string
}

// NewAttributeSet creates a set pre-populated with the given attributes.
// Later duplicates of a trait overwrite earlier ones.
func NewAttributeSet(attrs ...Attribute) *AttributeSet {
	s := &AttributeSet{values: make(map[string]string)}
	for _, a := range attrs {
		s.Set(a.TraitType, a.Value)
	}
	return s
}

// Set adds or replaces the value of a trait
func (s *AttributeSet) Set(traitType, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, exists := s.values[traitType]; !exists {
		s.order = append(s.order, traitType)
	}
	s.values[traitType] = value
}

// Get returns the value of a trait
func (s *AttributeSet) Get(traitType string) (string, bool) {
	v, ok := s.values[traitType]
	return v, ok
}

// Len returns the number of distinct traits
func (s *AttributeSet) Len() int {
	return len(s.order)
}

// Attributes returns the traits in insertion order
func (s *AttributeSet) Attributes() []Attribute {
	out := make([]Attribute, 0, len(s.order))
	for _, t := range s.order {
		out = append(out, Attribute{TraitType: t, Value: s.values[t]})
	}
	return out
}

// ParseAttribute parses "trait=value"
func ParseAttribute(s string) (Attribute, bool) {
	trait, value, ok := strings.Cut(s, "=")
	trait = strings.TrimSpace(trait)
	if !ok || trait == "" {
		return Attribute{}, false
	}
	return Attribute{TraitType: trait, Value: strings.TrimSpace(value)}, true
}
