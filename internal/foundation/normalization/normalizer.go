// Package normalization maps loosely written configuration strings onto typed values.
package normalization

import (
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Normalizer maps case- and whitespace-insensitive names to values of T.
type Normalizer[T comparable] struct {
	name         string
	values       map[string]T
	defaultValue T
	keys         []string
}

// New builds a normalizer for the named setting. Keys are normalized on the way in.
func New[T comparable](name string, values map[string]T, defaultValue T) *Normalizer[T] {
	n := &Normalizer[T]{
		name:         name,
		values:       make(map[string]T, len(values)),
		defaultValue: defaultValue,
		keys:         make([]string, 0, len(values)),
	}
	for k, v := range values {
		key := Clean(k)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	slices.Sort(n.keys)
	return n
}

// Normalize returns the value for raw, or the default for unknown or empty input.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[Clean(raw)]; ok {
		return v
	}
	return n.defaultValue
}

// Parse is Normalize that rejects unknown input. Empty input yields the default.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	cleaned := Clean(raw)
	if cleaned == "" {
		return n.defaultValue, nil
	}
	if v, ok := n.values[cleaned]; ok {
		return v, nil
	}
	var zero T
	return zero, ferrors.ValidationError("invalid "+n.name).
		WithContext("value", raw).
		WithContext("valid", strings.Join(n.ValidKeys(), ", ")).
		Build()
}

// ValidKeys returns the accepted names in sorted order.
func (n *Normalizer[T]) ValidKeys() []string {
	return slices.Clone(n.keys)
}

// Clean lowercases and trims s.
func Clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
