package commitmsg

import "strings"

// TypeLabel pairs a commit type key with the section heading it renders under.
type TypeLabel struct {
	Key   string
	Label string
}

// Registry maps commit type keys to display labels.
// A Registry is immutable once constructed.
type Registry struct {
	entries  []TypeLabel
	byKey    map[string]string
	fallback string
}

// FallbackKey is the type key unknown types are filed under.
const FallbackKey = "other"

var defaultTypes = []TypeLabel{
	{Key: "breaking", Label: "🚨 Breaking Changes"},
	{Key: "build", Label: "Build System / Dependencies"},
	{Key: "ci", Label: "🔧 CI/CD"},
	{Key: "chore", Label: "🗑 Chores"},
	{Key: "change", Label: "👀 Changes"},
	{Key: "docs", Label: "📖 Documentation"},
	{Key: "feat", Label: "💡 New Features"},
	{Key: "fix", Label: "🐛 Bug Fixes"},
	{Key: "other", Label: "Other Changes"},
	{Key: "perf", Label: "🚀 Performance Improvements"},
	{Key: "refactor", Label: "♻ Refactors"},
	{Key: "revert", Label: "Reverts"},
	{Key: "style", Label: "🎀 Code Style Changes"},
	{Key: "test", Label: "Tests"},
}

// DefaultRegistry is the built-in type table.
var DefaultRegistry = NewRegistry(defaultTypes, FallbackKey)

// NewRegistry builds a registry from an ordered table.
// fallbackKey must be one of the table's keys; it panics otherwise.
func NewRegistry(entries []TypeLabel, fallbackKey string) *Registry {
	r := &Registry{
		entries: make([]TypeLabel, len(entries)),
		byKey:   make(map[string]string, len(entries)),
	}
	copy(r.entries, entries)
	for _, e := range entries {
		r.byKey[e.Key] = e.Label
	}

	label, ok := r.byKey[fallbackKey]
	if !ok {
		panic("commitmsg: fallback key " + fallbackKey + " is not in the registry")
	}
	r.fallback = label
	return r
}

// Label returns the display label for a type key, or the fallback label
// when the key is unknown.
func (r *Registry) Label(key string) string {
	if label, ok := r.byKey[key]; ok {
		return label
	}
	return r.fallback
}

// Lookup reports the label for key without applying the fallback.
func (r *Registry) Lookup(key string) (string, bool) {
	label, ok := r.byKey[key]
	return label, ok
}

// Fallback returns the label used for unknown type keys.
func (r *Registry) Fallback() string {
	return r.fallback
}

// Labels returns all display labels in table order.
func (r *Registry) Labels() []string {
	labels := make([]string, len(r.entries))
	for i, e := range r.entries {
		labels[i] = e.Label
	}
	return labels
}

// Keys returns all type keys in table order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.Key
	}
	return keys
}

// Exclusions converts a user supplied exclusion list into a set of labels.
// Items may be type keys ("docs") or literal labels; blanks are ignored.
func (r *Registry) Exclusions(items []string) map[string]struct{} {
	excluded := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if label, ok := r.byKey[item]; ok {
			excluded[label] = struct{}{}
			continue
		}
		excluded[item] = struct{}{}
	}
	return excluded
}
