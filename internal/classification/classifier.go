// Package classification buckets free-text sheep types into a configured set of categories.
package classification

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Other is the catch-all bucket for sheep types no category recognizes.
const Other = "Other"

// Category is one known sheep type bucket.
type Category struct {
	Name     string `mapstructure:"name"`
	Pattern  string `mapstructure:"pattern"`
	Priority int    `mapstructure:"priority"` // Higher priority categories are checked first
}

type compiledCategory struct {
	regex *regexp.Regexp
	Category
	order int
}

// Classifier maps raw sheep type text to a known category or Other.
type Classifier struct {
	byPriority []compiledCategory
	names      []string
}

// NewClassifier compiles the given categories. Patterns are case-insensitive;
// an empty pattern matches the category name exactly (ignoring case and surrounding space).
func NewClassifier(categories []Category) (*Classifier, error) {
	compiled := make([]compiledCategory, 0, len(categories))
	names := make([]string, 0, len(categories)+1)
	seen := make(map[string]bool, len(categories))

	for i, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("category %d: name is required", i)
		}
		if strings.EqualFold(name, Other) {
			return nil, fmt.Errorf("category %q: %s is reserved", name, Other)
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("category %q: duplicate name", name)
		}
		seen[strings.ToLower(name)] = true

		pattern := c.Pattern
		if pattern == "" {
			pattern = `^\s*` + regexp.QuoteMeta(name) + `\s*$`
		}
		if !strings.HasPrefix(pattern, "(?i)") {
			pattern = "(?i)" + pattern
		}

		regex, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern for %s: %w", name, err)
		}

		c.Name = name
		compiled = append(compiled, compiledCategory{Category: c, regex: regex, order: i})
		names = append(names, name)
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})

	return &Classifier{
		byPriority: compiled,
		names:      append(names, Other),
	}, nil
}

// MustDefault returns a classifier over DefaultCategories.
func MustDefault() *Classifier {
	c, err := NewClassifier(DefaultCategories())
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the name of the first matching category, or Other.
func (c *Classifier) Classify(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Other
	}
	for _, cat := range c.byPriority {
		if cat.regex.MatchString(text) {
			return cat.Name
		}
	}
	return Other
}

// Buckets returns the category names in configured order, with Other last.
func (c *Classifier) Buckets() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// IsCrutchWork reports whether a row's sheep type marks it as crutching work.
func IsCrutchWork(raw string) bool {
	return strings.Contains(strings.ToLower(raw), "crutch")
}
