package mapping

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule maps filenames matching a pattern to a destination directory. The
// destination is a template expanded against the pattern's capture groups
// ($1, $name).
type Rule struct {
	pattern     *regexp.Regexp
	destination string
}

// NewRule compiles a derivation rule.
func NewRule(pattern, destination string) (Rule, error) {
	if destination == "" {
		return Rule{}, fmt.Errorf("rule %q: destination template is required", pattern)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", pattern, err)
	}
	return Rule{pattern: re, destination: destination}, nil
}

// Apply returns the destination for filename, or false if the rule does
// not match. The expanded destination is lowercased so derived folder
// names are stable across differently-cased inputs.
func (r Rule) Apply(filename string) (string, bool) {
	m := r.pattern.FindStringSubmatchIndex(filename)
	if m == nil {
		return "", false
	}
	dest := string(r.pattern.ExpandString(nil, r.destination, filename, m))
	return strings.ToLower(dest), true
}

// DefaultRules reproduces the stock derivation: the leading alphabetic run
// of the filename names the folder, so a1.txt goes to folder_a.
func DefaultRules() []Rule {
	r, err := NewRule(`^([A-Za-z]+)`, "folder_$1")
	if err != nil {
		panic(err) // static pattern
	}
	return []Rule{r}
}

// Derive builds a mapping set from a list of filenames using the first
// matching rule per file. Files matching no rule are returned separately
// so the caller can report them; they never enter the set.
func Derive(files []string, rules []Rule) (Set, []string) {
	var set Set
	var unmatched []string
	for _, name := range files {
		matched := false
		for _, rule := range rules {
			if dest, ok := rule.Apply(name); ok {
				set = append(set, Entry{Filename: name, Destination: dest})
				matched = true
				break
			}
		}
		if !matched {
			unmatched = append(unmatched, name)
		}
	}
	return set, unmatched
}
