package config

import "fmt"

// Model is the unified representation of every loaded patch, in the order
// the patches must run.
type Model struct {
	Patches []*Patch
}

// Patch is one patch script: a target file and the rules applied to it.
type Patch struct {
	Name        string
	Description string
	Target      string
	Rules       []*Rule

	// Source is the configuration file the patch was declared in.
	Source string
}

// Rule is a single search-and-replace operation.
type Rule struct {
	Name        string
	Pattern     string
	Replacement string

	// Expand treats Replacement as a template referring to capture groups.
	Expand    bool
	DotAll    bool
	Multiline bool

	// Limit caps the number of replacements. Zero replaces every match.
	Limit int
	// Expect is the minimum number of matches for the rule to count as applied.
	Expect int
	// Unless is a pattern that, when it already matches, marks the rule as
	// previously applied.
	Unless string
}

// DefaultExpect is the match count a rule expects when none is configured.
const DefaultExpect = 1

// Names returns the patch names in declared order.
func (m *Model) Names() []string {
	names := make([]string, 0, len(m.Patches))
	for _, p := range m.Patches {
		names = append(names, p.Name)
	}
	return names
}

// Lookup returns the patch with the given name.
func (m *Model) Lookup(name string) (*Patch, bool) {
	for _, p := range m.Patches {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Validate checks the structural invariants of the model: unique patch
// names, unique rule names inside a patch, and required fields.
func (m *Model) Validate() error {
	seen := make(map[string]string, len(m.Patches))
	for _, p := range m.Patches {
		if prev, dup := seen[p.Name]; dup {
			return fmt.Errorf("patch %q declared in %s is already declared in %s", p.Name, p.Source, prev)
		}
		seen[p.Name] = p.Source

		if p.Target == "" {
			return fmt.Errorf("patch %q: target must not be empty", p.Name)
		}
		if len(p.Rules) == 0 {
			return fmt.Errorf("patch %q: at least one rule is required", p.Name)
		}

		rules := make(map[string]struct{}, len(p.Rules))
		for _, r := range p.Rules {
			if _, dup := rules[r.Name]; dup {
				return fmt.Errorf("patch %q: duplicate rule %q", p.Name, r.Name)
			}
			rules[r.Name] = struct{}{}

			if r.Pattern == "" {
				return fmt.Errorf("patch %q rule %q: pattern must not be empty", p.Name, r.Name)
			}
			if r.Limit < 0 {
				return fmt.Errorf("patch %q rule %q: limit must not be negative", p.Name, r.Name)
			}
			if r.Expect < 0 {
				return fmt.Errorf("patch %q rule %q: expect must not be negative", p.Name, r.Name)
			}
			if r.Limit > 0 && r.Expect > r.Limit {
				return fmt.Errorf("patch %q rule %q: expect %d exceeds limit %d and can never be met", p.Name, r.Name, r.Expect, r.Limit)
			}
		}
	}
	return nil
}
