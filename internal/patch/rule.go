package patch

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/specialistvlad/patchgrid/internal/config"
)

// Status is the outcome of a single rule.
type Status string

const (
	// StatusApplied means the rule matched at least as often as expected.
	StatusApplied Status = "applied"
	// StatusUnmatched means the rule matched fewer times than expected and
	// left the content unchanged.
	StatusUnmatched Status = "unmatched"
	// StatusSkipped means the rule's guard matched, so it was treated as
	// already applied.
	StatusSkipped Status = "skipped"
)

// RuleResult describes what one rule did to the content.
type RuleResult struct {
	Rule         string
	Status       Status
	Matches      int
	Replacements int
}

// Rule is a compiled substitution rule.
type Rule struct {
	name        string
	re          *regexp.Regexp
	unless      *regexp.Regexp
	replacement string
	expand      bool
	limit       int
	expect      int
}

// Compile validates a rule definition and compiles its patterns.
func Compile(patchName string, def *config.Rule) (*Rule, error) {
	re, err := regexp.Compile(flagPrefix(def.DotAll, def.Multiline) + def.Pattern)
	if err != nil {
		return nil, &RuleError{Patch: patchName, Rule: def.Name, Err: fmt.Errorf("invalid pattern: %w", err)}
	}

	var unless *regexp.Regexp
	if def.Unless != "" {
		unless, err = regexp.Compile(flagPrefix(def.DotAll, def.Multiline) + def.Unless)
		if err != nil {
			return nil, &RuleError{Patch: patchName, Rule: def.Name, Err: fmt.Errorf("invalid unless pattern: %w", err)}
		}
	}

	if def.Limit < 0 || def.Expect < 0 {
		return nil, &RuleError{Patch: patchName, Rule: def.Name, Err: errors.New("limit and expect must not be negative")}
	}
	if def.Limit > 0 && def.Expect > def.Limit {
		return nil, &RuleError{Patch: patchName, Rule: def.Name, Err: fmt.Errorf("expect %d exceeds limit %d", def.Expect, def.Limit)}
	}

	return &Rule{
		name:        def.Name,
		re:          re,
		unless:      unless,
		replacement: def.Replacement,
		expand:      def.Expand,
		limit:       def.Limit,
		expect:      def.Expect,
	}, nil
}

// CompileAll compiles every rule of a patch in declared order.
func CompileAll(p *config.Patch) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(p.Rules))
	for _, def := range p.Rules {
		r, err := Compile(p.Name, def)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func flagPrefix(dotAll, multiline bool) string {
	var flags strings.Builder
	if dotAll {
		flags.WriteByte('s')
	}
	if multiline {
		flags.WriteByte('m')
	}
	if flags.Len() == 0 {
		return ""
	}
	return "(?" + flags.String() + ")"
}

// Name returns the rule's name.
func (r *Rule) Name() string {
	return r.name
}

// Apply performs the substitution on content. When the rule matches fewer
// times than it expects, content is returned unchanged.
func (r *Rule) Apply(content string) (string, RuleResult) {
	res := RuleResult{Rule: r.name}

	if r.unless != nil && r.unless.MatchString(content) {
		res.Status = StatusSkipped
		return content, res
	}

	n := -1
	if r.limit > 0 {
		n = r.limit
	}
	matches := r.re.FindAllStringSubmatchIndex(content, n)
	res.Matches = len(matches)

	if res.Matches < r.expect {
		res.Status = StatusUnmatched
		return content, res
	}
	if res.Matches == 0 {
		// expect = 0 makes a miss acceptable.
		res.Status = StatusApplied
		return content, res
	}

	var out strings.Builder
	out.Grow(len(content))
	last := 0
	for _, m := range matches {
		out.WriteString(content[last:m[0]])
		if r.expand {
			out.Write(r.re.ExpandString(nil, r.replacement, content, m))
		} else {
			out.WriteString(r.replacement)
		}
		last = m[1]
	}
	out.WriteString(content[last:])

	res.Status = StatusApplied
	res.Replacements = len(matches)
	return out.String(), res
}

// Apply folds rules over content in order. Each rule sees the output of the
// previous one.
func Apply(content string, rules []*Rule) (string, []RuleResult) {
	results := make([]RuleResult, 0, len(rules))
	for _, r := range rules {
		var res RuleResult
		content, res = r.Apply(content)
		results = append(results, res)
	}
	return content, results
}
