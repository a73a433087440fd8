package hcl

import "github.com/specialistvlad/patchgrid/internal/config"

// translatePatch converts the HCL-specific patch schema into the agnostic model.
func translatePatch(source string, b *patchBlock) *config.Patch {
	p := &config.Patch{
		Name:        b.Name,
		Description: b.Description,
		Target:      b.Target,
		Source:      source,
		Rules:       make([]*config.Rule, 0, len(b.Rules)),
	}
	for _, r := range b.Rules {
		p.Rules = append(p.Rules, translateRule(r))
	}
	return p
}

// translateRule converts a rule block, applying defaults for unset counts.
func translateRule(b *ruleBlock) *config.Rule {
	r := &config.Rule{
		Name:        b.Name,
		Pattern:     b.Pattern,
		Replacement: b.Replace,
		Expand:      b.Expand,
		DotAll:      b.DotAll,
		Multiline:   b.Multiline,
		Expect:      config.DefaultExpect,
		Unless:      b.Unless,
	}
	if b.Limit != nil {
		r.Limit = *b.Limit
	}
	if b.Expect != nil {
		r.Expect = *b.Expect
	}
	return r
}
