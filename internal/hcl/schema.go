package hcl

// fileRoot is the set of top-level blocks a patch file may contain.
type fileRoot struct {
	Patches []*patchBlock `hcl:"patch,block"`
}

// patchBlock represents a `patch` block: one target and its ordered rules.
type patchBlock struct {
	Name        string       `hcl:"name,label"`
	Description string       `hcl:"description,optional"`
	Target      string       `hcl:"target"`
	Rules       []*ruleBlock `hcl:"rule,block"`
}

// ruleBlock represents a `rule` block inside a patch.
type ruleBlock struct {
	Name      string `hcl:"name,label"`
	Pattern   string `hcl:"pattern"`
	Replace   string `hcl:"replace,optional"`
	Expand    bool   `hcl:"expand,optional"`
	DotAll    bool   `hcl:"dotall,optional"`
	Multiline bool   `hcl:"multiline,optional"`
	Limit     *int   `hcl:"limit,optional"`
	Expect    *int   `hcl:"expect,optional"`
	Unless    string `hcl:"unless,optional"`
}
