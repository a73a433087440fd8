// Package patches embeds the built-in patch set. File names carry a numeric
// prefix because later patches expect the output of earlier ones.
package patches

import "embed"

// FS holds the built-in patch files.
//
//go:embed *.hcl
var FS embed.FS
