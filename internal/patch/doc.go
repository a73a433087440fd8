// Package patch applies ordered regular-expression substitution rules to
// target files.
//
// A Script reads its target whole, folds every rule over the content in
// declared order and writes the result back in one atomic replace. Each rule
// reports how many times it matched, so a pattern that no longer matches is
// flagged instead of silently doing nothing. A Runner executes scripts one
// after another; later scripts see what earlier ones wrote.
package patch
