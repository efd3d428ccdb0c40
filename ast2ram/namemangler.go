// Package ast2ram lowers a semantically-checked ast.Program into a ram
// program: the semi-naive translation algorithm, SCC stratification,
// Selinger join planning, ADT erasure, and subsumption-clause lowering.
package ast2ram

import "strings"

const (
	deltaPrefix  = "@delta_"
	newPrefix    = "@new_"
	rejectPrefix = "@reject_"
	deletePrefix = "@delete_"
	infoPrefix   = "@info_"
)

// Concrete returns the base relation name unchanged.
func Concrete(name string) string { return name }

// Delta returns the name of name's per-iteration delta sibling.
func Delta(name string) string { return deltaPrefix + name }

// New returns the name of name's per-iteration new sibling.
func New(name string) string { return newPrefix + name }

// Reject returns the name of name's subsumption reject sibling.
func Reject(name string) string { return rejectPrefix + name }

// Delete returns the name of name's subsumption delete sibling.
func Delete(name string) string { return deletePrefix + name }

// Info returns the name of name's zero-arity info relation.
func Info(name string) string { return infoPrefix + name }

// IsInfo reports whether name is an info relation (evaluation arity 0).
func IsInfo(name string) bool { return strings.HasPrefix(name, infoPrefix) }

// Unmangle strips a @delta_ or @new_ prefix to recover the base relation
// name. It is the only reverse mapping the translator requires (spec.md
// §4.1); names without either prefix are returned unchanged.
func Unmangle(name string) string {
	if s := strings.TrimPrefix(name, deltaPrefix); s != name {
		return s
	}
	if s := strings.TrimPrefix(name, newPrefix); s != name {
		return s
	}
	return name
}
