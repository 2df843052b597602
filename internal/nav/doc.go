// Package nav resolves a declarative sidebar into an ordered navigation tree.
//
// The sidebar is a sequence of Entry values (explicit links, nested groups and
// autogenerate directives). Resolve walks it depth-first against a read-only page Index,
// expands every autogenerate directive in place and reports every missing or duplicated
// slug in one pass. The resolved Tree only ever contains LinkNode and GroupNode values.
package nav
