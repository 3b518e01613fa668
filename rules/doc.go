// Package rules is a parsing expression grammar (PEG) interpreter built from
// composable matching rules.
//
// # Overview
//
// A grammar is a graph of Rule values. Primitives match input directly:
//
//	NewTerminal("if")        literal text
//	MustRegex(`([0-9]+)`)    anchored pattern, first capture group is the token
//	NewEmpty()               always succeeds, consumes nothing
//	NewEndOfStream()         succeeds only at the end of input
//
// Combinators build on other rules:
//
//	NewJoin(a, b, c)         sequence
//	NewChoice(a, b)          ordered choice, first success wins
//	NewRepeat(a, min, max)   bounded repetition (Option, ZeroOrMore, OneOrMore)
//	NewPredicate(a, p)       match a unless p matches here
//	NewSilent(a)             match a, drop its nodes
//	NewLexeme(a)             skip whitespace once, then match a
//	Define(name, a, opts)    wrap the match in a named Node
//
// Declare and Assign build recursive grammars:
//
//	expr := Declare("expr", nil)
//	group := NewJoin(NewTerminal("("), expr, NewTerminal(")"))
//	_ = expr.Assign(NewChoice(group, MustRegex(`([0-9]+)`)))
//
// # Errors
//
// A failing match returns a *RuleError describing the furthest point the
// input reached, which is usually where the author made the mistake. When
// a match succeeds after absorbing failed alternatives, Result.Soft holds
// the furthest of those failures. A *FatalError means the grammar itself is
// malformed: an unassigned declaration, a repetition of a rule that matches
// the empty string, or a choice without alternatives.
//
// # Whitespace
//
// Terminal, Regex and EndOfStream skip leading whitespace unless built with
// KeepWhitespace. What counts as whitespace is decided by the SkipFunc given
// to WithWhitespace; by default nothing is skipped.
package rules
