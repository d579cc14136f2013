// Package core implements the inspection engine: Runes (elementary
// inspection steps), the RuneContext threaded between them, Rituals
// (ordered sequences with an aggregation policy), and the Prophecy
// verdicts they produce.
//
// The engine contains no pixel processing.  Everything that touches
// pixels hides behind the match.Matcher contract.
package core
