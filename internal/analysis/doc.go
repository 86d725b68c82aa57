// Package analysis provides reductions over a sweep result table:
// best (minimum-peak) strategies and comparisons against the
// no-intervention baseline. It consumes the table only; it never
// re-runs simulations.
package analysis
