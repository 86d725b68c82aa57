// Package sweep runs the intervention-strategy grid search: the
// Cartesian product of treatment start days and coverage fractions,
// one independent simulation per grid point, collected into a result
// table in grid order.
//
// Grid points share nothing but the read-only base parameter set; the
// pool copies it per run, so the sweep is embarrassingly parallel. A
// failing point becomes an error row without aborting its siblings,
// and the table's [Summary] reports which coordinates failed.
package sweep
