// Package models defines the stratified SEIR+Treatment epidemic model.
//
// The state vector has eight compartments across two closed
// sub-populations. Children: susceptible, exposed, treated, untreated
// infectious, recovered. Adults: susceptible, exposed, infectious.
// Treatment is a one-day rectangular pulse: during the active window a
// fraction of children leaving the exposed compartment is routed into
// treatment and cleared at the efficacy rate; outside it everyone
// flows into the untreated infectious compartment.
//
// [SEIRT] implements [sim.Dynamics], [sim.Discontinuous] (the pulse
// edges) and [sim.Conserved] (per-population totals).
package models
