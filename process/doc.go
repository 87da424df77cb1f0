// Package process runs model backends as subprocesses.
//
// Run starts a command in its own process group and, when the context ends,
// sends SIGTERM to the whole group before escalating to SIGKILL after a grace
// period. Python model runners load large models and spawn worker processes,
// so killing only the direct child leaves GPU memory held.
//
// Runner adds configured defaults, logging and a resilience policy on top of
// Run for repeated calls to the same backend.
package process
