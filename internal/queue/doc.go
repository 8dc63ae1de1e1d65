// Package queue provides the queue manager that sits between callers and a
// dispatch driver.
//
// The Manager owns every submitted job for its whole lifecycle: it bounds
// how many run at once, dispatches admitted jobs to the driver, polls their
// status on a fixed interval, enforces per-job runtime limits, and records
// the terminal outcome. Callers identify jobs by UUID and only ever see
// snapshots.
package queue
