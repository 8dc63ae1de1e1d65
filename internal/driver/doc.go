// Package driver provides the dispatch backends for running simulation jobs.
//
// A Driver submits jobs to one backend (local processes or a remote batch
// scheduler), answers status queries for them, and forwards kill requests.
// Each submitted job is tracked by a Job record owned by the driver that
// created it.
//
// Status reporting follows a single-writer rule: once a job is active, only
// the driver side that supervises it (a goroutine waiting on the child
// process, or the translation of a scheduler poll) ever writes a terminal
// status. Kill is advisory and never writes status itself.
package driver
