// Package store defines the persistence interfaces for trips and trip
// generation jobs, plus the sentinel errors their implementations return.
// Keeping the interfaces here lets the job scheduler and API handlers stay
// independent of any specific database technology; implementations live in
// internal/platform/postgres and internal/job.
package store
