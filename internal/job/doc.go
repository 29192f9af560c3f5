// Package job contains the background machinery that turns submitted trip
// requests into generated trips: an in-memory job store, a bounded queue, a
// worker-pool scheduler with retry and hard-timeout enforcement, and a
// janitor that prunes finished jobs and reaps stalled ones.
package job
