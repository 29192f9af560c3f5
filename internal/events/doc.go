// Package events provides types and interfaces for job lifecycle
// notifications.
//
// The scheduler and janitor emit events as jobs move through their state
// machine; subscribers (logging, future metrics sinks) register handlers
// without the emitting code knowing who listens. This keeps the job package
// free of observability dependencies.
//
// The primary components are:
// - Event: one lifecycle notification with a JSON payload
// - Handler: interface for components that can handle events
// - Emitter: interface for components that can emit events
package events
