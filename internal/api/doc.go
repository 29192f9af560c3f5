// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting for the trip generation service. It acts as an
// adapter between external clients and the internal application services,
// translating HTTP concerns to business operations: job submission and
// polling, trip retrieval, and operator token issuance.
package api
