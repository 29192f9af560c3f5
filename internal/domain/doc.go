// Package domain contains the core business entities, value objects, and
// domain logic of the application: trips, travelers, weather forecasts, and
// the background jobs that generate packing lists for them. It represents
// the heart of the system, independent of any specific infrastructure or
// delivery mechanism.
package domain
