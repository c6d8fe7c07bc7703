// Package services provides domain services that orchestrate business
// operations across multiple aggregates.
//
// The package includes:
//   - RouteMatcher: matches open parcels against courier route corridors
//   - Lifecycle: validates and applies parcel status transitions
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
