// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the dispatch system. It
// implements workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - GeoMatcher: ranks candidates by distance to an order's delivery point
//   - Dispatcher: runs one matching pass, offering the order to the nearest
//     eligible candidate or escalating when the pool is exhausted
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design principles.
package services
