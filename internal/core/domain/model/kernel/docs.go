// Package kernel contains shared value objects used across the domain model:
// UUID identifiers and geographic points with haversine distance. All types
// follow the constructor-guard pattern so zero values are detectable.
package kernel
