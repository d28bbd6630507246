// Package kernel holds the value objects shared by the order and user aggregates.
//
// The package includes:
//   - Role: the closed set of principal roles and the admin superset rule
//   - Location: a validated geographic point with map link rendering
package kernel
