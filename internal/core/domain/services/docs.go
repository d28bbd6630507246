// Package services holds the domain rules that span the order and user
// aggregates without belonging to either.
//
// The package includes:
//   - FanOut: who is told about each new status, over which channel, with which actions
//   - the localized text tables used by every channel
//   - ComposeOrderSummary: the shared order summary with item truncation
package services
