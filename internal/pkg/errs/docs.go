// Package errs provides the error kinds shared by the fulfillment service.
//
// Every kind follows the same pattern:
//   - a sentinel error variable (e.g., ErrObjectNotFound) used with errors.Is
//   - a struct type carrying details about the failure
//   - constructors with and without a cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Kinds and their meaning for callers:
//   - ObjectNotFoundError: an order, user, store or product reference does not exist
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input
//   - InvalidTransitionError: the order is not in a state that allows the requested transition
//   - UnauthorizedError: the acting principal's role does not permit the action
//   - UpstreamUnavailableError: a best-effort dependency (messaging, geocoding, events) failed
package errs
