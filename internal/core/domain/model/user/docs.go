// Package user provides the User aggregate: a principal identified by an
// external messaging identity (telegramID) and holding exactly one role.
//
// Key business rules:
//   - telegramID is required and unique
//   - the role is mutable by admins and is read at the moment of each action
//   - an identity without a phone number must share its contact before it can act
package user
