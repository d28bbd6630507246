// Package order implements the Order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root holding the frozen item snapshot, the role slots
//     and the append-only status history
//   - Status: the closed set of lifecycle states
//   - Transition: the table of permitted moves, the role allowed to trigger each
//     one and the slot it fills
//   - Action: the callback payload ("accept_order_42") decoded once at the channel boundary
//
// Key business rules:
//   - PENDING -> ACCEPTED | CANCELLED -> ... -> COMPLETED, no skipping, no going back
//   - COMPLETED and CANCELLED are terminal
//   - receiverID, pickerID and courierID are write-once; a second assignment is rejected
//   - the last history entry always carries the current status
package order
