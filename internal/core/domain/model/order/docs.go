// Package order contains the Order aggregate root and its owned value
// objects: the role-scoped status state machine, the append-only attempt
// ledger, the candidate queue, and line items. All dispatch state mutation
// happens through the aggregate's methods so the single-assignment and
// append-only invariants hold under any caller.
package order
