package order

import (
	"errors"
	"fmt"
	"time"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/pkg/errs"
	"meddispatch/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrItemsAreRequired is returned when attempting to create an order with no line items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")

	// ErrVerificationCodeIsRequired is returned when the dispatch verification code is missing.
	ErrVerificationCodeIsRequired = errs.NewValueIsRequiredError("verificationCode")
)

// Order is the aggregate root for a marketplace delivery order. It owns the
// full dispatch state: the status state machine, the active assignee for each
// role, the remaining candidate queue for the active role, and the append-only
// attempt ledger.
//
// Invariants maintained by this aggregate:
//   - At most one attempt per role has outcome pending at any time.
//   - The attempt ledger only ever appends; outcomes flip pending to
//     accepted or rejected exactly once.
//   - The candidate queue never contains an id already present in the ledger
//     for the active role.
//   - After a terminal state (delivered, cancelled) no assignment mutation is
//     permitted.
//
// All mutation goes through the aggregate's methods; the persistence layer
// writes the whole order in one conditional update keyed on the version field,
// so concurrent writers lose with a ConflictError instead of overwriting.
type Order struct {
	id               kernel.UUID
	kind             Kind
	customerID       kernel.UUID
	items            []Item
	deliveryPoint    kernel.GeoPoint
	status           Status
	providerID       *kernel.UUID
	partnerID        *kernel.UUID
	queue            []kernel.UUID
	attempts         []Attempt
	paymentMethod    PaymentMethod
	paymentStatus    PaymentStatus
	verificationCode string
	version          int
	guard            guard.ConstructorGuard
}

// NewOrder creates a new order in pending status with an empty ledger and queue.
//
// Parameters:
//   - id: unique order identifier
//   - kind: pharmacy, lab, or mixed
//   - customerID: the ordering customer
//   - items: at least one line item
//   - deliveryPoint: where the order is delivered
//   - paymentMethod: cod or online
//   - verificationCode: code the partner must present at handover
//
// The initial version is 1; the repository bumps it on every successful write.
func NewOrder(
	id kernel.UUID,
	kind Kind,
	customerID kernel.UUID,
	items []Item,
	deliveryPoint kernel.GeoPoint,
	paymentMethod PaymentMethod,
	verificationCode string,
) (*Order, error) {
	o := &Order{
		status:        StatusPending,
		paymentStatus: PaymentStatusUnpaid,
		version:       1,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setKind(kind),
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setDeliveryPoint(deliveryPoint),
		o.setPaymentMethod(paymentMethod),
		o.setVerificationCode(verificationCode),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order aggregate from persistent storage,
// including its ledger, queue, and version. The restored order behaves
// identically to one built through normal domain operations.
func RestoreOrder(
	id kernel.UUID,
	kind Kind,
	customerID kernel.UUID,
	items []Item,
	deliveryPoint kernel.GeoPoint,
	status Status,
	providerID *kernel.UUID,
	partnerID *kernel.UUID,
	queue []kernel.UUID,
	attempts []Attempt,
	paymentMethod PaymentMethod,
	paymentStatus PaymentStatus,
	verificationCode string,
	version int,
) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setKind(kind),
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setDeliveryPoint(deliveryPoint),
		status.Validate(),
		o.setPaymentMethod(paymentMethod),
		paymentStatus.Validate(),
		o.setVerificationCode(verificationCode),
	); err != nil {
		return nil, err
	}

	if version < 1 {
		return nil, errs.NewValueIsInvalidError("version")
	}

	o.status = status
	o.providerID = providerID
	o.partnerID = partnerID
	o.queue = append([]kernel.UUID(nil), queue...)
	o.attempts = append([]Attempt(nil), attempts...)
	o.paymentStatus = paymentStatus
	o.version = version
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || o.guard.Validate(ErrOrderIsNotConstructed) != nil {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Kind returns whether the order is a pharmacy, lab, or mixed order.
func (o *Order) Kind() Kind {
	return o.kind
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Items returns a copy of the order's line items.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// DeliveryPoint returns the delivery coordinate.
func (o *Order) DeliveryPoint() kernel.GeoPoint {
	return o.deliveryPoint
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Provider returns the currently assigned provider id, nil if none.
func (o *Order) Provider() *kernel.UUID {
	return o.providerID
}

// Partner returns the currently assigned delivery partner id, nil if none.
func (o *Order) Partner() *kernel.UUID {
	return o.partnerID
}

// Queue returns a copy of the remaining candidate queue for the active role.
func (o *Order) Queue() []kernel.UUID {
	return append([]kernel.UUID(nil), o.queue...)
}

// Attempts returns a copy of the append-only attempt ledger.
func (o *Order) Attempts() []Attempt {
	return append([]Attempt(nil), o.attempts...)
}

// PaymentMethod returns how the customer pays.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// PaymentStatus returns whether payment has been settled.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// VerificationCode returns the dispatch verification code the partner must
// present at handover.
func (o *Order) VerificationCode() string {
	return o.verificationCode
}

// Version returns the optimistic-concurrency version of the aggregate.
// The repository compares it on write and bumps it on success.
func (o *Order) Version() int {
	return o.version
}

// ActiveAssignee returns the currently assigned candidate id for the role,
// nil if the role has no active assignee.
func (o *Order) ActiveAssignee(role Role) *kernel.UUID {
	switch role {
	case RoleProvider:
		return o.providerID
	case RolePartner:
		return o.partnerID
	default:
		return nil
	}
}

// PendingAttempt returns the pending attempt for the role, nil if none.
// At most one attempt per role is pending at any time.
func (o *Order) PendingAttempt(role Role) *Attempt {
	for i := range o.attempts {
		if o.attempts[i].role == role && o.attempts[i].IsPending() {
			return &o.attempts[i]
		}
	}
	return nil
}

// AttemptedIDs returns every candidate id already present in the ledger for
// the role, regardless of outcome. Used to exclude them from directory
// re-queries so a rejected candidate never reappears.
func (o *Order) AttemptedIDs(role Role) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(o.attempts))
	for _, a := range o.attempts {
		if a.role == role {
			ids = append(ids, a.candidateID)
		}
	}
	return ids
}

// Offer records an offer of the order to the candidate for the given role:
// it appends a pending attempt to the ledger, sets the role's active-assignee
// field, transitions the status, and removes the candidate from the queue.
//
// Offer fails with a ConflictError if the role already has a pending attempt,
// if the candidate already appears in the ledger for that role, or if the
// status does not permit assignment for the role.
func (o *Order) Offer(role Role, candidateID kernel.UUID, now time.Time) error {
	if err := candidateID.Validate(); err != nil {
		return err
	}

	if o.PendingAttempt(role) != nil {
		return errs.NewConflictError("order",
			fmt.Sprintf("role %s already has a pending attempt", role))
	}
	for _, a := range o.attempts {
		if a.role == role && a.candidateID.IsEqual(candidateID) {
			return errs.NewConflictError("order",
				fmt.Sprintf("candidate %s was already attempted for role %s", candidateID, role))
		}
	}

	newStatus, err := o.status.Assign(role)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.attempts = append(o.attempts, newAttempt(candidateID, role, now))
	o.setActiveAssignee(role, &candidateID)
	o.removeFromQueue(candidateID)
	return nil
}

// ResolveAttempt flips the pending attempt for role/candidateID to the given
// outcome, exactly once.
//
// On acceptance the status transitions to the accepted state of the role and
// the queue is cleared (remaining candidates of that role are no longer needed).
// On rejection the role's active-assignee field is cleared so the next offer
// can set it; the status stays in the assigned state until the next offer or
// an escalation.
//
// Fails with a ConflictError if the order is terminal, if no matching pending
// attempt exists (stale or duplicate response), or if the status transition
// is not permitted.
func (o *Order) ResolveAttempt(role Role, candidateID kernel.UUID, outcome Outcome, now time.Time) error {
	if err := errors.Join(role.Validate(), candidateID.Validate(), outcome.Validate()); err != nil {
		return err
	}
	if outcome == OutcomePending {
		return errs.NewValueIsInvalidError("outcome")
	}
	if o.status.IsTerminal() {
		return errs.NewConflictError("order",
			fmt.Sprintf("order is %s, attempts can no longer be resolved", o.status))
	}

	var pending *Attempt
	for i := range o.attempts {
		a := &o.attempts[i]
		if a.role == role && a.candidateID.IsEqual(candidateID) && a.IsPending() {
			pending = a
			break
		}
	}
	if pending == nil {
		return errs.NewConflictError("order",
			fmt.Sprintf("no pending attempt for candidate %s in role %s", candidateID, role))
	}

	if outcome == OutcomeAccepted {
		newStatus, err := o.status.Accept(role)
		if err != nil {
			return err
		}
		o.status = newStatus
		o.queue = nil
	} else {
		o.setActiveAssignee(role, nil)
	}

	resolvedAt := now
	pending.outcome = outcome
	pending.resolvedAt = &resolvedAt
	return nil
}

// ReplaceQueue installs a fresh candidate queue for the role, filtering out
// every id already present in the ledger for that role. Called after a
// directory query ranks a new candidate list.
func (o *Order) ReplaceQueue(role Role, candidateIDs []kernel.UUID) {
	attempted := make(map[kernel.UUID]struct{}, len(o.attempts))
	for _, a := range o.attempts {
		if a.role == role {
			attempted[a.candidateID] = struct{}{}
		}
	}

	queue := make([]kernel.UUID, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		if _, ok := attempted[id]; ok {
			continue
		}
		queue = append(queue, id)
	}
	o.queue = queue
}

// PopCandidate removes and returns the head of the candidate queue.
// Returns false when the queue is empty, signalling that the caller should
// re-query the directory or escalate.
func (o *Order) PopCandidate() (kernel.UUID, bool) {
	if len(o.queue) == 0 {
		return kernel.UUID{}, false
	}
	head := o.queue[0]
	o.queue = o.queue[1:]
	return head, true
}

// Escalate records that the candidate pool for the role is exhausted and the
// order needs manual administrator assignment. Clears the queue and the
// role's active-assignee field.
func (o *Order) Escalate(role Role) error {
	newStatus, err := o.status.Escalate(role)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.queue = nil
	o.setActiveAssignee(role, nil)
	return nil
}

// StartDelivery records that the assigned partner picked the order up.
// Only the accepted partner may start delivery.
func (o *Order) StartDelivery(partnerID kernel.UUID) error {
	if o.partnerID == nil || !o.partnerID.IsEqual(partnerID) {
		return errs.NewConflictError("order",
			fmt.Sprintf("partner %s is not assigned to this order", partnerID))
	}

	newStatus, err := o.status.StartDelivery()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// CompleteDelivery records handover to the customer. The partner must present
// the dispatch verification code; a mismatch fails with a ConflictError and
// leaves the order out for delivery. Cash-on-delivery orders are marked paid
// on successful handover.
func (o *Order) CompleteDelivery(partnerID kernel.UUID, verificationCode string) error {
	if o.partnerID == nil || !o.partnerID.IsEqual(partnerID) {
		return errs.NewConflictError("order",
			fmt.Sprintf("partner %s is not assigned to this order", partnerID))
	}
	if verificationCode != o.verificationCode {
		return errs.NewConflictError("order", "verification code does not match")
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	if o.paymentMethod == PaymentCashOnDelivery {
		o.paymentStatus = PaymentStatusPaid
	}
	return nil
}

// Cancel transitions the order to cancelled and clears the candidate queue.
// After cancellation no ledger mutation is permitted: in-flight attempt
// resolutions fail with a ConflictError.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.queue = nil
	return nil
}

func (o *Order) setActiveAssignee(role Role, id *kernel.UUID) {
	switch role {
	case RoleProvider:
		o.providerID = id
	case RolePartner:
		o.partnerID = id
	}
}

func (o *Order) removeFromQueue(id kernel.UUID) {
	for i, queued := range o.queue {
		if queued.IsEqual(id) {
			o.queue = append(o.queue[:i], o.queue[i+1:]...)
			return
		}
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	o.kind = kind
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customerID", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	o.items = append([]Item(nil), items...)
	return nil
}

func (o *Order) setDeliveryPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	o.deliveryPoint = point
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}

func (o *Order) setVerificationCode(code string) error {
	if code == "" {
		return ErrVerificationCodeIsRequired
	}
	o.verificationCode = code
	return nil
}
