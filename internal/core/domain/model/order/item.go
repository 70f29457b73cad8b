package order

import (
	"errors"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/pkg/errs"
)

// Kind describes what an order is for, which drives provider eligibility:
// lab orders may only go to diagnostic centers offering the requested tests.
type Kind string

const (
	// KindPharmacy is a medicine order serviced by a pharmacy.
	KindPharmacy Kind = "pharmacy"
	// KindLab is a diagnostic-test order serviced by a diagnostic center.
	KindLab Kind = "lab"
	// KindMixed contains both medicines and tests.
	KindMixed Kind = "mixed"
)

// Validate checks that the kind is one of the known values.
func (k Kind) Validate() error {
	switch k {
	case KindPharmacy, KindLab, KindMixed:
		return nil
	default:
		return errs.NewValueIsInvalidError("kind")
	}
}

// PaymentMethod is how the customer pays for the order.
type PaymentMethod string

const (
	// PaymentCashOnDelivery is collected by the partner at the door.
	PaymentCashOnDelivery PaymentMethod = "cod"
	// PaymentOnline was captured up front by an external payment flow.
	PaymentOnline PaymentMethod = "online"
)

// Validate checks that the payment method is one of the known values.
func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentCashOnDelivery, PaymentOnline:
		return nil
	default:
		return errs.NewValueIsInvalidError("paymentMethod")
	}
}

// PaymentStatus tracks whether payment has been settled.
type PaymentStatus string

const (
	// PaymentStatusUnpaid means no payment has been recorded yet.
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	// PaymentStatusPaid means payment is settled.
	PaymentStatusPaid PaymentStatus = "paid"
)

// Validate checks that the payment status is one of the known values.
func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPaid:
		return nil
	default:
		return errs.NewValueIsInvalidError("paymentStatus")
	}
}

// ErrItemIsNotConstructed is returned when an Item was not created via NewItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one line of an order: a medicine or a diagnostic test reference
// with a quantity. Items are immutable once the order is created.
type Item struct {
	productID kernel.UUID
	name      string
	quantity  int
}

// NewItem creates a validated order line.
// The product id must be valid, the name non-empty, and the quantity positive.
func NewItem(productID kernel.UUID, name string, quantity int) (Item, error) {
	if err := productID.Validate(); err != nil {
		return Item{}, err
	}
	if name == "" {
		return Item{}, errs.NewValueIsRequiredError("item name")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidError("item quantity")
	}

	return Item{productID: productID, name: name, quantity: quantity}, nil
}

// ProductID returns the referenced medicine or test id.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// Name returns the display name captured at ordering time.
func (i Item) Name() string {
	return i.name
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}
