package checkout

// Verdict availability answer for one interval
type Verdict struct {
	Available bool
	Message   string
}

// PaymentOrder order created with the payment gateway
type PaymentOrder struct {
	OrderID      string
	Amount       int64 // minor units
	Currency     string
	VehicleTitle string
	KeyID        string // public gateway key for the checkout widget
}

// PaymentProof returned by the payment step once the customer has paid
type PaymentProof struct {
	OrderID   string
	PaymentID string
	Signature string
}

// PaymentOutcome single result of the payment step
type PaymentOutcome struct {
	Proof     *PaymentProof
	Cancelled bool
	Err       error
}

// Paid constructs a successful outcome
func Paid(proof PaymentProof) PaymentOutcome {
	return PaymentOutcome{Proof: &proof}
}

// UserCancelled constructs a cancellation outcome
func UserCancelled() PaymentOutcome {
	return PaymentOutcome{Cancelled: true}
}
