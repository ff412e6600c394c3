package checkout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Messages shown to the customer
const (
	MsgInvalidDates        = "Please select valid dates."
	MsgInvertedRange       = "End date/time must be after start date/time."
	MsgInvalidClockTime    = "Please choose times on the half-hour grid."
	MsgPickupRequired      = "Pickup location is required."
	MsgDropoffRequired     = "Drop-off location is required."
	MsgNotAvailable        = "Car is not available for the selected period."
	MsgAvailabilityPending = "Availability for the selected period has not been confirmed yet."
	MsgAmountNotPositive   = "Unable to calculate the booking amount."
	MsgVehicleFailed       = "Failed to load car details. Please try again."
	MsgAvailabilityFailed  = "Failed to check availability. Please try again."
	MsgOrderFailed         = "Failed to create payment order. Please try again."
	MsgVerificationSupport = "Payment verification failed. Please contact support."
)

var (
	// ErrFlowLocked an order or verification is in flight, or the attempt is finished
	ErrFlowLocked = errors.New("checkout: booking in progress, edits are not allowed")

	// ErrService network or server failure talking to the collaborator
	ErrService = errors.New("checkout: service error")

	// ErrVehicleNotFound vehicle does not exist
	ErrVehicleNotFound = errors.New("checkout: vehicle not found")

	// ErrNotQuotable the interval is available but its amount is not positive
	ErrNotQuotable = errors.New("checkout: booking amount is not positive")

	// ErrPaymentCancelled the customer closed the payment step
	ErrPaymentCancelled = errors.New("checkout: payment cancelled")

	// ErrNotTerminal restart requested before the attempt finished
	ErrNotTerminal = errors.New("checkout: attempt is not finished")
)

// ValidationError every field that blocks submission, keyed by form field
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "checkout: validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field failed validation
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// AvailabilityDeniedError the vehicle is not free for the interval; recoverable
type AvailabilityDeniedError struct {
	Message string
}

func (e *AvailabilityDeniedError) Error() string {
	if e.Message == "" {
		return MsgNotAvailable
	}
	return e.Message
}

// VerificationError payment proof rejected or verification call failed.
// Money may have moved: always reported with a support-contact message.
type VerificationError struct {
	Err error
}

func (e *VerificationError) Error() string {
	if e.Err == nil {
		return MsgVerificationSupport
	}
	return fmt.Sprintf("%s (%v)", MsgVerificationSupport, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// ServiceError failed collaborator call. Error returns only the customer message;
// the cause stays reachable through errors.Is and errors.As.
type ServiceError struct {
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() []error {
	return []error{ErrService, e.Err}
}

// asServiceError keeps typed collaborator errors, the rest become a ServiceError with message
func asServiceError(err error, message string) error {
	var vErr *ValidationError
	var dErr *AvailabilityDeniedError
	var sErr *ServiceError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &vErr), errors.As(err, &dErr), errors.As(err, &sErr), errors.Is(err, ErrVehicleNotFound):
		return err
	default:
		return &ServiceError{Message: message, Err: err}
	}
}
