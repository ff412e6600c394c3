package paymentorder

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// PendingOrder заказ, оплата которого ещё не подтверждена.
// Хранит черновик и серверную сумму, чтобы подтверждение не доверяло клиенту.
type PendingOrder struct {
	OrderID      string
	UserID       int64
	Draft        domain.BookingDraft
	Amount       int64
	Currency     string
	VehicleTitle string
	CreatedAt    time.Time
}

// record формат хранения в Redis
type record struct {
	OrderID         string           `json:"order_id"`
	UserID          int64            `json:"user_id"`
	VehicleID       int64            `json:"vehicle_id"`
	StartDate       string           `json:"start_date"`
	EndDate         string           `json:"end_date"`
	StartTime       types.TimeString `json:"start_time"`
	EndTime         types.TimeString `json:"end_time"`
	Mode            string           `json:"mode"`
	PickupLocation  string           `json:"pickup_location"`
	DropoffLocation string           `json:"dropoff_location"`
	SpecialRequests *string          `json:"special_requests,omitempty"`
	Amount          int64            `json:"amount"`
	Currency        string           `json:"currency"`
	VehicleTitle    string           `json:"vehicle_title"`
	CreatedAt       time.Time        `json:"created_at"`
}

func toRecord(o *PendingOrder) record {
	return record{
		OrderID:         o.OrderID,
		UserID:          o.UserID,
		VehicleID:       o.Draft.VehicleID,
		StartDate:       o.Draft.StartDate.Format(domain.DateFormat),
		EndDate:         o.Draft.EndDate.Format(domain.DateFormat),
		StartTime:       o.Draft.StartTime,
		EndTime:         o.Draft.EndTime,
		Mode:            o.Draft.Mode.String(),
		PickupLocation:  o.Draft.PickupLocation,
		DropoffLocation: o.Draft.DropoffLocation,
		SpecialRequests: o.Draft.SpecialRequests,
		Amount:          o.Amount,
		Currency:        o.Currency,
		VehicleTitle:    o.VehicleTitle,
		CreatedAt:       o.CreatedAt,
	}
}

func (r record) toPending(loc *time.Location) (*PendingOrder, error) {
	start, err := time.ParseInLocation(domain.DateFormat, r.StartDate, loc)
	if err != nil {
		return nil, err
	}
	end, err := time.ParseInLocation(domain.DateFormat, r.EndDate, loc)
	if err != nil {
		return nil, err
	}

	return &PendingOrder{
		OrderID: r.OrderID,
		UserID:  r.UserID,
		Draft: domain.BookingDraft{
			VehicleID:       r.VehicleID,
			StartDate:       start,
			EndDate:         end,
			StartTime:       r.StartTime,
			EndTime:         r.EndTime,
			Mode:            domain.RentalMode(r.Mode),
			PickupLocation:  r.PickupLocation,
			DropoffLocation: r.DropoffLocation,
			SpecialRequests: r.SpecialRequests,
		},
		Amount:       r.Amount,
		Currency:     r.Currency,
		VehicleTitle: r.VehicleTitle,
		CreatedAt:    r.CreatedAt,
	}, nil
}
