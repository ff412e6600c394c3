package check_availability

import (
	"time"

	checkAvailability "github.com/m04kA/SMC-RentalService/internal/usecase/check_availability"
)

// CheckAvailabilityRequest HTTP request model
type CheckAvailabilityRequest struct {
	StartDate time.Time `json:"startDate"` // RFC3339
	EndDate   time.Time `json:"endDate"`
}

// CheckAvailabilityResponse HTTP response model
type CheckAvailabilityResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CheckAvailabilityRequest) ToUseCaseRequest(vehicleID int64) *checkAvailability.Request {
	return &checkAvailability.Request{
		VehicleID: vehicleID,
		Start:     r.StartDate,
		End:       r.EndDate,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *CheckAvailabilityResponse {
	return &CheckAvailabilityResponse{
		Available: resp.Available,
		Message:   resp.Message,
	}
}
