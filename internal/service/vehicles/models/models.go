package models

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// VehicleResponse карточка автомобиля для страницы бронирования
type VehicleResponse struct {
	ID            int64     `json:"id"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	Year          int       `json:"year"`
	Title         string    `json:"title"`
	Location      string    `json:"location"`
	PricePerDay   int64     `json:"pricePerDay"`  // в пайсах
	PricePerHour  int64     `json:"pricePerHour"` // в пайсах
	IsAvailable   bool      `json:"isAvailable"`
	TotalBookings int       `json:"totalBookings"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FromDomainVehicle конвертирует domain модель в DTO
func FromDomainVehicle(v *domain.Vehicle) *VehicleResponse {
	if v == nil {
		return nil
	}

	return &VehicleResponse{
		ID:            v.ID,
		Make:          v.Make,
		Model:         v.Model,
		Year:          v.Year,
		Title:         v.Title(),
		Location:      v.Location,
		PricePerDay:   v.PricePerDay,
		PricePerHour:  v.PricePerHour,
		IsAvailable:   v.IsAvailable,
		TotalBookings: v.TotalBookings,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}
