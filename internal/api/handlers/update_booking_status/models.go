package update_booking_status

// UpdateStatusRequest тело PATCH /admin/bookings/{bookingId}/status
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
