package get_all_bookings

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(isAdmin bool, userIDStr, statusStr, pageStr, limitStr string) (*models.ListAllBookingsRequest, error) {
	req := &models.ListAllBookingsRequest{IsAdmin: isAdmin}

	// Парсим userId если указан
	if userIDStr != "" {
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			return nil, fmt.Errorf("invalid userId value: %q", userIDStr)
		}
		req.UserID = &userID
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	page, err := optionalInt(pageStr)
	if err != nil {
		return nil, fmt.Errorf("invalid page value: %w", err)
	}
	limit, err := optionalInt(limitStr)
	if err != nil {
		return nil, fmt.Errorf("invalid limit value: %w", err)
	}
	req.Page = page
	req.Limit = limit

	return req, nil
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
