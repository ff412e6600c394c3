package rentalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/checkout"
	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Client клиент для работы с API сервиса аренды.
// Реализует checkout.Collaborator.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента; token может быть пустым для публичных методов
func NewClient(baseURL, token string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetVehicle получает автомобиль по ID
func (c *Client) GetVehicle(ctx context.Context, vehicleID int64) (*domain.Vehicle, error) {
	var vehicle Vehicle
	status, apiErr, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/vehicles/%d", vehicleID), nil, &vehicle)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		return vehicle.toDomain(), nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %w", checkout.ErrVehicleNotFound, ErrVehicleNotFound)
	default:
		return nil, unexpected(status, apiErr)
	}
}

// CheckAvailability спрашивает, свободен ли автомобиль на интервал
func (c *Client) CheckAvailability(ctx context.Context, vehicleID int64, start, end time.Time) (*checkout.Verdict, error) {
	req := AvailabilityRequest{StartDate: start, EndDate: end}

	var resp AvailabilityResponse
	status, apiErr, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/vehicles/%d/check-availability", vehicleID), req, &resp)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		return &checkout.Verdict{Available: resp.Available, Message: resp.Message}, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %w", checkout.ErrVehicleNotFound, ErrVehicleNotFound)
	case http.StatusUnprocessableEntity:
		return nil, validationError(apiErr)
	default:
		return nil, unexpected(status, apiErr)
	}
}

// CreatePaymentOrder создаёт платёжный заказ по черновику
func (c *Client) CreatePaymentOrder(ctx context.Context, draft domain.BookingDraft) (*checkout.PaymentOrder, error) {
	var resp PaymentOrderResponse
	status, apiErr, err := c.do(ctx, http.MethodPost, "/api/v1/bookings/payment-orders", detailsFromDraft(draft), &resp)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
		c.log.Info("Payment order %s created for vehicle %d", resp.OrderID, draft.VehicleID)
		return resp.toCheckout(), nil
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return nil, validationError(apiErr)
	case http.StatusConflict:
		return nil, &checkout.AvailabilityDeniedError{Message: apiErr.text()}
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %w", checkout.ErrVehicleNotFound, ErrVehicleNotFound)
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %w", checkout.ErrService, ErrUnauthorized)
	default:
		return nil, unexpected(status, apiErr)
	}
}

// VerifyPaymentAndCreateBooking отправляет подтверждение оплаты и получает бронирование
func (c *Client) VerifyPaymentAndCreateBooking(ctx context.Context, proof checkout.PaymentProof, draft domain.BookingDraft) (*domain.Booking, error) {
	req := VerifyPaymentRequest{
		OrderID:        proof.OrderID,
		PaymentID:      proof.PaymentID,
		Signature:      proof.Signature,
		BookingDetails: detailsFromDraft(draft),
	}

	var resp VerifyPaymentResponse
	status, apiErr, err := c.do(ctx, http.MethodPost, "/api/v1/bookings/verify-payment", req, &resp)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
		return resp.Booking.toDomain(), nil
	default:
		c.log.Error("Payment %s verification rejected: status %d: %s", proof.PaymentID, status, apiErr.text())
		return nil, unexpected(status, apiErr)
	}
}

// GetBooking получает бронирование по ID
func (c *Client) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	var resp Booking
	status, apiErr, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", bookingID), nil, &resp)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		return resp.toDomain(), nil
	case http.StatusNotFound:
		return nil, ErrBookingNotFound
	case http.StatusForbidden:
		return nil, ErrForbidden
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, unexpected(status, apiErr)
	}
}

// CancelBooking отменяет бронирование
func (c *Client) CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	var resp Booking
	status, apiErr, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), nil, &resp)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		return resp.toDomain(), nil
	case http.StatusNotFound:
		return nil, ErrBookingNotFound
	case http.StatusForbidden:
		return nil, ErrForbidden
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusBadRequest, http.StatusConflict:
		return nil, fmt.Errorf("%w: %s", ErrCannotCancel, apiErr.text())
	default:
		return nil, unexpected(status, apiErr)
	}
}

// ListMyBookings получает страницу бронирований текущего пользователя
func (c *Client) ListMyBookings(ctx context.Context, filter ListFilter) ([]*domain.Booking, Pagination, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	path := "/api/v1/bookings/my"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp BookingsPage
	status, apiErr, err := c.do(ctx, http.MethodGet, path, nil, &resp)
	if err != nil {
		return nil, Pagination{}, err
	}

	switch status {
	case http.StatusOK:
		bookings := make([]*domain.Booking, 0, len(resp.Bookings))
		for _, b := range resp.Bookings {
			bookings = append(bookings, b.toDomain())
		}
		return bookings, resp.Pagination, nil
	case http.StatusUnauthorized:
		return nil, Pagination{}, ErrUnauthorized
	default:
		return nil, Pagination{}, unexpected(status, apiErr)
	}
}

// do выполняет запрос. При 2xx декодирует тело в out, иначе в ErrorResponse.
// Сетевые ошибки возвращаются обёрнутыми в checkout.ErrService.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (int, *ErrorResponse, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s %s: %v", checkout.ErrService, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return resp.StatusCode, nil, fmt.Errorf("%w: %w: failed to decode response: %v", checkout.ErrService, ErrInvalidResponse, err)
			}
		}
		return resp.StatusCode, nil, nil
	}

	// Парсим ошибку; если тело не JSON, сохраняем его как сообщение
	raw, _ := io.ReadAll(resp.Body)
	apiErr := &ErrorResponse{Code: resp.StatusCode}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}

	return resp.StatusCode, apiErr, nil
}

func validationError(apiErr *ErrorResponse) error {
	fields := make(map[string]string)
	if apiErr != nil {
		for k, v := range apiErr.Errors {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		fields["form"] = apiErr.text()
	}
	return &checkout.ValidationError{Fields: fields}
}

func unexpected(status int, apiErr *ErrorResponse) error {
	return fmt.Errorf("%w: %w: unexpected status code %d: %s", checkout.ErrService, ErrInvalidResponse, status, apiErr.text())
}
