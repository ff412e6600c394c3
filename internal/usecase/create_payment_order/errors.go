package create_payment_order

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrVehicleNotFound возвращается, когда автомобиль не найден
	ErrVehicleNotFound = errors.New("create_payment_order: vehicle not found")

	// ErrNotAvailable возвращается, когда автомобиль занят на выбранные даты
	ErrNotAvailable = errors.New("create_payment_order: vehicle is not available for the selected dates")

	// ErrGateway возвращается, когда платёжный шлюз не создал заказ
	ErrGateway = errors.New("create_payment_order: payment gateway error")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_payment_order: internal error")
)

// ValidationError ошибки по полям черновика
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
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "create_payment_order: invalid booking details: " + strings.Join(parts, "; ")
}
