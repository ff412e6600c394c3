package rentalapi

import "errors"

var (
	// ErrVehicleNotFound возвращается, когда автомобиль не найден
	ErrVehicleNotFound = errors.New("rentalapi client: vehicle not found")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("rentalapi client: booking not found")

	// ErrUnauthorized токен не передан или недействителен
	ErrUnauthorized = errors.New("rentalapi client: unauthorized")

	// ErrForbidden бронирование принадлежит другому пользователю
	ErrForbidden = errors.New("rentalapi client: forbidden")

	// ErrCannotCancel бронирование нельзя отменить
	ErrCannotCancel = errors.New("rentalapi client: booking cannot be cancelled")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("rentalapi client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("rentalapi client: invalid response")
)
