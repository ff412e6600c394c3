package paymentorder

import "errors"

var (
	// ErrOrderNotFound заказ не найден или истёк TTL
	ErrOrderNotFound = errors.New("paymentorder.cache: order not found")

	// ErrLockHeld платёж уже обрабатывается другим запросом
	ErrLockHeld = errors.New("paymentorder.cache: payment is already being processed")

	// ErrStorage ошибка обращения к Redis
	ErrStorage = errors.New("paymentorder.cache: storage error")

	// ErrEncode ошибка сериализации заказа
	ErrEncode = errors.New("paymentorder.cache: failed to encode order")
)
