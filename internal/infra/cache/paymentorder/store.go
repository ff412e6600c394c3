package paymentorder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	orderKeyPrefix = "rental:payment_order:"
	lockKeyPrefix  = "lock:payment:"
)

// releaseScript удаляет блокировку, только если она всё ещё наша
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Store хранит ожидающие оплаты заказы и блокировки подтверждения платежей
type Store struct {
	client   redis.UniversalClient
	orderTTL time.Duration
	lockTTL  time.Duration
	loc      *time.Location
}

// NewStore создает хранилище; loc часовой пояс календарных дат черновика
func NewStore(client redis.UniversalClient, orderTTL, lockTTL time.Duration, loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{
		client:   client,
		orderTTL: orderTTL,
		lockTTL:  lockTTL,
		loc:      loc,
	}
}

// Save сохраняет заказ до истечения TTL
func (s *Store) Save(ctx context.Context, order *PendingOrder) error {
	data, err := json.Marshal(toRecord(order))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if err := s.client.Set(ctx, orderKey(order.OrderID), data, s.orderTTL).Err(); err != nil {
		return fmt.Errorf("%w: Save %s: %v", ErrStorage, order.OrderID, err)
	}

	return nil
}

// Get возвращает заказ по ID
func (s *Store) Get(ctx context.Context, orderID string) (*PendingOrder, error) {
	data, err := s.client.Get(ctx, orderKey(orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get %s: %v", ErrStorage, orderID, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStorage, orderID, err)
	}

	order, err := rec.toPending(s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStorage, orderID, err)
	}

	return order, nil
}

// Delete удаляет заказ после создания бронирования
func (s *Store) Delete(ctx context.Context, orderID string) error {
	if err := s.client.Del(ctx, orderKey(orderID)).Err(); err != nil {
		return fmt.Errorf("%w: Delete %s: %v", ErrStorage, orderID, err)
	}
	return nil
}

// AcquirePaymentLock берёт блокировку на подтверждение платежа.
// Возвращает функцию освобождения; ErrLockHeld, если платёж уже обрабатывается.
func (s *Store) AcquirePaymentLock(ctx context.Context, paymentID string) (func(context.Context) error, error) {
	key := lockKey(paymentID)
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, key, token, s.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: AcquirePaymentLock %s: %v", ErrStorage, paymentID, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, s.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: release lock %s: %v", ErrStorage, paymentID, err)
		}
		return nil
	}

	return release, nil
}

func orderKey(orderID string) string {
	return orderKeyPrefix + orderID
}

func lockKey(paymentID string) string {
	return lockKeyPrefix + paymentID
}
