package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	rzp "github.com/razorpay/razorpay-go"
)

// orderAPI часть razorpay-go, которой пользуется шлюз (client.Order)
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Gateway создаёт заказы и проверяет подписи платежей Razorpay
type Gateway struct {
	orders    orderAPI
	keyID     string
	keySecret string
	currency  string
	log       Logger
}

// NewGateway создает шлюз поверх razorpay-go
func NewGateway(keyID, keySecret, currency string, log Logger) *Gateway {
	client := rzp.NewClient(keyID, keySecret)
	return newGateway(client.Order, keyID, keySecret, currency, log)
}

func newGateway(orders orderAPI, keyID, keySecret, currency string, log Logger) *Gateway {
	return &Gateway{
		orders:    orders,
		keyID:     keyID,
		keySecret: keySecret,
		currency:  currency,
		log:       log,
	}
}

// KeyID публичный ключ для виджета оплаты
func (g *Gateway) KeyID() string {
	return g.keyID
}

// CreateOrder создаёт заказ. SDK не принимает context, поэтому отмену проверяем до вызова.
func (g *Gateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateOrder, err)
	}

	currency := req.Currency
	if currency == "" {
		currency = g.currency
	}
	receipt := req.Receipt
	if receipt == "" {
		receipt = NewReceipt()
	}

	notes := make(map[string]interface{}, len(req.Notes))
	for k, v := range req.Notes {
		notes[k] = v
	}

	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	resp, err := g.orders.Create(data, nil)
	if err != nil {
		g.log.Error("Razorpay order creation failed: receipt=%s, amount=%d: %v", receipt, req.Amount, err)
		return nil, fmt.Errorf("%w: %v", ErrCreateOrder, err)
	}

	order, err := parseOrder(resp)
	if err != nil {
		return nil, err
	}

	g.log.Info("Razorpay order %s created: amount=%d %s", order.ID, order.Amount, order.Currency)
	return order, nil
}

// VerifySignature проверяет подпись checkout-виджета: HMAC-SHA256(orderID|paymentID)
func (g *Gateway) VerifySignature(orderID, paymentID, signature string) bool {
	expected := Sign(orderID, paymentID, g.keySecret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// Sign вычисляет подпись платежа так же, как Razorpay
func Sign(orderID, paymentID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// NewReceipt уникальный номер квитанции (не длиннее 40 символов)
func NewReceipt() string {
	return "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func parseOrder(resp map[string]interface{}) (*Order, error) {
	id, _ := resp["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: order id is missing", ErrInvalidResponse)
	}

	amount, ok := toInt64(resp["amount"])
	if !ok {
		return nil, fmt.Errorf("%w: amount %v", ErrInvalidResponse, resp["amount"])
	}

	currency, _ := resp["currency"].(string)
	receipt, _ := resp["receipt"].(string)
	status, _ := resp["status"].(string)

	return &Order{
		ID:       id,
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   status,
	}, nil
}

// toInt64 числа из JSON приходят как float64
func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
