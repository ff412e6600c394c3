package razorpay

// OrderRequest параметры заказа; сумма в минимальных единицах (пайсы)
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Order созданный в Razorpay заказ
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}
