package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/m04kA/SMC-RentalService/internal/checkout"
)

// promptCollector собирает подтверждение оплаты из терминала:
// печатает заказ и читает payment id и подпись. Пустая строка отменяет оплату.
type promptCollector struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptCollector(in io.Reader, out io.Writer) *promptCollector {
	return &promptCollector{in: bufio.NewReader(in), out: out}
}

// Collect реализует checkout.PaymentCollector
func (c *promptCollector) Collect(ctx context.Context, order *checkout.PaymentOrder) <-chan checkout.PaymentOutcome {
	ch := make(chan checkout.PaymentOutcome, 1)

	go func() {
		defer close(ch)
		ch <- c.prompt(order)
	}()

	return ch
}

func (c *promptCollector) prompt(order *checkout.PaymentOrder) checkout.PaymentOutcome {
	fmt.Fprintf(c.out, "\nPay for %s\n", order.VehicleTitle)
	fmt.Fprintf(c.out, "  order:    %s\n", order.OrderID)
	fmt.Fprintf(c.out, "  amount:   %s\n", formatAmount(order.Amount, order.Currency))
	fmt.Fprintf(c.out, "  key:      %s\n", order.KeyID)

	paymentID, err := c.readLine("Payment id (empty line cancels): ")
	if err != nil {
		return checkout.PaymentOutcome{Cancelled: true, Err: err}
	}
	if paymentID == "" {
		return checkout.UserCancelled()
	}

	signature, err := c.readLine("Signature (empty line cancels): ")
	if err != nil {
		return checkout.PaymentOutcome{Cancelled: true, Err: err}
	}
	if signature == "" {
		return checkout.UserCancelled()
	}

	return checkout.Paid(checkout.PaymentProof{
		OrderID:   order.OrderID,
		PaymentID: paymentID,
		Signature: signature,
	})
}

func (c *promptCollector) readLine(label string) (string, error) {
	fmt.Fprint(c.out, label)

	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// formatAmount 200050 INR -> "2000.50 INR"
func formatAmount(minor int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", minor/100, minor%100, currency)
}
