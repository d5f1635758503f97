package cart

import (
	"errors"

	"github.com/UMDhodi/Obsidian/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// DefaultDeliveryFee is the flat delivery charge added at checkout
var DefaultDeliveryFee = decimal.NewFromInt(12)

const authorizedMessage = "TRANSACTION AUTHORIZED. WELCOME TO THE ELITE."

// Checkout prices the current cart with the flat delivery fee
func (e *Engine) Checkout(deliveryFee decimal.Decimal) domain.CheckoutSummary {
	subtotal := e.CartTotal()
	return domain.CheckoutSummary{
		Lines:    e.Lines(),
		Count:    e.CartCount(),
		Subtotal: subtotal,
		Delivery: deliveryFee,
		Total:    subtotal.Add(deliveryFee),
	}
}

// Pay authorizes the checkout without contacting any payment system and resets the shopper state.
func (e *Engine) Pay(deliveryFee decimal.Decimal) (*domain.Receipt, error) {
	if len(e.lines) == 0 {
		return nil, ErrEmptyCart
	}
	summary := e.Checkout(deliveryFee)
	receipt := &domain.Receipt{
		Reference: uuid.New().String(),
		Total:     summary.Total,
		Message:   authorizedMessage,
	}
	e.logger.Info("payment stub authorized",
		zap.String("reference", receipt.Reference),
		zap.String("total", receipt.Total.StringFixed(2)),
		zap.Int("items", summary.Count))
	e.Reset()
	return receipt, nil
}
