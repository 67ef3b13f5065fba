package cart

import (
	"github.com/angelmondragon/bistro-backend/pkg/config"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// FeeSchedule resolves the fees for an order type.
type FeeSchedule struct {
	DeliveryFee decimal.Decimal
	TaxRate     decimal.Decimal
}

// NewFeeSchedule reads the configured fee schedule.
func NewFeeSchedule(cfg config.PricingConfig) FeeSchedule {
	return FeeSchedule{DeliveryFee: cfg.DeliveryFee, TaxRate: cfg.TaxRate}
}

// For returns the fees charged for orderType. Only delivery orders pay the
// delivery fee; tax applies to every order.
func (s FeeSchedule) For(orderType enums.OrderType) Fees {
	fees := Fees{DeliveryFee: decimal.Zero, TaxRate: s.TaxRate}
	if orderType.ChargesDelivery() {
		fees.DeliveryFee = s.DeliveryFee
	}
	return fees
}
