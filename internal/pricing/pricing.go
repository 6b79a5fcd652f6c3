// Package pricing computes order totals. Everything here is a pure function
// of its inputs; the same lines, coupon, and policy always produce the same
// quote regardless of line order.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/frostcart/frostcart-api/internal/model"
)

// Policy holds the storefront pricing constants, normally loaded from config.
type Policy struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	ShippingFlatFee       decimal.Decimal
}

// Line is one priced cart or order line.
type Line struct {
	Price    decimal.Decimal
	Quantity int
}

// Quote is the full totals breakdown shown to the customer and stored on the
// order. All amounts carry full precision; rounding happens at display time.
type Quote struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Tax         decimal.Decimal
	Discount    decimal.Decimal
	GrandTotal  decimal.Decimal
}

// Subtotal sums price×quantity over the lines.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// ShippingFee is zero above the free-shipping threshold and the flat fee at
// or below it.
func (p Policy) ShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.ShippingFlatFee
}

// DiscountAmount resolves a coupon against a subtotal: percent coupons are a
// fraction of the subtotal, fixed coupons their face value. A nil coupon is
// no discount.
func DiscountAmount(coupon *model.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}
	if coupon.Kind == model.CouponPercent {
		return subtotal.Mul(coupon.Value).Div(decimal.NewFromInt(100))
	}
	return coupon.Value
}

// Compute produces the quote for a set of lines and an optional pre-resolved
// discount. The discount is capped at subtotal+shipping+tax so the grand
// total can never go negative.
func (p Policy) Compute(lines []Line, discount decimal.Decimal) Quote {
	subtotal := Subtotal(lines)
	shipping := p.ShippingFee(subtotal)
	tax := subtotal.Mul(p.TaxRate)

	payable := subtotal.Add(shipping).Add(tax)
	if discount.GreaterThan(payable) {
		discount = payable
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	return Quote{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Tax:         tax,
		Discount:    discount,
		GrandTotal:  payable.Sub(discount),
	}
}

// QuoteCart prices cart or order model lines with an optional coupon.
func (p Policy) QuoteCart(items []model.CartItem, coupon *model.Coupon) Quote {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{Price: it.Price, Quantity: it.Quantity})
	}
	return p.Compute(lines, DiscountAmount(coupon, Subtotal(lines)))
}
