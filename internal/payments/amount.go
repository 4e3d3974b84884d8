// Package payments wraps the Stripe and Razorpay SDKs behind small gateways
// so handlers never touch gateway wire types directly.
package payments

import "github.com/shopspring/decimal"

// Currency is the settlement currency for every order.
const Currency = "lkr"

// MinorUnits converts a rupee amount to cents without the drift a plain
// float64 multiply would introduce (e.g. 19.99 must become 1999, not 1998).
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
