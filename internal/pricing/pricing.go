// Package pricing computes the final amount for a set of selected seats.
// Every rule is a pure function; the engine applies them in a fixed
// order so adding a new offer never touches claim or transaction logic.
package pricing

import (
	"math"
	"strings"
)

const (
	windowDiscountPercent = 20.0
	bulkDiscountPercent   = 50.0
	bulkMinSeats          = 3
)

type AppliedOffer struct {
	Name   string  `json:"offerName"`
	Amount float64 `json:"discountAmount"`
}

type Result struct {
	BaseAmount          float64
	DiscountAmount      float64
	FinalAmount         float64
	DiscountDescription string
	AppliedOffers       []AppliedOffer
}

// offerInput carries the original seat prices and the showing flag;
// offers never see each other's running totals except through the
// windowApplied marker, which the bulk rule needs.
type offerInput struct {
	prices        []float64
	window        bool
	windowApplied bool
}

// An offer inspects the input and either contributes a discount or
// declines. The returned amount is already rounded to 2 decimals.
type offer func(in offerInput) (AppliedOffer, string, bool)

// engine order is fixed: window discount first, bulk second.
var offers = []offer{windowOffer, bulkOffer}

// Price applies the offer pipeline to the given seat prices. An empty
// price list yields an all-zero result with no offers.
func Price(seatPrices []float64, inDiscountWindow bool) Result {
	if len(seatPrices) == 0 {
		return Result{AppliedOffers: []AppliedOffer{}}
	}

	base := 0.0
	for _, p := range seatPrices {
		base += p
	}

	in := offerInput{prices: seatPrices, window: inDiscountWindow}
	applied := make([]AppliedOffer, 0, len(offers))
	labels := make([]string, 0, len(offers))
	totalDiscount := 0.0
	for _, o := range offers {
		ao, label, ok := o(in)
		if !ok {
			continue
		}
		applied = append(applied, ao)
		labels = append(labels, label)
		totalDiscount += ao.Amount
		if ao.Name == windowOfferName {
			in.windowApplied = true
		}
	}

	totalDiscount = round2(totalDiscount)
	return Result{
		BaseAmount:          base,
		DiscountAmount:      totalDiscount,
		FinalAmount:         round2(base - totalDiscount),
		DiscountDescription: strings.Join(labels, " + "),
		AppliedOffers:       applied,
	}
}

const (
	windowOfferName  = "Afternoon Show Discount (20% off)"
	windowOfferLabel = "20% Afternoon Discount"
	bulkOfferName    = "50% off on 3rd Ticket"
	bulkOfferLabel   = "50% off 3rd ticket"
)

// windowOffer discounts 20% of the sum of the original seat prices when
// the showing starts inside the discount window.
func windowOffer(in offerInput) (AppliedOffer, string, bool) {
	if !in.window {
		return AppliedOffer{}, "", false
	}
	base := 0.0
	for _, p := range in.prices {
		base += p
	}
	amount := round2(base * windowDiscountPercent / 100)
	return AppliedOffer{Name: windowOfferName, Amount: amount}, windowOfferLabel, true
}

// bulkOffer discounts 50% of the cheapest seat when three or more seats
// are booked. When the window discount applied, the cheapest seat's
// post-window price is the discount base.
func bulkOffer(in offerInput) (AppliedOffer, string, bool) {
	if len(in.prices) < bulkMinSeats {
		return AppliedOffer{}, "", false
	}
	cheapest := in.prices[0]
	for _, p := range in.prices[1:] {
		if p < cheapest {
			cheapest = p
		}
	}
	if in.windowApplied {
		cheapest *= 1 - windowDiscountPercent/100
	}
	amount := round2(cheapest * bulkDiscountPercent / 100)
	return AppliedOffer{Name: bulkOfferName, Amount: amount}, bulkOfferLabel, true
}

// round2 rounds half away from zero to 2 decimal places; amounts are
// always non-negative here, so this is round-half-up.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
