package services

import (
	"github.com/shopspring/decimal"

	"djanselme/models"
)

// PricingPolicy carries the travel-fee policy: travel is free within
// FreeTravelKm, then billed TravelRatePerKm per kilometre beyond it.
// Values come from configuration, not constants.
type PricingPolicy struct {
	FreeTravelKm    decimal.Decimal
	TravelRatePerKm decimal.Decimal
}

// DefaultPricingPolicy matches the production tariff: free within 20 km,
// 0.50€/km beyond.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		FreeTravelKm:    decimal.NewFromInt(20),
		TravelRatePerKm: decimal.NewFromFloat(0.5),
	}
}

// TravelFees computes the distance-based fee. Distances at or under the
// free radius cost exactly zero.
func (p PricingPolicy) TravelFees(distanceKm decimal.Decimal) decimal.Decimal {
	if distanceKm.LessThanOrEqual(p.FreeTravelKm) {
		return decimal.Zero
	}
	return distanceKm.Sub(p.FreeTravelKm).Mul(p.TravelRatePerKm)
}

// Recompute derives every monetary field of a quote pricing draft from its
// inputs. It is a pure function: the input is not mutated and calling it
// twice on the same draft yields identical results. Rounding to currency
// precision happens only on the returned values, never mid-formula.
func (p PricingPolicy) Recompute(q models.QuotePricing) models.QuotePricing {
	base := q.BasePackageWithoutEquipment
	if q.EquipmentIncluded {
		base = q.BasePackageWithEquipment
	}

	travel := p.TravelFees(q.VenueDistanceKm)

	extras := decimal.Zero
	for _, opt := range q.ExtraOptions {
		if !opt.Selected {
			continue
		}
		qty := opt.Quantity
		if qty < 1 {
			qty = 1
		}
		extras = extras.Add(opt.UnitPrice.Mul(decimal.NewFromInt(int64(qty))))
	}

	total := base.Add(travel).Add(extras).Round(2)
	deposit := total.Mul(decimal.NewFromInt(int64(q.DepositPercentage))).
		Div(decimal.NewFromInt(100)).Round(2)
	// balance is total minus the rounded deposit, so the deposit/balance
	// split always sums back to the total exactly
	balance := total.Sub(deposit)

	out := q
	out.ExtraOptions = append([]models.ExtraOption(nil), q.ExtraOptions...)
	out.TravelFees = travel.Round(2)
	out.QuoteAmount = total
	out.DepositAmount = deposit
	out.BalanceAmount = balance
	return out
}
