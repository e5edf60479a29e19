package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"djanselme/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTravelFees(t *testing.T) {
	policy := DefaultPricingPolicy()

	tests := []struct {
		name     string
		distance string
		want     string
	}{
		{"zero distance", "0", "0"},
		{"inside free radius", "15", "0"},
		{"exactly at free radius", "20", "0"},
		{"just beyond", "25", "2.5"},
		{"far", "100", "40"},
		{"fractional distance", "20.5", "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.TravelFees(dec(tt.distance))
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestRecompute_BasePackageSelection(t *testing.T) {
	policy := DefaultPricingPolicy()

	draft := models.QuotePricing{
		BasePackageWithEquipment:    dec("1500"),
		BasePackageWithoutEquipment: dec("900"),
		DepositPercentage:           30,
	}

	withEquipment := draft
	withEquipment.EquipmentIncluded = true
	priced := policy.Recompute(withEquipment)
	assert.True(t, priced.QuoteAmount.Equal(dec("1500")))

	priced = policy.Recompute(draft)
	assert.True(t, priced.QuoteAmount.Equal(dec("900")))
}

func TestRecompute_ExtraOptions(t *testing.T) {
	policy := DefaultPricingPolicy()

	draft := models.QuotePricing{
		BasePackageWithoutEquipment: dec("1000"),
		DepositPercentage:           30,
		ExtraOptions: []models.ExtraOption{
			{Name: "Photobooth", UnitPrice: dec("250"), Selected: true, Quantity: 1},
			{Name: "Machine à fumée", UnitPrice: dec("80"), Selected: false, Quantity: 1},
			{Name: "Heure supplémentaire", UnitPrice: dec("150"), Selected: true, Quantity: 2},
		},
	}

	priced := policy.Recompute(draft)

	// 1000 + 250 + 2*150; the unselected option contributes nothing
	assert.True(t, priced.QuoteAmount.Equal(dec("1550")), "got %s", priced.QuoteAmount)
}

func TestRecompute_ZeroQuantityCountsAsOne(t *testing.T) {
	policy := DefaultPricingPolicy()

	draft := models.QuotePricing{
		BasePackageWithoutEquipment: dec("1000"),
		ExtraOptions: []models.ExtraOption{
			{Name: "Photobooth", UnitPrice: dec("250"), Selected: true, Quantity: 0},
		},
	}

	priced := policy.Recompute(draft)
	assert.True(t, priced.QuoteAmount.Equal(dec("1250")), "got %s", priced.QuoteAmount)
}

func TestRecompute_TravelFeesInTotal(t *testing.T) {
	policy := DefaultPricingPolicy()

	draft := models.QuotePricing{
		BasePackageWithoutEquipment: dec("1000"),
		VenueDistanceKm:             dec("60"),
		DepositPercentage:           30,
	}

	priced := policy.Recompute(draft)

	assert.True(t, priced.TravelFees.Equal(dec("20")), "got %s", priced.TravelFees)
	assert.True(t, priced.QuoteAmount.Equal(dec("1020")), "got %s", priced.QuoteAmount)
}

func TestRecompute_DepositBalanceSumInvariant(t *testing.T) {
	policy := DefaultPricingPolicy()

	for _, pct := range []int{0, 10, 25, 30, 33, 50, 100} {
		draft := models.QuotePricing{
			BasePackageWithoutEquipment: dec("1333.33"),
			VenueDistanceKm:             dec("47.3"),
			DepositPercentage:           pct,
			ExtraOptions: []models.ExtraOption{
				{Name: "Éclairage décoratif supplémentaire", UnitPrice: dec("120"), Selected: true, Quantity: 1},
			},
		}

		priced := policy.Recompute(draft)

		sum := priced.DepositAmount.Add(priced.BalanceAmount)
		assert.True(t, sum.Equal(priced.QuoteAmount),
			"pct=%d: %s + %s != %s", pct, priced.DepositAmount, priced.BalanceAmount, priced.QuoteAmount)
	}
}

func TestRecompute_RoundsOnlyAtOutput(t *testing.T) {
	policy := DefaultPricingPolicy()

	// 20.1km over the radius at 0.5/km gives 0.05 of travel fee precision
	draft := models.QuotePricing{
		BasePackageWithoutEquipment: dec("999.99"),
		VenueDistanceKm:             dec("40.1"),
		DepositPercentage:           33,
	}

	priced := policy.Recompute(draft)

	require.True(t, priced.QuoteAmount.Equal(dec("1010.04")), "got %s", priced.QuoteAmount)
	assert.True(t, priced.DepositAmount.Equal(dec("333.31")), "got %s", priced.DepositAmount)
	assert.True(t, priced.BalanceAmount.Equal(dec("676.73")), "got %s", priced.BalanceAmount)
}

func TestRecompute_Idempotent(t *testing.T) {
	policy := DefaultPricingPolicy()

	draft := models.QuotePricing{
		EquipmentIncluded:           true,
		BasePackageWithEquipment:    dec("1800"),
		BasePackageWithoutEquipment: dec("1200"),
		VenueDistanceKm:             dec("35"),
		DepositPercentage:           30,
		ExtraOptions: []models.ExtraOption{
			{Name: "Photobooth", UnitPrice: dec("250"), Selected: true, Quantity: 1},
		},
	}

	once := policy.Recompute(draft)
	twice := policy.Recompute(once)

	assert.True(t, once.QuoteAmount.Equal(twice.QuoteAmount))
	assert.True(t, once.TravelFees.Equal(twice.TravelFees))
	assert.True(t, once.DepositAmount.Equal(twice.DepositAmount))
	assert.True(t, once.BalanceAmount.Equal(twice.BalanceAmount))
}

func TestRecompute_DoesNotMutateInput(t *testing.T) {
	policy := DefaultPricingPolicy()

	draft := models.QuotePricing{
		BasePackageWithoutEquipment: dec("1000"),
		VenueDistanceKm:             dec("50"),
		DepositPercentage:           30,
		ExtraOptions: []models.ExtraOption{
			{Name: "Photobooth", UnitPrice: dec("250"), Selected: true, Quantity: 1},
		},
	}

	_ = policy.Recompute(draft)

	assert.True(t, draft.QuoteAmount.IsZero())
	assert.True(t, draft.TravelFees.IsZero())
}
