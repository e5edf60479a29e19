package models

import (
	"github.com/shopspring/decimal"
)

// ExtraOption is an optional line item priced into a quote
// (photobooth, fog machine, extra hour, ...).
type ExtraOption struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Selected  bool            `json:"selected"`
	Quantity  int             `json:"quantity"`
}

// QuotePricing is the manual pricing breakdown an admin attaches to a quote.
// TravelFees, QuoteAmount, DepositAmount and BalanceAmount are derived and
// must only ever be written by the pricing calculator, never set directly.
type QuotePricing struct {
	EquipmentIncluded             bool            `json:"equipment_included"`
	BasePackageWithEquipment      decimal.Decimal `json:"base_package_with_equipment"`
	BasePackageWithoutEquipment   decimal.Decimal `json:"base_package_without_equipment"`
	VenueDistanceKm               decimal.Decimal `json:"venue_distance_km"`
	TravelFees                    decimal.Decimal `json:"travel_fees"`
	DjAnimationIncluded           bool            `json:"dj_animation_included"`
	TechnicalInstallationIncluded bool            `json:"technical_installation_included"`
	CustomPlaylistIncluded        bool            `json:"custom_playlist_included"`
	ExtraOptions                  []ExtraOption   `json:"extra_options"`
	DepositPercentage             int             `json:"deposit_percentage"`
	PaymentTerms                  string          `json:"payment_terms"`
	QuoteNotes                    string          `json:"quote_notes"`
	QuoteAmount                   decimal.Decimal `json:"quote_amount"`
	DepositAmount                 decimal.Decimal `json:"deposit_amount"`
	BalanceAmount                 decimal.Decimal `json:"balance_amount"`
}

// PresetOption mirrors the add-ons offered by default in the back office.
type PresetOption struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

var PresetOptions = []PresetOption{
	{Name: "Photobooth", Price: decimal.NewFromInt(250)},
	{Name: "Machine à fumée", Price: decimal.NewFromInt(80)},
	{Name: "Heure supplémentaire", Price: decimal.NewFromInt(150)},
	{Name: "Éclairage décoratif supplémentaire", Price: decimal.NewFromInt(120)},
}
