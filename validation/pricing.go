package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"djanselme/models"
)

// QuotePricingForm is the raw pricing breakdown the admin submits.
// Derived amounts are deliberately absent: they are recomputed by the
// calculator after validation and can never be supplied by the client.
type QuotePricingForm struct {
	EquipmentIncluded             bool                 `json:"equipment_included"`
	BasePackageWithEquipment      decimal.Decimal      `json:"base_package_with_equipment"`
	BasePackageWithoutEquipment   decimal.Decimal      `json:"base_package_without_equipment"`
	VenueDistanceKm               decimal.Decimal      `json:"venue_distance_km"`
	DjAnimationIncluded           bool                 `json:"dj_animation_included"`
	TechnicalInstallationIncluded bool                 `json:"technical_installation_included"`
	CustomPlaylistIncluded        bool                 `json:"custom_playlist_included"`
	ExtraOptions                  []models.ExtraOption `json:"extra_options"`
	DepositPercentage             int                  `json:"deposit_percentage"`
	PaymentTerms                  string               `json:"payment_terms"`
	QuoteNotes                    string               `json:"quote_notes"`
}

// ValidateQuotePricing validates the pricing inputs at the boundary.
// Out-of-range values are errors here, never silently clamped inside the
// calculator. Extra option prices must be non-negative so a selected
// option can never pull the total down.
func ValidateQuotePricing(f QuotePricingForm) (*models.QuotePricing, *FieldErrors) {
	errs := NewFieldErrors()

	if f.BasePackageWithEquipment.IsNegative() {
		errs.Add("base_package_with_equipment", "Le tarif doit être positif")
	}
	if f.BasePackageWithoutEquipment.IsNegative() {
		errs.Add("base_package_without_equipment", "Le tarif doit être positif")
	}
	if f.VenueDistanceKm.IsNegative() {
		errs.Add("venue_distance_km", "La distance doit être positive")
	}
	for i, opt := range f.ExtraOptions {
		prefix := fmt.Sprintf("extra_options.%d", i)
		if strings.TrimSpace(opt.Name) == "" {
			errs.Add(prefix+".name", "Le nom de l'option est requis")
		}
		if opt.UnitPrice.IsNegative() {
			errs.Add(prefix+".price", "Le prix de l'option doit être positif")
		}
		if opt.Quantity < 1 {
			errs.Add(prefix+".quantity", "La quantité doit être au moins 1")
		}
	}
	if f.DepositPercentage < 0 || f.DepositPercentage > 100 {
		errs.Add("deposit_percentage", "L'acompte doit être entre 0 et 100%")
	}

	if errs.Has() {
		return nil, errs
	}

	options := make([]models.ExtraOption, len(f.ExtraOptions))
	for i, opt := range f.ExtraOptions {
		options[i] = models.ExtraOption{
			Name:      strings.TrimSpace(opt.Name),
			UnitPrice: opt.UnitPrice,
			Selected:  opt.Selected,
			Quantity:  opt.Quantity,
		}
	}

	return &models.QuotePricing{
		EquipmentIncluded:             f.EquipmentIncluded,
		BasePackageWithEquipment:      f.BasePackageWithEquipment,
		BasePackageWithoutEquipment:   f.BasePackageWithoutEquipment,
		VenueDistanceKm:               f.VenueDistanceKm,
		DjAnimationIncluded:           f.DjAnimationIncluded,
		TechnicalInstallationIncluded: f.TechnicalInstallationIncluded,
		CustomPlaylistIncluded:        f.CustomPlaylistIncluded,
		ExtraOptions:                  options,
		DepositPercentage:             f.DepositPercentage,
		PaymentTerms:                  strings.TrimSpace(f.PaymentTerms),
		QuoteNotes:                    strings.TrimSpace(f.QuoteNotes),
	}, nil
}
