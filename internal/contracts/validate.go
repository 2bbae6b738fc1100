package contracts

import (
	"fmt"
	"strings"
)

// ValidationError captures a single field-specific validation issue.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates multiple validation problems.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

var knownTiers = map[string]struct{}{
	TierSilver:  {},
	TierGold:    {},
	TierDiamond: {},
	TierEmerald: {},
}

// NormalizeTier lowers the tier name and applies the documented default:
// missing or unknown tiers become silver.
func NormalizeTier(tier string) string {
	t := strings.ToLower(strings.TrimSpace(tier))
	if _, ok := knownTiers[t]; !ok {
		return TierSilver
	}
	return t
}

// ValidateBudgets rejects arithmetic/config errors up front so they are
// never discovered mid-computation.
func ValidateBudgets(b Budgets) ValidationErrors {
	var errs ValidationErrors
	if b.PriceStep <= 0 {
		errs = append(errs, ValidationError{
			Field:   "budgets.price_step",
			Message: fmt.Sprintf("must be > 0, got %g", b.PriceStep),
		})
	}
	if b.PriceFloor > b.PriceCeiling {
		errs = append(errs, ValidationError{
			Field:   "budgets.price_floor",
			Message: fmt.Sprintf("floor %g exceeds ceiling %g", b.PriceFloor, b.PriceCeiling),
		})
	}
	if b.PriceFloor < 0 {
		errs = append(errs, ValidationError{
			Field:   "budgets.price_floor",
			Message: "must be >= 0",
		})
	}
	return errs
}

// ValidateCatalog checks caller-supplied catalog items. An empty catalog is
// valid; a malformed item is not.
func ValidateCatalog(items []CatalogItem) ValidationErrors {
	var errs ValidationErrors
	for idx, item := range items {
		path := fmt.Sprintf("catalog[%d]", idx)
		if strings.TrimSpace(item.PPVAssetID) == "" {
			errs = append(errs, ValidationError{
				Field:   path + ".ppv_asset_id",
				Message: "is required",
			})
		}
		if item.BasePrice < 0 {
			errs = append(errs, ValidationError{
				Field:   path + ".base_price",
				Message: fmt.Sprintf("must be >= 0, got %g", item.BasePrice),
			})
		}
	}
	return errs
}

// ValidateInput runs every pre-pipeline check on a decision request and
// normalizes the documented defaults in place (tier, zero-valued budgets).
func ValidateInput(in *BrainInput) error {
	if in == nil {
		return ValidationErrors{{Field: "", Message: "input is required"}}
	}

	in.Profile.Tier = NormalizeTier(in.Profile.Tier)
	if in.Budgets == (Budgets{}) {
		in.Budgets = DefaultBudgets()
	}

	var errs ValidationErrors
	errs = append(errs, ValidateBudgets(in.Budgets)...)
	errs = append(errs, ValidateCatalog(in.Catalog)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}
