package contracts

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeTier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"silver", TierSilver},
		{"GOLD", TierGold},
		{" Diamond ", TierDiamond},
		{"emerald", TierEmerald},
		{"", TierSilver},
		{"platinum", TierSilver},
	}
	for _, tt := range tests {
		if got := NormalizeTier(tt.in); got != tt.want {
			t.Fatalf("NormalizeTier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateBudgets(t *testing.T) {
	if errs := ValidateBudgets(DefaultBudgets()); len(errs) != 0 {
		t.Fatalf("default budgets rejected: %v", errs)
	}

	errs := ValidateBudgets(Budgets{PriceFloor: -1, PriceCeiling: 10, PriceStep: 0})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2 (step and floor)", len(errs))
	}
	if errs[0].Field != "budgets.price_step" {
		t.Fatalf("first field = %q, want budgets.price_step", errs[0].Field)
	}

	errs = ValidateBudgets(Budgets{PriceFloor: 50, PriceCeiling: 10, PriceStep: 1})
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "exceeds ceiling") {
		t.Fatalf("inverted bounds errors = %v", errs)
	}
}

func TestValidateCatalog(t *testing.T) {
	items := []CatalogItem{
		{PPVAssetID: "ppv_1", MediaType: "photo", BasePrice: 10},
		{PPVAssetID: "", MediaType: "video", BasePrice: -2},
	}
	errs := ValidateCatalog(items)
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}
	if errs[0].Field != "catalog[1].ppv_asset_id" || errs[1].Field != "catalog[1].base_price" {
		t.Fatalf("fields = %q, %q", errs[0].Field, errs[1].Field)
	}
}

func TestValidateInputAppliesDefaults(t *testing.T) {
	in := &BrainInput{Profile: Profile{Tier: "VIP"}}
	if err := ValidateInput(in); err != nil {
		t.Fatal(err)
	}
	if in.Profile.Tier != TierSilver {
		t.Fatalf("tier = %q, want silver default", in.Profile.Tier)
	}
	if in.Budgets != DefaultBudgets() {
		t.Fatalf("budgets = %+v, want defaults for zero value", in.Budgets)
	}
}

func TestValidateInputKeepsExplicitBudgets(t *testing.T) {
	b := Budgets{MaxPaidPer24hUser: 1, PriceFloor: 5, PriceCeiling: 20, PriceStep: 5}
	in := &BrainInput{Budgets: b}
	if err := ValidateInput(in); err != nil {
		t.Fatal(err)
	}
	if in.Budgets != b {
		t.Fatalf("explicit budgets overwritten: %+v", in.Budgets)
	}
}

func TestValidateInputAggregatesErrors(t *testing.T) {
	in := &BrainInput{
		Budgets: Budgets{PriceStep: -1, PriceFloor: 0, PriceCeiling: 1},
		Catalog: []CatalogItem{{PPVAssetID: "", BasePrice: -1}},
	}
	err := ValidateInput(in)
	if err == nil {
		t.Fatal("expected aggregated errors")
	}
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("err = %T, want ValidationErrors", err)
	}
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want 3", len(errs))
	}
	if !strings.Contains(err.Error(), "\n") {
		t.Fatalf("aggregate message not newline-joined: %q", err.Error())
	}
}

func TestValidateInputNil(t *testing.T) {
	if err := ValidateInput(nil); err == nil {
		t.Fatal("nil input accepted")
	}
}
