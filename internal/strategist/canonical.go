package strategist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Canonical renders a validated plan in its canonical wire form: indented
// JSON with the contract's field order and defaults applied.
func Canonical(out StrategistOut) (string, error) {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal plan: %w", err)
	}
	return string(data) + "\n", nil
}

// DiffCanonical returns a unified diff between a plan file as written and
// its canonical re-serialization. An empty string means the file is already
// canonical.
func DiffCanonical(original string, out StrategistOut) (string, error) {
	canonical, err := Canonical(out)
	if err != nil {
		return "", err
	}
	diff := difflib.UnifiedDiff{
		A:        strings.Split(original, "\n"),
		B:        strings.Split(canonical, "\n"),
		FromFile: "plan.json",
		ToFile:   "canonical",
		Context:  3,
	}
	diffText, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff plan: %w", err)
	}
	if strings.TrimSpace(diffText) == "" {
		return "", nil
	}
	return diffText, nil
}
