package scan

import "testing"

func TestRiskLevelOrdinal(t *testing.T) {
	tests := []struct {
		level RiskLevel
		want  int
	}{
		{RiskLow, 1},
		{RiskModerate, 2},
		{RiskHigh, 3},
		{RiskCritical, 4},
		{"", 1},
		{"bogus", 1},
	}

	for _, tt := range tests {
		if got := tt.level.Ordinal(); got != tt.want {
			t.Errorf("Ordinal(%q) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestRiskLevelIsElevated(t *testing.T) {
	if RiskLow.IsElevated() || RiskModerate.IsElevated() {
		t.Error("low and moderate must not count as elevated")
	}
	if !RiskHigh.IsElevated() || !RiskCritical.IsElevated() {
		t.Error("high and critical must count as elevated")
	}
}

func TestClassificationLabel(t *testing.T) {
	tests := []struct {
		class Classification
		want  string
	}{
		{ClassMelanoma, "Melanoma"},
		{ClassBasalCellCarcinoma, "Basal Cell Carcinoma"},
		{ClassBenignKeratosis, "Benign Keratosis"},
		{ClassUnknown, "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.class.Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.class, got, tt.want)
		}
	}
}

func TestClassificationIsValid(t *testing.T) {
	if !ClassMelanoma.IsValid() || !ClassUnknown.IsValid() {
		t.Error("known classifications must validate")
	}
	if Classification("melanomma").IsValid() || Classification("").IsValid() {
		t.Error("unknown classifications must not validate")
	}
}
