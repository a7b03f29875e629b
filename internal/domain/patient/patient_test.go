package patient

import (
	"testing"
	"time"
)

func TestGenderIsValid(t *testing.T) {
	for _, g := range []Gender{GenderMale, GenderFemale, GenderOther} {
		if !g.IsValid() {
			t.Errorf("Gender %q should be valid", g)
		}
	}
	for _, g := range []Gender{"", "unknown", "M"} {
		if g.IsValid() {
			t.Errorf("Gender %q should be invalid", g)
		}
	}
}

func TestAge(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"birthday passed", now.AddDate(-30, 0, -40), 30},
		{"birthday upcoming", now.AddDate(-30, 0, 40), 29},
		{"birthday today", now.AddDate(-30, 0, 0), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Patient{DateOfBirth: tt.dob}
			if got := p.Age(); got != tt.want {
				t.Errorf("Age() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNormalizedEmail(t *testing.T) {
	cmd := &CreatePatientCommand{Email: "  Jane.Doe@Example.COM "}
	if got := cmd.NormalizedEmail(); got != "jane.doe@example.com" {
		t.Errorf("NormalizedEmail() = %q", got)
	}
}
