package units

import (
	"sort"
	"testing"
)

func TestToBase(t *testing.T) {
	tests := []struct {
		name     string
		qty      float64
		fromUnit string
		baseUnit string
		want     float64
	}{
		{"grams identity", 250, "g", "g", 250},
		{"kilograms", 2.5, "kg", "g", 2500},
		{"milliliters identity", 330, "mL", "mL", 330},
		{"lowercase ml", 330, "ml", "mL", 330},
		{"liters", 1.5, "L", "mL", 1500},
		{"lowercase l", 0.5, "l", "mL", 500},
		{"pieces identity", 6, "pcs", "pcs", 6},
		{"dozen", 2, "dozen", "pcs", 24},
		{"unknown unit defaults to 1.0", 42, "handful", "g", 42},
		{"zero quantity", 0, "kg", "g", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToBase(tt.qty, tt.fromUnit, tt.baseUnit); got != tt.want {
				t.Fatalf("ToBase(%v, %q, %q) = %v, want %v", tt.qty, tt.fromUnit, tt.baseUnit, got, tt.want)
			}
		})
	}
}

func TestToBase_linearity(t *testing.T) {
	for _, u := range []string{"g", "kg", "mL", "L", "pcs", "dozen"} {
		for _, q := range []float64{0, 0.25, 1, 17, 1000} {
			double := ToBase(2*q, u, BaseUnitFor(u))
			single := ToBase(q, u, BaseUnitFor(u))
			if double != 2*single {
				t.Fatalf("ToBase not linear for %q at q=%v: %v != 2*%v", u, q, double, single)
			}
		}
	}
}

func TestFromBase(t *testing.T) {
	tests := []struct {
		qty      float64
		baseUnit string
		wantQty  float64
		wantUnit string
	}{
		{500, "g", 500, "g"},
		{1000, "g", 1, "kg"},
		{2500, "g", 2.5, "kg"},
		{999.9, "g", 999.9, "g"},
		{1000, "mL", 1, "L"},
		{750, "mL", 750, "mL"},
		{5000, "pcs", 5000, "pcs"}, // counts never rescale
	}

	for _, tt := range tests {
		gotQty, gotUnit := FromBase(tt.qty, tt.baseUnit)
		if gotQty != tt.wantQty || gotUnit != tt.wantUnit {
			t.Fatalf("FromBase(%v, %q) = (%v, %q), want (%v, %q)",
				tt.qty, tt.baseUnit, gotQty, gotUnit, tt.wantQty, tt.wantUnit)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		qty      float64
		baseUnit string
		want     string
	}{
		{1000, "g", "1 kg"},
		{1500, "g", "1.50 kg"},
		{500, "g", "500 g"},
		{2000, "mL", "2 L"},
		{1250, "mL", "1.25 L"},
		{12, "pcs", "12 pcs"},
		{0.5, "g", "0.50 g"},
		{0, "g", "0 g"},
	}

	for _, tt := range tests {
		if got := Format(tt.qty, tt.baseUnit); got != tt.want {
			t.Fatalf("Format(%v, %q) = %q, want %q", tt.qty, tt.baseUnit, got, tt.want)
		}
	}
}

func TestCompatible(t *testing.T) {
	got := Compatible("mL")
	want := []string{"L", "l", "mL", "ml"}
	sort.Strings(got)
	if len(got) != len(want) {
		t.Fatalf("Compatible(mL) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Compatible(mL) = %v, want %v", got, want)
		}
	}

	if got := Compatible("furlong"); len(got) != 1 || got[0] != "furlong" {
		t.Fatalf("Compatible(unknown) = %v, want singleton of itself", got)
	}
}

func TestCheckCompatible(t *testing.T) {
	if err := CheckCompatible("kg", "g"); err != nil {
		t.Fatalf("kg should be compatible with g: %v", err)
	}
	if err := CheckCompatible("dozen", "pcs"); err != nil {
		t.Fatalf("dozen should be compatible with pcs: %v", err)
	}
	if err := CheckCompatible("kg", "mL"); err == nil {
		t.Fatal("kg must not be compatible with mL")
	}
	if err := CheckCompatible("handful", "g"); err == nil {
		t.Fatal("unknown unit must be rejected")
	}
}

func TestBaseUnitFor(t *testing.T) {
	tests := map[string]string{
		"kg": "g", "g": "g", "L": "mL", "ml": "mL", "dozen": "pcs", "pcs": "pcs", "weird": "weird",
	}
	for unit, want := range tests {
		if got := BaseUnitFor(unit); got != want {
			t.Fatalf("BaseUnitFor(%q) = %q, want %q", unit, got, want)
		}
	}
}
