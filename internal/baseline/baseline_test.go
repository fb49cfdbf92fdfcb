package baseline

import (
	"math"
	"testing"
)

func TestWakeWindowMinutes(t *testing.T) {
	table := Table{}

	tests := []struct {
		name     string
		ageWeeks float64
		expected int
	}{
		{"newborn", 2, 45},
		{"bucket edge", 4, 45},
		{"just past edge", 4.1, 60},
		{"six months", 26, 120},
		{"one year", 52, 180},
		{"toddler clamps to oldest", 200, 300},
		{"unknown age", -1, DefaultWakeWindowMinutes},
		{"NaN age", math.NaN(), DefaultWakeWindowMinutes},
		{"infinite age", math.Inf(1), DefaultWakeWindowMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.WakeWindowMinutes(tt.ageWeeks); got != tt.expected {
				t.Errorf("WakeWindowMinutes(%f) = %d, want %d", tt.ageWeeks, got, tt.expected)
			}
		})
	}
}

func TestNapTargetMinutes(t *testing.T) {
	table := Table{}

	tests := []struct {
		ageWeeks float64
		expected int
	}{
		{2, 60},
		{10, 90},
		{45, 80},
		{100, 120},
		{-1, DefaultNapTargetMinutes},
	}

	for _, tt := range tests {
		if got := table.NapTargetMinutes(tt.ageWeeks); got != tt.expected {
			t.Errorf("NapTargetMinutes(%f) = %d, want %d", tt.ageWeeks, got, tt.expected)
		}
	}
}

func TestExpectedCounts(t *testing.T) {
	table := Table{}

	young := table.ExpectedCounts(6)
	if young.FeedsMin != 7 || young.FeedsMax != 10 || young.NapsMin != 4 || young.NapsMax != 6 {
		t.Errorf("counts at 6 weeks = %+v, want 7-10 feeds / 4-6 naps", young)
	}

	old := table.ExpectedCounts(120)
	if old.FeedsMin != 3 || old.NapsMax != 2 {
		t.Errorf("counts at 120 weeks = %+v, want oldest bucket", old)
	}

	unknown := table.ExpectedCounts(-1)
	if unknown != DefaultCounts() {
		t.Errorf("counts for unknown age = %+v, want defaults %+v", unknown, DefaultCounts())
	}
}
