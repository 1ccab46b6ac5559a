package models

import (
	"math"
	"strings"
	"testing"
)

func TestNewOutcome_ValidityFollowsErrors(t *testing.T) {
	tests := []struct {
		name     string
		errors   []string
		warnings []string
		want     bool
	}{
		{"no errors no warnings", nil, nil, true},
		{"warnings only", nil, []string{"short"}, true},
		{"one error", []string{"missing"}, nil, false},
		{"errors and warnings", []string{"missing"}, []string{"short"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOutcome(tt.errors, tt.warnings)
			if o.Valid != tt.want {
				t.Errorf("Valid = %v, want %v", o.Valid, tt.want)
			}
			if o.Errors == nil || o.Warnings == nil {
				t.Error("expected non-nil slices")
			}
		})
	}
}

func TestOutcome_MergeKeepsOrder(t *testing.T) {
	a := NewOutcome([]string{"e1"}, []string{"w1"})
	b := NewOutcome([]string{"e2"}, []string{"w2"})

	m := a.Merge(b)

	if m.Valid {
		t.Error("merged outcome should be invalid")
	}
	if strings.Join(m.Errors, ",") != "e1,e2" {
		t.Errorf("Errors = %v", m.Errors)
	}
	if strings.Join(m.Warnings, ",") != "w1,w2" {
		t.Errorf("Warnings = %v", m.Warnings)
	}
	if len(a.Errors) != 1 {
		t.Error("Merge mutated receiver")
	}
}

func TestOutcome_String(t *testing.T) {
	o := NewOutcome([]string{"Description is empty or missing"}, []string{"Repository owner is very short"})
	s := o.String()

	for _, want := range []string{"Validation Status: INVALID", "Errors (1):", "Warnings (1):", "  - Description is empty or missing"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}

	if got := NewOutcome(nil, nil).String(); got != "Validation Status: VALID" {
		t.Errorf("valid String() = %q", got)
	}
}

func TestSummarize(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		s := Summarize(nil)
		if s.Total != 0 || s.PassRate != 0 || s.AvgErrors != 0 || math.IsNaN(s.PassRate) {
			t.Errorf("expected zero summary, got %+v", s)
		}
	})

	t.Run("valid invalid valid", func(t *testing.T) {
		entries := []HistoryEntry{
			{Valid: true, Warnings: []string{"w"}},
			{Valid: false, Errors: []string{"e1", "e2"}},
			{Valid: true},
		}
		s := Summarize(entries)

		if s.Total != 3 || s.Passed != 2 || s.Failed != 1 {
			t.Errorf("counts = %+v", s)
		}
		if math.Abs(s.PassRate-66.6666) > 0.001 {
			t.Errorf("PassRate = %f, want ~66.67", s.PassRate)
		}
		if s.TotalErrors != 2 || s.TotalWarnings != 1 {
			t.Errorf("totals = %+v", s)
		}
		if math.Abs(s.AvgErrors-2.0/3.0) > 1e-9 {
			t.Errorf("AvgErrors = %f", s.AvgErrors)
		}
	})
}
