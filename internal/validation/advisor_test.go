package validation

import (
	"context"
	"reflect"
	"testing"

	"github.com/ShayCichocki/observer/pkg/models"
)

func TestApplyAdvice(t *testing.T) {
	base := models.NewOutcome(nil, []string{"rule warning"})

	tests := []struct {
		name         string
		advice       *Advice
		wantValid    bool
		wantErrors   []string
		wantWarnings []string
	}{
		{
			name:         "nil advice leaves outcome untouched",
			advice:       nil,
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{"rule warning"},
		},
		{
			name:         "valid advice merges warnings only",
			advice:       &Advice{IsValid: true, Errors: []string{"ignored"}, Warnings: []string{"ai warning"}},
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{"rule warning", "ai warning"},
		},
		{
			name:         "invalid advice merges errors and forces invalid",
			advice:       &Advice{IsValid: false, Errors: []string{"suspicious owner"}},
			wantValid:    false,
			wantErrors:   []string{"suspicious owner"},
			wantWarnings: []string{"rule warning"},
		},
		{
			name:         "invalid advice without errors still invalid",
			advice:       &Advice{IsValid: false},
			wantValid:    false,
			wantErrors:   []string{flaggedInvalid},
			wantWarnings: []string{"rule warning"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyAdvice(base, tt.advice)
			if got.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", got.Valid, tt.wantValid)
			}
			if !reflect.DeepEqual(got.Errors, tt.wantErrors) {
				t.Errorf("Errors = %v, want %v", got.Errors, tt.wantErrors)
			}
			if !reflect.DeepEqual(got.Warnings, tt.wantWarnings) {
				t.Errorf("Warnings = %v, want %v", got.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestAdvisorFunc(t *testing.T) {
	var a Advisor = AdvisorFunc(func(_ context.Context, rec models.Record) (*Advice, error) {
		return &Advice{IsValid: rec.Owner() != "bot"}, nil
	})

	adv, err := a.Advise(context.Background(), models.NewRecord("bot", fixedNow, "d", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv.IsValid {
		t.Error("expected advisor to reject owner 'bot'")
	}
}
