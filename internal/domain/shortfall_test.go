package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseRequiredAmount(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{message: "Insufficient cash. Required: ₹12,500", want: "12500", ok: true},
		{message: "Float short by 3000.50", want: "3000.5", ok: true},
		{message: "Please add 4,000 to the float before paying out", want: "4000", ok: true},
		{message: "Top-up 750 needed", want: "750", ok: true},
		{message: "Not enough cash: 900", want: "900", ok: true},
		{message: "Insufficient cash in float", ok: false},
		{message: "Payout 5000 exceeds float 2000", ok: false},
		{message: "required 0", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := ParseRequiredAmount(tt.message)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v (amount %s)", tt.ok, ok, got)
			}
			if ok && !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
