package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDefaultPaymentStagesSplit(t *testing.T) {
	stages := DefaultPaymentStages()
	if !stages.PercentagesValid() {
		t.Fatalf("default split should sum to 100")
	}
	if !stages.Initial.Percentage.Equal(decimal.NewFromInt(30)) ||
		!stages.Midpoint.Percentage.Equal(decimal.NewFromInt(40)) ||
		!stages.Final.Percentage.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected 30/40/30, got %+v", stages)
	}
}

func TestPercentagesValidRejectsDrift(t *testing.T) {
	stages := PaymentStages{
		Initial:  PaymentStageTerms{Percentage: decimal.NewFromInt(30)},
		Midpoint: PaymentStageTerms{Percentage: decimal.NewFromInt(40)},
		Final:    PaymentStageTerms{Percentage: decimal.NewFromInt(29)},
	}
	if stages.PercentagesValid() {
		t.Fatalf("99%% total should be invalid")
	}
}

func TestApplyApprovedAmountRoundNumbers(t *testing.T) {
	stages := DefaultPaymentStages()
	stages.ApplyApprovedAmount(decimal.NewFromInt(100000))

	if got := stages.Initial.Amount.StringFixed(2); got != "30000.00" {
		t.Fatalf("initial = %s, want 30000.00", got)
	}
	if got := stages.Midpoint.Amount.StringFixed(2); got != "40000.00" {
		t.Fatalf("midpoint = %s, want 40000.00", got)
	}
	if got := stages.Final.Amount.StringFixed(2); got != "30000.00" {
		t.Fatalf("final = %s, want 30000.00", got)
	}
}

func TestApplyApprovedAmountFinalAbsorbsRemainder(t *testing.T) {
	cases := []struct {
		approved string
	}{
		{"100.01"},
		{"99999.99"},
		{"123456.78"},
		{"0.01"},
	}
	for _, tc := range cases {
		approved := decimal.RequireFromString(tc.approved)
		stages := DefaultPaymentStages()
		stages.ApplyApprovedAmount(approved)

		sum := stages.Initial.Amount.Add(*stages.Midpoint.Amount).Add(*stages.Final.Amount)
		if !sum.Equal(approved) {
			t.Fatalf("approved %s: amounts sum to %s, must equal the approved total", tc.approved, sum)
		}
		if stages.Initial.Amount.Exponent() < -2 || stages.Midpoint.Amount.Exponent() < -2 {
			t.Fatalf("approved %s: initial/midpoint must be rounded to 2 decimal places", tc.approved)
		}
	}
}

func TestApplyApprovedAmountUnevenSplit(t *testing.T) {
	third := decimal.RequireFromString("33.33")
	stages := PaymentStages{
		Initial:  PaymentStageTerms{Percentage: third},
		Midpoint: PaymentStageTerms{Percentage: third},
		Final:    PaymentStageTerms{Percentage: decimal.RequireFromString("33.34")},
	}
	if !stages.PercentagesValid() {
		t.Fatalf("33.33/33.33/33.34 should be a valid split")
	}

	approved := decimal.NewFromInt(1000)
	stages.ApplyApprovedAmount(approved)

	if got := stages.Initial.Amount.StringFixed(2); got != "333.30" {
		t.Fatalf("initial = %s, want 333.30", got)
	}
	sum := stages.Initial.Amount.Add(*stages.Midpoint.Amount).Add(*stages.Final.Amount)
	if !sum.Equal(approved) {
		t.Fatalf("amounts sum to %s, must equal 1000", sum)
	}
}

func TestStageGatesMatchProjectGraph(t *testing.T) {
	if StagePredecessor[StageInitial] != ProjectPendingInitialPayment ||
		StageSuccessor[StageInitial] != ProjectInFabrication {
		t.Fatalf("initial stage gates wrong: %s -> %s", StagePredecessor[StageInitial], StageSuccessor[StageInitial])
	}
	if StagePredecessor[StageMidpoint] != ProjectPendingMidpointPayment ||
		StageSuccessor[StageMidpoint] != ProjectReadyForInstallation {
		t.Fatalf("midpoint stage gates wrong")
	}
	if StagePredecessor[StageFinal] != ProjectPendingFinalPayment ||
		StageSuccessor[StageFinal] != ProjectCompleted {
		t.Fatalf("final stage gates wrong")
	}
}

func TestFormatReceiptNumber(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	if got := FormatReceiptNumber(at, 7); got != "RMV-RCT-202403-0007" {
		t.Fatalf("receipt = %s, want RMV-RCT-202403-0007", got)
	}
	if got := FormatReceiptNumber(at, 12345); got != "RMV-RCT-202403-12345" {
		t.Fatalf("sequence past 9999 should not truncate, got %s", got)
	}
}

func TestReceiptYearPrefixScopesByYear(t *testing.T) {
	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	november := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	if ReceiptYearPrefix(march) != ReceiptYearPrefix(november) {
		t.Fatalf("months of the same year must share a sequence prefix")
	}
	nextYear := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if ReceiptYearPrefix(march) == ReceiptYearPrefix(nextYear) {
		t.Fatalf("the sequence prefix must reset across years")
	}
}
