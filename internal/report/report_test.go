package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"moneytalk/internal/models"
)

type fakeGenerator struct {
	response string
	err      error
	calls    int
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func testAggregation() models.AggregationResult {
	return models.AggregationResult{
		TotalIncome:         12000000,
		TotalExpense:        4580000,
		TransactionCount:    23,
		PerCategory:         []models.CategoryTotal{{Category: "Ăn uống", Total: 2500000}, {Category: "Xe cộ", Total: 1200000}},
		TopCategory:         &models.CategoryTotal{Category: "Ăn uống", Total: 2500000},
		LargestTransaction:  900000,
		SavePercentage:      61.8,
		DailyAverageExpense: 152666,
	}
}

func testPolicy() RetryPolicy {
	return RetryPolicy{Timeouts: []time.Duration{time.Second, time.Second}}
}

func TestSynthesizeFallbackOnGeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model offline")}
	s := NewSynthesizer(gen, testPolicy(), zerolog.Nop())

	got := s.Synthesize(context.Background(), testAggregation(), "tháng 11/2025", models.TxTypeBoth)
	if !got.UsedFallback {
		t.Fatal("expected fallback")
	}
	if gen.calls != 2 {
		t.Fatalf("generator calls = %d, want 2 attempts", gen.calls)
	}

	// The fallback formats the supplied totals; it never recomputes them.
	for _, want := range []string{"12,000,000 VND", "4,580,000 VND", "Số giao dịch: 23", "Ăn uống", "tháng 11/2025"} {
		if !strings.Contains(got.Body, want) {
			t.Fatalf("fallback body missing %q:\n%s", want, got.Body)
		}
	}
}

func TestSynthesizeUsesGeneratorOutput(t *testing.T) {
	gen := &fakeGenerator{response: "```markdown\n# Báo cáo tháng 11\nTổng chi `4,580,000 VND`.\n```"}
	s := NewSynthesizer(gen, testPolicy(), zerolog.Nop())

	got := s.Synthesize(context.Background(), testAggregation(), "tháng 11/2025", models.TxTypeExpense)
	if got.UsedFallback {
		t.Fatal("unexpected fallback")
	}
	if strings.Contains(got.Body, "```") {
		t.Fatalf("fences not stripped:\n%s", got.Body)
	}
	if !strings.Contains(got.Body, "# Báo cáo tháng 11") {
		t.Fatalf("generated text missing:\n%s", got.Body)
	}
}

func TestSynthesizeEmptyGeneratorOutputFallsBack(t *testing.T) {
	gen := &fakeGenerator{response: "   "}
	s := NewSynthesizer(gen, testPolicy(), zerolog.Nop())

	if got := s.Synthesize(context.Background(), testAggregation(), "kỳ này", models.TxTypeBoth); !got.UsedFallback {
		t.Fatal("empty output must trigger fallback")
	}
}

func TestSynthesizeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &fakeGenerator{response: "bất kỳ"}
	s := NewSynthesizer(gen, testPolicy(), zerolog.Nop())

	got := s.Synthesize(ctx, testAggregation(), "kỳ này", models.TxTypeBoth)
	if !got.UsedFallback {
		t.Fatal("cancelled request must use the deterministic fallback")
	}
}

func TestObservationsExpenseDominates(t *testing.T) {
	agg := models.AggregationResult{TotalIncome: 1000000, TotalExpense: 9000000, TransactionCount: 4}
	out := strings.Join(observations(agg), "\n")
	if !strings.Contains(out, "cắt giảm") {
		t.Fatalf("expected discretionary-spend hint, got:\n%s", out)
	}
}

func TestObservationsDominantCategory(t *testing.T) {
	agg := models.AggregationResult{
		TotalIncome:      9000000,
		TotalExpense:     3000000,
		TransactionCount: 4,
		TopCategory:      &models.CategoryTotal{Category: "Thuê nhà", Total: 2000000},
	}
	out := strings.Join(observations(agg), "\n")
	if !strings.Contains(out, "Thuê nhà") || !strings.Contains(out, "quá nửa") {
		t.Fatalf("expected dominant-category hint, got:\n%s", out)
	}
}

func TestObservationsGeneric(t *testing.T) {
	agg := models.AggregationResult{
		TotalIncome:      9000000,
		TotalExpense:     3000000,
		TransactionCount: 4,
		TopCategory:      &models.CategoryTotal{Category: "Ăn uống", Total: 1000000},
	}
	out := strings.Join(observations(agg), "\n")
	if !strings.Contains(out, "tiếp tục theo dõi") {
		t.Fatalf("expected generic hint, got:\n%s", out)
	}
}

func TestFormatVND(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0 VND"},
		{96, "96 VND"},
		{50000, "50,000 VND"},
		{5200000, "5,200,000 VND"},
		{1234567, "1,234,567 VND"},
		{-1500, "-1,500 VND"},
	}
	for _, tc := range cases {
		if got := FormatVND(tc.in); got != tc.want {
			t.Fatalf("FormatVND(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRetryPolicySecondAttemptSucceeds(t *testing.T) {
	calls := 0
	p := RetryPolicy{Timeouts: []time.Duration{time.Second, time.Second}}
	out, err := p.Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("first attempt fails")
		}
		return "ok", nil
	})
	if err != nil || out != "ok" {
		t.Fatalf("got (%q, %v), want ok", out, err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestRetryPolicyStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	p := RetryPolicy{Timeouts: []time.Duration{time.Second, time.Second}}
	_, err := p.Do(ctx, func(ctx context.Context) (string, error) {
		calls++
		cancel()
		return "", errors.New("fail")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retry after cancel)", calls)
	}
}
