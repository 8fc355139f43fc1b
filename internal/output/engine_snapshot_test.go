package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/rpgo/powerlaw-drawdown/internal/calculation"
	"github.com/rpgo/powerlaw-drawdown/internal/config"
)

// TestEngineSnapshot produces a deterministic snapshot of core scenario metrics.
func TestEngineSnapshot(t *testing.T) {
	calculation.SetNowFunc(func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) })
	defer calculation.SetNowFunc(time.Now)

	cfg := config.NewInputParser().CreateExampleConfiguration()

	eng := calculation.NewCalculationEngine()
	res, err := eng.RunScenarios(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run scenarios: %v", err)
	}

	// Trim to stable summary fields only
	type scenario struct {
		Name            string `json:"name"`
		Exhausted       string `json:"exhausted"`
		MonthsSustained int    `json:"months_sustained"`
		EndingBalance   string `json:"ending_balance"`
		RequiredBalance string `json:"required_balance"`
		MaxWithdrawal   string `json:"max_withdrawal"`
	}
	var out struct {
		Recommended string     `json:"recommended"`
		Scenarios   []scenario `json:"scenarios"`
	}
	out.Recommended = AnalyzeScenarios(res).ScenarioName
	for _, sc := range res.Scenarios {
		out.Scenarios = append(out.Scenarios, scenario{
			Name:            sc.Name,
			Exhausted:       sc.ExhaustionLabel(),
			MonthsSustained: sc.MonthsSustained,
			EndingBalance:   sc.EndingBalance.StringFixed(6),
			RequiredBalance: sc.RequiredBalance.StringFixed(6),
			MaxWithdrawal:   sc.MaxSustainableWithdrawal.StringFixed(2),
		})
	}
	data, _ := json.MarshalIndent(out, "", "  ")

	goldenPath := filepath.Join("testdata", "engine_snapshot.golden.json")
	if os.Getenv("UPDATE_GOLDEN") == "1" {
		if err := os.WriteFile(goldenPath, data, 0644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
	}
	golden, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if string(golden) == "" {
		t.Fatalf("empty golden snapshot")
	}
	if string(golden) != string(data) {
		t.Fatalf("engine snapshot drift; run UPDATE_GOLDEN=1 to accept\n--- have ---\n%s\n--- want ---\n%s", string(data), string(golden))
	}
}
