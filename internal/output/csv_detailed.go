package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/powerlaw-drawdown/internal/domain"
)

// CSVDetailedExporter provides the raw monthly trajectory per scenario.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Month", "Date", "Price", "UnitsSold", "Balance", "DollarValue", "CumulativeWithdrawn", "Exhausted"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range sortedScenarios(results) {
		for k, rec := range sc.Records {
			exhausted := sc.ExhaustedAt != nil && !rec.Date.Before(*sc.ExhaustedAt)
			row := []string{
				sc.Name,
				intToString(k),
				rec.Date.String(),
				floatToString(rec.Price, 2),
				floatToString(rec.UnitsSold, 8),
				floatToString(rec.Balance, 8),
				floatToString(rec.DollarValue, 2),
				floatToString(rec.CumulativeWithdrawn, 2),
				boolToString(exhausted),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
