package predictor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Prompt template keys, in display order.
const (
	PromptDemandAnalysis        = "demand_analysis"
	PromptInventoryOptimization = "inventory_optimization"
	PromptRevenuePrediction     = "revenue_prediction"
)

var PromptKeys = []string{PromptDemandAnalysis, PromptInventoryOptimization, PromptRevenuePrediction}

// PromptTemplates is free-text vendor guidance. It does not feed the forecast.
type PromptTemplates map[string]string

var defaultPrompts = PromptTemplates{
	PromptDemandAnalysis: `Analyze demand for street vendor in India considering:
- Local festivals and holidays
- Weather patterns (monsoon, summer heat)
- Payday cycles (salary days)
- Regional food preferences
- Price sensitivity (₹5-50 range typical)`,
	PromptInventoryOptimization: `Suggest inventory in Indian context:
- Think in small quantities (50-200 pieces)
- Consider perishability in Indian climate
- Account for ₹500-2000 daily investment capacity
- Factor in local supplier availability`,
	PromptRevenuePrediction: `Predict revenue in Indian rupees:
- Daily range: ₹300-1500 typical for street vendors
- Peak hours: 12-2pm (lunch), 6-9pm (evening snacks)
- Weather impact: Rain reduces footfall by 60-80%
- Festival days can boost sales by 200-400%`,
}

// DefaultPromptTemplates returns a copy of the built-in guidance.
func DefaultPromptTemplates() PromptTemplates {
	out := make(PromptTemplates, len(defaultPrompts))
	for k, v := range defaultPrompts {
		out[k] = v
	}
	return out
}

// LoadPromptTemplates reads the demand-analysis guidance from path. The other
// two entries are fixed one-liners. A missing file yields the defaults.
func LoadPromptTemplates(path string) (PromptTemplates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultPromptTemplates(), nil
		}
		return nil, fmt.Errorf("read prompt templates: %w", err)
	}
	return PromptTemplates{
		PromptDemandAnalysis:        string(data),
		PromptInventoryOptimization: "Optimize inventory based on Indian street vendor context",
		PromptRevenuePrediction:     "Predict revenue in rupees and paise",
	}, nil
}
