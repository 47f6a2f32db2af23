package models

const (
	DefaultMemoryFile  = "memory.json"
	DefaultPromptsFile = "prompts/prompt_templates.txt"
	DefaultAuditPath   = "logs/predictions.csv"
	DefaultKafkaTopic  = "vendor_predictions"

	// DefaultTemperature is what the adapters assume when the user gives none.
	DefaultTemperature = 32

	// DefaultAvgDailyRevenue stands in for a missing or non-positive average.
	DefaultAvgDailyRevenue = 800.0
)

// DefaultPeakHours is used when a profile carries no peak hours at all.
var DefaultPeakHours = []int{12, 13, 18, 19}
