package normalize

import "strings"

// Strategy categories use different enums on the backend and in the UI. The
// lookup is a fixed bidirectional table with an explicit default on both
// directions.
const (
	defaultUICategory      = "quant"
	defaultBackendCategory = "QUANT_GENERAL"
)

var categoryToUI = map[string]string{
	"VALUE_INVESTING":  "value",
	"GROWTH_INVESTING": "growth",
	"MOMENTUM_TRADING": "momentum",
	"DIVIDEND_INCOME":  "dividend",
	"QUANT_GENERAL":    "quant",
}

var categoryToBackend = map[string]string{
	"value":    "VALUE_INVESTING",
	"growth":   "GROWTH_INVESTING",
	"momentum": "MOMENTUM_TRADING",
	"dividend": "DIVIDEND_INCOME",
	"quant":    "QUANT_GENERAL",
}

// CategoryToUI maps a backend category enum to the UI enum.
func CategoryToUI(backend string) string {
	if ui, ok := categoryToUI[backend]; ok {
		return ui
	}
	return defaultUICategory
}

// CategoryToBackend maps a UI category enum to the backend enum. Used when
// passing list filters through to the backend.
func CategoryToBackend(ui string) string {
	if backend, ok := categoryToBackend[ui]; ok {
		return backend
	}
	return defaultBackendCategory
}

// Risk levels derived from maximum drawdown magnitude.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// RiskLevel derives a strategy risk level from its drawdown magnitude in
// percent. Missing or N/A drawdowns land on medium.
func RiskLevel(drawdown interface{}) string {
	if s, ok := drawdown.(string); ok && strings.EqualFold(strings.TrimSpace(s), "N/A") {
		return RiskMedium
	}
	n := Number(drawdown)
	if n == nil {
		return RiskMedium
	}
	magnitude := *n
	if magnitude < 0 {
		magnitude = -magnitude
	}
	switch {
	case magnitude < 15:
		return RiskLow
	case magnitude < 25:
		return RiskMedium
	default:
		return RiskHigh
	}
}

var strategyNumberFields = []string{
	"annualReturn",
	"maxDrawdown",
	"sharpeRatio",
	"winRate",
	"subscriberCount",
	"monthlyFee",
}

// Strategy reshapes one strategy object: numeric coercion, category
// remapping, and risk-level derivation from the drawdown.
func Strategy(obj map[string]interface{}) map[string]interface{} {
	if obj == nil {
		return nil
	}
	riskSource := obj["maxDrawdown"]
	NumberFields(obj, strategyNumberFields...)
	if cat, ok := obj["category"].(string); ok {
		obj["category"] = CategoryToUI(cat)
	}
	obj["riskLevel"] = RiskLevel(riskSource)
	return obj
}

// Page reshapes a Spring-style page envelope into the UI pagination
// contract, normalizing each content element with the given transform.
// Absent fields degrade to zero values and an empty item list.
func Page(obj map[string]interface{}, item func(map[string]interface{}) map[string]interface{}) map[string]interface{} {
	if obj == nil {
		return map[string]interface{}{
			"items":      []interface{}{},
			"total":      0,
			"page":       0,
			"pageSize":   0,
			"totalPages": 0,
		}
	}

	items, _ := obj["content"].([]interface{})
	if items == nil {
		items = []interface{}{}
	}
	if item != nil {
		for i, raw := range items {
			if el, ok := raw.(map[string]interface{}); ok {
				items[i] = item(el)
			}
		}
	}

	return map[string]interface{}{
		"items":      items,
		"total":      intField(obj, "totalElements"),
		"page":       intField(obj, "number"),
		"pageSize":   intField(obj, "size"),
		"totalPages": intField(obj, "totalPages"),
	}
}

func intField(obj map[string]interface{}, field string) int {
	n := Number(obj[field])
	if n == nil {
		return 0
	}
	return int(*n)
}
