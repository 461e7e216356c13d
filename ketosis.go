package main

// ketosisStatus maps a blood ketone reading to a discrete status.
type ketosisStatus struct {
	InKetosis bool   `json:"in_ketosis"`
	Level     string `json:"level"`
}

// classifyKetosis buckets a blood ketone reading (mmol/L). Boundaries follow
// the standard nutritional-ketosis ranges: 0.5 is the entry point, 1.0–3.0 is
// the optimal zone, above 3.0 is higher than nutritional ketosis requires.
func classifyKetosis(ketoneLevel float64) ketosisStatus {
	switch {
	case ketoneLevel < 0.5:
		return ketosisStatus{InKetosis: false, Level: "none"}
	case ketoneLevel < 1.0:
		return ketosisStatus{InKetosis: true, Level: "light"}
	case ketoneLevel < 3.0:
		return ketosisStatus{InKetosis: true, Level: "optimal"}
	default:
		return ketosisStatus{InKetosis: true, Level: "high"}
	}
}

// netCarbs is total carbohydrates minus fiber, floored at zero. Used for
// ketogenic carb accounting where fiber doesn't count against the limit.
func netCarbs(totalCarbsG, fiberG float64) float64 {
	if n := totalCarbsG - fiberG; n > 0 {
		return n
	}
	return 0
}
