package normalize

// Backend letter grades collapse into the coarser four-bucket scale the UI
// renders. Unknown grades fall back to LOW.
const (
	GradeExcellent = "EXCELLENT"
	GradeGood      = "GOOD"
	GradeFair      = "FAIR"
	GradeLow       = "LOW"
)

var gradeBuckets = map[string]string{
	"A": GradeExcellent,
	"B": GradeExcellent,
	"C": GradeGood,
	"D": GradeFair,
	"F": GradeLow,
}

// Grade maps one backend letter grade to its UI bucket.
func Grade(letter string) string {
	if bucket, ok := gradeBuckets[letter]; ok {
		return bucket
	}
	return GradeLow
}

// GradeDistribution sums backend per-letter counts into per-bucket counts.
// All four buckets are always present in the result, zero when empty.
func GradeDistribution(dist map[string]interface{}) map[string]int {
	out := map[string]int{
		GradeExcellent: 0,
		GradeGood:      0,
		GradeFair:      0,
		GradeLow:       0,
	}
	for letter, raw := range dist {
		n := Number(raw)
		if n == nil {
			continue
		}
		out[Grade(letter)] += int(*n)
	}
	return out
}

// Numeric score fields of a prediction payload that backends deliver with
// string/number ambiguity.
var predictionNumberFields = []string{
	"compositeScore",
	"technicalScore",
	"aiScore",
	"sentimentScore",
	"currentPrice",
	"targetPrice",
	"upsidePercent",
}

// Prediction reshapes one prediction object: score/price coercion plus grade
// bucketing. The input map is modified and returned for chaining.
func Prediction(obj map[string]interface{}) map[string]interface{} {
	if obj == nil {
		return nil
	}
	NumberFields(obj, predictionNumberFields...)
	if g, ok := obj["grade"].(string); ok {
		obj["grade"] = Grade(g)
	}
	return obj
}

// PredictionStats reshapes the prediction stats payload, summing the
// backend's letter-grade distribution into UI buckets.
func PredictionStats(obj map[string]interface{}) map[string]interface{} {
	if obj == nil {
		return nil
	}
	NumberFields(obj, "totalCount", "averageScore", "accuracy")
	if dist, ok := obj["gradeDistribution"].(map[string]interface{}); ok {
		buckets := GradeDistribution(dist)
		normalized := make(map[string]interface{}, len(buckets))
		for bucket, count := range buckets {
			if count > 0 {
				normalized[bucket] = count
			}
		}
		obj["gradeDistribution"] = normalized
	}
	return obj
}

// PredictionList applies Prediction to every element of a backend list.
func PredictionList(items []interface{}) []interface{} {
	for i, item := range items {
		if obj, ok := item.(map[string]interface{}); ok {
			items[i] = Prediction(obj)
		}
	}
	return items
}
