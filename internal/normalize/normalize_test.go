package normalize

import "testing"

func TestNumberFromString(t *testing.T) {
	n := Number("12.5")
	if n == nil || *n != 12.5 {
		t.Fatalf("expected 12.5, got %v", n)
	}
}

func TestNumberFromFloat(t *testing.T) {
	n := Number(float64(7))
	if n == nil || *n != 7 {
		t.Fatalf("expected 7, got %v", n)
	}
}

func TestNumberNilStaysNil(t *testing.T) {
	if n := Number(nil); n != nil {
		t.Fatalf("expected nil, got %v", *n)
	}
}

func TestNumberUnparseableString(t *testing.T) {
	if n := Number("abc"); n != nil {
		t.Fatalf("expected nil for unparseable string, got %v", *n)
	}
}

func TestNumberFields(t *testing.T) {
	obj := map[string]interface{}{
		"compositeScore": "85.5",
		"aiScore":        90.0,
		"targetPrice":    nil,
	}
	NumberFields(obj, "compositeScore", "aiScore", "targetPrice", "missing")
	if obj["compositeScore"] != 85.5 {
		t.Fatalf("expected coerced 85.5, got %v", obj["compositeScore"])
	}
	if obj["aiScore"] != 90.0 {
		t.Fatalf("expected 90.0, got %v", obj["aiScore"])
	}
	if obj["targetPrice"] != nil {
		t.Fatalf("expected nil left untouched, got %v", obj["targetPrice"])
	}
}

func TestGradeTable(t *testing.T) {
	cases := map[string]string{
		"A": GradeExcellent,
		"B": GradeExcellent,
		"C": GradeGood,
		"D": GradeFair,
		"F": GradeLow,
	}
	for letter, want := range cases {
		if got := Grade(letter); got != want {
			t.Fatalf("Grade(%q) = %q, want %q", letter, got, want)
		}
	}
}

func TestGradeUnknownFallsToLow(t *testing.T) {
	if got := Grade("Z"); got != GradeLow {
		t.Fatalf("expected LOW for unknown grade, got %q", got)
	}
}

// The remap only accepts backend letter grades: feeding it an
// already-normalized bucket key is out of contract and lands on LOW.
func TestGradeNotIdempotentOnBuckets(t *testing.T) {
	if got := Grade(GradeExcellent); got != GradeLow {
		t.Fatalf("expected LOW for bucket key input, got %q", got)
	}
}

func TestGradeDistributionSumsBuckets(t *testing.T) {
	dist := map[string]interface{}{"A": float64(3), "B": float64(2), "C": float64(5)}
	out := GradeDistribution(dist)
	if out[GradeExcellent] != 5 {
		t.Fatalf("expected EXCELLENT=5, got %d", out[GradeExcellent])
	}
	if out[GradeGood] != 5 {
		t.Fatalf("expected GOOD=5, got %d", out[GradeGood])
	}
	if out[GradeFair] != 0 || out[GradeLow] != 0 {
		t.Fatalf("expected empty buckets at zero, got FAIR=%d LOW=%d", out[GradeFair], out[GradeLow])
	}
}

func TestPredictionStatsDropsEmptyBuckets(t *testing.T) {
	obj := map[string]interface{}{
		"gradeDistribution": map[string]interface{}{"A": float64(3), "B": float64(2), "C": float64(5)},
	}
	out := PredictionStats(obj)
	dist, ok := out["gradeDistribution"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected normalized distribution map, got %T", out["gradeDistribution"])
	}
	if dist[GradeExcellent] != 5 || dist[GradeGood] != 5 {
		t.Fatalf("expected {EXCELLENT:5, GOOD:5}, got %v", dist)
	}
	if _, present := dist[GradeFair]; present {
		t.Fatal("expected zero bucket FAIR to be absent")
	}
}

func TestPredictionNormalizesGradeAndScores(t *testing.T) {
	obj := map[string]interface{}{
		"grade":          "B",
		"upsidePercent":  "12.3",
		"sentimentScore": nil,
	}
	out := Prediction(obj)
	if out["grade"] != GradeExcellent {
		t.Fatalf("expected EXCELLENT, got %v", out["grade"])
	}
	if out["upsidePercent"] != 12.3 {
		t.Fatalf("expected coerced 12.3, got %v", out["upsidePercent"])
	}
	if out["sentimentScore"] != nil {
		t.Fatalf("expected nil score untouched, got %v", out["sentimentScore"])
	}
}

func TestCategoryToUI(t *testing.T) {
	if got := CategoryToUI("VALUE_INVESTING"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
	if got := CategoryToUI("SOMETHING_NEW"); got != "quant" {
		t.Fatalf("expected default quant, got %q", got)
	}
}

func TestCategoryToBackend(t *testing.T) {
	if got := CategoryToBackend("momentum"); got != "MOMENTUM_TRADING" {
		t.Fatalf("expected MOMENTUM_TRADING, got %q", got)
	}
	if got := CategoryToBackend("unknown"); got != "QUANT_GENERAL" {
		t.Fatalf("expected default QUANT_GENERAL, got %q", got)
	}
}

func TestRiskLevelBoundaries(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{float64(5), RiskLow},
		{float64(14.9), RiskLow},
		{float64(15), RiskMedium},
		{float64(24.9), RiskMedium},
		{float64(25), RiskHigh},
		{float64(40), RiskHigh},
		{"-18.2", RiskMedium},
		{"N/A", RiskMedium},
		{nil, RiskMedium},
	}
	for _, tc := range cases {
		if got := RiskLevel(tc.in); got != tc.want {
			t.Fatalf("RiskLevel(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRiskLevelNegativeDrawdownMagnitude(t *testing.T) {
	if got := RiskLevel(float64(-30)); got != RiskHigh {
		t.Fatalf("expected high for -30%% drawdown, got %q", got)
	}
}

func TestPageReshape(t *testing.T) {
	obj := map[string]interface{}{
		"content":       []interface{}{map[string]interface{}{"category": "GROWTH_INVESTING", "maxDrawdown": "10"}},
		"totalElements": float64(42),
		"totalPages":    float64(5),
		"number":        float64(2),
		"size":          float64(10),
	}
	out := Page(obj, Strategy)
	if out["total"] != 42 || out["page"] != 2 || out["pageSize"] != 10 || out["totalPages"] != 5 {
		t.Fatalf("unexpected pagination fields: %v", out)
	}
	items := out["items"].([]interface{})
	first := items[0].(map[string]interface{})
	if first["category"] != "growth" {
		t.Fatalf("expected remapped category, got %v", first["category"])
	}
	if first["riskLevel"] != RiskLow {
		t.Fatalf("expected low risk for 10%% drawdown, got %v", first["riskLevel"])
	}
}

func TestPageDefaultsOnAbsentFields(t *testing.T) {
	out := Page(nil, nil)
	if out["total"] != 0 || out["totalPages"] != 0 {
		t.Fatalf("expected zero defaults, got %v", out)
	}
	items, ok := out["items"].([]interface{})
	if !ok || len(items) != 0 {
		t.Fatalf("expected empty item list, got %v", out["items"])
	}
}
