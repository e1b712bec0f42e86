package review

import "testing"

func intPtr(v int) *int { return &v }

func TestWeightedAverage(t *testing.T) {
	ratings := map[string][]*int{
		"kra1": {intPtr(4), intPtr(5)},
		"kra2": {intPtr(3)},
	}
	weights := map[string]float64{"kra1": 60, "kra2": 40}

	// 4.5*0.6 + 3*0.4 = 3.9
	if got := WeightedAverage(ratings, weights); got != 3.9 {
		t.Fatalf("got %v, want 3.9", got)
	}
}

func TestWeightedAverageNilRatingCountsAsZero(t *testing.T) {
	ratings := map[string][]*int{
		"kra1": {intPtr(4), nil},
	}
	weights := map[string]float64{"kra1": 100}

	// (4+0)/2 = 2
	if got := WeightedAverage(ratings, weights); got != 2.0 {
		t.Fatalf("got %v, want 2.0", got)
	}
}

func TestWeightedAverageEmptyKRASkipped(t *testing.T) {
	ratings := map[string][]*int{
		"kra1": {},
		"kra2": {intPtr(5)},
	}
	weights := map[string]float64{"kra1": 50, "kra2": 50}

	if got := WeightedAverage(ratings, weights); got != 2.5 {
		t.Fatalf("rated KRA alone should contribute, got %v", got)
	}

	if got := WeightedAverage(map[string][]*int{}, weights); got != 0 {
		t.Fatalf("no ratings at all should score zero, got %v", got)
	}
}

func TestWeightedAverageUnknownKRAHasZeroWeight(t *testing.T) {
	ratings := map[string][]*int{"ghost": {intPtr(5)}}

	if got := WeightedAverage(ratings, map[string]float64{}); got != 0 {
		t.Fatalf("unconfigured KRA must contribute nothing, got %v", got)
	}
}

func TestWeightedAverageNoRescaling(t *testing.T) {
	ratings := map[string][]*int{"kra1": {intPtr(4)}}
	weights := map[string]float64{"kra1": 50}

	// Weights summing below 100 are taken as-is: 4*0.5 = 2.
	if got := WeightedAverage(ratings, weights); got != 2.0 {
		t.Fatalf("got %v, want 2.0", got)
	}
}

func TestRound2HalfToEven(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{3.875, 3.88},  // .5 rounds up to the even neighbour
		{2.125, 2.12},  // .5 rounds down to the even neighbour
		{3.14159, 3.14},
		{-1.0, -1.0},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGroupRatings(t *testing.T) {
	grouped := GroupRatings([]KRARating{
		{KRAID: "a", Rating: intPtr(4)},
		{KRAID: "a", Rating: intPtr(5)},
		{KRAID: "b", Rating: nil},
	})
	if len(grouped["a"]) != 2 || len(grouped["b"]) != 1 {
		t.Fatalf("unexpected grouping: %v", grouped)
	}
	if grouped["b"][0] != nil {
		t.Fatalf("nil ratings must be preserved in the group")
	}
}
