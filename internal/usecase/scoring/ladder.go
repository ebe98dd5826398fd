package scoring

// step is one band of a threshold ladder: the adjustment applies to values
// at or above From (strictly above when Excl is set).
type step struct {
	From  float64
	Excl  bool
	Delta float64
}

// ladder is an ordered sequence of bands, highest floor first, replacing the
// nested threshold branching the scoring paths would otherwise duplicate.
type ladder []step

// delta returns the adjustment of the first band the value reaches.
func (l ladder) delta(v float64) float64 {
	for _, s := range l {
		if v > s.From || (!s.Excl && v == s.From) {
			return s.Delta
		}
	}
	return 0
}

// Adjustment ladders for the similarity scorer. Empirical constants from the
// historical book, frozen by tests.
var (
	// Fraction of close neighbors with at least one claim.
	incidenceLadder = ladder{
		{From: 0.8, Excl: true, Delta: -200},
		{From: 0.6, Excl: true, Delta: -100},
		{From: 0.4, Delta: 0},
		{From: 0.2, Delta: 50},
		{From: 0, Delta: 150},
	}

	// Mean 12-month claim count among close neighbors.
	frequencyLadder = ladder{
		{From: 3, Excl: true, Delta: -150},
		{From: 2, Excl: true, Delta: -100},
		{From: 1, Delta: 0},
		{From: 0.5, Delta: 50},
		{From: 0, Delta: 100},
	}

	// Mean 12-month claim amount among close neighbors.
	severityLadder = ladder{
		{From: 25000, Excl: true, Delta: -150},
		{From: 15000, Excl: true, Delta: -100},
		{From: 5000, Delta: 0},
		{From: 0, Delta: 50},
	}
)
