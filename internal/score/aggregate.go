package score

// Aggregate combines the category scores into the final weighted score.
// The result is absent if any component is absent, whatever its weight.
// Weights are used as given; callers validate them beforehand.
func Aggregate(c Components, w Weights) Score {
	var total float64
	for i, s := range c {
		v, ok := s.Get()
		if !ok {
			return Absent
		}
		total += v * w[i]
	}
	return Of(Round2(total))
}
