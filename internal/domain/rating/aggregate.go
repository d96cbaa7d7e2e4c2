// Package rating keeps running rating statistics and per-user rating history.
package rating

// Aggregate is the running count, sum and mean of the ratings a player
// received. Average is Sum/Count, or 0 before the first rating.
type Aggregate struct {
	Count   int
	Sum     float64
	Average float64
}

// Add folds one rating into the aggregate.
func (a *Aggregate) Add(v float64) {
	a.Count++
	a.Sum += v
	a.Average = a.Sum / float64(a.Count)
}
