package snapshot

import "math"

// BMI derives body mass index from current weight (kg) and height (cm),
// rounded to one decimal place. Returns nil when either input is missing.
func (b BodyMetrics) BMI() *float64 {
	if b.CurrentWeight == nil || b.Height == nil || *b.Height <= 0 {
		return nil
	}
	hm := *b.Height / 100
	bmi := math.Round(*b.CurrentWeight/(hm*hm)*10) / 10
	return &bmi
}

// LatestWeight returns the newest weight entry. The history is kept sorted
// ascending by day, so this is the last element.
func (b BodyMetrics) LatestWeight() *WeightEntry {
	for i := len(b.WeightHistory) - 1; i >= 0; i-- {
		if b.WeightHistory[i].Weight != nil {
			e := b.WeightHistory[i]
			return &e
		}
	}
	return nil
}

// WeightDelta returns the change between the two newest weight entries, nil
// with fewer than two.
func (b BodyMetrics) WeightDelta() *float64 {
	var last, prev *float64
	for i := len(b.WeightHistory) - 1; i >= 0; i-- {
		w := b.WeightHistory[i].Weight
		if w == nil {
			continue
		}
		if last == nil {
			last = w
			continue
		}
		prev = w
		break
	}
	if last == nil || prev == nil {
		return nil
	}
	d := *last - *prev
	return &d
}
