package calculator

import (
	"math"
	"sort"
)

// toCents converts a decimal currency amount to integer cents.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// fromCents converts integer cents back to decimal currency units.
func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

// roundToCents rounds a decimal amount to two decimal places.
func roundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// floorDiv divides rounding toward negative infinity, so negative totals
// still hand their remainder to the earliest slots.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// DistributeEqually splits amount into count cent shares.
// The shares always sum to the amount rounded to cents. When the amount does
// not divide evenly, the first slots (in input order) each receive one extra
// cent.
func DistributeEqually(amount float64, count int) []int64 {
	if count <= 0 {
		return []int64{}
	}

	shares := make([]int64, count)
	totalCents := toCents(amount)
	if totalCents == 0 {
		return shares
	}

	n := int64(count)
	base := floorDiv(totalCents, n)
	remainder := totalCents - base*n
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}
	return shares
}

// DistributeProportionally splits amount into cent shares weighted by weights.
// Negative weights count as zero. If no slot carries weight the amount is
// split equally instead. Leftover cents from flooring go one at a time to the
// slots with the largest weight, ties broken by lower index.
func DistributeProportionally(amount float64, weights []float64) []int64 {
	count := len(weights)
	if count == 0 {
		return []int64{}
	}

	clamped := make([]float64, count)
	var totalWeight float64
	for i, w := range weights {
		if w > 0 {
			clamped[i] = w
			totalWeight += w
		}
	}
	if totalWeight == 0 {
		return DistributeEqually(amount, count)
	}

	totalCents := toCents(amount)
	shares := make([]int64, count)
	var distributed int64
	for i, w := range clamped {
		shares[i] = int64(math.Floor(float64(totalCents) * w / totalWeight))
		distributed += shares[i]
	}

	remainder := totalCents - distributed
	if remainder == 0 {
		return shares
	}

	order := make([]int, count)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return clamped[order[a]] > clamped[order[b]]
	})

	n := int64(count)
	for i := int64(0); i < remainder; i++ {
		shares[order[i%n]]++
	}
	// Float error in the floor pass can overshoot by a cent; take it back
	// from the smallest claims first.
	for i := int64(0); i < -remainder; i++ {
		shares[order[n-1-i%n]]--
	}
	return shares
}
