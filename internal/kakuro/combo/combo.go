// Package combo decomposes a clue's (sum, length) pair into the set of
// distinct-digit combinations of 1-9 that sum to it.
package combo

import "sudoku-api/internal/kakuro/cell"

// MinSum is the smallest achievable sum for a run of the given length
// (the length lowest distinct digits: 1+2+...+length).
func MinSum(length int) int {
	return length * (length + 1) / 2
}

// MaxSum is the largest achievable sum for a run of the given length
// (the length highest distinct digits: 9+8+...+(10-length)).
func MaxSum(length int) int {
	return length*9 - length*(length-1)/2
}

// Decompose returns every ascending, distinct-digit combination of
// length digits from 1-9 summing to sum, in ascending lexicographic
// order. It returns nil if length is outside 1-9 or sum is outside the
// achievable [MinSum(length), MaxSum(length)] range.
func Decompose(sum, length int) cell.Combos {
	if length < 1 || length > 9 {
		return nil
	}
	if sum < MinSum(length) || sum > MaxSum(length) {
		return nil
	}
	var out cell.Combos
	var cur cell.Combo
	var rec func(start, remaining, remainingSum int)
	rec = func(start, remaining, remainingSum int) {
		if remaining == 0 {
			if remainingSum == 0 {
				combo := make(cell.Combo, len(cur))
				copy(combo, cur)
				out = append(out, combo)
			}
			return
		}
		// Prune: remainingSum must fit between the smallest and largest
		// sums achievable with `remaining` more distinct digits >= start.
		lo := remaining * (2*start + remaining - 1) / 2
		hi := remaining*9 - remaining*(remaining-1)/2
		if remainingSum < lo || remainingSum > hi {
			return
		}
		for d := start; d <= 9; d++ {
			if d > remainingSum {
				break
			}
			cur = append(cur, d)
			rec(d+1, remaining-1, remainingSum-d)
			cur = cur[:len(cur)-1]
		}
	}
	rec(1, length, sum)
	return out
}
