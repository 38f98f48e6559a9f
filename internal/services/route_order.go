package services

import (
	"eco-route-service/internal/domain"
	"errors"
	"fmt"
	"math"
)

// OrderSolution is the cheapest visiting order found for a distance matrix.
type OrderSolution struct {
	Order        domain.VisitOrder
	BestDistance float64
}

// SolveRouteOrder finds the exact minimum-cost order in which to visit every
// stop of the matrix, starting at the origin (index 0) and ending at the last
// stop (no return leg).
//
// Every one of the k! orders is scored. This is exhaustive on purpose: the
// service only accepts small k (domain.MaxSupportedStops), and the result is
// the true optimum rather than a heuristic tour. Cost is O(k!·k).
//
// Ties keep the first order in generation sequence (see Permutations).
func SolveRouteOrder(matrix domain.DistanceMatrix) (OrderSolution, error) {
	n := len(matrix)
	if n < 2 {
		return OrderSolution{}, errors.New("solve route order: need an origin and at least one stop")
	}
	if err := matrix.Validate(n); err != nil {
		return OrderSolution{}, fmt.Errorf("solve route order: %w", err)
	}

	k := n - 1
	if k > domain.MaxSupportedStops {
		return OrderSolution{}, fmt.Errorf("solve route order: %d stops: %w", k, domain.ErrTooManyStops)
	}

	stops := make([]int, 0, k)
	for i := 1; i <= k; i++ {
		stops = append(stops, i)
	}

	var best domain.VisitOrder
	bestDistance := math.Inf(1)

	for _, order := range Permutations(stops) {
		cost := PathCost(matrix, order)
		// Strict comparison: the earliest generated order wins a tie.
		if cost < bestDistance {
			bestDistance = cost
			best = order
		}
	}

	return OrderSolution{Order: best, BestDistance: bestDistance}, nil
}

// PathCost sums matrix distances along origin -> order[0] -> ... -> order[last].
func PathCost(matrix domain.DistanceMatrix, order []int) float64 {
	cost := 0.0
	current := 0
	for _, next := range order {
		cost += matrix[current][next]
		current = next
	}
	return cost
}

// Permutations returns every ordering of items, fully materialized.
//
// Orders are produced by picking each position of items in turn as the head and
// permuting the remainder, so for sorted input the result is in lexicographic
// order. Each call builds a fresh slice; the output never aliases items.
func Permutations(items []int) [][]int {
	n := len(items)
	out := make([][]int, 0, factorial(n))

	// idx walks position permutations in lexicographic order.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	for {
		perm := make([]int, n)
		for i, p := range idx {
			perm[i] = items[p]
		}
		out = append(out, perm)

		if !nextPermutation(idx) {
			return out
		}
	}
}

// nextPermutation advances idx to its lexicographic successor in place.
// It returns false once idx is the last (descending) permutation.
func nextPermutation(idx []int) bool {
	i := len(idx) - 2
	for i >= 0 && idx[i] >= idx[i+1] {
		i--
	}
	if i < 0 {
		return false
	}

	j := len(idx) - 1
	for idx[j] <= idx[i] {
		j--
	}
	idx[i], idx[j] = idx[j], idx[i]

	for l, r := i+1, len(idx)-1; l < r; l, r = l+1, r-1 {
		idx[l], idx[r] = idx[r], idx[l]
	}
	return true
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}
