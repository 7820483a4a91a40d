package desi

import "fmt"

// Reorder computes the Subject-Object-Verb order of n tokens: the subject,
// then every other non-auxiliary token in original order, then the verb.
// Auxiliary tokens are dropped; tense is assumed to be carried by the verb.
//
// The returned order together with the dropped auxiliaries must cover every
// index exactly once. Otherwise a *ReorderError is returned and callers
// should keep the original order.
func Reorder(n int, s Structure) ([]int, error) {
	if !s.Complete() {
		return nil, &ReorderError{Expected: n, Got: 0, Reason: "subject or verb not found"}
	}

	aux := make(map[int]bool, len(s.Auxiliaries))
	for _, i := range s.Auxiliaries {
		aux[i] = true
	}

	order := make([]int, 0, n)
	order = append(order, s.Subject)
	for i := 0; i < n; i++ {
		if i == s.Subject || i == s.Verb || aux[i] {
			continue
		}
		order = append(order, i)
	}
	order = append(order, s.Verb)

	if err := checkCoverage(n, order, s.Auxiliaries); err != nil {
		return nil, err
	}
	return order, nil
}

// checkCoverage verifies that order and dropped together form a permutation
// of 0..n-1.
func checkCoverage(n int, order, dropped []int) error {
	seen := make([]bool, n)
	total := 0
	for _, group := range [][]int{order, dropped} {
		for _, i := range group {
			total++
			if i < 0 || i >= n {
				return &ReorderError{Expected: n, Got: total, Reason: fmt.Sprintf("index %d out of range", i)}
			}
			if seen[i] {
				return &ReorderError{Expected: n, Got: total, Reason: fmt.Sprintf("duplicate index %d", i)}
			}
			seen[i] = true
		}
	}
	if total != n {
		return &ReorderError{Expected: n, Got: total}
	}
	return nil
}

// identityOrder returns 0..n-1.
func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
