package todo

import "strings"

// Predicate selects tasks for Sublist.
//
// The method expressions (*Task).IsComplete and (*Task).IsIncomplete are
// predicates.
type Predicate func(*Task) bool

// Not inverts p.
func Not(p Predicate) Predicate {
	return func(t *Task) bool {
		return !p(t)
	}
}

// All matches tasks accepted by every predicate. With no predicates it
// matches everything.
func All(ps ...Predicate) Predicate {
	return func(t *Task) bool {
		for _, p := range ps {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

// Any matches tasks accepted by at least one predicate.
func Any(ps ...Predicate) Predicate {
	return func(t *Task) bool {
		for _, p := range ps {
			if p(t) {
				return true
			}
		}
		return false
	}
}

// DescriptionContains matches tasks whose description contains substr,
// ignoring case.
func DescriptionContains(substr string) Predicate {
	needle := strings.ToLower(substr)
	return func(t *Task) bool {
		return strings.Contains(strings.ToLower(t.description), needle)
	}
}
