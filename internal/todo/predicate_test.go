package todo

import (
	"slices"
	"testing"
)

func TestSublist(t *testing.T) {
	l := NewList(WithClock(stepClock()))
	for _, d := range []string{"buy milk", "walk dog", "Buy bread", "call mom"} {
		l.Append(d)
	}
	l.Complete(2)
	l.Complete(1)

	tests := []struct {
		name string
		pred Predicate
		want []string
	}{
		{"nil matches all", nil, []string{"buy milk", "walk dog", "Buy bread", "call mom"}},
		{"complete keeps list order", (*Task).IsComplete, []string{"buy milk", "walk dog"}},
		{"incomplete", (*Task).IsIncomplete, []string{"Buy bread", "call mom"}},
		{"description ignores case", DescriptionContains("buy"), []string{"buy milk", "Buy bread"}},
		{"not", Not(DescriptionContains("buy")), []string{"walk dog", "call mom"}},
		{"all", All(DescriptionContains("buy"), (*Task).IsIncomplete), []string{"Buy bread"}},
		{"all empty", All(), []string{"buy milk", "walk dog", "Buy bread", "call mom"}},
		{"any", Any(DescriptionContains("dog"), DescriptionContains("mom")), []string{"walk dog", "call mom"}},
		{"any empty", Any(), []string{}},
		{"nothing", func(*Task) bool { return false }, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := descriptions(l.Sublist(tt.pred))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Sublist: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSublistDoesNotMutate(t *testing.T) {
	l := NewList()
	l.Append("A")
	l.Append("B")

	sub := l.Sublist((*Task).IsIncomplete)
	sub[0] = NewTask("Z")

	if got := descriptions(l.Tasks()); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("Tasks: got %v, want [A B]", got)
	}
}
