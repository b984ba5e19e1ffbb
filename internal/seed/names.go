package seed

import (
	"errors"
	"math/rand/v2"
)

var firstNames = []string{
	"Alex", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Avery", "Quinn",
	"Sam", "Jamie", "Drew", "Blake", "Cameron", "Skyler", "Reese", "Parker",
	"Emma", "Liam", "Olivia", "Noah", "Ava", "Ethan", "Sophia", "Mason",
	"Isabella", "William", "Mia", "James", "Charlotte", "Benjamin",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Wilson", "Anderson", "Taylor",
	"Thomas", "Moore", "Jackson", "Martin", "Lee", "Thompson", "White",
}

// ErrNamesExhausted means every first/last combination has been dealt.
var ErrNamesExhausted = errors.New("student name pool exhausted")

// NameDeck deals unique student display names from a pre-shuffled permutation
// of the first-name/last-name cross product. Drawing from a finite shuffled
// deck keeps every name distinct and makes exhaustion an explicit condition
// instead of an endless redraw.
type NameDeck struct {
	names []string
}

// NewNameDeck builds and shuffles the full cross product using rng.
func NewNameDeck(rng *rand.Rand) *NameDeck {
	names := make([]string, 0, len(firstNames)*len(lastNames))
	for _, first := range firstNames {
		for _, last := range lastNames {
			names = append(names, first+" "+last)
		}
	}
	rng.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})
	return &NameDeck{names: names}
}

// Next deals the next unused name.
func (d *NameDeck) Next() (string, error) {
	if len(d.names) == 0 {
		return "", ErrNamesExhausted
	}
	name := d.names[len(d.names)-1]
	d.names = d.names[:len(d.names)-1]
	return name, nil
}

// Remaining reports how many names are still undealt.
func (d *NameDeck) Remaining() int {
	return len(d.names)
}
