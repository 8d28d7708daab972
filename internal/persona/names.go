package persona

import (
	"fmt"
	"math/rand/v2"
)

var firstNames = []string{
	"Alex", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Avery", "Quinn",
	"Sage", "River", "Phoenix", "Dakota", "Cameron", "Skyler", "Rowan", "Harper",
	"Finley", "Emerson", "Reese", "Parker", "Blake", "Kendall", "Hayden", "Peyton",
	"Drew", "Logan", "Charlie", "Jamie", "Jessie", "Micah", "Adrian", "Ash",
	"Sam", "Kai", "Ellis", "Elliot", "Aubrey", "Bailey", "Brook", "Dylan",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
	"Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson",
	"White", "Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker",
	"Young", "Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores",
}

// RandomName returns a random "First Last" display name.
func RandomName() string {
	return fmt.Sprintf("%s %s", firstNames[rand.IntN(len(firstNames))], lastNames[rand.IntN(len(lastNames))])
}

// RandomAge samples uniformly in [lo, hi]. Inverted bounds are swapped.
func RandomAge(lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + rand.IntN(hi-lo+1)
}
