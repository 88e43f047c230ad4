package village

import "math/rand"

var (
	namePrefixes = []string{"Iron", "Shadow", "Storm", "Golden", "Ember", "Frost", "Thorn", "Raven", "Stone", "Wild", "Ash", "Silver"}
	nameSuffixes = []string{"hold", "haven", "fort", "reach", "keep", "watch", "spire", "vale", "crest", "gate", "moor", "fall"}
)

func randomName(rng *rand.Rand) string {
	return namePrefixes[rng.Intn(len(namePrefixes))] + nameSuffixes[rng.Intn(len(nameSuffixes))]
}
