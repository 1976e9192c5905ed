package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
)

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed this generator was created with, for reproducing
// a failing run.
func (g *TestDataGenerator) Seed() int64 {
	return g.seed
}

// GeneratePlayerID returns a unique player identifier.
func (g *TestDataGenerator) GeneratePlayerID() lotterytypes.PlayerID {
	return lotterytypes.PlayerID(fmt.Sprintf("%s-%s", g.faker.Username(), g.faker.UUID()[:8]))
}

// GeneratePlayerIDs returns n distinct player identifiers.
func (g *TestDataGenerator) GeneratePlayerIDs(n int) []lotterytypes.PlayerID {
	players := make([]lotterytypes.PlayerID, n)
	seen := make(map[lotterytypes.PlayerID]bool, n)
	for i := 0; i < n; i++ {
		p := g.GeneratePlayerID()
		for seen[p] {
			p = g.GeneratePlayerID()
		}
		seen[p] = true
		players[i] = p
	}
	return players
}

// GenerateEntryFee returns an entry fee in a plausible range.
func (g *TestDataGenerator) GenerateEntryFee() lotterytypes.Amount {
	return lotterytypes.Amount(g.faker.Number(1, 500))
}
