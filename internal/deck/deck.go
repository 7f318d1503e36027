package deck

import (
	"math/rand/v2"

	"github.com/claude/cardcarnage/internal/catalog"
	"github.com/claude/cardcarnage/internal/settings"
	"github.com/google/uuid"
)

// Deck is a shuffled set of cards for one workout.
type Deck struct {
	Category      string `json:"deck_type"`
	Cards         []Card `json:"cards"`
	TotalCards    int    `json:"total_cards"`
	EstimatedReps int    `json:"estimated_reps"`
}

// Builder builds decks from a catalog. It is not safe for concurrent use
// because it owns a *rand.Rand.
type Builder struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
	newID   func() string
}

// NewBuilder returns a Builder drawing from src. A nil src uses a randomly
// seeded PCG source.
func NewBuilder(c *catalog.Catalog, src rand.Source) *Builder {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Builder{catalog: c, rng: rand.New(src), newID: uuid.NewString}
}

// Build creates the 52 standard cards for category, plus two wildcards when
// s.IncludeWildcards is set, and shuffles them. Exercises are assigned
// round-robin over the deck's exercise list in construction order.
// An unknown category panics.
func (b *Builder) Build(category string, s settings.Settings) Deck {
	def := b.catalog.MustLookup(category)

	cards := make([]Card, 0, len(Suits)*len(Values)+2)
	i := 0
	for _, suit := range Suits {
		for _, v := range Values {
			cards = append(cards, Card{
				ID:       b.newID(),
				Kind:     KindStandard,
				Suit:     suit,
				Value:    v,
				Exercise: def.Exercises[i%len(def.Exercises)],
				Reps:     Reps(v, s),
			})
			i++
		}
	}

	if s.IncludeWildcards {
		second := def.Wildcards[0]
		if len(def.Wildcards) > 1 {
			second = def.Wildcards[1]
		}
		for _, e := range []catalog.Exercise{def.Wildcards[0], second} {
			cards = append(cards, Card{
				ID:       b.newID(),
				Kind:     KindWildcard,
				Exercise: e,
				Reps:     WildcardReps,
			})
		}
	}

	shuffled := Shuffle(cards, b.rng)
	return Deck{
		Category:      category,
		Cards:         shuffled,
		TotalCards:    len(shuffled),
		EstimatedReps: EstimatedReps(shuffled),
	}
}

// Reshuffle returns d with its cards in a new random order.
func (b *Builder) Reshuffle(d Deck) Deck {
	d.Cards = Shuffle(d.Cards, b.rng)
	return d
}

// Shuffle returns a uniformly random permutation of cards (Fisher-Yates).
// The input slice is not modified.
func Shuffle(cards []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// EstimatedReps sums the rep counts of cards.
func EstimatedReps(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Reps
	}
	return total
}
