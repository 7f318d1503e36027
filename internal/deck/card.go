package deck

import (
	"strconv"

	"github.com/claude/cardcarnage/internal/catalog"
	"github.com/claude/cardcarnage/internal/settings"
)

// Suit is one of the four card suits.
type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
)

// Suits lists the suits in deck construction order.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Symbol returns the suit glyph.
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	}
	return "?"
}

// Value is a card face value: "2" through "10", "J", "Q", "K" or "A".
type Value string

const (
	Jack  Value = "J"
	Queen Value = "Q"
	King  Value = "K"
	Ace   Value = "A"
)

// Values lists the thirteen values in deck construction order.
var Values = []Value{"2", "3", "4", "5", "6", "7", "8", "9", "10", Jack, Queen, King, Ace}

// IsFace reports whether v is J, Q or K.
func (v Value) IsFace() bool {
	return v == Jack || v == Queen || v == King
}

// Kind discriminates standard cards from wildcards.
type Kind string

const (
	KindStandard Kind = "standard"
	KindWildcard Kind = "wildcard"
)

// WildcardReps is the fixed rep count of a wildcard.
const WildcardReps = 10

// Card is a playable card. Suit and Value are set only for KindStandard.
type Card struct {
	ID       string           `json:"id"`
	Kind     Kind             `json:"kind"`
	Suit     Suit             `json:"suit,omitempty"`
	Value    Value            `json:"value,omitempty"`
	Exercise catalog.Exercise `json:"exercise"`
	Reps     int              `json:"reps"`
}

// Label is the short display form, e.g. "10♥" or "JOKER".
func (c Card) Label() string {
	switch c.Kind {
	case KindStandard:
		return string(c.Value) + c.Suit.Symbol()
	case KindWildcard:
		return "JOKER"
	}
	return "?"
}

// Reps maps a card value to its rep count: the number itself for 2-10,
// the configured face value for J/Q/K and the configured ace value for A.
func Reps(v Value, s settings.Settings) int {
	switch {
	case v.IsFace():
		return s.FaceCardValue
	case v == Ace:
		return s.AceValue
	}
	if n, err := strconv.Atoi(string(v)); err == nil && n >= 2 && n <= 10 {
		return n
	}
	return WildcardReps
}
