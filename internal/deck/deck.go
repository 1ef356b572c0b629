package deck

import "math/rand"

// Card is a single playing card. Ranks are kept as display strings so hands
// serialize directly onto the wire.
type Card struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

var Suits = []string{"hearts", "diamonds", "clubs", "spades"}

var Ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// Deck is a consumable, owned card source. Cards come off the front and are
// never put back; a new round gets a new deck.
type Deck struct {
	cards []Card
}

// NewShuffled returns a full 52-card deck in uniform random order.
func NewShuffled(rng *rand.Rand) *Deck {
	cards := make([]Card, 0, 52)
	for _, s := range Suits {
		for _, r := range Ranks {
			cards = append(cards, Card{Suit: s, Rank: r})
		}
	}
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return &Deck{cards: cards}
}

// From wraps an explicit card sequence, front first. Used by tests to rig deals.
func From(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Draw pops the front card. ok is false once the deck is exhausted.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// DrawN pops up to n cards from the front.
func (d *Deck) DrawN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	out := append([]Card(nil), d.cards[:n]...)
	d.cards = d.cards[n:]
	return out
}

func (d *Deck) Len() int { return len(d.cards) }
