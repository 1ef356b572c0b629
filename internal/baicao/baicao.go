package baicao

import (
	"math/rand"
	"sort"

	"github.com/baophung020394/game-family-traditional/internal/deck"
)

// Special is a hand category that beats every numeric score. Checked in
// priority order: ba tay (three face cards) over ba cao (three of a kind)
// over lieng (three consecutive ranks).
type Special string

const (
	SpecialNone  Special = ""
	SpecialBaTay Special = "batay"
	SpecialBaCao Special = "bacao"
	SpecialLieng Special = "lieng"
)

// specialScore stands in for any special hand when comparing against numeric
// scores, which top out at 9.
const specialScore = 10

var pointValues = map[string]int{
	"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9,
	"10": 10, "J": 10, "Q": 10, "K": 10, "A": 1,
}

// straightValues rank A high so J/Q/K/A read as 11/12/13/14 when checking
// for consecutive hands.
var straightValues = map[string]int{
	"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9,
	"10": 10, "J": 11, "Q": 12, "K": 13, "A": 14,
}

// Score returns the hand's points: rank values summed, modulo 10.
func Score(cards []deck.Card) int {
	sum := 0
	for _, c := range cards {
		sum += pointValues[c.Rank]
	}
	return sum % 10
}

// CheckSpecial classifies a 3-card hand, or returns SpecialNone. A short hand
// from a nearly empty shoe never qualifies.
func CheckSpecial(cards []deck.Card) Special {
	if len(cards) != 3 {
		return SpecialNone
	}
	allFace := true
	for _, c := range cards {
		if c.Rank != "J" && c.Rank != "Q" && c.Rank != "K" {
			allFace = false
			break
		}
	}
	if allFace {
		return SpecialBaTay
	}
	if cards[0].Rank == cards[1].Rank && cards[1].Rank == cards[2].Rank {
		return SpecialBaCao
	}
	v := []int{straightValues[cards[0].Rank], straightValues[cards[1].Rank], straightValues[cards[2].Rank]}
	sort.Ints(v)
	if v[1]-v[0] == 1 && v[2]-v[1] == 1 {
		return SpecialLieng
	}
	// A-2-3 wraps around.
	if v[0] == 2 && v[1] == 3 && v[2] == 14 {
		return SpecialLieng
	}
	return SpecialNone
}

// State is the three-card game state for one room. The deck persists across
// joins within a round so late joiners are dealt from the same shoe.
type State struct {
	Hands         map[string][]deck.Card `json:"hands"`
	Scores        map[string]int         `json:"scores"`
	SpecialHands  map[string]Special     `json:"specialHands"`
	Winner        string                 `json:"winner,omitempty"`
	RoundComplete bool                   `json:"roundComplete"`

	deck *deck.Deck
}

// NewState deals the given players from a fresh shuffled deck without
// declaring a winner. Used at room creation; the first ranked round comes
// from NewRound.
func NewState(playerIDs []string, rng *rand.Rand) *State {
	s := emptyState(deck.NewShuffled(rng))
	for _, pid := range playerIDs {
		s.dealTo(pid)
	}
	return s
}

// NewRound replaces the state wholesale: fresh deck, three cards to every
// player in order, winner decided. Join order is the tie-break: the first
// special-hand holder wins outright, otherwise the first player with the
// strictly highest score.
func NewRound(playerOrder []string, rng *rand.Rand) *State {
	s := emptyState(deck.NewShuffled(rng))
	for _, pid := range playerOrder {
		s.dealTo(pid)
	}
	s.Winner = pickWinner(s, playerOrder)
	s.RoundComplete = true
	return s
}

// pickWinner walks players in join order: the first special-hand holder wins
// outright, otherwise the first player with the strictly highest score.
func pickWinner(s *State, playerOrder []string) string {
	for _, pid := range playerOrder {
		if s.SpecialHands[pid] != SpecialNone {
			return pid
		}
	}
	winner, best := "", -1
	for _, pid := range playerOrder {
		if s.Scores[pid] > best {
			best, winner = s.Scores[pid], pid
		}
	}
	return winner
}

// DealIn gives a newly joined player a hand from the room's current deck.
func (s *State) DealIn(playerID string) {
	s.dealTo(playerID)
}

// RemovePlayer drops a departed player's hand. A recorded winner stands even
// if that player leaves.
func (s *State) RemovePlayer(playerID string) {
	delete(s.Hands, playerID)
	delete(s.Scores, playerID)
	delete(s.SpecialHands, playerID)
}

func emptyState(d *deck.Deck) *State {
	return &State{
		Hands:        map[string][]deck.Card{},
		Scores:       map[string]int{},
		SpecialHands: map[string]Special{},
		deck:         d,
	}
}

func (s *State) dealTo(playerID string) {
	hand := s.deck.DrawN(3)
	s.Hands[playerID] = hand
	special := CheckSpecial(hand)
	s.SpecialHands[playerID] = special
	if special != SpecialNone {
		s.Scores[playerID] = specialScore
	} else {
		s.Scores[playerID] = Score(hand)
	}
}
