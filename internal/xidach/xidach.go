package xidach

import (
	"errors"
	"math/rand"

	"github.com/baophung020394/game-family-traditional/internal/deck"
)

var (
	ErrNotYourTurn   = errors.New("not this player's turn")
	ErrRoundComplete = errors.New("round already complete")
	ErrDeckEmpty     = errors.New("deck exhausted")
)

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomePush Outcome = "push"
)

const (
	bustOver        = 21
	dealerStandsAt  = 16
	dealerHandLimit = 5
)

var hardValues = map[string]int{
	"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9,
	"10": 10, "J": 10, "Q": 10, "K": 10,
}

// Score totals a hand with soft aces: each ace counts 11 unless that would
// bust the running total, in which case it drops to 1, one ace at a time.
func Score(cards []deck.Card) int {
	sum, aces := 0, 0
	for _, c := range cards {
		if c.Rank == "A" {
			aces++
			continue
		}
		sum += hardValues[c.Rank]
	}
	for i := 0; i < aces; i++ {
		if sum+11 <= bustOver {
			sum += 11
		} else {
			sum++
		}
	}
	return sum
}

// State is the blackjack-like game state for one room. The host acts as the
// dealer and never appears in Hands, Standing, or the turn rotation.
type State struct {
	Hands         map[string][]deck.Card `json:"hands"`
	DealerHand    []deck.Card            `json:"dealerHand"`
	Scores        map[string]int         `json:"scores"`
	DealerScore   int                    `json:"dealerScore"`
	Standing      map[string]bool        `json:"standing"`
	CurrentTurn   string                 `json:"currentTurn,omitempty"`
	RoundComplete bool                   `json:"roundComplete"`
	Results       map[string]Outcome     `json:"results,omitempty"`

	deck *deck.Deck
}

// NewState deals only the dealer from a fresh deck. Used at room creation,
// before any regular player has joined.
func NewState(rng *rand.Rand) *State {
	s := emptyState(deck.NewShuffled(rng))
	s.DealerHand = s.deck.DrawN(2)
	s.DealerScore = Score(s.DealerHand)
	return s
}

// NewRound replaces the state wholesale: fresh deck, two cards to the dealer
// and to every player in turnOrder, first player in order takes the turn.
func NewRound(turnOrder []string, rng *rand.Rand) *State {
	s := emptyState(deck.NewShuffled(rng))
	s.DealerHand = s.deck.DrawN(2)
	s.DealerScore = Score(s.DealerHand)
	for _, pid := range turnOrder {
		s.Hands[pid] = s.deck.DrawN(2)
		s.Scores[pid] = Score(s.Hands[pid])
		s.Standing[pid] = false
	}
	if len(turnOrder) > 0 {
		s.CurrentTurn = turnOrder[0]
	}
	return s
}

// Join deals two cards to a newly joined player and hands them the turn if
// nobody holds it and the round is still open.
func (s *State) Join(playerID string) {
	s.Hands[playerID] = s.deck.DrawN(2)
	s.Scores[playerID] = Score(s.Hands[playerID])
	s.Standing[playerID] = false
	if s.CurrentTurn == "" && !s.RoundComplete {
		s.CurrentTurn = playerID
	}
}

// Hit draws one card for the player holding the turn. Going over 21 marks
// them standing and advances the turn; if nobody is left the round settles.
func (s *State) Hit(playerID string, turnOrder []string) error {
	if s.RoundComplete {
		return ErrRoundComplete
	}
	if s.CurrentTurn != playerID {
		return ErrNotYourTurn
	}
	card, ok := s.deck.Draw()
	if !ok {
		return ErrDeckEmpty
	}
	s.Hands[playerID] = append(s.Hands[playerID], card)
	s.Scores[playerID] = Score(s.Hands[playerID])
	if s.Scores[playerID] > bustOver {
		s.Standing[playerID] = true
		s.advance(turnOrder)
	}
	return nil
}

// Stand marks the turn holder standing and advances the turn, settling the
// round when no active player remains.
func (s *State) Stand(playerID string, turnOrder []string) error {
	if s.RoundComplete {
		return ErrRoundComplete
	}
	if s.CurrentTurn != playerID {
		return ErrNotYourTurn
	}
	s.Standing[playerID] = true
	s.advance(turnOrder)
	return nil
}

// RemovePlayer drops a departed player. turnOrder must already exclude them;
// if they held the turn it moves on, settling if they were the last active
// player.
func (s *State) RemovePlayer(playerID string, turnOrder []string) {
	delete(s.Hands, playerID)
	delete(s.Scores, playerID)
	delete(s.Standing, playerID)
	delete(s.Results, playerID)
	if s.CurrentTurn != playerID {
		return
	}
	if s.RoundComplete {
		s.CurrentTurn = ""
		return
	}
	s.advance(turnOrder)
}

func (s *State) advance(turnOrder []string) {
	for _, pid := range turnOrder {
		if !s.Standing[pid] {
			s.CurrentTurn = pid
			return
		}
	}
	s.CurrentTurn = ""
	s.settle(turnOrder)
}

// settle runs the dealer's fixed drawing rule, then decides every player's
// outcome against the final dealer score.
func (s *State) settle(turnOrder []string) {
	s.RoundComplete = true
	for Score(s.DealerHand) < dealerStandsAt && len(s.DealerHand) < dealerHandLimit {
		card, ok := s.deck.Draw()
		if !ok {
			break
		}
		s.DealerHand = append(s.DealerHand, card)
	}
	s.DealerScore = Score(s.DealerHand)

	s.Results = make(map[string]Outcome, len(turnOrder))
	for _, pid := range turnOrder {
		score := s.Scores[pid]
		switch {
		case score > bustOver:
			s.Results[pid] = OutcomeLose
		case s.DealerScore > bustOver:
			s.Results[pid] = OutcomeWin
		case score > s.DealerScore:
			s.Results[pid] = OutcomeWin
		case score < s.DealerScore:
			s.Results[pid] = OutcomeLose
		default:
			s.Results[pid] = OutcomePush
		}
	}
}

func emptyState(d *deck.Deck) *State {
	return &State{
		Hands:    map[string][]deck.Card{},
		Scores:   map[string]int{},
		Standing: map[string]bool{},
		deck:     d,
	}
}
