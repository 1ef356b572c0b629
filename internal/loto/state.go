package loto

import (
	"errors"
	"math/rand"
	"sort"
)

var (
	ErrAlreadySelected = errors.New("tickets already selected")
	ErrNoValidIndices  = errors.New("no valid ticket indices")
	ErrTicketsLocked   = errors.New("tickets locked after first draw")
	ErrGameEnded       = errors.New("game already ended")
	ErrAllDrawn        = errors.New("all numbers drawn")
)

// State is the lottery game state for one room. The pool is generated once at
// room creation and never changes; ticket assignments survive resets.
type State struct {
	Pool         []Ticket            `json:"ticketPool"`
	Tickets      map[string][]Ticket `json:"tickets"`
	DrawnNumbers []int               `json:"drawnNumbers"`
	KinhWinners  []string            `json:"kinhWinners"`
	GameEnded    bool                `json:"gameEnded"`
}

func NewState(rng *rand.Rand) *State {
	return &State{
		Pool:         NewPool(rng),
		Tickets:      map[string][]Ticket{},
		DrawnNumbers: []int{},
		KinhWinners:  []string{},
	}
}

// SelectTickets assigns the player the pool entries at the given indices.
// First assignment wins: once a player holds tickets the call is rejected
// until they explicitly clear.
func (s *State) SelectTickets(playerID string, indices []int) error {
	if _, ok := s.Tickets[playerID]; ok {
		return ErrAlreadySelected
	}
	picked := make([]Ticket, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(s.Pool) {
			picked = append(picked, s.Pool[i])
		}
	}
	if len(picked) == 0 {
		return ErrNoValidIndices
	}
	s.Tickets[playerID] = picked
	return nil
}

// ClearTickets drops the player's selection. Rejected once any number has
// been drawn, so tickets cannot be swapped mid-game.
func (s *State) ClearTickets(playerID string) error {
	if len(s.DrawnNumbers) > 0 {
		return ErrTicketsLocked
	}
	delete(s.Tickets, playerID)
	return nil
}

// RemovePlayer discards a departed player's ticket assignment. Their tickets
// return to being selectable references in the pool.
func (s *State) RemovePlayer(playerID string) {
	delete(s.Tickets, playerID)
}

// Draw picks one undrawn number uniformly by rejection sampling, records it
// keeping the drawn set sorted, and evaluates the win condition over all
// players in order. Every player satisfying it at this draw is recorded and
// the game ends.
func (s *State) Draw(rng *rand.Rand, playerOrder []string) (int, error) {
	if s.GameEnded {
		return 0, ErrGameEnded
	}
	if len(s.DrawnNumbers) >= 90 {
		return 0, ErrAllDrawn
	}
	var num int
	for {
		num = rng.Intn(90) + 1
		if !s.isDrawn(num) {
			break
		}
	}
	s.DrawnNumbers = append(s.DrawnNumbers, num)
	sort.Ints(s.DrawnNumbers)

	if winners := s.evalKinh(playerOrder); len(winners) > 0 {
		s.KinhWinners = winners
		s.GameEnded = true
	}
	return num, nil
}

// Reset clears the drawn numbers and winners but keeps the pool and every
// player's ticket assignment.
func (s *State) Reset() {
	s.DrawnNumbers = []int{}
	s.KinhWinners = []string{}
	s.GameEnded = false
}

func (s *State) isDrawn(n int) bool {
	i := sort.SearchInts(s.DrawnNumbers, n)
	return i < len(s.DrawnNumbers) && s.DrawnNumbers[i] == n
}

// evalKinh returns every player with at least one ticket row whose 5 numbers
// are all drawn.
func (s *State) evalKinh(playerOrder []string) []string {
	var winners []string
	for _, pid := range playerOrder {
		for _, t := range s.Tickets[pid] {
			if s.hasFullRow(t.Grid) {
				winners = append(winners, pid)
				break
			}
		}
	}
	return winners
}

func (s *State) hasFullRow(g Grid) bool {
	for r := 0; r < 9; r++ {
		full := true
		cells := 0
		for c := 0; c < 9; c++ {
			if g[r][c] == 0 {
				continue
			}
			cells++
			if !s.isDrawn(g[r][c]) {
				full = false
				break
			}
		}
		if full && cells == 5 {
			return true
		}
	}
	return false
}
