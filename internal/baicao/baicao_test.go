package baicao

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/baophung020394/game-family-traditional/internal/deck"
)

func hand(ranks ...string) []deck.Card {
	suits := []string{"hearts", "diamonds", "clubs"}
	cards := make([]deck.Card, len(ranks))
	for i, r := range ranks {
		cards[i] = deck.Card{Suit: suits[i%len(suits)], Rank: r}
	}
	return cards
}

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		ranks []string
		want  int
	}{
		{"ten five ace", []string{"10", "5", "A"}, 6},
		{"all face cards count ten", []string{"J", "Q", "K"}, 0},
		{"nine points", []string{"4", "2", "3"}, 9},
		{"wraps modulo ten", []string{"9", "9", "2"}, 0},
		{"ace counts one", []string{"A", "A", "A"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(hand(tt.ranks...)); got != tt.want {
				t.Fatalf("Score(%v) = %d, want %d", tt.ranks, got, tt.want)
			}
		})
	}
}

func TestCheckSpecial(t *testing.T) {
	tests := []struct {
		name  string
		ranks []string
		want  Special
	}{
		{"three face cards", []string{"J", "Q", "K"}, SpecialBaTay},
		{"three of a kind", []string{"7", "7", "7"}, SpecialBaCao},
		{"face triple is batay not bacao", []string{"Q", "Q", "Q"}, SpecialBaTay},
		{"consecutive", []string{"4", "5", "6"}, SpecialLieng},
		{"consecutive out of order", []string{"6", "4", "5"}, SpecialLieng},
		{"high straight with ace", []string{"Q", "K", "A"}, SpecialLieng},
		{"ace-two-three wrap", []string{"A", "2", "3"}, SpecialLieng},
		{"no special", []string{"2", "5", "9"}, SpecialNone},
		{"pair only", []string{"7", "7", "2"}, SpecialNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckSpecial(hand(tt.ranks...)); got != tt.want {
				t.Fatalf("CheckSpecial(%v) = %q, want %q", tt.ranks, got, tt.want)
			}
		})
	}
}

func TestNewRound_DealsThreeToEveryoneAndCompletes(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	order := []string{"a", "b", "c"}
	s := NewRound(order, rng)

	if !s.RoundComplete {
		t.Fatal("new round must be scored immediately")
	}
	for _, pid := range order {
		if len(s.Hands[pid]) != 3 {
			t.Fatalf("player %s holds %d cards, want 3", pid, len(s.Hands[pid]))
		}
		if s.SpecialHands[pid] == SpecialNone {
			if want := Score(s.Hands[pid]); s.Scores[pid] != want {
				t.Fatalf("player %s score %d, want %d", pid, s.Scores[pid], want)
			}
		} else if s.Scores[pid] != specialScore {
			t.Fatalf("special hand must score %d, got %d", specialScore, s.Scores[pid])
		}
	}
	if s.Winner == "" {
		t.Fatal("a winner must be chosen")
	}
}

func TestNewRound_SpecialBeatsHighScore(t *testing.T) {
	s := emptyState(deck.From(nil))
	s.Hands["a"] = hand("9", "9", "9") // 9 points worth of hand, but bacao
	s.Hands["b"] = hand("4", "5", "9") // 8 points
	// Rebuild scores the way dealTo would.
	for pid, h := range s.Hands {
		sp := CheckSpecial(h)
		s.SpecialHands[pid] = sp
		if sp != SpecialNone {
			s.Scores[pid] = specialScore
		} else {
			s.Scores[pid] = Score(h)
		}
	}
	winner := pickWinner(s, []string{"b", "a"})
	if winner != "a" {
		t.Fatalf("special hand must win, got %s", winner)
	}
}

func TestNewRound_TieBreakIsJoinOrder(t *testing.T) {
	s := emptyState(deck.From(nil))
	for pid, h := range map[string][]deck.Card{
		"first":  hand("4", "5", "9"), // 8
		"second": hand("3", "6", "9"), // 8
		"third":  hand("2", "2", "3"), // 7
	} {
		s.Hands[pid] = h
		s.SpecialHands[pid] = SpecialNone
		s.Scores[pid] = Score(h)
	}
	if got := pickWinner(s, []string{"first", "second", "third"}); got != "first" {
		t.Fatalf("tied scores must fall to the earlier joiner, got %s", got)
	}
}

func TestCheckSpecial_ShortHandNeverQualifies(t *testing.T) {
	if got := CheckSpecial(hand("K")); got != SpecialNone {
		t.Fatalf("one-card hand classified as %q", got)
	}
	if got := CheckSpecial(hand("J", "Q")); got != SpecialNone {
		t.Fatalf("two-card hand classified as %q", got)
	}
	if got := CheckSpecial(nil); got != SpecialNone {
		t.Fatalf("empty hand classified as %q", got)
	}
}

// A 52-card shoe covers 17 full hands; joiners past that get whatever is
// left, scored as-is, without crashing the room.
func TestDealIn_ExhaustedDeckDealsShortHand(t *testing.T) {
	ids := make([]string, 18)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i)
	}
	s := NewState(ids, rand.New(rand.NewSource(1)))

	if len(s.Hands["p16"]) != 3 {
		t.Fatalf("player 17 holds %d cards, want 3", len(s.Hands["p16"]))
	}
	short := s.Hands["p17"]
	if len(short) >= 3 {
		t.Fatalf("player 18 holds %d cards, want fewer than 3", len(short))
	}
	if s.SpecialHands["p17"] != SpecialNone {
		t.Fatalf("short hand classified as %q", s.SpecialHands["p17"])
	}
	if want := Score(short); s.Scores["p17"] != want {
		t.Fatalf("short hand score %d, want %d", s.Scores["p17"], want)
	}
}

func TestDealIn_UsesRoomDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := NewState([]string{"host"}, rng)
	s.DealIn("guest")

	if len(s.Hands["host"]) != 3 || len(s.Hands["guest"]) != 3 {
		t.Fatalf("both players need 3 cards: %d/%d", len(s.Hands["host"]), len(s.Hands["guest"]))
	}
	if s.deck.Len() != 52-6 {
		t.Fatalf("deck should have 46 cards left, got %d", s.deck.Len())
	}
	seen := map[deck.Card]bool{}
	for _, h := range s.Hands {
		for _, c := range h {
			if seen[c] {
				t.Fatalf("card dealt twice: %+v", c)
			}
			seen[c] = true
		}
	}
}

func TestRemovePlayer_DropsAllEntries(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	s := NewState([]string{"a", "b"}, rng)
	s.RemovePlayer("a")
	if _, ok := s.Hands["a"]; ok {
		t.Fatal("hand not removed")
	}
	if _, ok := s.Scores["a"]; ok {
		t.Fatal("score not removed")
	}
	if _, ok := s.SpecialHands["a"]; ok {
		t.Fatal("special not removed")
	}
}
