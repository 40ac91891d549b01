package game

import "github.com/lox/twentyone/internal/deck"

// CardView is a card as the presentation layer sees it. A face-down card
// exposes no rank or suit.
type CardView struct {
	Rank     string `json:"rank,omitempty"`
	Suit     string `json:"suit,omitempty"`
	FaceDown bool   `json:"faceDown"`
}

// HandView is a hand as the presentation layer sees it. Value, Bust and
// Blackjack are computed from the visible cards only, so a dealer hand
// with its hole card down never leaks its total.
type HandView struct {
	Cards     []CardView `json:"cards"`
	Value     int        `json:"value"`
	Bet       int64      `json:"bet"`
	Stood     bool       `json:"stood"`
	Bust      bool       `json:"bust"`
	Blackjack bool       `json:"blackjack"`
}

// Snapshot is the read-only view the engine hands back after every
// state-mutating call. Rendering it, and translating user intent back into
// engine operations, is entirely the collaborator's job.
type Snapshot struct {
	State      State      `json:"state"`
	RoundID    string     `json:"roundId,omitempty"`
	Balance    int64      `json:"balance"`
	Hands      []HandView `json:"hands"`
	ActiveHand int        `json:"activeHand"`
	Dealer     HandView   `json:"dealer"`
	Outcome    Outcome    `json:"outcome,omitempty"`
	Staked     int64      `json:"staked"`
	Credited   int64      `json:"credited"`
}

func cardView(c deck.Card) CardView {
	if c.FaceDown {
		return CardView{FaceDown: true}
	}
	return CardView{Rank: c.Rank.String(), Suit: c.Suit.String()}
}

func handView(h *Hand) HandView {
	view := HandView{
		Cards: make([]CardView, 0, h.Size()),
		Bet:   h.Bet(),
		Stood: h.Stood(),
	}

	visible := make([]deck.Card, 0, h.Size())
	concealed := false
	for _, c := range h.Cards() {
		view.Cards = append(view.Cards, cardView(c))
		if c.FaceDown {
			concealed = true
			continue
		}
		visible = append(visible, c)
	}

	view.Value = valueOf(visible)
	if !concealed {
		view.Bust = h.IsBust()
		view.Blackjack = h.IsBlackjack()
	}
	return view
}

// Snapshot builds the current presentation view
func (e *Engine) Snapshot() Snapshot {
	hands := make([]HandView, 0, len(e.player.Hands()))
	for _, h := range e.player.Hands() {
		hands = append(hands, handView(h))
	}

	return Snapshot{
		State:      e.state,
		RoundID:    e.roundID,
		Balance:    e.player.Balance(),
		Hands:      hands,
		ActiveHand: e.player.ActiveIndex(),
		Dealer:     handView(e.dealer.Hand()),
		Outcome:    e.outcome,
		Staked:     e.player.TotalStaked(),
		Credited:   e.credited,
	}
}
