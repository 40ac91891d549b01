package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/rs/zerolog"

	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/randutil"
)

type phase int

const (
	phaseName phase = iota
	phaseBet
	phasePlay
	phaseOver
)

// Model is the Bubble Tea model for a single-seat blackjack table. It
// drives a local engine directly; the store only sees balance updates and
// round records, the same way the server does.
type Model struct {
	store  game.Store
	rules  game.Rules
	seed   int64
	logger *log.Logger

	engine *game.Engine
	snap   game.Snapshot

	phase    phase
	input    textinput.Model
	errMsg   string
	quitting bool
	width    int
}

// New creates a model that seats players from the given store. Pass a
// game.NopStore for casual play without persistence.
func New(store game.Store, rules game.Rules, seed int64, logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "Your name"
	ti.Focus()
	ti.CharLimit = 20
	ti.Width = 30
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

	return &Model{
		store:  store,
		rules:  rules,
		seed:   seed,
		logger: logger.WithPrefix("tui"),
		phase:  phaseName,
		input:  ti,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

		switch m.phase {
		case phaseName, phaseBet:
			if msg.String() == "enter" {
				m.submitInput()
				return m, nil
			}
		case phasePlay:
			m.handleAction(msg.String())
			return m, nil
		case phaseOver:
			switch msg.String() {
			case "n", "enter":
				m.nextRound()
			case "q", "esc":
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitInput() {
	value := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	switch m.phase {
	case phaseName:
		m.seat(value)
	case phaseBet:
		m.placeBet(value)
	}
}

// seat looks the player up, creating them on first visit, and builds
// their engine
func (m *Model) seat(name string) {
	if len(name) < 3 || len(name) > 20 {
		m.errMsg = "Name must be 3-20 characters"
		return
	}

	ctx := context.Background()
	rec, err := m.store.FindPlayer(ctx, name)
	if err != nil {
		m.errMsg = fmt.Sprintf("Lookup failed: %v", err)
		return
	}
	if rec == nil {
		rec, err = m.store.CreatePlayer(ctx, name, m.rules.StartBalance)
		if err != nil {
			m.errMsg = fmt.Sprintf("Could not create player: %v", err)
			return
		}
		m.logger.Debug("Created player", "name", name)
	}

	player := game.NewPlayer(rec.Name, rec.Balance)
	player.ID = rec.ID
	m.engine = game.NewEngine(zerolog.Nop(), randutil.New(m.seed), player,
		game.WithRules(m.rules),
		game.WithStore(m.store),
	)
	m.snap = m.engine.Snapshot()

	m.errMsg = ""
	m.phase = phaseBet
	m.input.Placeholder = fmt.Sprintf("Bet (%s-%s)", money(m.rules.MinBet), money(m.rules.MaxBet))
}

func (m *Model) placeBet(value string) {
	units, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		m.errMsg = "Enter a whole amount, e.g. 50"
		return
	}

	snap, err := m.engine.PlaceBet(units * 100)
	if err != nil {
		m.errMsg = friendlyError(err)
		return
	}

	m.errMsg = ""
	m.snap = snap
	if snap.State == game.RoundOver {
		m.phase = phaseOver
	} else {
		m.phase = phasePlay
	}
}

func (m *Model) handleAction(key string) {
	var (
		snap game.Snapshot
		err  error
	)

	switch key {
	case "h":
		snap, err = m.engine.Hit()
	case "s":
		snap, err = m.engine.Stand()
	case "d":
		snap, err = m.engine.Double()
	case "p":
		snap, err = m.engine.Split()
	default:
		return
	}
	if err != nil {
		m.errMsg = friendlyError(err)
		return
	}

	m.errMsg = ""
	m.snap = snap
	if snap.State == game.RoundOver {
		m.phase = phaseOver
	}
}

func (m *Model) nextRound() {
	snap, err := m.engine.StartNewRound()
	if err != nil {
		m.errMsg = friendlyError(err)
		return
	}

	m.errMsg = ""
	m.snap = snap
	if snap.Balance < m.rules.MinBet {
		m.errMsg = "Balance below the table minimum"
	}
	m.phase = phaseBet
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Twenty-One"))
	b.WriteString("\n\n")

	switch m.phase {
	case phaseName:
		b.WriteString("Welcome to the table. Who's playing?\n\n")
		b.WriteString(m.input.View())
	case phaseBet:
		b.WriteString(m.renderStatus())
		b.WriteString("\nPlace your bet.\n\n")
		b.WriteString(m.input.View())
	case phasePlay:
		b.WriteString(m.renderTable())
		b.WriteString(m.renderActions())
	case phaseOver:
		b.WriteString(m.renderTable())
		b.WriteString(m.renderOutcome())
		b.WriteString(InfoStyle.Render("[n] next round  [q] quit"))
	}

	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render(m.errMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(InfoStyle.Render("Ctrl+C to exit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderStatus() string {
	return BalanceStyle.Render(fmt.Sprintf("Balance: %s", money(m.snap.Balance))) + "\n"
}

func (m *Model) renderTable() string {
	var b strings.Builder

	b.WriteString(DealerStyle.Render("Dealer"))
	b.WriteString("  ")
	b.WriteString(renderHand(m.snap.Dealer))
	b.WriteString("\n\n")

	for i, hand := range m.snap.Hands {
		label := HandStyle
		name := "Hand"
		if len(m.snap.Hands) > 1 {
			name = fmt.Sprintf("Hand %d", i+1)
			if i == m.snap.ActiveHand && m.snap.State == game.PlayerTurn {
				label = ActiveHandStyle
			}
		}
		b.WriteString(label.Render(name))
		b.WriteString("  ")
		b.WriteString(renderHand(hand))
		b.WriteString("  ")
		b.WriteString(InfoStyle.Render(fmt.Sprintf("bet %s", money(hand.Bet))))
		if hand.Bust {
			b.WriteString("  ")
			b.WriteString(ErrorStyle.Render("BUST"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m *Model) renderActions() string {
	actions := []string{"[h]it", "[s]tand"}

	hand := m.snap.Hands[m.snap.ActiveHand]
	if len(hand.Cards) == 2 && !hand.Stood {
		actions = append(actions, "[d]ouble")
	}
	if len(m.snap.Hands) == 1 && canSplitView(hand) {
		actions = append(actions, "s[p]lit")
	}

	return "\n" + WarningStyle.Render(strings.Join(actions, "  "))
}

func (m *Model) renderOutcome() string {
	var verdict string
	switch m.snap.Outcome {
	case game.OutcomeBlackjack:
		verdict = SuccessStyle.Render(fmt.Sprintf("Blackjack! You win %s", money(m.snap.Credited)))
	case game.OutcomeWin:
		verdict = SuccessStyle.Render(fmt.Sprintf("You win %s", money(m.snap.Credited)))
	case game.OutcomePush:
		verdict = WarningStyle.Render("Push. Your bet comes back.")
	default:
		verdict = ErrorStyle.Render(fmt.Sprintf("You lose %s", money(m.snap.Staked)))
	}
	return "\n" + verdict + "\n\n"
}

// renderHand shows one hand's cards and visible total
func renderHand(hand game.HandView) string {
	var cards []string
	for _, c := range hand.Cards {
		cards = append(cards, renderCard(c))
	}
	out := strings.Join(cards, " ")
	if hand.Value > 0 {
		out += InfoStyle.Render(fmt.Sprintf("  (%d)", hand.Value))
	}
	return out
}

func renderCard(c game.CardView) string {
	if c.FaceDown {
		return HiddenCardStyle.Render("[??]")
	}
	text := fmt.Sprintf("[%s%s]", c.Rank, c.Suit)
	if c.Suit == "♥" || c.Suit == "♦" {
		return RedCardStyle.Render(text)
	}
	return BlackCardStyle.Render(text)
}

// canSplitView mirrors the engine's split eligibility from the view's
// perspective, for display only; the engine remains the authority.
func canSplitView(hand game.HandView) bool {
	if len(hand.Cards) != 2 || hand.Stood {
		return false
	}
	return cardBase(hand.Cards[0]) == cardBase(hand.Cards[1])
}

func cardBase(c game.CardView) string {
	switch c.Rank {
	case "T", "J", "Q", "K":
		return "10"
	default:
		return c.Rank
	}
}

func friendlyError(err error) string {
	switch {
	case err == nil:
		return ""
	default:
		return strings.ToUpper(err.Error()[:1]) + err.Error()[1:]
	}
}

func money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
