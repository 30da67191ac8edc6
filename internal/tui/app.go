// Package tui renders a read-only terminal view of the order board.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"udonboard/internal/models"
)

var (
	// Colors
	newColor     = lipgloss.Color("4") // blue
	cookingColor = lipgloss.Color("3") // yellow
	readyColor   = lipgloss.Color("2") // green
	errColor     = lipgloss.Color("1") // red
	mutedColor   = lipgloss.Color("8")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(34)

	potFreeStyle = lipgloss.NewStyle().Foreground(readyColor)
	potUsedStyle = lipgloss.NewStyle().Foreground(cookingColor).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	errStyle     = lipgloss.NewStyle().Foreground(errColor)
)

type tickMsg time.Time

type refreshMsg struct {
	orders []models.Order
	pots   []bool
	err    error
}

// App is the bubbletea model for the board display.
type App struct {
	client *Client
	orders []models.Order
	pots   []bool
	err    error
	width  int
}

// New creates the display app pointed at the given API address.
func New(apiAddr string) *App {
	return &App{client: NewClient(apiAddr)}
}

// Run starts the display.
func (a *App) Run() error {
	_, err := tea.NewProgram(a, tea.WithAltScreen()).Run()
	return err
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.refresh, tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) refresh() tea.Msg {
	orders, err := a.client.Orders()
	if err != nil {
		return refreshMsg{err: err}
	}
	pots, err := a.client.Pots()
	if err != nil {
		return refreshMsg{err: err}
	}
	return refreshMsg{orders: orders, pots: pots}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
	case tickMsg:
		return a, tea.Batch(a.refresh, tick())
	case refreshMsg:
		a.err = msg.err
		if msg.err == nil {
			a.orders = msg.orders
			a.pots = msg.pots
		}
	}
	return a, nil
}

func (a *App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("UDON BOARD • %d orders", len(a.orders))))
	b.WriteString("\n\n")

	if a.err != nil {
		b.WriteString(errStyle.Render("board unreachable: " + a.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(a.renderPots())
	b.WriteString("\n\n")

	if len(a.orders) == 0 && a.err == nil {
		b.WriteString(helpStyle.Render("no open orders — new arrivals show up here"))
		b.WriteString("\n")
	} else {
		var cards []string
		for _, o := range a.orders {
			cards = append(cards, a.renderOrder(o))
		}
		b.WriteString(joinCards(cards, a.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q: quit"))
	return b.String()
}

func (a *App) renderPots() string {
	var parts []string
	for i, used := range a.pots {
		label := fmt.Sprintf("[%d]", i+1)
		if used {
			parts = append(parts, potUsedStyle.Render(label))
		} else {
			parts = append(parts, potFreeStyle.Render(label))
		}
	}
	return "pots  " + strings.Join(parts, " ")
}

func (a *App) renderOrder(o models.Order) string {
	style := cardStyle.Copy().BorderForeground(statusColor(o.Status))

	var b strings.Builder
	header := fmt.Sprintf("%s  %s", o.ID, strings.ToUpper(string(o.Status)))
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(statusColor(o.Status)).Render(header))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(o.CreatedAt.Format("15:04:05")))
	b.WriteString("\n")

	for _, it := range o.Items {
		b.WriteString(fmt.Sprintf("%dx %s", it.Quantity, it.Name))
		if it.RequiresCooking() {
			b.WriteString(" (" + string(it.Firmness) + ")")
		}
		b.WriteString("\n")
		b.WriteString("   " + itemStatus(it) + "\n")
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

func itemStatus(it *models.OrderItem) string {
	if !it.RequiresCooking() {
		return potFreeStyle.Render("● ready to serve")
	}
	switch it.State {
	case models.CookStateRunning:
		return potUsedStyle.Render(fmt.Sprintf("● %s left, pots %s",
			formatSecs(it.RemainingSecs), formatPots(it.LeasedPots)))
	case models.CookStateCooked:
		return potFreeStyle.Render("● cooked, pots " + formatPots(it.LeasedPots))
	default:
		return helpStyle.Render("● waiting")
	}
}

func statusColor(s models.OrderStatus) lipgloss.Color {
	switch s {
	case models.OrderStatusNew:
		return newColor
	case models.OrderStatusCooking:
		return cookingColor
	case models.OrderStatusReady:
		return readyColor
	}
	return mutedColor
}

func formatSecs(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func formatPots(pots []int) string {
	if len(pots) == 0 {
		return "-"
	}
	parts := make([]string, len(pots))
	for i, n := range pots {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ",")
}

// joinCards lays cards out in rows of three, or a single column on
// narrow terminals.
func joinCards(cards []string, width int) string {
	perRow := 3
	if width > 0 && width < 110 {
		perRow = 1
	}
	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := i + perRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return strings.Join(rows, "\n")
}
