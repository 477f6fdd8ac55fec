package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/newthinker/fearwatch/internal/format"
	"github.com/newthinker/fearwatch/internal/gateway"
	"github.com/newthinker/fearwatch/internal/signal"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	gainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3"))
	buyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10"))
	holdStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// calmVIX is the level below which the VIX price is shown as calm.
const calmVIX = 20.0

type fearLevel int

const (
	levelNeutral fearLevel = iota
	levelCalm
	levelHigh
)

// vixLevel classifies a VIX price: above threshold is high fear, under
// calmVIX is calm.
func vixLevel(price *float64, threshold float64) fearLevel {
	switch {
	case price == nil:
		return levelNeutral
	case *price > threshold:
		return levelHigh
	case *price < calmVIX:
		return levelCalm
	default:
		return levelNeutral
	}
}

func (l fearLevel) style() lipgloss.Style {
	switch l {
	case levelHigh:
		return lossStyle.Bold(true)
	case levelCalm:
		return gainStyle.Bold(true)
	default:
		return lipgloss.NewStyle()
	}
}

const (
	spinnerText  = "refreshing..."
	skeletonText = "Loading market data..."
	emptyText    = "No data available."
)

// Render draws the dashboard for a derived view. All numbers are formatted
// from the raw payload fields with f.
func Render(v View, s State, f *format.Formatter) string {
	if f == nil {
		f = format.Default()
	}
	var b strings.Builder

	header := titleStyle.Render("FearWatch")
	if !s.Now.IsZero() {
		header += "  " + dimStyle.Render(s.Now.Format("15:04:05"))
	}
	if v.Spinner {
		header += "  " + dimStyle.Render(spinnerText)
	}
	b.WriteString(header)
	b.WriteString("\n\n")

	switch v.Kind {
	case ViewSkeleton:
		b.WriteString(cardStyle.Render(dimStyle.Render(skeletonText)))
	case ViewError:
		b.WriteString(cardStyle.Render(errorStyle.Render("Error") + "\n" + v.Message))
	case ViewEmpty:
		b.WriteString(dimStyle.Render(emptyText))
	case ViewContent:
		if v.StaleBanner {
			b.WriteString(bannerStyle.Render(" Showing last known data. Refresh failed: " + v.Message + " "))
			b.WriteString("\n\n")
		}
		b.WriteString(renderContent(s, f))
	}
	b.WriteString("\n")
	return b.String()
}

func renderContent(s State, f *format.Formatter) string {
	threshold := signal.DefaultThreshold
	if s.Signal != nil && s.Signal.Threshold > 0 {
		threshold = s.Signal.Threshold
	}
	cards := []string{renderCard("VIX", s.VIX, f, vixLevel(s.VIX.CurrentPrice, threshold).style())}
	if s.Market != nil {
		cards = append(cards, renderCard("Market", s.Market, f, lipgloss.NewStyle()))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)

	var verdict string
	if s.Signal != nil {
		badge := holdStyle.Render(" HOLD ")
		if s.Signal.IsBuySignal {
			badge = buyStyle.Render(" BUY ")
		}
		verdict = badge + " " + s.Signal.Reason
	}

	lines := []string{row}
	if verdict != "" {
		lines = append(lines, verdict)
	}
	if !s.LastUpdated.IsZero() {
		lines = append(lines, dimStyle.Render("Updated "+updatedAgo(s.LastUpdated, s.Now)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderCard(label string, q *gateway.QuoteView, f *format.Formatter, price lipgloss.Style) string {
	title := titleStyle.Render(label) + " " + q.Symbol
	if q.Name != "" {
		title += dimStyle.Render(" " + q.Name)
	}

	change := f.Number(q.Change) + " (" + f.Number(q.ChangePercent) + "%)"
	if q.Change != nil {
		switch {
		case *q.Change > 0:
			change = gainStyle.Render("+" + change)
		case *q.Change < 0:
			change = lossStyle.Render(change)
		}
	}

	rows := []string{
		title,
		"Price      " + price.Render(f.Number(q.CurrentPrice)),
		fmt.Sprintf("Change     %s", change),
		fmt.Sprintf("Prev close %s", f.Number(q.PreviousClose)),
		fmt.Sprintf("Open       %s", f.Number(q.OpenPrice)),
		fmt.Sprintf("Day range  %s - %s", f.Number(q.DayLow), f.Number(q.DayHigh)),
		fmt.Sprintf("Volume     %s", f.Volume(q.Volume)),
		dimStyle.Render("State      " + string(q.MarketState)),
	}
	return cardStyle.Render(strings.Join(rows, "\n"))
}

func updatedAgo(at, now time.Time) string {
	if now.IsZero() || now.Before(at) {
		now = at
	}
	if now.Sub(at) < time.Second {
		return "just now"
	}
	return humanize.RelTime(at, now, "ago", "from now")
}
