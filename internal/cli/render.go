package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/okian/playerdex/internal/domain/types"
)

var (
	playerHeaders = []string{
		"Sofifa ID", "Short Name", "Long Name", "Player Positions",
		"Nationality", "Club Name", "League Name", "Rating", "Count",
	}
	userRatingHeaders = []string{
		"Sofifa ID", "Short Name", "Long Name", "Player Positions",
		"Nationality", "Club Name", "League Name", "User Rating", "Global Rating", "Count",
	}
)

// renderer writes result sets as tables or JSON.
type renderer struct {
	out  io.Writer
	json bool

	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
}

func newRenderer(out io.Writer, asJSON bool) *renderer {
	r := lipgloss.NewRenderer(out)
	return &renderer{
		out:  out,
		json: asJSON,
		header: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		cell:   r.NewStyle().Padding(0, 1),
		border: r.NewStyle().Foreground(lipgloss.Color("#383838")),
	}
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func playerRow(p types.PlayerView) []string {
	return []string{
		p.ID, p.ShortName, p.LongName, p.Positions,
		p.Nationality, p.Club, p.League,
	}
}

// Players renders players with their global rating.
func (r *renderer) Players(ps []types.PlayerView) error {
	if r.json {
		return r.encode(ps)
	}
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, append(playerRow(p), formatRating(p.Rating), strconv.Itoa(p.Count)))
	}
	return r.table(playerHeaders, rows)
}

// UserRatings renders a user's ratings next to the global rating.
func (r *renderer) UserRatings(rs []types.UserRatingView) error {
	if r.json {
		return r.encode(rs)
	}
	rows := make([][]string, 0, len(rs))
	for _, u := range rs {
		rows = append(rows, append(playerRow(u.PlayerView),
			formatRating(u.UserRating), formatRating(u.Rating), strconv.Itoa(u.Count)))
	}
	return r.table(userRatingHeaders, rows)
}

func (r *renderer) table(headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.header
			}
			return r.cell
		})
	if _, err := fmt.Fprintln(r.out, t.Render()); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

func (r *renderer) encode(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
