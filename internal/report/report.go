// Package report renders simulation outcomes for the terminal or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/archerysim/internal/archive"
	"github.com/lox/archerysim/internal/simulator"
	"github.com/lox/archerysim/internal/statistics"
	"github.com/lox/archerysim/internal/uniformity"
)

type styles struct {
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	pass    lipgloss.Style
	fail    lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1),
		label: r.NewStyle().
			Foreground(lipgloss.Color("12")),
		value: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")),
		pass: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		fail: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		warning: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
		muted: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}

// Printer writes human-readable reports.
type Printer struct {
	w     io.Writer
	style styles
}

// New returns a printer writing to w. With noColor set every style renders
// as plain text.
func New(w io.Writer, noColor bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{w: w, style: newStyles(r)}
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) section(title string) {
	fmt.Fprintf(p.w, "\n%s\n", p.style.header.Render(title))
}

func (p *Printer) table(rows [][]string) {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

func (p *Printer) kv(rows ...[2]string) {
	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{p.style.label.Render(r[0]), p.style.value.Render(r[1])}
	}
	p.table(table)
}

// Outcome prints the full results of a run.
func (p *Printer) Outcome(o *simulator.Outcome) {
	res := o.Results

	p.section("RUN")
	p.kv(
		[2]string{"games", fmt.Sprintf("%d of %d", res.Games, o.Requested)},
		[2]string{"rounds", fmt.Sprint(res.Rounds)},
		[2]string{"shots", fmt.Sprint(res.Shots)},
		[2]string{"stream", streamLabel(o.Stream)},
	)
	if o.Partial {
		fmt.Fprintf(p.w, "%s %s\n", p.style.warning.Render("partial results:"), o.StopReason)
	}
	if !o.Stream.Feasible {
		fmt.Fprintf(p.w, "%s stream holds %d values, about %d needed\n",
			p.style.warning.Render("warning:"), o.Stream.Size, o.Stream.Required)
	}

	p.section("WINNERS")
	p.kv(
		[2]string{"luckiest player", fmt.Sprintf("%s (%d games)", res.Luckiest.Player, res.Luckiest.Count)},
		[2]string{"most experienced", fmt.Sprintf("%s (%d)", res.MostExperienced.Player, res.MostExperienced.Count)},
		[2]string{"winning team", fmt.Sprintf("%s (%s)", res.TeamWinner.Team, teamCounts(res.TeamWinner.Wins))},
		[2]string{"winning gender per game", fmt.Sprintf("%s (%d games)", res.GameGender.Gender, res.GameGender.Wins)},
		[2]string{"winning gender per round", fmt.Sprintf("%s (%d rounds)", res.RoundGender.Gender, res.RoundGender.Wins)},
	)

	rows := [][]string{{p.style.label.Render("player"), p.style.label.Render("points")}}
	for _, pp := range res.TeamWinner.PlayerPoints {
		rows = append(rows, []string{pp.Player, fmt.Sprint(pp.Count)})
	}
	fmt.Fprintln(p.w)
	p.table(rows)

	p.section("TEAM SCORES")
	rows = [][]string{{
		p.style.label.Render("team"),
		p.style.label.Render("mean"),
		p.style.label.Render("variance"),
		p.style.label.Render("std dev"),
	}}
	for _, d := range res.TeamScores {
		rows = append(rows, []string{d.Team, f2(d.Mean), f2(d.Variance), f2(d.StdDev)})
	}
	p.table(rows)

	p.section("SPECIAL SHOTS")
	rows = [][]string{{
		p.style.label.Render("team"),
		p.style.label.Render("total"),
		p.style.label.Render("per game"),
		p.style.label.Render("experience gained"),
		p.style.label.Render("factor"),
		p.style.label.Render("correlation"),
	}}
	for _, s := range res.SpecialShots {
		rows = append(rows, []string{
			s.Team,
			fmt.Sprint(s.Total),
			f2(s.PerGame),
			fmt.Sprint(s.ExperienceGained),
			f2(s.Factor),
			fmt.Sprintf("%.3f", s.Correlation),
		})
	}
	p.table(rows)

	p.section("POINTS PER GAME")
	rows = [][]string{{
		p.style.label.Render("player"),
		p.style.label.Render("mean"),
		p.style.label.Render("min"),
		p.style.label.Render("max"),
	}}
	for _, pp := range res.PointsPerGame {
		lo, hi, mean := summarize(pp.Points)
		rows = append(rows, []string{pp.Player, f2(mean), fmt.Sprint(lo), fmt.Sprint(hi)})
	}
	p.table(rows)

	p.section("TIED ROUNDS")
	p.kv(
		[2]string{"tied", fmt.Sprintf("%d of %d (%.2f%%)", res.TiedRounds.Tied, res.TiedRounds.Total, res.TiedRounds.Percent)},
		[2]string{"decided", fmt.Sprintf("%d (%.2f%%)", res.TiedRounds.NonTied, res.TiedRounds.NonTiedPercent)},
	)
	if res.Anomalies > 0 {
		fmt.Fprintf(p.w, "%s %d rounds hit the tie-break cap\n", p.style.warning.Render("anomalies:"), res.Anomalies)
	}

	p.section("EFFICIENCY")
	e := o.Efficiency
	p.kv(
		[2]string{"total", e.Total.Truncate(time.Millisecond).String()},
		[2]string{"setup", fmt.Sprintf("%s (%.1f%%)", e.Setup.Truncate(time.Millisecond), e.SetupShare)},
		[2]string{"play", fmt.Sprintf("%s (%.1f%%)", e.Play.Truncate(time.Millisecond), e.PlayShare)},
		[2]string{"analysis", fmt.Sprintf("%s (%.1f%%)", e.Analysis.Truncate(time.Millisecond), e.AnalysisShare)},
		[2]string{"games/s", f2(e.GamesPerSecond)},
		[2]string{"rounds/s", f2(e.RoundsPerSecond)},
		[2]string{"shots/s", f2(e.ShotsPerSecond)},
		[2]string{"shots/round", f2(e.ShotsPerRound)},
		[2]string{"shots/game", f2(e.ShotsPerGame)},
	)
}

// Validation prints the uniformity test results for a stream.
func (p *Printer) Validation(label string, r uniformity.Report) {
	p.section(fmt.Sprintf("UNIFORMITY %s (n=%d)", label, r.N))
	rows := [][]string{{
		p.style.label.Render("test"),
		p.style.label.Render("statistic"),
		p.style.label.Render("accept"),
		p.style.label.Render("result"),
	}}
	for _, t := range r.Results {
		verdict := p.style.pass.Render("pass")
		if !t.Passed {
			verdict = p.style.fail.Render("fail")
		}
		rows = append(rows, []string{
			t.Name,
			fmt.Sprintf("%.5f", t.Statistic),
			fmt.Sprintf("[%.5f, %.5f]", t.Lower, t.Upper),
			verdict,
		})
	}
	p.table(rows)
}

// History prints archived runs, newest first.
func (p *Printer) History(records []archive.Record) {
	if len(records) == 0 {
		fmt.Fprintln(p.w, p.style.muted.Render("no archived runs"))
		return
	}
	rows := [][]string{{
		p.style.label.Render("id"),
		p.style.label.Render("when"),
		p.style.label.Render("stream"),
		p.style.label.Render("games"),
		p.style.label.Render("winner"),
		p.style.label.Render("tied"),
		p.style.label.Render("duration"),
	}}
	for _, r := range records {
		games := fmt.Sprintf("%d/%d", r.GamesPlayed, r.GamesRequested)
		if r.Partial {
			games = p.style.warning.Render(games + " partial")
		}
		stream := r.Source
		if r.Configuration != "" {
			stream += ":" + r.Configuration
		}
		rows = append(rows, []string{
			fmt.Sprint(r.ID),
			r.CreatedAt.Format(time.DateTime),
			stream,
			games,
			r.TeamWinner,
			fmt.Sprint(r.TiedRounds),
			r.Duration.String(),
		})
	}
	p.table(rows)
}

func streamLabel(s simulator.StreamInfo) string {
	label := fmt.Sprintf("%s, %d values, %d used", s.Source, s.Size, s.Consumed)
	if s.Configuration != "" {
		label = fmt.Sprintf("%s %q after %d attempts, %d values, %d used", s.Source, s.Configuration, s.Attempts, s.Size, s.Consumed)
	}
	return label
}

func teamCounts(wins []statistics.TeamCount) string {
	parts := make([]string, len(wins))
	for i, w := range wins {
		parts[i] = fmt.Sprintf("%s %d", w.Team, w.Count)
	}
	return strings.Join(parts, ", ")
}

func summarize(points []int) (lo, hi int, mean float64) {
	if len(points) == 0 {
		return 0, 0, 0
	}
	lo, hi = points[0], points[0]
	sum := 0
	for _, v := range points {
		lo, hi = min(lo, v), max(hi, v)
		sum += v
	}
	return lo, hi, float64(sum) / float64(len(points))
}

func f2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
