package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/coldroom/internal/chart"
	"github.com/luki/coldroom/internal/chat"
	"github.com/luki/coldroom/internal/connstate"
	"github.com/luki/coldroom/internal/history"
	"github.com/luki/coldroom/internal/status"
	"github.com/luki/coldroom/internal/weather"
)

// ── Color palette ────────────────────────────────────────────────────

type palette struct {
	titleBg  lipgloss.Color
	titleFg  lipgloss.Color
	border   lipgloss.Color
	label    lipgloss.Color
	dim      lipgloss.Color
	value    lipgloss.Color
	footerBg lipgloss.Color
}

var (
	darkPalette = palette{
		titleBg:  lipgloss.Color("17"),
		titleFg:  lipgloss.Color("51"),
		border:   lipgloss.Color("62"),
		label:    lipgloss.Color("252"),
		dim:      lipgloss.Color("240"),
		value:    lipgloss.Color("250"),
		footerBg: lipgloss.Color("235"),
	}
	lightPalette = palette{
		titleBg:  lipgloss.Color("153"),
		titleFg:  lipgloss.Color("25"),
		border:   lipgloss.Color("110"),
		label:    lipgloss.Color("236"),
		dim:      lipgloss.Color("245"),
		value:    lipgloss.Color("238"),
		footerBg: lipgloss.Color("254"),
	}

	colorOk      = lipgloss.Color("78")
	colorWarn    = lipgloss.Color("220")
	colorCrit    = lipgloss.Color("196")
	colorUser    = lipgloss.Color("75")
	colorAssist  = lipgloss.Color("147")
	colorPending = lipgloss.Color("243")
)

// tierColor accents the set-point range by how warm its target is.
func tierColor(t status.Tier) lipgloss.Color {
	switch t {
	case status.TierCool:
		return lipgloss.Color("45") // cyan
	case status.TierModerate:
		return lipgloss.Color("114") // green
	default:
		return lipgloss.Color("208") // orange
	}
}

func (m Model) palette() palette {
	if m.view.Dark {
		return darkPalette
	}
	return lightPalette
}

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := max(m.width-2, 60)

	var sections []string
	sections = append(sections, m.renderTitleBar(contentWidth))

	if m.view.Conn == connstate.Offline && m.view.ConnErr != nil {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Width(contentWidth).
			Padding(0, 1).
			Render(fmt.Sprintf(" SENSOR FEED: %v", m.view.ConnErr)))
	}

	sections = append(sections,
		m.renderCards(contentWidth),
		m.renderTarget(contentWidth),
		m.renderChart(contentWidth),
		m.renderLog(contentWidth),
	)

	switch m.mode {
	case modeSetPoint:
		sections = append(sections, m.renderSetPointEditor(contentWidth))
	case modeChat:
		sections = append(sections, m.renderChat(contentWidth))
	}

	if m.notice != "" {
		c := colorOk
		if m.noticeErr {
			c = colorCrit
		}
		sections = append(sections, lipgloss.NewStyle().Foreground(c).Padding(0, 1).Render(m.notice))
	}

	sections = append(sections, m.renderFooter(contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	lines := strings.Split(content, "\n")
	visible := max(m.height, 5)
	maxScroll := max(len(lines)-visible, 0)
	scroll := min(m.scroll, maxScroll)
	end := min(scroll+visible, len(lines))

	return strings.Join(lines[scroll:end], "\n")
}

func (m Model) renderTitleBar(width int) string {
	p := m.palette()
	dimS := lipgloss.NewStyle().Foreground(p.dim)

	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(p.titleFg).
		Render("COLD ROOM MONITOR")

	clock := m.view.Clock.In(m.loc)
	parts := []string{
		dimS.Render(clock.Format("Mon, 02 Jan 2006")),
		lipgloss.NewStyle().Foreground(p.label).Bold(true).Render(clock.Format("15:04:05")),
		connBadge(m.view.Conn),
	}
	if m.view.Dark {
		parts = append(parts, dimS.Render("dark"))
	} else {
		parts = append(parts, dimS.Render("light"))
	}

	right := strings.Join(parts, dimS.Render(" │ "))
	gap := max(width-lipgloss.Width(logo)-lipgloss.Width(right)-4, 1)

	return lipgloss.NewStyle().
		Background(p.titleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func connBadge(s connstate.State) string {
	var c lipgloss.Color
	switch s {
	case connstate.Online:
		c = colorOk
	case connstate.Offline:
		c = colorCrit
	default:
		c = colorWarn
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render("● " + string(s))
}

func (m Model) card(width int, title string, lines ...string) string {
	p := m.palette()
	head := lipgloss.NewStyle().Foreground(p.dim).Render(strings.ToUpper(title))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, append([]string{head}, lines...)...))
}

func (m Model) renderCards(totalWidth int) string {
	v := m.view
	p := m.palette()
	valS := lipgloss.NewStyle().Foreground(p.value)
	dimS := lipgloss.NewStyle().Foreground(p.dim)
	cardW := max(totalWidth/4-2, 16)

	badge := lipgloss.NewStyle().Foreground(colorCrit).Bold(true).Render("OUT OF RANGE")
	if v.InRange {
		badge = lipgloss.NewStyle().Foreground(colorOk).Bold(true).Render("OK")
	}
	bandS := lipgloss.NewStyle().Foreground(chart.BandColor(v.Band))
	tierS := lipgloss.NewStyle().Foreground(tierColor(v.Tier))
	temp := m.card(cardW, "Temperature",
		chart.TempValue(v.Temperature),
		bandS.Render(v.Band.String()),
		badge+tierS.Render(fmt.Sprintf(" %.1f–%.1f°C", v.SetPoint.Min, v.SetPoint.Max)),
	)

	hum := m.card(cardW, "Humidity",
		valS.Render(fmt.Sprintf("%5.0f%%", v.Humidity)),
		valS.Render(v.HumidityBand.String()),
		dimS.Render(v.HumidityBand.Advice()),
	)

	var wx string
	switch {
	case v.HasWeather:
		stale := ""
		if v.WeatherErr != nil {
			stale = " (stale)"
		}
		wx = m.card(cardW, "Outside",
			valS.Render(fmt.Sprintf("%5.1f°C", v.Weather.Temperature)),
			valS.Render(weather.Describe(v.Weather.WeatherCode)),
			dimS.Render(fmt.Sprintf("wind %.0f km/h%s", v.Weather.WindSpeed, stale)),
		)
	case v.WeatherErr != nil:
		wx = m.card(cardW, "Outside", dimS.Render("unavailable"), "", "")
	default:
		wx = m.card(cardW, "Outside", dimS.Render("loading..."), "", "")
	}

	room := m.card(cardW, "Room",
		valS.Render(v.Condition.String()),
		dimS.Render(v.Condition.Summary()),
		tierS.Render("range "+v.Tier.String()),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, temp, hum, wx, room)
}

// renderTarget explains the active set-point. The factory default suits a
// demo room, not frozen stock, so it gets a warning.
func (m Model) renderTarget(width int) string {
	sp := m.view.SetPoint
	style := lipgloss.NewStyle().Width(width).Padding(0, 1)
	if sp.IsDefault() {
		return style.Foreground(colorWarn).Bold(true).Render(fmt.Sprintf(
			"⚠ Default set-point %.0f–%.0f°C is not suitable for ice cream storage (demo prototype only). Press e to set a real target.",
			sp.Min, sp.Max))
	}
	return style.Foreground(tierColor(m.view.Tier)).Render(fmt.Sprintf(
		"Active target: %.1f–%.1f°C (%s)", sp.Min, sp.Max, sp.Tier()))
}

// localSamples moves sample times into the display zone so minute ticks
// and timeline labels read in local time.
func (m Model) localSamples() []history.Sample {
	out := make([]history.Sample, len(m.view.Samples))
	for i, s := range m.view.Samples {
		s.At = s.At.In(m.loc)
		out[i] = s
	}
	return out
}

func (m Model) renderChart(totalWidth int) string {
	v := m.view
	p := m.palette()
	dimS := lipgloss.NewStyle().Foreground(p.dim)
	valS := lipgloss.NewStyle().Foreground(p.value)
	frame := lipgloss.NewStyle().Foreground(p.border)

	chartWidth := max(totalWidth-30, len(v.Samples))
	samples := m.localSamples()
	lo, hi := chart.Range(samples)

	spark := frame.Render("▕") + chart.Sparkline(samples, chartWidth, lo, hi) + frame.Render("▏")
	stats := dimS.Render(" avg") + valS.Render(fmt.Sprintf("%5.1f", v.Avg)) +
		dimS.Render(" lo") + valS.Render(fmt.Sprintf("%5.1f", v.Min)) +
		dimS.Render(" hi") + valS.Render(fmt.Sprintf("%5.1f", v.Max))

	rows := []string{
		spark + stats,
		" " + chart.Timeline(samples, chartWidth),
		" " + chart.Scale(v.Temperature, v.SetPoint, min(lo, v.SetPoint.Min), max(hi, v.SetPoint.Max), chartWidth),
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Padding(0, 1).
		Width(totalWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderLog(totalWidth int) string {
	p := m.palette()
	dimS := lipgloss.NewStyle().Foreground(p.dim)
	labelS := lipgloss.NewStyle().Foreground(p.label).Width(10)

	rows := []string{dimS.Render("RECENT READINGS")}
	for _, s := range m.view.Log {
		rows = append(rows, labelS.Render(s.Label)+" "+chart.TempValue(s.Value))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Padding(0, 1).
		Width(totalWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderSetPointEditor(totalWidth int) string {
	p := m.palette()
	dimS := lipgloss.NewStyle().Foreground(p.dim)
	body := lipgloss.JoinVertical(lipgloss.Left,
		dimS.Render("SET-POINT RANGE (°C)"),
		m.minInput.View()+"   "+m.maxInput.View(),
		dimS.Render("tab: switch  enter: save  esc: cancel"),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorWarn).
		Padding(0, 1).
		Width(totalWidth).
		Render(body)
}

func (m Model) renderChat(totalWidth int) string {
	p := m.palette()
	dimS := lipgloss.NewStyle().Foreground(p.dim)
	textW := max(totalWidth-8, 20)

	msgs := m.conv.Messages()
	if len(msgs) > chatVisible {
		msgs = msgs[len(msgs)-chatVisible:]
	}

	rows := []string{dimS.Render("ASSISTANT")}
	for _, msg := range msgs {
		who := lipgloss.NewStyle().Foreground(colorAssist).Bold(true).Render("AI  ")
		if msg.Role == chat.RoleUser {
			who = lipgloss.NewStyle().Foreground(colorUser).Bold(true).Render("You ")
		}
		text := lipgloss.NewStyle().Foreground(p.label).Width(textW).Render(msg.Content)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, who, text))
	}
	if m.conv.Pending() {
		rows = append(rows, lipgloss.NewStyle().Foreground(colorPending).Italic(true).Render("AI is typing..."))
	}
	rows = append(rows, m.chatInput.View())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAssist).
		Padding(0, 1).
		Width(totalWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderFooter(width int) string {
	p := m.palette()
	dimS := lipgloss.NewStyle().Foreground(p.dim)
	keyS := lipgloss.NewStyle().Foreground(p.label)

	swatch := func(c lipgloss.Color) string {
		return lipgloss.NewStyle().Foreground(c).Render("██")
	}
	legend := swatch(lipgloss.Color("39")) + dimS.Render(" frozen ") +
		swatch(colorOk) + dimS.Render(" optimal ") +
		swatch(colorWarn) + dimS.Render(" caution ") +
		swatch(colorCrit) + dimS.Render(" hot ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Render("╵") + dimS.Render(" minute")

	var keys string
	switch m.mode {
	case modeChat:
		keys = dimS.Render("enter") + keyS.Render(":send") + dimS.Render("  esc") + keyS.Render(":close")
	case modeSetPoint:
		keys = dimS.Render("enter") + keyS.Render(":save") + dimS.Render("  esc") + keyS.Render(":cancel")
	default:
		keys = dimS.Render("q") + keyS.Render(":quit") +
			dimS.Render("  e") + keyS.Render(":set-point") +
			dimS.Render("  c") + keyS.Render(":chat") +
			dimS.Render("  t") + keyS.Render(":theme") +
			dimS.Render("  j/k") + keyS.Render(":scroll")
	}

	gap := max(width-lipgloss.Width(legend)-lipgloss.Width(keys)-4, 1)
	return lipgloss.NewStyle().
		Background(p.footerBg).
		Width(width).
		Padding(0, 1).
		Render(legend + strings.Repeat(" ", gap) + keys)
}
