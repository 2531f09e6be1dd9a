package loop

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// progressBarWidth is the number of cells of the scroll bar in the status line.
const progressBarWidth = 20

var white = colorful.Color{R: 1, G: 1, B: 1}

// styles holds the lipgloss styles of the overlay, bound to the session's renderer.
type styles struct {
	renderer *lipgloss.Renderer
	subtitle lipgloss.Style
	status   lipgloss.Style
	bar      lipgloss.Style
	help     lipgloss.Style
	warn     lipgloss.Style
	text     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		renderer: r,
		subtitle: r.NewStyle().Foreground(lipgloss.Color("#8b949e")),
		status:   r.NewStyle().Foreground(lipgloss.Color("#8b949e")),
		bar:      r.NewStyle().Foreground(lipgloss.Color("#58a6ff")),
		help: r.NewStyle().
			Foreground(lipgloss.Color("#c9d1d9")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#58a6ff")).
			Padding(0, 2),
		warn: r.NewStyle().Foreground(lipgloss.Color("#f0883e")).Bold(true),
		text: r.NewStyle().Foreground(lipgloss.Color("#c9d1d9")),
	}
}

// heroStyle returns the title style faded toward the background by opacity.
func (st styles) heroStyle(background colorful.Color, opacity float64) lipgloss.Style {
	c := background.BlendRgb(white, opacity).Clamped()
	return st.renderer.NewStyle().Foreground(lipgloss.Color(c.Hex())).Bold(true)
}

// drawOverlay draws the text layer on top of the field.
func (s *Session) drawOverlay() {
	cols := s.canvas.TerminalWidth()
	rows := s.canvas.TerminalHeight()
	if cols == 0 || rows == 0 {
		return
	}
	centerX := cols / 2
	centerY := rows / 2

	if s.state.shuttingDown {
		s.drawShutdownScreen(centerX, centerY)
		return
	}
	if s.state.isInactive {
		s.drawInactivityScreen(centerX, centerY)
		return
	}

	s.drawHero(cols, rows)
	s.drawStatusLine(cols, rows)
	if s.state.ShowHelp {
		s.drawHelp(centerX, centerY)
	}
}

// writeAt writes styled text whose visible width is that of plain, clipped to the
// canvas, and remembers the cells for repainting.
func (s *Session) writeAt(col, row int, plain string, style lipgloss.Style) {
	cols := s.canvas.TerminalWidth()
	width := lipgloss.Width(plain)
	if row < 1 || row > s.canvas.TerminalHeight() || col < 1 || col+width-1 > cols {
		return
	}
	s.chunkWriter.WriteAt(col, row, style.Render(plain))
	s.state.markOverlay(col, row, width)
}

// writeCentered writes plain text centered on centerX.
func (s *Session) writeCentered(centerX, row int, plain string, style lipgloss.Style) {
	s.writeAt(centerX-lipgloss.Width(plain)/2+1, row, plain, style)
}

// drawHero draws the title section. It moves up with the page and fades out
// over the hero height.
func (s *Session) drawHero(cols, rows int) {
	opacity, scale := s.page.HeroFade()
	if opacity <= 0 {
		return
	}
	_, cellHeight := s.canvas.CellSize()
	scrolled := int(math.Round(s.page.ScrollY / cellHeight))
	row := int(float64(rows)/2*scale) - scrolled

	title := s.cfg.Page.Title
	if lipgloss.Width(title) > cols {
		title = strings.ReplaceAll(title, "   ", " ")
		title = strings.ReplaceAll(title, " ", "")
	}
	s.writeCentered(cols/2, row, title, s.styles.heroStyle(s.canvas.Background(), opacity))

	if s.cfg.Page.Subtitle != "" && opacity > 0.3 {
		s.writeCentered(cols/2, row+2, s.cfg.Page.Subtitle, s.styles.subtitle)
	}
}

// drawStatusLine draws the scroll position and the current speed on the last row.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (s *Session) drawStatusLine(cols, rows int) {
	if rows < 3 {
		return
	}
	progress := s.page.Progress()
	filled := int(math.Round(progress * progressBarWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
	s.writeAt(2, rows, bar, s.styles.bar)

	info := fmt.Sprintf(" %3.0f%%  speed %4.2fx", progress*100, s.field.SpeedMultiplier())
	s.writeAt(2+progressBarWidth, rows, info, s.styles.status)

	hint := "? help  q quit"
	s.writeAt(cols-lipgloss.Width(hint), rows, hint, s.styles.status)
}

// drawHelp draws the key bindings box.
func (s *Session) drawHelp(centerX, centerY int) {
	lines := []string{
		"Controls",
		"",
		"j / k / wheel  . . scroll",
		"space / b  . . . . page",
		"g / G  . . . top / bottom",
		"mouse  . . . . look around",
		"?  . . . . . . toggle help",
		"q  . . . . . . . . . quit",
	}
	box := strings.Split(s.styles.help.Render(strings.Join(lines, "\n")), "\n")
	top := centerY - len(box)/2
	for i, line := range box {
		width := lipgloss.Width(line)
		col := centerX - width/2 + 1
		if top+i < 1 || top+i > s.canvas.TerminalHeight() || col < 1 || col+width-1 > s.canvas.TerminalWidth() {
			continue
		}
		s.chunkWriter.WriteAt(col, top+i, line)
		s.state.markOverlay(col, top+i, width)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (s *Session) drawInactivityScreen(centerX, centerY int) {
	s.writeCentered(centerX, centerY-2, "INACTIVITY WARNING", s.styles.warn)

	left := s.idleDisconnect - s.clock().Sub(s.state.lastInput)
	msg := fmt.Sprintf("You have been inactive for too long. You will be disconnected in %d seconds.",
		max(0, int(left/time.Second)))
	s.writeCentered(centerX, centerY, msg, s.styles.text)

	s.writeCentered(centerX, centerY+2, "Press any key to continue", s.styles.status)
}

// drawShutdownScreen draws the server shutdown notice.
func (s *Session) drawShutdownScreen(centerX, centerY int) {
	s.writeCentered(centerX, centerY-2, "SERVER SHUTTING DOWN", s.styles.warn)

	seconds := int(math.Ceil(s.state.shutdownTimer.Seconds()))
	msg := fmt.Sprintf("Disconnecting in %d seconds", max(0, seconds))
	s.writeCentered(centerX, centerY, msg, s.styles.text)
}
