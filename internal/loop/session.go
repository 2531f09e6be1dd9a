package loop

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/tomz197/asteroidfield/internal/config"
	"github.com/tomz197/asteroidfield/internal/draw"
	"github.com/tomz197/asteroidfield/internal/field"
	"github.com/tomz197/asteroidfield/internal/input"
	"github.com/tomz197/asteroidfield/internal/loop/server"
	"github.com/tomz197/asteroidfield/internal/page"
)

// Session hosts one field in one terminal: it reads input, tracks the page scroll,
// follows terminal resizes and renders every frame.
type Session struct {
	cfg    *config.Config
	logger *log.Logger
	clock  func() time.Time

	field  *field.Field
	page   *page.Page
	canvas *draw.Canvas
	state  *SessionState

	writer       io.Writer
	chunkWriter  *draw.ChunkWriter // Accumulates canvas and overlay output for chunked writes
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	events       <-chan server.Event

	idleWarn       time.Duration // 0 disables the inactivity warning
	idleDisconnect time.Duration // 0 disables the inactivity disconnect

	styles styles
}

// Options configures a session.
type Options struct {
	Config       *config.Config // nil uses config.Default()
	Logger       *log.Logger    // nil uses log.Default()
	TermSizeFunc draw.TermSizeFunc
	Events       <-chan server.Event // Server events (shutdown); nil for standalone sessions
	Seed         int64               // 0 picks a seed from the clock unless the config sets one
	Clock        func() time.Time

	IdleWarn       time.Duration
	IdleDisconnect time.Duration
}

// NewSession creates a session reading input from r and writing frames to w.
func NewSession(r *bufio.Reader, w io.Writer, opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Render.Seed
	}
	if seed == 0 {
		seed = clock().UnixNano()
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(cfg.Render, termWidth, termHeight)
	canvas := draw.NewCanvas(renderWidth, renderHeight, cfg.Render.CellWidth, cfg.Render.CellHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	width, height := canvas.Size()
	f, err := field.New(cfg.Field, seed, width, height)
	if err != nil {
		return nil, err
	}

	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(termenv.TrueColor)

	s := &Session{
		cfg:            cfg,
		logger:         logger,
		clock:          clock,
		field:          f,
		page:           page.New(height*cfg.Page.Screens, height, height*cfg.Page.HeroScreens),
		canvas:         canvas,
		state:          NewSessionState(clock()),
		writer:         w,
		chunkWriter:    draw.NewChunkWriter(w, offsetCol, offsetRow),
		termSizeFunc:   termSizeFunc,
		events:         opts.Events,
		idleWarn:       opts.IdleWarn,
		idleDisconnect: opts.IdleDisconnect,
		styles:         newStyles(renderer),
	}
	if r != nil {
		s.inputStream = input.StartStream(r)
	}
	s.field.SetScrollProgress(s.page.Progress())

	logger.Debug("session created", "seed", seed, "cols", renderWidth, "rows", renderHeight, "field", f)
	return s, nil
}

// Field returns the hosted field.
func (s *Session) Field() *field.Field {
	return s.field
}

// Page returns the virtual page the viewer scrolls.
func (s *Session) Page() *page.Page {
	return s.page
}

// State returns the session state.
func (s *Session) State() *SessionState {
	return s.state
}

// Run prepares the terminal and runs frames until ctx is done, the viewer quits
// or the server shuts down. The terminal is restored on return.
func (s *Session) Run(ctx context.Context) error {
	draw.EnterAltScreen(s.writer)
	draw.HideCursor(s.writer)
	if s.cfg.Render.Mouse {
		draw.EnableMouse(s.writer)
	}
	draw.ClearScreen(s.writer)

	defer func() {
		if s.cfg.Render.Mouse {
			draw.DisableMouse(s.writer)
		}
		draw.ShowCursor(s.writer)
		draw.ExitAltScreen(s.writer)
	}()

	driver := Driver{FrameTime: s.cfg.Render.FrameTime()}
	return driver.Run(ctx, s.Frame)
}

// Frame reads pending input and runs one frame. It returns ErrStop when the
// session should end.
func (s *Session) Frame(delta time.Duration) error {
	var in input.Input
	if s.inputStream != nil {
		in = input.ReadInput(s.inputStream)
	}
	return s.frame(delta, in)
}

func (s *Session) frame(delta time.Duration, in input.Input) error {
	if stop := s.processInput(in); stop {
		return ErrStop
	}
	if stop := s.processServerEvents(delta); stop {
		return ErrStop
	}
	s.updateScreen()
	s.applyInput(in)

	s.field.SetScrollProgress(s.page.Progress())
	return s.drawFrame()
}

// processInput tracks activity and reports whether the session should end.
func (s *Session) processInput(in input.Input) bool {
	now := s.clock()
	idle := now.Sub(s.state.lastInput)

	switch {
	case in.Active():
		s.state.lastInput = now
		s.state.isInactive = false
	case s.idleDisconnect > 0 && idle > s.idleDisconnect:
		s.logger.Info("disconnecting inactive viewer", "idle", idle.Round(time.Second))
		return true
	case s.idleWarn > 0 && idle > s.idleWarn:
		s.state.isInactive = true
	}

	return in.Quit
}

// processServerEvents handles events from the server and runs the shutdown countdown.
func (s *Session) processServerEvents(delta time.Duration) bool {
	if s.state.shuttingDown {
		s.state.shutdownTimer -= delta
		if s.state.shutdownTimer <= 0 {
			return true
		}
	}
	if s.events == nil {
		return false
	}
	for {
		select {
		case event, ok := <-s.events:
			if !ok {
				// Server closed the channel
				return true
			}
			if event.Type == server.EventServerShutdown && !s.state.shuttingDown {
				s.state.shuttingDown = true
				s.state.shutdownTimer = s.cfg.SSH.ShutdownNotice
			}
		default:
			return false
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (s *Session) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(s.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(s.cfg.Render, termWidth, termHeight)

	if renderWidth == s.canvas.TerminalWidth() && renderHeight == s.canvas.TerminalHeight() &&
		offsetCol == s.canvas.OffsetCol() && offsetRow == s.canvas.OffsetRow() {
		return
	}

	s.chunkWriter.WriteString("\033[H\033[2J")
	s.canvas.ForceRedraw()
	s.canvas.Resize(renderWidth, renderHeight)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.chunkWriter.SetOffset(offsetCol, offsetRow)
	s.state.overlay = s.state.overlay[:0]

	width, height := s.canvas.Size()
	s.field.SetViewport(width, height)

	// Keep the reading position when the viewport changes.
	progress := s.page.Progress()
	s.page.ContentHeight = height * s.cfg.Page.Screens
	s.page.HeroHeight = height * s.cfg.Page.HeroScreens
	s.page.SetViewport(height)
	s.page.ScrollTo(progress * s.page.Max())

	s.logger.Debug("terminal resized", "cols", renderWidth, "rows", renderHeight, "width", width, "height", height)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(r config.Render, termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = max(termWidth, 0)
	renderHeight = max(termHeight, 0)
	if renderWidth > r.MaxCols {
		renderWidth = r.MaxCols
	}
	if renderHeight > r.MaxRows {
		renderHeight = r.MaxRows
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// applyInput moves the page and the pointer.
func (s *Session) applyInput(in input.Input) {
	if in.Help {
		s.state.ShowHelp = !s.state.ShowHelp
	}

	_, cellHeight := s.canvas.CellSize()
	switch {
	case in.Top:
		s.page.Top()
	case in.Bottom:
		s.page.Bottom()
	}
	if in.ScrollLines != 0 {
		s.page.ScrollBy(float64(in.ScrollLines) * cellHeight)
	}
	if in.ScrollPages != 0 {
		s.page.ScrollBy(float64(in.ScrollPages) * s.page.ViewportHeight)
	}

	if s.page.Degenerate() && !s.state.degenerateLogged {
		s.logger.Debug("page has nothing to scroll, speed stays at maximum",
			"content", s.page.ContentHeight, "viewport", s.page.ViewportHeight)
		s.state.degenerateLogged = true
	}

	if in.PointerMoved {
		s.field.SetPointer(s.canvas.TerminalToLogical(in.PointerCol, in.PointerRow))
	}
}

// drawFrame steps the field on the canvas and writes the frame with its overlay.
func (s *Session) drawFrame() error {
	// On inactivity transitions, do a full terminal clear
	// so the warning does not persist on screen.
	if s.state.isInactive != s.state.wasInactive {
		s.chunkWriter.WriteString("\033[H\033[2J")
		s.canvas.ForceRedraw()
		s.state.wasInactive = s.state.isInactive
		s.state.overlay = s.state.overlay[:0]
	}

	s.field.Step(s.canvas)

	// Cells covered by last frame's overlay get repainted before the new overlay.
	for _, r := range s.state.overlay {
		s.canvas.Invalidate(r.col, r.row, r.width)
	}
	s.state.overlay = s.state.overlay[:0]

	if err := s.canvas.Render(s.chunkWriter); err != nil {
		return err
	}
	if err := s.canvas.RenderBorder(s.chunkWriter); err != nil {
		return err
	}

	s.drawOverlay()

	return s.chunkWriter.Flush()
}
