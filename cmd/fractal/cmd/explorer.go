package cmd

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	fractal "github.com/Is-This-a-JoJo-Reference/Fractals-project"
	"github.com/Is-This-a-JoJo-Reference/Fractals-project/pkg/csi"
)

var (
	// Color palette
	accentColor = lipgloss.Color("#04B575")
	textColor   = lipgloss.Color("#FAFAFA")
	mutedColor  = lipgloss.Color("#626262")
	errorColor  = lipgloss.Color("#FF5F87")

	statusStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(lipgloss.Color("#1A1A1A")).
			PaddingLeft(1).
			PaddingRight(1)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	legendStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			PaddingLeft(1)

	legendKeyStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(textColor).
			PaddingLeft(1)
)

// chromeRows is the screen space reserved below the fractal raster.
const chromeRows = 2 // status bar + legend line

type promptKind int

const (
	promptNone promptKind = iota
	promptJulia
	promptAspect
	promptIters
	promptExport
)

// outcomeMsg delivers a finished async cell frame to the update loop.
type outcomeMsg fractal.RenderOutcome

// mosaicMsg delivers a finished halfblock frame.
type mosaicMsg struct {
	frame string
	dur   time.Duration
	err   error
}

// exportDoneMsg reports a background PNG export.
type exportDoneMsg struct {
	path string
	err  error
}

type model struct {
	store    *fractal.ViewStore
	renderer *fractal.AsyncRenderer

	kind        fractal.Kind
	palette     fractal.Palette
	aspect      float64
	iters       int
	newtonIters int

	width  int // terminal size in cells
	height int
	gridW  int // raster size handed to the renderer
	gridH  int

	frame    string
	frameDur time.Duration
	frameErr error

	// Halfblock frames render on demand via tea commands; busy/dirty keep
	// at most one in flight and re-render once it lands.
	halfblocks  bool
	mosaicBusy  bool
	mosaicDirty bool

	prompt   promptKind
	input    textinput.Model
	status   string
	showHelp bool

	regionIdx int
	exportW   int
	exportH   int
}

func runExplorer() error {
	aspect := fractal.DefaultAspect
	if a, ok := csi.CellAspect(); ok {
		aspect = min(max(a, fractal.MinAspect), fractal.MaxAspect)
	}

	ti := textinput.New()
	ti.CharLimit = 64

	m := model{
		store:       fractal.NewViewStore(),
		renderer:    fractal.NewAsyncRenderer(),
		kind:        fractal.Mandelbrot,
		palette:     fractal.Grayscale,
		aspect:      aspect,
		iters:       fractal.DefaultMaxIter,
		newtonIters: fractal.DefaultNewtonIter,
		input:       ti,
		regionIdx:   -1,
		exportW:     1920,
		exportH:     1080,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd {
	return m.listen()
}

// listen blocks on the renderer's outcome channel and feeds the result back
// into the update loop. It is re-issued after every received frame.
func (m model) listen() tea.Cmd {
	r := m.renderer
	return func() tea.Msg {
		return outcomeMsg(<-r.Outcomes())
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.gridW = msg.Width
		m.gridH = max(msg.Height-chromeRows, 1)
		cmd := m.redraw()
		return m, cmd

	case outcomeMsg:
		if msg.Err != nil {
			m.frameErr = msg.Err
		} else if !m.halfblocks && msg.Cells != nil {
			m.frame = msg.Cells.ANSI()
			m.frameDur = msg.Duration
			m.frameErr = nil
		}
		return m, m.listen()

	case mosaicMsg:
		m.mosaicBusy = false
		if msg.err != nil {
			m.frameErr = msg.err
		} else if m.halfblocks {
			m.frame = msg.frame
			m.frameDur = msg.dur
			m.frameErr = nil
		}
		var cmd tea.Cmd
		if m.mosaicDirty {
			m.mosaicDirty = false
			m.mosaicBusy = true
			cmd = m.renderMosaic()
		}
		return m, cmd

	case exportDoneMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("saved %s (%dx%d)", msg.path, m.exportW, m.exportH)
		}
		return m, nil

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "q", "ctrl+c":
		m.renderer.Close()
		return m, tea.Quit

	case "left":
		m.pan(-fractal.FinePanCells, 0)
	case "right":
		m.pan(fractal.FinePanCells, 0)
	case "up":
		m.pan(0, -fractal.FinePanCells)
	case "down":
		m.pan(0, fractal.FinePanCells)
	case "a":
		m.pan(-fractal.CoarsePanCells, 0)
	case "d":
		m.pan(fractal.CoarsePanCells, 0)
	case "w":
		m.pan(0, -fractal.CoarsePanCells)
	case "s":
		m.pan(0, fractal.CoarsePanCells)

	case "+", "=":
		m.zoom(fractal.ZoomInFactor)
	case "-", "_":
		m.zoom(fractal.ZoomOutFactor)

	case "tab":
		m.kind = cycleKind(m.kind, 1)
	case "shift+tab":
		m.kind = cycleKind(m.kind, -1)

	case "p":
		m.palette = cyclePalette(m.palette)
		m.status = "palette: " + m.palette.String()

	case "t":
		m.halfblocks = !m.halfblocks

	case "b":
		regs := fractal.Regions()
		m.regionIdx = (m.regionIdx + 1) % len(regs)
		r := regs[m.regionIdx]
		m.kind = r.Kind
		m.store.Set(r.Kind, r.View(m.gridW))
		m.status = "region: " + r.Name

	case "r":
		m.store.Reset(m.kind)

	case "j":
		v := m.store.Get(fractal.Julia)
		return m.openPrompt(promptJulia, "re,im", fmt.Sprintf("%g,%g", v.JuliaX, v.JuliaY))
	case "i":
		iters := m.iters
		if m.kind.IsNewton() {
			iters = m.newtonIters
		}
		return m.openPrompt(promptIters, "iterations", strconv.Itoa(iters))
	case "A":
		return m.openPrompt(promptAspect, "cell aspect", fmt.Sprintf("%.2f", m.aspect))
	case "e":
		return m.openPrompt(promptExport, "output path", m.kind.String()+".png")

	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "esc":
		m.showHelp = false
		return m, nil

	default:
		return m, nil
	}

	cmd := m.redraw()
	return m, cmd
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = promptNone
		m.input.Blur()
		return m, nil
	case "enter":
		p := m.prompt
		value := strings.TrimSpace(m.input.Value())
		m.prompt = promptNone
		m.input.Blur()
		return m.applyPrompt(p, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) applyPrompt(p promptKind, value string) (tea.Model, tea.Cmd) {
	switch p {
	case promptJulia:
		re, im, err := parsePair(value)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.kind = fractal.Julia
		m.store.Update(fractal.Julia, func(v *fractal.Viewport) {
			v.JuliaX, v.JuliaY = re, im
		})

	case promptAspect:
		a, err := strconv.ParseFloat(value, 64)
		if err != nil {
			m.status = "bad aspect: " + value
			return m, nil
		}
		if a < fractal.MinAspect || a > fractal.MaxAspect {
			m.status = fmt.Sprintf("aspect must be within [%g, %g]", fractal.MinAspect, fractal.MaxAspect)
			return m, nil
		}
		m.aspect = a

	case promptIters:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			m.status = "bad iteration count: " + value
			return m, nil
		}
		if m.kind.IsNewton() {
			m.newtonIters = n
		} else {
			m.iters = n
		}

	case promptExport:
		if value == "" {
			value = m.kind.String() + ".png"
		}
		m.status = "exporting " + value
		return m, m.exportPNG(value)
	}

	cmd := m.redraw()
	return m, cmd
}

// pan moves the current kind's viewport by cell counts; the store keeps the
// position when the user switches kinds.
func (m model) pan(dx, dy float64) {
	m.store.Update(m.kind, func(v *fractal.Viewport) {
		*v = v.Pan(dx, dy, m.aspect)
	})
}

func (m model) zoom(factor float64) {
	m.store.Update(m.kind, func(v *fractal.Viewport) {
		*v = v.Zoom(factor)
	})
}

// redraw schedules rendering of the current state. Cell frames go through
// the latest-wins async renderer; halfblock frames render one at a time.
func (m *model) redraw() tea.Cmd {
	if m.gridW <= 0 || m.gridH <= 0 {
		return nil
	}
	if m.halfblocks {
		if m.mosaicBusy {
			m.mosaicDirty = true
			return nil
		}
		m.mosaicBusy = true
		return m.renderMosaic()
	}
	m.renderer.Request(fractal.RenderRequest{
		Kind:       m.kind,
		View:       m.store.Get(m.kind),
		Width:      m.gridW,
		Height:     m.gridH,
		Aspect:     m.aspect,
		MaxIter:    m.iters,
		NewtonIter: m.newtonIters,
	})
	return nil
}

// renderMosaic renders the current view at two pixels per cell row and folds
// it into unicode halfblocks, matching the cell raster's field of view.
func (m model) renderMosaic() tea.Cmd {
	kind := m.kind
	view := m.store.Get(kind)
	w, h := m.gridW, m.gridH
	aspect := m.aspect
	iters, newtonIters := m.iters, m.newtonIters
	pal := m.palette

	return func() tea.Msg {
		start := time.Now()
		img, err := fractal.New(kind).
			View(view).
			Size(w, 2*h).
			Aspect(aspect).
			Palette(pal).
			MaxIter(iters).
			NewtonIter(newtonIters).
			LiveSize(w, h).
			Image()
		if err != nil {
			return mosaicMsg{err: err}
		}
		var buf bytes.Buffer
		if err := fractal.Preview(&buf, img, fractal.PreviewOptions{
			Protocol: fractal.PreviewHalfblocks,
			Width:    w,
			Height:   h,
		}); err != nil {
			return mosaicMsg{err: err}
		}
		return mosaicMsg{frame: buf.String(), dur: time.Since(start)}
	}
}

// exportPNG renders the on-screen view at export resolution in the
// background, supersampled for smoother edges.
func (m model) exportPNG(path string) tea.Cmd {
	kind := m.kind
	view := m.store.Get(kind)
	w, h := m.exportW, m.exportH
	gridW, gridH := m.gridW, m.gridH
	aspect := m.aspect
	iters, newtonIters := m.iters, m.newtonIters
	pal := m.palette

	return func() tea.Msg {
		img, err := fractal.New(kind).
			View(view).
			Size(w, h).
			Aspect(aspect).
			Palette(pal).
			MaxIter(iters).
			NewtonIter(newtonIters).
			LiveSize(gridW, gridH).
			Supersample(2).
			Image()
		if err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		return exportDoneMsg{path: path, err: fractal.SavePNG(path, img)}
	}
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder

	frame := m.frame
	if m.frameErr != nil {
		frame = errorStyle.Render("render error: " + m.frameErr.Error())
	}
	if frame == "" {
		frame = "rendering..."
	}
	b.WriteString(frame)
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	switch {
	case m.prompt != promptNone:
		b.WriteString(promptStyle.Render(m.promptLabel() + " " + m.input.View()))
	case m.showHelp:
		b.WriteString(m.helpLine())
	default:
		b.WriteString(m.legendLine())
	}

	return b.String()
}

func (m model) statusLine() string {
	v := m.store.Get(m.kind)
	iters := m.iters
	if m.kind.IsNewton() {
		iters = m.newtonIters
	}

	parts := []string{
		statusKeyStyle.Render(m.kind.String()),
		m.kind.Formula(),
		fmt.Sprintf("center (%.6g, %.6g)", v.CenterX, v.CenterY),
		fmt.Sprintf("scale %.3g", v.Scale),
		fmt.Sprintf("iter %d", iters),
		m.palette.String(),
		fmt.Sprintf("aspect %.2g", m.aspect),
	}
	if m.kind == fractal.Julia {
		parts = append(parts, fmt.Sprintf("c = %g%+gi", v.JuliaX, v.JuliaY))
	}
	if m.halfblocks {
		parts = append(parts, "halfblocks")
	}
	if m.frameDur > 0 {
		parts = append(parts, m.frameDur.Round(time.Millisecond).String())
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return statusStyle.Width(m.width).Render(strings.Join(parts, " • "))
}

func (m model) legendLine() string {
	legend := []string{
		legendKeyStyle.Render("arrows/wasd") + " pan",
		legendKeyStyle.Render("+/-") + " zoom",
		legendKeyStyle.Render("tab") + " fractal",
		legendKeyStyle.Render("b") + " regions",
		legendKeyStyle.Render("e") + " export",
		legendKeyStyle.Render("?") + " help",
		legendKeyStyle.Render("q") + " quit",
	}
	return legendStyle.Width(m.width).Render(strings.Join(legend, " • "))
}

func (m model) helpLine() string {
	legend := []string{
		legendKeyStyle.Render("arrows") + " pan fine",
		legendKeyStyle.Render("wasd") + " pan fast",
		legendKeyStyle.Render("+/-") + " zoom",
		legendKeyStyle.Render("tab/shift+tab") + " fractal",
		legendKeyStyle.Render("b") + " regions",
		legendKeyStyle.Render("p") + " palette",
		legendKeyStyle.Render("t") + " halfblocks",
		legendKeyStyle.Render("j") + " julia c",
		legendKeyStyle.Render("i") + " iterations",
		legendKeyStyle.Render("A") + " aspect",
		legendKeyStyle.Render("r") + " reset",
		legendKeyStyle.Render("e") + " export",
	}
	return legendStyle.Width(m.width).Render(strings.Join(legend, " • "))
}

func (m model) promptLabel() string {
	switch m.prompt {
	case promptJulia:
		return "julia c (re,im):"
	case promptAspect:
		return "cell aspect:"
	case promptIters:
		return "iterations:"
	case promptExport:
		return "export path:"
	}
	return ""
}

func (m model) openPrompt(p promptKind, placeholder, initial string) (tea.Model, tea.Cmd) {
	m.prompt = p
	m.input.Placeholder = placeholder
	m.input.SetValue(initial)
	cmd := m.input.Focus()
	return m, cmd
}

func cycleKind(k fractal.Kind, delta int) fractal.Kind {
	kinds := fractal.Kinds()
	idx := 0
	for i, kk := range kinds {
		if kk == k {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(kinds)) % len(kinds)
	return kinds[idx]
}

func cyclePalette(p fractal.Palette) fractal.Palette {
	palettes := fractal.Palettes()
	idx := 0
	for i, pp := range palettes {
		if pp == p {
			idx = i
			break
		}
	}
	return palettes[(idx+1)%len(palettes)]
}
