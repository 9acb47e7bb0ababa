package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/softsim/internal/experiment"
	"github.com/san-kum/softsim/internal/geom"
	"github.com/san-kum/softsim/internal/grabber"
	"github.com/san-kum/softsim/internal/softbody"
	"github.com/san-kum/softsim/internal/world"
	"go.uber.org/zap"
)

const (
	fps             = 60
	panelWidth      = 38
	historyCapacity = 120

	defaultWidth  = 60
	defaultHeight = 22

	moveStep      = 0.05
	orbitStep     = 0.15
	zoomStep      = 1.15
	complianceMul = 1.25
	squeezeLift   = 0.1
)

var errNotSetup = errors.New("viz: experiment not set up")

// TickMsg advances the viewer by one frame.
type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type Option func(*Model)

func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.log = l }
}

func WithTheme(name string) Option {
	return func(m *Model) { m.theme = indexOfTheme(name) }
}

// WithRecordPath sets where the c key writes its GIF.
func WithRecordPath(path string) Option {
	return func(m *Model) { m.recordPath = path }
}

// Model is the live viewer: it steps the experiment's world once per
// frame and lets the user poke the body with a sphere or the mouse.
type Model struct {
	world *world.World
	body  *softbody.Body
	dt    float64
	log   *zap.Logger

	canvas   *Canvas
	camera   *Camera
	renderer *Renderer

	sphere  *grabber.Sphere
	pointer *grabber.Pointer

	volume     []float64
	params     []string
	selected   int
	theme      int
	styles     styles
	showHelp   bool
	rec        *Recorder
	recording  bool
	recordPath string
	status     string
	err        error
}

// NewModel wraps an experiment whose Setup has already run.
func NewModel(e *experiment.Experiment, opts ...Option) (Model, error) {
	if e == nil || e.World() == nil {
		return Model{}, errNotSetup
	}
	cfg := e.Config()
	body := e.Body()
	center := body.Centroid()

	m := Model{
		world:      e.World(),
		body:       body,
		dt:         cfg.Run.Dt,
		log:        zap.NewNop(),
		canvas:     NewCanvas(defaultWidth, defaultHeight),
		camera:     NewCamera(center, fps),
		sphere:     grabber.NewSphere(center, 0.2),
		pointer:    grabber.NewPointer(),
		volume:     make([]float64, 0, historyCapacity),
		params:     []string{"edge_compliance", "volume_compliance"},
		rec:        NewRecorder(),
		recordPath: "softsim.gif",
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.renderer = NewRenderer(m.canvas, m.camera)
	m.styles = newStyles(Themes[m.theme])
	m.draw()
	return m, nil
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles keys, mouse drags and frame ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		m.step()
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.recording {
			m.stopRecording()
		}
		return m, tea.Quit
	case " ":
		m.world.TogglePause()
	case "r":
		m.reset()
	case "w":
		m.moveSphere(mgl64.Vec3{0, 0, -moveStep})
	case "s":
		m.moveSphere(mgl64.Vec3{0, 0, moveStep})
	case "a":
		m.moveSphere(mgl64.Vec3{-moveStep, 0, 0})
	case "d":
		m.moveSphere(mgl64.Vec3{moveStep, 0, 0})
	case "e":
		m.moveSphere(mgl64.Vec3{0, moveStep, 0})
	case "f":
		m.moveSphere(mgl64.Vec3{0, -moveStep, 0})
	case "g":
		m.toggleGrab()
	case "v":
		m.body.Squeeze(m.world.Config().Min.Y() + squeezeLift)
		m.status = "squeezed"
	case "x":
		m.camera.Orbit(0, orbitStep)
	case "X":
		m.camera.Orbit(0, -orbitStep)
	case "y":
		m.camera.Orbit(orbitStep, 0)
	case "Y":
		m.camera.Orbit(-orbitStep, 0)
	case "+", "=":
		m.camera.ZoomBy(zoomStep)
	case "-", "_":
		m.camera.ZoomBy(1 / zoomStep)
	case "tab":
		m.selected = (m.selected + 1) % len(m.params)
	case "k", "up":
		m.scaleParam(complianceMul)
	case "j", "down":
		m.scaleParam(1 / complianceMul)
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = newStyles(Themes[m.theme])
	case "c":
		if m.recording {
			m.stopRecording()
		} else {
			m.rec.Reset()
			m.recording = true
			m.status = "recording"
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// handleMouse drives the pointer grabber. The canvas starts one row below
// the header and inside a one-cell border.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	x := float64((msg.X-1)*2) + 1
	y := float64((msg.Y-2)*4) + 2
	w, h := m.canvas.Dots()
	ray := m.camera.Ray(x, y, w, h)

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.pointer.StartGrab(ray, m.world.Grabbables()) {
			m.status = fmt.Sprintf("mouse grabbed vertex %d", m.pointer.Vertex())
		}
	case msg.Action == tea.MouseActionMotion && m.pointer.Held():
		m.pointer.MoveGrab(ray)
	case msg.Action == tea.MouseActionRelease && m.pointer.Held():
		m.pointer.EndGrab(ray, m.dt)
		m.status = "mouse released"
	}
}

func (m *Model) resize(w, h int) {
	cw, ch := w-panelWidth-4, h-4
	if cw < 20 {
		cw = 20
	}
	if ch < 8 {
		ch = 8
	}
	m.canvas = NewCanvas(cw, ch)
	m.renderer.Canvas = m.canvas
	m.draw()
}

// moveSphere keeps the sphere center inside the world box.
func (m *Model) moveSphere(d mgl64.Vec3) {
	wc := m.world.Config()
	next := m.sphere.Center.Add(d)
	if !(geom.AABB{Min: wc.Min, Max: wc.Max}).Contains(next) {
		m.status = "sphere at the wall"
		return
	}
	m.sphere.MoveTo(next)
}

func (m *Model) toggleGrab() {
	if m.sphere.Held() {
		m.sphere.EndGrab(m.dt)
		m.status = "released"
		return
	}
	if m.sphere.StartGrab(m.world.Grabbables()) {
		m.status = fmt.Sprintf("grabbed vertex %d", m.sphere.Vertex())
		m.log.Debug("sphere grab", zap.Int("vertex", m.sphere.Vertex()))
	} else {
		m.status = "nothing inside the sphere"
	}
}

func (m *Model) scaleParam(f float64) {
	opts := m.body.Options()
	switch m.params[m.selected] {
	case "edge_compliance":
		m.body.SetEdgeCompliance(max(opts.EdgeCompliance, 1e-6) * f)
	case "volume_compliance":
		m.body.SetVolumeCompliance(max(opts.VolumeCompliance, 1e-9) * f)
	}
}

func (m *Model) reset() {
	m.body.Reset()
	m.sphere = grabber.NewSphere(m.body.Centroid(), m.sphere.Radius)
	m.pointer = grabber.NewPointer()
	m.volume = m.volume[:0]
	m.err = nil
	m.world.SetPaused(false)
	m.status = "reset"
}

func (m *Model) stopRecording() {
	m.recording = false
	if err := m.rec.Save(m.recordPath); err != nil {
		m.status = "record failed: " + err.Error()
		m.log.Warn("gif save failed", zap.Error(err))
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", m.rec.Len(), m.recordPath)
}

func (m *Model) step() {
	if !m.world.Paused() && m.err == nil {
		if err := m.world.Step(m.dt); err != nil {
			m.err = err
			m.world.SetPaused(true)
			m.log.Warn("viewer paused on error", zap.Error(err))
		}
		m.recordVolume()
	}
	m.camera.Update()
	m.draw()
	if m.recording && !m.rec.Add(m.canvas, Themes[m.theme]) {
		m.stopRecording()
	}
}

func (m *Model) recordVolume() {
	rest := m.body.RestVolume()
	if rest == 0 {
		return
	}
	m.volume = append(m.volume, m.body.Volume()/rest)
	if len(m.volume) > historyCapacity {
		m.volume = m.volume[1:]
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	cfg := m.world.Config()
	m.renderer.Floor(cfg.Min, cfg.Max)
	if pos, tris := m.body.Display(); len(tris) > 0 {
		m.renderer.Triangles(pos, tris)
	} else {
		m.renderer.Triangles(m.body.Positions(), m.body.SurfaceTris())
	}
	m.renderer.Sphere(m.sphere.Center, m.sphere.Radius)
}

// View renders the canvas beside the stats panel.
func (m Model) View() string {
	st := m.styles
	state := "RUNNING"
	switch {
	case m.err != nil:
		state = st.warn.Render("DIVERGED")
	case m.world.Paused():
		state = st.warn.Render("PAUSED")
	case m.recording:
		state = st.warn.Render("● REC")
	}
	header := st.header.Render("SOFTSIM · "+strings.ToUpper(m.body.Name())) + "  " + state

	canvas := st.canvas.Render(st.body.Render(m.canvas.String()))
	side := m.panel()
	if m.showHelp {
		side = st.help.Render(helpText(st))
	}
	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, canvas, side)
}

func (m Model) panel() string {
	st := m.styles
	row := func(label, value string) string {
		return st.label.Render(fmt.Sprintf("%-12s", label)) + st.value.Render(value) + "\n"
	}

	ratio := 0.0
	if rest := m.body.RestVolume(); rest != 0 {
		ratio = m.body.Volume() / rest
	}
	opts := m.body.Options()

	var b strings.Builder
	b.WriteString(row("time", fmt.Sprintf("%.2fs", m.world.Time())))
	b.WriteString(row("tick", fmt.Sprintf("%d", m.world.Tick())))
	b.WriteString(row("volume", fmt.Sprintf("%.3f", ratio)))
	b.WriteString(st.graph.Render(Gauge(ratio, 30)) + "\n")
	b.WriteString(row("energy", fmt.Sprintf("%.4f", m.body.KineticEnergy())))
	b.WriteString(row("strain", fmt.Sprintf("%.4f", m.body.MeanEdgeStrain())))
	b.WriteString(row("particles", fmt.Sprintf("%d", m.body.NumParticles())))
	b.WriteString("\n")

	for i, p := range m.params {
		v := opts.EdgeCompliance
		if p == "volume_compliance" {
			v = opts.VolumeCompliance
		}
		label := p
		if i == m.selected {
			label = "▸ " + p
		}
		b.WriteString(row(label, fmt.Sprintf("%.3g", v)))
	}
	b.WriteString("\n")

	grab := "none"
	if m.sphere.Held() {
		grab = fmt.Sprintf("sphere v%d", m.sphere.Vertex())
	} else if m.pointer.Held() {
		grab = fmt.Sprintf("mouse v%d", m.pointer.Vertex())
	}
	c := m.sphere.Center
	b.WriteString(row("grab", grab))
	b.WriteString(row("sphere", fmt.Sprintf("%.2f %.2f %.2f", c.X(), c.Y(), c.Z())))
	b.WriteString(row("theme", Themes[m.theme].Name))

	if len(m.volume) > 1 {
		b.WriteString("\n")
		b.WriteString(st.graph.Render(asciigraph.Plot(m.volume,
			asciigraph.Height(5),
			asciigraph.Width(panelWidth-18),
			asciigraph.Caption("volume / rest"),
		)))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n" + st.warn.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString("\n" + st.label.Render(m.status) + "\n")
	}
	b.WriteString(st.label.Render("? help"))
	return st.panel.Render(b.String())
}

func helpText(st styles) string {
	keys := [][2]string{
		{"w a s d", "move sphere"},
		{"e f", "sphere up / down"},
		{"g", "grab / release"},
		{"mouse", "drag a vertex"},
		{"v", "squeeze"},
		{"space", "pause"},
		{"r", "reset"},
		{"x X y Y", "orbit"},
		{"+ -", "zoom"},
		{"tab j k", "compliance"},
		{"t", "theme"},
		{"c", "record gif"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(st.header.Render("KEYS") + "\n\n")
	for _, k := range keys {
		b.WriteString(st.key.Render(fmt.Sprintf("%-9s", k[0])) + " " + k[1] + "\n")
	}
	return b.String()
}

func indexOfTheme(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

// Run opens the viewer full screen with mouse support.
func Run(e *experiment.Experiment, opts ...Option) error {
	m, err := NewModel(e, opts...)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
