package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/config"
	"github.com/san-kum/softsim/internal/experiment"
)

func newTestModel(t *testing.T, opts ...Option) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Mesh.Resolution = 3
	cfg.Mesh.DisplayResolution = 4
	e := experiment.New(cfg)
	if err := e.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	m, err := NewModel(e, opts...)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestNewModelRequiresSetup(t *testing.T) {
	if _, err := NewModel(experiment.New(config.DefaultConfig())); err == nil {
		t.Error("expected error for an experiment without Setup")
	}
	if _, err := NewModel(nil); err == nil {
		t.Error("expected error for nil experiment")
	}
}

func TestModelTick(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(TickMsg{})
	m = next.(Model)
	if cmd == nil {
		t.Error("tick should schedule the next frame")
	}
	if m.world.Tick() != 1 || len(m.volume) != 1 {
		t.Errorf("tick=%d history=%d, want 1 and 1", m.world.Tick(), len(m.volume))
	}

	m = send(m, key(" "), TickMsg{}, TickMsg{})
	if !m.world.Paused() || m.world.Tick() != 1 {
		t.Errorf("paused viewer stepped: paused=%v tick=%d", m.world.Paused(), m.world.Tick())
	}
	m = send(m, key(" "), TickMsg{})
	if m.world.Tick() != 2 {
		t.Errorf("tick = %d after resume, want 2", m.world.Tick())
	}
}

func TestModelSphereGrab(t *testing.T) {
	m := newTestModel(t)
	center := m.body.Centroid()

	m = send(m, key("g"))
	if !m.sphere.Held() {
		t.Fatalf("grab failed: %s", m.status)
	}
	v := m.sphere.Vertex()
	if m.body.InvMass(v) != 0 {
		t.Error("held vertex should be pinned")
	}

	m = send(m, key("d"), key("e"))
	want := center.Add(mgl64.Vec3{moveStep, moveStep, 0})
	if got := m.body.Positions()[v]; !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("dragged vertex at %v, want %v", got, want)
	}

	m = send(m, key("g"))
	if m.sphere.Held() || m.body.InvMass(v) == 0 {
		t.Error("release should restore the vertex")
	}
	if m.body.IsGrabbed(v) {
		t.Error("body still holds the vertex")
	}
}

func TestModelSqueezeAndReset(t *testing.T) {
	m := newTestModel(t)
	rest := append([]mgl64.Vec3(nil), m.body.Positions()...)

	m = send(m, key("v"))
	floor := m.world.Config().Min.Y() + squeezeLift
	for i, p := range m.body.Positions() {
		if p.Y() != floor {
			t.Fatalf("particle %d at y=%v, want %v", i, p.Y(), floor)
		}
	}

	m = send(m, key("g"), TickMsg{}, key("r"))
	if m.sphere.Held() || m.status != "reset" {
		t.Error("reset should drop the grab")
	}
	for i, p := range m.body.Positions() {
		if p != rest[i] {
			t.Fatalf("particle %d not restored", i)
		}
	}
	if len(m.volume) != 0 {
		t.Error("reset should clear the volume history")
	}
}

func TestModelCompliance(t *testing.T) {
	m := newTestModel(t)
	before := m.body.Options().EdgeCompliance

	m = send(m, key("k"))
	if got := m.body.Options().EdgeCompliance; got != before*complianceMul {
		t.Errorf("edge compliance = %v, want %v", got, before*complianceMul)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyTab}, key("k"))
	if got := m.body.Options().VolumeCompliance; got <= 0 {
		t.Errorf("zero volume compliance should become positive, got %v", got)
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m = send(m, TickMsg{}, TickMsg{})

	v := m.View()
	for _, s := range []string{"SOFTSIM", "JELLY", "volume", "particles", "? help"} {
		if !strings.Contains(v, s) {
			t.Errorf("view missing %q", s)
		}
	}

	m = send(m, key("?"))
	if !strings.Contains(m.View(), "KEYS") {
		t.Error("help overlay not shown")
	}

	m = send(m, key("t"))
	if Themes[m.theme].Name != "phosphor" {
		t.Errorf("theme = %s", Themes[m.theme].Name)
	}
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.canvas.Width != 120-panelWidth-4 || m.canvas.Height != 36 {
		t.Errorf("canvas %dx%d", m.canvas.Width, m.canvas.Height)
	}
	if m.renderer.Canvas != m.canvas {
		t.Error("renderer still draws on the old canvas")
	}

	m = send(m, tea.WindowSizeMsg{Width: 10, Height: 3})
	if m.canvas.Width != 20 || m.canvas.Height != 8 {
		t.Errorf("small window gave canvas %dx%d", m.canvas.Width, m.canvas.Height)
	}
}

func TestModelMouseDrag(t *testing.T) {
	m := newTestModel(t)
	top := mgl64.Vec3{0, 2, 0}
	w, h := m.canvas.Dots()
	x, y, _, _ := m.camera.Project(top, w, h)
	cx, cy := int(x)/2+1, int(y)/4+2

	m = send(m, tea.MouseMsg{X: cx, Y: cy, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.pointer.Held() {
		t.Fatal("mouse press over the body should grab")
	}
	v := m.pointer.Vertex()

	m = send(m,
		tea.MouseMsg{X: cx + 2, Y: cy, Action: tea.MouseActionMotion},
		tea.MouseMsg{X: cx + 2, Y: cy, Action: tea.MouseActionRelease},
	)
	if m.pointer.Held() || m.body.IsGrabbed(v) {
		t.Error("mouse release should end the grab")
	}
}

func TestModelRecording(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	m := newTestModel(t, WithRecordPath(path), WithTheme("mono"))
	if Themes[m.theme].Name != "mono" {
		t.Errorf("theme option ignored")
	}

	m = send(m, key("c"), TickMsg{}, TickMsg{}, TickMsg{}, key("c"))
	if m.recording {
		t.Error("still recording")
	}
	if !strings.Contains(m.status, "saved 3 frames") {
		t.Errorf("status = %q", m.status)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("gif not written: %v", err)
	}
}

func TestRecorderEmpty(t *testing.T) {
	r := NewRecorder()
	if err := r.Save(filepath.Join(t.TempDir(), "x.gif")); err != ErrNoFrames {
		t.Errorf("err = %v, want ErrNoFrames", err)
	}

	r.MaxFrames = 1
	c := NewCanvas(2, 2)
	if !r.Add(c, Themes[0]) || r.Add(c, Themes[0]) {
		t.Error("MaxFrames not enforced")
	}
}
