package export

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/viz"
)

// MeshStyle sets the colors of a mesh snapshot.
type MeshStyle struct {
	Background string
	Fill       string
	Stroke     string
	// Shade darkens faces turned away from the light along the view axis.
	Shade bool
}

func DefaultMeshStyle() MeshStyle {
	return MeshStyle{Background: "#0a0a0a", Fill: "#ff5fd7", Stroke: "#1a001a", Shade: true}
}

type face struct {
	pts   [3][2]float64
	depth float64
	light float64
}

// MeshToSVG draws the front-facing triangles of a mesh as filled polygons,
// farthest first. It returns the number of faces written.
func MeshToSVG(out io.Writer, pos []mgl64.Vec3, tris []int, cam *viz.Camera, w, h int, style MeshStyle) (int, error) {
	r := viz.NewRenderer(viz.NewCanvas(1, 1), cam)

	faces := make([]face, 0, len(tris)/3)
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := pos[tris[i]], pos[tris[i+1]], pos[tris[i+2]]
		if !r.FacesEye(a, b, c) {
			continue
		}
		var f face
		ok := true
		for k, p := range [3]mgl64.Vec3{a, b, c} {
			x, y, d, vis := cam.Project(p, w, h)
			if !vis {
				ok = false
				break
			}
			f.pts[k] = [2]float64{x, y}
			f.depth += d / 3
		}
		if !ok {
			continue
		}
		f.light = 1
		if style.Shade {
			va, vb, vc := cam.View(a), cam.View(b), cam.View(c)
			if n := vb.Sub(va).Cross(vc.Sub(va)); n.Len() > 0 {
				f.light = 0.35 + 0.65*math.Abs(n.Normalize().Z())
			}
		}
		faces = append(faces, f)
	}
	sort.SliceStable(faces, func(i, j int) bool { return faces[i].depth > faces[j].depth })

	var sb strings.Builder
	header(&sb, w, h, style.Background)
	fmt.Fprintf(&sb, "<g stroke=\"%s\" stroke-width=\"0.5\" stroke-linejoin=\"round\">\n", style.Stroke)
	for _, f := range faces {
		fmt.Fprintf(&sb, "<polygon points=\"%.1f,%.1f %.1f,%.1f %.1f,%.1f\" fill=\"%s\" fill-opacity=\"%.2f\"/>\n",
			f.pts[0][0], f.pts[0][1], f.pts[1][0], f.pts[1][1], f.pts[2][0], f.pts[2][1],
			style.Fill, f.light)
	}
	sb.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(out, sb.String())
	return len(faces), err
}

// CanvasToSVG renders each lit braille dot as a circle, scale pixels per
// dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}
	dw, dh := canvas.Dots()

	var sb strings.Builder
	header(&sb, int(float64(dw)*scale), int(float64(dh)*scale), "#0a0a0a")
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", color)
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					(float64(x)+0.5)*scale, (float64(y)+0.5)*scale, scale*0.4)
			}
		}
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// SeriesToSVG plots ys against xs as a polyline with 10% padding.
func SeriesToSVG(xs, ys []float64, width, height int, stroke string) string {
	n := min(len(xs), len(ys))
	if n < 2 {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 0; i < n; i++ {
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
	}
	rx, ry := maxX-minX, maxY-minY
	if rx == 0 {
		rx = 1
	}
	if ry == 0 {
		ry = 1
	}
	minX, rx = minX-rx*0.1, rx*1.2
	minY, ry = minY-ry*0.1, ry*1.2

	var sb strings.Builder
	header(&sb, width, height, "#0a0a0a")
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", stroke)
	for i := 0; i < n; i++ {
		x := (xs[i] - minX) / rx * float64(width)
		y := float64(height) - (ys[i]-minY)/ry*float64(height)
		cmd := " L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, x, y)
	}
	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}

func header(sb *strings.Builder, w, h int, bg string) {
	fmt.Fprintf(sb, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"+
		"<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n"+
		"<rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n", w, h, w, h, bg)
}
