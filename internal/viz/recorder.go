package viz

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
)

// DefaultMaxFrames caps a recording at 30 seconds of 60 Hz frames.
const DefaultMaxFrames = 1800

var ErrNoFrames = errors.New("viz: no frames recorded")

// Recorder collects canvas frames into an animated GIF.
type Recorder struct {
	Scale     int
	Delay     int // hundredths of a second per frame
	MaxFrames int

	frames []*image.Paletted
}

func NewRecorder() *Recorder {
	return &Recorder{Scale: 2, Delay: 2, MaxFrames: DefaultMaxFrames}
}

// Add captures the canvas. It reports false once the recording is full.
func (r *Recorder) Add(c *Canvas, t Theme) bool {
	if r.MaxFrames > 0 && len(r.frames) >= r.MaxFrames {
		return false
	}
	r.frames = append(r.frames, c.Image(r.Scale, RGBA(t.Body), RGBA("#000000")))
	return true
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Reset() { r.frames = r.frames[:0] }

func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := &gif.GIF{
		Image: r.frames,
		Delay: make([]int, len(r.frames)),
	}
	for i := range anim.Delay {
		anim.Delay[i] = r.Delay
	}
	return gif.EncodeAll(w, anim)
}

// Save writes the recording to path.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
