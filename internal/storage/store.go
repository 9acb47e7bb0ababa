package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/config"
	"github.com/san-kum/softsim/internal/experiment"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	configFile   = "config.yaml"
)

var samplesHeader = []string{"tick", "time", "volume", "energy", "strain", "cx", "cy", "cz"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID               string             `json:"id"`
	Body             string             `json:"body"`
	Timestamp        time.Time          `json:"timestamp"`
	Dt               float64            `json:"dt"`
	Duration         float64            `json:"duration"`
	Substeps         int                `json:"substeps"`
	EdgeCompliance   float64            `json:"edge_compliance"`
	VolumeCompliance float64            `json:"volume_compliance"`
	Formulation      string             `json:"formulation"`
	Ticks            int                `json:"ticks"`
	Metrics          map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding the metadata, the config it ran with
// and the sample table. It returns the run ID.
func (s *Store) Save(cfg *config.Config, result *experiment.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Body.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:               runID,
		Body:             cfg.Body.Name,
		Timestamp:        now,
		Dt:               cfg.Run.Dt,
		Duration:         cfg.Run.Duration,
		Substeps:         cfg.World.Substeps,
		EdgeCompliance:   cfg.Body.EdgeCompliance,
		VolumeCompliance: cfg.Body.VolumeCompliance,
		Formulation:      cfg.Body.Formulation,
		Ticks:            result.Ticks,
		Metrics:          result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteSamples(f, result.Samples); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteSamples writes samples as CSV with a header row.
func WriteSamples(w io.Writer, samples []experiment.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(samplesHeader); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			strconv.Itoa(smp.Tick),
			formatFloat(smp.Time),
			formatFloat(smp.Volume),
			formatFloat(smp.Energy),
			formatFloat(smp.Strain),
			formatFloat(smp.Centroid.X()),
			formatFloat(smp.Centroid.Y()),
			formatFloat(smp.Centroid.Z()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns all readable runs, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadConfig returns the config a run was recorded with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

func (s *Store) LoadSamples(runID string) ([]experiment.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSamples(f)
}

// ReadSamples parses the CSV written by WriteSamples. Malformed rows are
// skipped.
func ReadSamples(r io.Reader) ([]experiment.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []experiment.Sample{}, nil
	}

	samples := make([]experiment.Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(samplesHeader) {
			continue
		}
		tick, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		var vals [7]float64
		ok := true
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(rec[j+1], 64); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		samples = append(samples, experiment.Sample{
			Tick:     tick,
			Time:     vals[0],
			Volume:   vals[1],
			Energy:   vals[2],
			Strain:   vals[3],
			Centroid: mgl64.Vec3{vals[4], vals[5], vals[6]},
		})
	}
	return samples, nil
}

type ExportData struct {
	Run     RunMetadata         `json:"run"`
	Samples []experiment.Sample `json:"samples"`
}

// ExportJSON writes a run's metadata and samples as one JSON document. An
// empty path writes to w.
func (s *Store) ExportJSON(runID, path string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	data := ExportData{Run: *meta, Samples: samples}
	if path == "" {
		return encodeJSON(w, data)
	}
	return writeJSON(path, data)
}

// ExportCSV copies a run's sample table to path, or to w when path is empty.
func (s *Store) ExportCSV(runID, path string, w io.Writer) error {
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	if path == "" {
		return WriteSamples(w, samples)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteSamples(f, samples)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return encodeJSON(f, v)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
