package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/navcom/internal/config"
	"github.com/san-kum/navcom/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Integrator string             `json:"integrator"`
	AlignMode  string             `json:"align_mode"`
	Duration   float64            `json:"duration"`
	Ticks      int                `json:"ticks"`
	Stopped    string             `json:"stopped,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
	Config     *config.Config     `json:"config"`
}

// Columns of samples.csv after the time column.
var stateColumns = []string{"qw", "qx", "qy", "qz", "wx", "wy", "wz", "vx", "vy", "vz"}
var tickColumns = []string{"err_pitch", "err_yaw", "err_roll", "rate_pitch", "rate_yaw", "rate_roll"}

func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("%s_%s", cfg.Name, ts.Format("20060102-150405.000"))
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       cfg.Name,
		Timestamp:  ts,
		Integrator: cfg.Integrator,
		AlignMode:  cfg.AlignMode,
		Duration:   cfg.Duration,
		Ticks:      result.Ticks,
		Metrics:    finite(result.Metrics),
		Config:     cfg,
	}
	if result.Stopped != nil {
		meta.Stopped = result.Stopped.Error()
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), result); err != nil {
		return "", err
	}
	return runID, nil
}

// finite drops values JSON cannot encode.
func finite(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSamples(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append([]string{"time"}, stateColumns...)
	header = append(header, tickColumns...)
	if err := w.Write(header); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

	for i := range result.States {
		row := []string{format(result.Times[i])}
		for _, v := range result.States[i] {
			row = append(row, format(v))
		}
		if i < len(result.Errors) {
			e, r := result.Errors[i], result.Rates[i]
			row = append(row, format(e.X), format(e.Y), format(e.Z), format(r.X), format(r.Y), format(r.Z))
		} else {
			for range tickColumns {
				row = append(row, "0")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

// Samples is the parsed content of samples.csv.
type Samples struct {
	Header []string    `json:"header"`
	Rows   [][]float64 `json:"rows"`
}

// Column returns the values of the named column, or nil.
func (s *Samples) Column(name string) []float64 {
	idx := -1
	for i, h := range s.Header {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	col := make([]float64, 0, len(s.Rows))
	for _, row := range s.Rows {
		if idx < len(row) {
			col = append(col, row[idx])
		}
	}
	return col
}

func (s *Store) LoadSamples(runID string) (*Samples, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Samples{}, nil
	}

	samples := &Samples{Header: records[0], Rows: make([][]float64, 0, len(records)-1)}
	for _, record := range records[1:] {
		row := make([]float64, 0, len(record))
		for _, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: bad sample %q: %w", runID, field, err)
			}
			row = append(row, v)
		}
		samples.Rows = append(samples.Rows, row)
	}
	return samples, nil
}

// ExportCSV copies the raw samples of a run to w.
func (s *Store) ExportCSV(runID string, w io.Writer) error {
	f, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

// ExportJSON writes the metadata and samples of a run as one JSON document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*RunMetadata
		Samples *Samples `json:"samples"`
	}{meta, samples})
}
