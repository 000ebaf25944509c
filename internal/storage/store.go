package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/phasesim/internal/chsim"
	"github.com/san-kum/phasesim/internal/grid"
)

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
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Init      string             `json:"init"`
	Params    chsim.Params       `json:"params"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// RunWriter persists snapshots for one run. It implements chsim.Sink:
// every Emit writes the field to field_NNNNNN.csv and rewrites
// diagnostics.csv with the series so far, so the run directory stays
// usable even if the process dies mid-run.
type RunWriter struct {
	dir  string
	meta RunMetadata
	dt   float64
}

// CreateRun allocates a run directory and writes the initial metadata.
func (s *Store) CreateRun(meta RunMetadata) (*RunWriter, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("ch_%d", time.Now().Unix())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	dir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	w := &RunWriter{dir: dir, meta: meta, dt: meta.Params.Dt}
	if err := w.writeMetadata(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *RunWriter) ID() string { return w.meta.ID }

func (w *RunWriter) Emit(snap chsim.Snapshot) error {
	if err := writeField(filepath.Join(w.dir, fieldFileName(snap.Step)), snap.Field); err != nil {
		return err
	}
	return w.writeDiagnostics(snap)
}

// Finalize records run-level metric values in the metadata.
func (w *RunWriter) Finalize(metrics map[string]float64) error {
	w.meta.Metrics = metrics
	return w.writeMetadata()
}

func (w *RunWriter) writeMetadata() error {
	f, err := os.Create(filepath.Join(w.dir, "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(w.meta)
}

func (w *RunWriter) writeDiagnostics(snap chsim.Snapshot) error {
	f, err := os.Create(filepath.Join(w.dir, "diagnostics.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write([]string{"step", "time", "volume_fraction", "interface_sites"}); err != nil {
		return err
	}
	for i := range snap.VolumeFraction {
		step := i + 1
		row := []string{
			strconv.Itoa(step),
			strconv.FormatFloat(float64(step)*w.dt, 'g', -1, 64),
			strconv.FormatFloat(snap.VolumeFraction[i], 'g', -1, 64),
			strconv.FormatFloat(snap.InterfaceSites[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func fieldFileName(step int) string {
	return fmt.Sprintf("field_%06d.csv", step)
}

func writeField(path string, f *grid.Field) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	row := make([]string, f.N)
	for i := 0; i < f.N; i++ {
		for j := 0; j < f.N; j++ {
			row[j] = strconv.FormatFloat(f.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

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
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadDiagnostics reads the per-step series of a run.
func (s *Store) LoadDiagnostics(runID string) (steps []int, times, volumeFraction, interfaceSites []float64, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "diagnostics.csv"))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 4 {
			continue
		}
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		t, _ := strconv.ParseFloat(rec[1], 64)
		vf, _ := strconv.ParseFloat(rec[2], 64)
		is, _ := strconv.ParseFloat(rec[3], 64)
		steps = append(steps, step)
		times = append(times, t)
		volumeFraction = append(volumeFraction, vf)
		interfaceSites = append(interfaceSites, is)
	}
	return steps, times, volumeFraction, interfaceSites, nil
}

// SavedSteps lists the step indices with a stored field, ascending.
func (s *Store) SavedSteps(runID string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, runID))
	if err != nil {
		return nil, err
	}

	steps := make([]int, 0)
	for _, entry := range entries {
		var step int
		if _, err := fmt.Sscanf(entry.Name(), "field_%06d.csv", &step); err == nil {
			steps = append(steps, step)
		}
	}
	sort.Ints(steps)
	return steps, nil
}

// LoadField reads the stored field for a step of a run.
func (s *Store) LoadField(runID string, step int) (*grid.Field, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, fieldFileName(step)))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("storage: empty field file for run %s step %d", runID, step)
	}

	n := len(records)
	f := grid.NewField(n)
	for i, rec := range records {
		if len(rec) != n {
			return nil, fmt.Errorf("storage: field file for run %s step %d is not square", runID, step)
		}
		for j, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, err
			}
			f.Set(i, j, v)
		}
	}
	return f, nil
}

// LatestField returns the most recent stored field of a run.
func (s *Store) LatestField(runID string) (*grid.Field, int, error) {
	steps, err := s.SavedSteps(runID)
	if err != nil {
		return nil, 0, err
	}
	if len(steps) == 0 {
		return nil, 0, fmt.Errorf("storage: run %s has no stored fields", runID)
	}
	last := steps[len(steps)-1]
	f, err := s.LoadField(runID, last)
	return f, last, err
}
