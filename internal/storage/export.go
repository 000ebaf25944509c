package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	ID             string             `json:"id"`
	Seed           int64              `json:"seed"`
	Init           string             `json:"init"`
	N              int                `json:"n"`
	H              float64            `json:"h"`
	Dt             float64            `json:"dt"`
	Steps          int                `json:"steps"`
	Times          []float64          `json:"times"`
	VolumeFraction []float64          `json:"volume_fraction"`
	InterfaceSites []float64          `json:"interface_sites"`
	FinalStep      int                `json:"final_step"`
	FinalField     [][]float64        `json:"final_field,omitempty"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
}

// Export bundles a stored run into a single JSON document. withField
// controls whether the latest stored field is embedded.
func (s *Store) Export(w io.Writer, runID string, withField bool) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}

	_, times, vf, is, err := s.LoadDiagnostics(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		ID:             meta.ID,
		Seed:           meta.Seed,
		Init:           meta.Init,
		N:              meta.Params.N,
		H:              meta.Params.H,
		Dt:             meta.Params.Dt,
		Steps:          meta.Params.Steps,
		Times:          times,
		VolumeFraction: vf,
		InterfaceSites: is,
		Metrics:        meta.Metrics,
	}

	if withField {
		f, step, err := s.LatestField(runID)
		if err != nil {
			return err
		}
		data.FinalStep = step
		data.FinalField = make([][]float64, f.N)
		for i := 0; i < f.N; i++ {
			data.FinalField[i] = f.Data[i*f.N : (i+1)*f.N]
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (s *Store) ExportStdout(runID string, withField bool) error {
	return s.Export(os.Stdout, runID, withField)
}
