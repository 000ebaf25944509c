package storage

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/san-kum/phasesim/internal/chsim"
	"github.com/san-kum/phasesim/internal/grid"
)

func testMeta() RunMetadata {
	return RunMetadata{
		ID:   "ch_test",
		Seed: 42,
		Init: "random",
		Params: chsim.Params{
			N: 4, H: 1, A: 1, K: 1, M: 1,
			Dt: 0.5, Steps: 4, SaveEvery: 2,
		},
	}
}

func testSnapshot(step int, dt float64) chsim.Snapshot {
	f := grid.NewField(4)
	for i := range f.Data {
		f.Data[i] = float64(i) / 16.0
	}
	vf := make([]float64, step)
	is := make([]float64, step)
	for i := range vf {
		vf[i] = 0.1 * float64(i+1)
		is[i] = float64(2 * (i + 1))
	}
	return chsim.Snapshot{
		Step:           step,
		Time:           float64(step) * dt,
		Field:          f,
		VolumeFraction: vf,
		InterfaceSites: is,
	}
}

func TestRunRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	w, err := s.CreateRun(testMeta())
	if err != nil {
		t.Fatal(err)
	}
	if w.ID() != "ch_test" {
		t.Errorf("unexpected run id %q", w.ID())
	}

	if err := w.Emit(testSnapshot(2, 0.5)); err != nil {
		t.Fatal(err)
	}
	if err := w.Emit(testSnapshot(4, 0.5)); err != nil {
		t.Fatal(err)
	}
	if err := w.Finalize(map[string]float64{"free_energy": 1.5}); err != nil {
		t.Fatal(err)
	}

	meta, err := s.Load("ch_test")
	if err != nil {
		t.Fatal(err)
	}
	if meta.Seed != 42 || meta.Params.N != 4 {
		t.Errorf("metadata did not round-trip: %+v", meta)
	}
	if meta.Metrics["free_energy"] != 1.5 {
		t.Errorf("metrics did not round-trip: %v", meta.Metrics)
	}
}

func TestListFindsRuns(t *testing.T) {
	s := New(t.TempDir())

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty store, got %d runs", len(runs))
	}

	if _, err := s.CreateRun(testMeta()); err != nil {
		t.Fatal(err)
	}
	runs, err = s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "ch_test" {
		t.Errorf("unexpected listing: %+v", runs)
	}
}

func TestDiagnosticsRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	w, err := s.CreateRun(testMeta())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Emit(testSnapshot(3, 0.5)); err != nil {
		t.Fatal(err)
	}

	steps, times, vf, is, err := s.LoadDiagnostics("ch_test")
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(steps))
	}
	if steps[2] != 3 || times[2] != 1.5 {
		t.Errorf("row 3: step=%d time=%g", steps[2], times[2])
	}
	if vf[0] != 0.1 || is[2] != 6 {
		t.Errorf("series did not round-trip: vf=%v is=%v", vf, is)
	}
}

func TestFieldRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	w, err := s.CreateRun(testMeta())
	if err != nil {
		t.Fatal(err)
	}

	snap := testSnapshot(2, 0.5)
	if err := w.Emit(snap); err != nil {
		t.Fatal(err)
	}
	if err := w.Emit(testSnapshot(4, 0.5)); err != nil {
		t.Fatal(err)
	}

	steps, err := s.SavedSteps("ch_test")
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 2 || steps[0] != 2 || steps[1] != 4 {
		t.Fatalf("unexpected saved steps %v", steps)
	}

	f, err := s.LoadField("ch_test", 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := range f.Data {
		if f.Data[i] != snap.Field.Data[i] {
			t.Fatalf("field value %d did not round-trip", i)
		}
	}

	_, last, err := s.LatestField("ch_test")
	if err != nil {
		t.Fatal(err)
	}
	if last != 4 {
		t.Errorf("latest field at step %d, expected 4", last)
	}
}

func TestLoadFieldMissing(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.LoadField("nope", 1); err == nil {
		t.Error("expected an error for a missing run")
	}
}

func TestExport(t *testing.T) {
	s := New(t.TempDir())
	w, err := s.CreateRun(testMeta())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Emit(testSnapshot(4, 0.5)); err != nil {
		t.Fatal(err)
	}
	if err := w.Finalize(map[string]float64{"mass_drift": 0}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.Export(&buf, "ch_test", true); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.ID != "ch_test" || data.N != 4 || data.Dt != 0.5 {
		t.Errorf("unexpected header fields: %+v", data)
	}
	if len(data.VolumeFraction) != 4 {
		t.Errorf("expected 4 series rows, got %d", len(data.VolumeFraction))
	}
	if data.FinalStep != 4 || len(data.FinalField) != 4 {
		t.Errorf("final field missing: step=%d rows=%d", data.FinalStep, len(data.FinalField))
	}
	if _, ok := data.Metrics["mass_drift"]; !ok {
		t.Error("metrics missing from export")
	}
}
