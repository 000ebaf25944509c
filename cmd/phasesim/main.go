package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/phasesim/internal/analysis"
	"github.com/san-kum/phasesim/internal/chsim"
	"github.com/san-kum/phasesim/internal/config"
	"github.com/san-kum/phasesim/internal/export"
	"github.com/san-kum/phasesim/internal/metrics"
	"github.com/san-kum/phasesim/internal/storage"
	"github.com/san-kum/phasesim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	nSize     int
	spacing   float64
	delta     float64
	sigma     float64
	barrier   float64
	gradCoef  float64
	diffusion float64
	mobility  float64
	dt        float64
	steps     int
	saveEvery int
	seedVal   int64
	initName  string
	initAmp   float64
	initRad   float64
	noCheck   bool

	embed    bool
	svgOut   string
	svgScale float64
	// live view
	stepsPerFrame int
	frameRate     int
)

// Explicit Cahn-Hilliard stepping is stable only while M*K*dt/h^4 stays
// below roughly 1/32; warn past half of that.
const stabilityWarn = 1.0 / 64

func main() {
	rootCmd := &cobra.Command{
		Use:   "phasesim",
		Short: "Cahn-Hilliard phase-field simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".phasesim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addParamFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run diagnostics and final field",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "structure factor of the latest field",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			return st.ExportStdout(args[0], embed)
		},
	}
	exportJSONCmd.Flags().BoolVar(&embed, "with-field", false, "embed the latest field")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export diagnostic series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the latest field to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "field.svg", "output file")
	exportSVGCmd.Flags().Float64Var(&svgScale, "scale", 4, "cell size in SVG units")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark step throughput across grid sizes",
		RunE:  benchGrids,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addParamFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 10, "integration steps per frame")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, benchCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&nSize, "n", config.DefaultN, "grid size")
	cmd.Flags().Float64Var(&spacing, "h", config.DefaultH, "grid spacing")
	cmd.Flags().Float64Var(&delta, "delta", config.DefaultDelta, "interfacial width")
	cmd.Flags().Float64Var(&sigma, "sigma", config.DefaultSigma, "interfacial energy density")
	cmd.Flags().Float64Var(&barrier, "a", 0, "barrier height (0 = derive from sigma/delta)")
	cmd.Flags().Float64Var(&gradCoef, "k", 0, "gradient energy coefficient (0 = derive)")
	cmd.Flags().Float64Var(&diffusion, "d", config.DefaultD, "diffusivity")
	cmd.Flags().Float64Var(&mobility, "m", 0, "mobility (0 = derive as D/(2A))")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "total step count")
	cmd.Flags().IntVar(&saveEvery, "save-every", config.DefaultSaveEvery, "snapshot cadence")
	cmd.Flags().Int64Var(&seedVal, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().StringVar(&initName, "init", "random", "initial condition (random|sinusoidal|constant|droplet|checkerboard)")
	cmd.Flags().Float64Var(&initAmp, "init-amp", 0.1, "initial condition amplitude")
	cmd.Flags().Float64Var(&initRad, "init-radius", 0, "droplet radius (0 = N/6)")
	cmd.Flags().BoolVar(&noCheck, "no-check", false, "disable NaN/Inf divergence checks")
}

// resolveConfig merges preset, config file and flags; explicitly changed
// flags win over the file, which wins over the preset.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("n") {
		cfg.N = nSize
	}
	if flags.Changed("h") {
		cfg.H = spacing
	}
	if flags.Changed("delta") {
		cfg.Delta = delta
	}
	if flags.Changed("sigma") {
		cfg.Sigma = sigma
	}
	if flags.Changed("a") {
		cfg.A = barrier
	}
	if flags.Changed("k") {
		cfg.K = gradCoef
	}
	if flags.Changed("d") {
		cfg.D = diffusion
	}
	if flags.Changed("m") {
		cfg.M = mobility
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("save-every") {
		cfg.SaveEvery = saveEvery
	}
	if flags.Changed("seed") {
		cfg.Seed = seedVal
	}
	if flags.Changed("init") {
		cfg.Init = initName
	}
	if flags.Changed("init-amp") {
		cfg.InitAmp = initAmp
	}
	if flags.Changed("init-radius") {
		cfg.InitRadius = initRad
	}
	if flags.Changed("no-check") {
		cfg.CheckFinite = !noCheck
	}
	return cfg, nil
}

func buildIntegrator(cfg *config.Config) (*chsim.Integrator, chsim.Params, error) {
	params, err := cfg.ToParams()
	if err != nil {
		return nil, chsim.Params{}, err
	}

	initial, err := cfg.InitialField()
	if err != nil {
		return nil, chsim.Params{}, err
	}

	it, err := chsim.New(params, initial)
	if err != nil {
		return nil, chsim.Params{}, err
	}

	it.AddMetric(metrics.NewFreeEnergy(params))
	it.AddMetric(metrics.NewMassDrift())
	it.AddMetric(metrics.NewAmplitude())
	return it, params, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	it, params, err := buildIntegrator(cfg)
	if err != nil {
		return err
	}

	if s := params.StabilityNumber() * params.K; s > stabilityWarn {
		fmt.Printf("warning: M*K*dt/h^4 = %.3g, explicit scheme may go unstable\n", s)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	writer, err := st.CreateRun(storage.RunMetadata{
		Seed:   cfg.Seed,
		Init:   cfg.Init,
		Params: params,
	})
	if err != nil {
		return err
	}

	// pre-integration snapshot for observability parity
	if err := writer.Emit(it.Snapshot()); err != nil {
		return err
	}

	fmt.Printf("running %dx%d grid for %d steps...\n", params.N, params.N, params.Steps)
	start := time.Now()

	runErr := it.Run(context.Background(), writer)
	elapsed := time.Since(start)

	if err := writer.Finalize(it.MetricValues()); err != nil {
		return err
	}

	if runErr != nil {
		fmt.Printf("run aborted after %v: %v\n", elapsed, runErr)
		fmt.Printf("run id: %s (snapshots up to the last valid step are stored)\n", writer.ID())
		return runErr
	}

	fmt.Printf("completed in %v (%.0f steps/sec)\n", elapsed, float64(params.Steps)/elapsed.Seconds())
	fmt.Printf("run id: %s\n", writer.ID())

	vf, is := it.Diagnostics()
	if len(vf) > 0 {
		fmt.Printf("final volume fraction: %.4f\n", vf[len(vf)-1])
		fmt.Printf("final interface sites: %.0f\n", is[len(is)-1])
	}
	fmt.Println("\nmetrics:")
	for name, val := range it.MetricValues() {
		fmt.Printf("  %s: %.6g\n", name, val)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tN\tSTEPS\tDT\tINIT\tSEED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.3g\t%s\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.N,
			run.Params.Steps,
			run.Params.Dt,
			run.Init,
			run.Seed,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	_, _, vf, is, err := st.LoadDiagnostics(runID)
	if err != nil {
		return err
	}
	if len(vf) == 0 {
		return fmt.Errorf("no diagnostics to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("grid: %dx%d, dt=%.3g, %d steps\n\n", meta.Params.N, meta.Params.N, meta.Params.Dt, meta.Params.Steps)

	fmt.Println(asciigraph.Plot(vf,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("volume fraction (phi > 0.7)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(is,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("interfacial sites (0.3 < phi < 0.7)"),
	))
	fmt.Println()

	field, step, err := st.LatestField(runID)
	if err != nil {
		return err
	}
	fmt.Printf("field at step %d:\n", step)
	fmt.Println(viz.Heatmap(field, 48, 0, 1))
	fmt.Println(viz.Legend())
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	field, step, err := st.LatestField(runID)
	if err != nil {
		return err
	}

	s := analysis.StructureFactor(field)
	if len(s) > 1 {
		fmt.Printf("structure factor, run %s, step %d\n\n", runID, step)
		fmt.Println(asciigraph.Plot(s[1:],
			asciigraph.Height(12),
			asciigraph.Width(72),
			asciigraph.Caption("S(k) by wavenumber bin"),
		))
		fmt.Println()
	}

	if l := analysis.CharacteristicLength(field, meta.Params.H); l > 0 {
		fmt.Printf("characteristic domain length: %.3g\n", l)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	steps, times, vf, is, err := st.LoadDiagnostics(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"step", "time", "volume_fraction", "interface_sites"}); err != nil {
		return err
	}
	for i := range steps {
		row := []string{
			strconv.Itoa(steps[i]),
			strconv.FormatFloat(times[i], 'g', -1, 64),
			strconv.FormatFloat(vf[i], 'g', -1, 64),
			strconv.FormatFloat(is[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	field, step, err := st.LatestField(args[0])
	if err != nil {
		return err
	}

	svg := export.FieldToSVG(field, svgScale, 0, 1)
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (field at step %d)\n", svgOut, step)
	return nil
}

func benchGrids(cmd *cobra.Command, args []string) error {
	sizes := []int{32, 64, 128, 256}
	const benchSteps = 50

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tSTEPS\tTIME\tSTEPS/SEC\tCELL-UPDATES/SEC")

	for _, n := range sizes {
		cfg := config.DefaultConfig()
		cfg.N = n
		cfg.Steps = benchSteps
		cfg.SaveEvery = benchSteps

		it, _, err := buildIntegrator(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		if err := it.Run(context.Background(), nil); err != nil {
			return err
		}
		elapsed := time.Since(start)

		perSec := benchSteps / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.3g\n", n, benchSteps, elapsed, perSec, perSec*float64(n*n))
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	it, _, err := buildIntegrator(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(it, stepsPerFrame, frameRate)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
