package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/navcom/internal/command"
	"github.com/san-kum/navcom/internal/config"
	"github.com/san-kum/navcom/internal/experiment"
	"github.com/san-kum/navcom/internal/logging"
	"github.com/san-kum/navcom/internal/optim"
	"github.com/san-kum/navcom/internal/sim"
	"github.com/san-kum/navcom/internal/storage"
	"github.com/san-kum/navcom/internal/viz"
)

var (
	configFile string
	preset     string
	duration   float64
	integrator string
	noSave     bool
	speed      float64
	hold       int
	column     string
	outFile    string
	kpGrid     []float64
	kiGrid     []float64
	kdGrid     []float64
	metric     string

	logger = zerolog.Nop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "navcom",
		Short:         "attitude controller lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd)
		},
	}

	rootCmd.PersistentFlags().String("data", ".navcom", "data directory (NAVCOM_DATA)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (NAVCOM_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-dir", "", "also write JSON logs to this directory (NAVCOM_LOG_DIR)")
	viper.SetEnvPrefix("NAVCOM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"data", "log-level", "log-dir"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a closed-loop simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	execCmd := &cobra.Command{
		Use:   "exec [command]...",
		Short: "apply nav commands (e.g. \"align natural\") then run",
		Args:  cobra.MinimumNArgs(1),
		RunE:  execCommands,
	}
	addConfigFlags(execCmd)
	execCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with the live dashboard",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().Float64Var(&speed, "speed", 1, "playback speed relative to real time")

	thrustCmd := &cobra.Command{
		Use:   "thrust-test",
		Short: "fire every thrust direction in turn",
		Args:  cobra.NoArgs,
		RunE:  thrustTest,
	}
	addConfigFlags(thrustCmd)
	thrustCmd.Flags().IntVar(&hold, "hold", 13, "ticks per direction")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]...",
		Short: "run presets concurrently and compare (all presets by default)",
		RunE:  sweep,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search pitch/yaw gains",
		Args:  cobra.NoArgs,
		RunE:  tuneGains,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&kpGrid, "kp", []float64{2, 5, 10, 20}, "kp values")
	tuneCmd.Flags().Float64SliceVar(&kiGrid, "ki", []float64{0}, "ki values")
	tuneCmd.Flags().Float64SliceVar(&kdGrid, "kd", []float64{0.2, 2, 10}, "kd values")
	tuneCmd.Flags().StringVar(&metric, "metric", "settling_time", "metric to minimize")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a column of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "error", "column to plot; error is the attitude error magnitude")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withOutput(func(f *os.File) error { return store().ExportCSV(args[0], f) })
		},
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withOutput(func(f *os.File) error { return store().ExportJSON(args[0], f) })
		},
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-14s align=%-10s target=%v\n", name, p.AlignMode, p.Target.Forward)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file to start from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return config.Save(args[0], cfg)
		},
	}
	addConfigFlags(initCmd)

	rootCmd.AddCommand(runCmd, execCmd, liveCmd, thrustCmd, sweepCmd, tuneCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
}

func setupLogging(cmd *cobra.Command) error {
	opts := logging.Options{
		Level:   viper.GetString("log-level"),
		Console: os.Stderr,
	}
	if dir := viper.GetString("log-dir"); dir != "" {
		f, err := logging.OpenLogFile(dir, "navcom", time.Now())
		if err != nil {
			return err
		}
		opts.File = f
	}

	l, err := logging.Setup(opts)
	if err != nil {
		return err
	}
	logger = l.With().Str("cmd", cmd.Name()).Logger()
	return nil
}

func store() *storage.Store {
	return storage.New(viper.GetString("data"))
}

// loadConfig resolves the config from --config or --preset (file wins), then
// applies the flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}
	return runAndReport(exp)
}

func execCommands(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}

	d := command.New(logging.NewCommandLogger(logger))
	command.RegisterNav(d, exp.Computer(), command.Logged())
	for _, line := range args {
		result, err := d.Exec(line)
		if err != nil {
			return fmt.Errorf("%q: %w", line, err)
		}
		fmt.Printf("> %s: %v\n", line, result)
	}
	return runAndReport(exp)
}

func runAndReport(exp *experiment.Experiment) error {
	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	elapsed := time.Since(start)

	fmt.Print(exp.Computer().ReadData())
	fmt.Printf("\nticks: %d  wall: %v\n", result.Ticks, elapsed.Round(time.Millisecond))
	if result.Stopped != nil {
		fmt.Printf("stopped: %v\n", result.Stopped)
	}
	printMetrics(result.Metrics)

	if noSave {
		return nil
	}
	st := store()
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(exp.Config(), result)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved: %s\n", id)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, m[name])
	}
	w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// the dashboard owns the terminal
	m, err := viz.NewModel(cfg, zerolog.Nop(), speed)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func thrustTest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("time") {
		// one hold per direction plus the tick that cuts the last one
		cfg.Duration = float64(6*hold+1) / cfg.UpdatesPerSecond
	}
	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}
	if exp.Dropped() > 0 {
		fmt.Printf("dropped %d thrusters matching no direction\n", exp.Dropped())
	}

	seq := exp.EnableThrustTest(hold)
	ctx, cancel := signalContext()
	defer cancel()

	exp.Simulator().AddObserver(sim.ObserverFunc(func(s sim.Sample) {
		v := exp.Plant().Velocity(s.State)
		fmt.Printf("t=%5.1fs  v=(%8.4f %8.4f %8.4f)\n", s.Time, v.X, v.Y, v.Z)
	}))

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	v := exp.Plant().Velocity(result.States[len(result.States)-1])
	fmt.Printf("\nsequence complete: %v  final velocity: (%.4f %.4f %.4f)\n", seq.Done(), v.X, v.Y, v.Z)
	return nil
}

func sweep(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}
	cfgs := make([]*config.Config, 0, len(names))
	for _, name := range names {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s", name)
		}
		cfgs = append(cfgs, cfg)
	}

	ctx, cancel := signalContext()
	defer cancel()
	results, err := experiment.RunAll(ctx, cfgs, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tFINAL\tMAX\tSETTLE\tEFFORT")
	for i, r := range results {
		fmt.Fprintf(w, "%s\t%.6f\t%.4f\t%s\t%.4f\n",
			cfgs[i].Name,
			r.Metrics["final_error"],
			r.Metrics["max_error"],
			formatSettle(r.Metrics["settling_time"]),
			r.Metrics["control_effort"],
		)
	}
	return w.Flush()
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	g := optim.NewGridSearch([]string{"kp", "ki", "kd"}, [][]float64{kpGrid, kiGrid, kdGrid})
	best, all, err := g.Search(ctx, cfg, optim.ApplyGains, metric, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "KP\tKI\tKD\t%s\n", strings.ToUpper(metric))
	for _, c := range all {
		fmt.Fprintf(w, "%g\t%g\t%g\t%.4f\n", c.Params["kp"], c.Params["ki"], c.Params["kd"], c.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: kp=%g ki=%g kd=%g %s=%.4f\n", best.Params["kp"], best.Params["ki"], best.Params["kd"], metric, best.Score)
	return nil
}

func formatSettle(t float64) string {
	if t < 0 {
		return "never"
	}
	return fmt.Sprintf("%.1fs", t)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store().List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tALIGN\tINTEG\tFINAL")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%s\t%s\t%.6f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.AlignMode,
			run.Integrator,
			run.Metrics["final_error"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	var data []float64
	if column == "error" {
		p, y, r := samples.Column("err_pitch"), samples.Column("err_yaw"), samples.Column("err_roll")
		data = make([]float64, len(p))
		for i := range p {
			data[i] = math.Sqrt(p[i]*p[i] + y[i]*y[i] + r[i]*r[i])
		}
	} else {
		data = samples.Column(column)
	}
	if len(data) == 0 {
		return fmt.Errorf("no data for column %q (have %v)", column, samples.Header)
	}

	fmt.Printf("run: %s\nname: %s\nsamples: %d\n\n", meta.ID, meta.Name, len(data))
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption(column+" vs tick")))
	return nil
}

func withOutput(write func(f *os.File) error) error {
	if outFile == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
