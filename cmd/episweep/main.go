package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/episweep/internal/analysis"
	"github.com/san-kum/episweep/internal/config"
	"github.com/san-kum/episweep/internal/experiment"
	"github.com/san-kum/episweep/internal/models"
	"github.com/san-kum/episweep/internal/storage"
	"github.com/san-kum/episweep/internal/sweep"
)

var (
	dataDir    string
	configFile string
	preset     string
	integrator string
	dt         float64
	days       float64
	workers    int
	// Single-run intervention parameters
	tStart   int
	coverage float64
	// Sweep ranges
	tStartMin, tStartMax, tStartStep int
	covMin, covMax, covStep          float64
	// Plot selection
	plotCoverage float64
	// Persist sweep output
	noSave bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "episweep",
		Short: "SEIR+treatment epidemic model and intervention sweep lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".episweep", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a single simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&tStart, "t-start", 14, "day the treatment pulse begins")
	runCmd.Flags().Float64Var(&coverage, "coverage", 0.6, "treatment coverage fraction")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "internal timestep")
	runCmd.Flags().Float64Var(&days, "days", config.DefaultDays, "simulated days")
	runCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep intervention strategies over a grid",
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&tStartMin, "t-start-min", 1, "first pulse start day")
	sweepCmd.Flags().IntVar(&tStartMax, "t-start-max", 50, "last pulse start day")
	sweepCmd.Flags().IntVar(&tStartStep, "t-start-step", 1, "start day step")
	sweepCmd.Flags().Float64Var(&covMin, "cov-min", 0.1, "first coverage fraction")
	sweepCmd.Flags().Float64Var(&covMax, "cov-max", 1.0, "last coverage fraction")
	sweepCmd.Flags().Float64Var(&covStep, "cov-step", 0.1, "coverage step")
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "internal timestep")
	sweepCmd.Flags().Float64Var(&days, "days", config.DefaultDays, "simulated days per run")
	sweepCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "worker pool size (0 = all cores)")
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	sweepCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the result table")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored sweeps",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot peak infected children vs pulse start day",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Float64Var(&plotCoverage, "coverage", 0.6, "coverage level to plot")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored sweep to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored sweep to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, sweepCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset < config file < explicit flags, the same
// precedence for run and sweep.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("days") {
		cfg.Days = days
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("t-start-min") {
		cfg.Sweep.TStartMin = tStartMin
	}
	if cmd.Flags().Changed("t-start-max") {
		cfg.Sweep.TStartMax = tStartMax
	}
	if cmd.Flags().Changed("t-start-step") {
		cfg.Sweep.TStartStep = tStartStep
	}
	if cmd.Flags().Changed("cov-min") {
		cfg.Sweep.CovMin = covMin
	}
	if cmd.Flags().Changed("cov-max") {
		cfg.Sweep.CovMax = covMax
	}
	if cmd.Flags().Changed("cov-step") {
		cfg.Sweep.CovStep = covStep
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	params := cfg.GetParams()
	params.TStart = tStart
	params.Coverage = coverage

	fmt.Printf("running single simulation (t_start=%d, coverage=%.2f)...\n", tStart, coverage)
	start := time.Now()

	outcome, err := experiment.Run(context.Background(), experiment.Config{
		Params:     params,
		Init:       cfg.GetInitState(),
		Integrator: cfg.Integrator,
		Dt:         cfg.Dt,
		Days:       cfg.Days,
	})
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))
	fmt.Printf("  %s %s\n", labelStyle.Render("medicine type:"), valueStyle.Render(models.MedicineType(coverage)))
	fmt.Printf("  %s %s\n", labelStyle.Render("peak infected children:"), valueStyle.Render(fmt.Sprintf("%.4f", outcome.Peak)))
	fmt.Printf("  %s %s\n", labelStyle.Render("peak day:"), valueStyle.Render(fmt.Sprintf("%.0f", outcome.PeakDay)))
	fmt.Printf("  %s %s\n", labelStyle.Render("child attack rate:"), valueStyle.Render(fmt.Sprintf("%.4f", outcome.AttackRate)))

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	req := cfg.GetSweepRequest()
	total := len(req.TStarts) * len(req.Coverages)

	fmt.Printf("sweeping %d start days x %d coverage levels (%d runs)...\n",
		len(req.TStarts), len(req.Coverages), total)
	start := time.Now()

	table, err := sweep.Run(context.Background(), req)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	summary := table.Summary()

	fmt.Println()
	fmt.Println(titleStyle.Render("sweep complete"))
	fmt.Printf("  %s %v\n", labelStyle.Render("elapsed:"), elapsed)
	fmt.Printf("  %s %d\n", labelStyle.Render("rows:"), summary.Total)
	if summary.Failed > 0 {
		fmt.Printf("  %s %s\n", labelStyle.Render("failed:"), failStyle.Render(fmt.Sprintf("%d", summary.Failed)))
		for _, p := range summary.FailedPoints {
			fmt.Printf("    t_start=%d coverage=%.2f\n", p.TStart, p.Coverage)
		}
	} else {
		fmt.Printf("  %s %s\n", labelStyle.Render("failed:"), valueStyle.Render("0"))
	}

	if best, ok := analysis.Best(table); ok {
		fmt.Printf("  %s t_start=%d coverage=%.2f (peak %.4f)\n",
			labelStyle.Render("best strategy:"), best.TStart, best.Coverage, best.Peak)
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(req, table)
	if err != nil {
		return err
	}
	fmt.Printf("  %s %s\n", labelStyle.Render("run id:"), runID)

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no sweeps found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tROWS\tFAILED\tINTEG\tDT\tDAYS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%.4f\t%.0f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Rows,
			run.Failed,
			run.Integrator,
			run.Dt,
			run.Days,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	table, err := st.LoadTable(runID)
	if err != nil {
		return err
	}

	series := analysis.SeriesByCoverage(table, plotCoverage)
	if series == nil {
		return fmt.Errorf("coverage %.2f not in sweep grid %v", plotCoverage, table.Coverages)
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("coverage: %.2f (%s)\n\n", plotCoverage, models.MedicineType(plotCoverage))

	graph := asciigraph.Plot(series,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("peak infected children vs pulse start day"),
	)
	fmt.Println(graph)

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	table, err := st.LoadTable(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, table)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	table, err := st.LoadTable(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, table)
}
