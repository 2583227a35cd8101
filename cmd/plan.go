package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/josephgoksu/TaskFlow/internal/config"
	"github.com/josephgoksu/TaskFlow/internal/session"
	"github.com/josephgoksu/TaskFlow/internal/task"
	"github.com/josephgoksu/TaskFlow/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats for `taskflow plan`.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var planCmd = &cobra.Command{
	Use:   "plan <goal>",
	Short: "Generate a task plan for a goal and print it",
	Long: `Generate a task plan for a goal and print it.

Examples:
  taskflow plan "Launch a product in 2 weeks"
  taskflow plan --format json "Plan a wedding in 6 months" > plan.json
  taskflow plan --local --export "Start a freelance business"
  taskflow plan --sort "Learn web development in 3 months"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringP("format", "f", formatText, "output format: text, json, yaml")
	planCmd.Flags().Bool("export", false, "also save the plan as task-plan-<ms>.json")
	planCmd.Flags().String("export-dir", "", "directory for --export (default current directory)")
	planCmd.Flags().Bool("sort", false, "order tasks so dependencies come first")
}

func runPlan(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}
	export, _ := cmd.Flags().GetBool("export")
	sortTasks, _ := cmd.Flags().GetBool("sort")

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	log := slog.Default()

	gen, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}
	ctrl := session.NewController(gen, log)

	var spinner *ui.Spinner
	if format == formatText && ui.IsInteractive() {
		spinner = ui.NewSpinner(cmd.ErrOrStderr(), "Generating tasks...")
		spinner.Start()
	}
	out := ctrl.Submit(cmd.Context(), strings.Join(args, " "))
	if spinner != nil {
		spinner.Stop()
	}

	if !out.Accepted {
		return ErrEmptyGoal
	}
	if out.Notice.IsError() {
		if out.Err != nil {
			return fmt.Errorf("generate tasks: %w", out.Err)
		}
		return ErrNoTasks
	}

	if sortTasks {
		out.Session = sortByDependencies(out.Session, log)
	}

	now := time.Now()
	if err := writePlan(cmd.OutOrStdout(), format, out.Session, now); err != nil {
		return err
	}

	if export {
		path, err := session.SaveExport(afero.NewOsFs(), cfg.Export.Dir, out.Session, now)
		if err != nil {
			return fmt.Errorf("export plan: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Plan saved to %s\n", path)
	}
	return nil
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q (use text, json or yaml)", format)
	}
}

// sortByDependencies reorders the plan so prerequisites come first.
// A cyclic plan is left in generated order.
func sortByDependencies(s session.Session, log *slog.Logger) session.Session {
	sorted, err := task.TopologicalSort(s.Tasks)
	if err != nil {
		log.Warn("keeping generated order", "error", err)
		return s
	}
	s.Tasks = sorted
	return s
}

// writePlan prints a result session in the requested format.
func writePlan(w io.Writer, format string, s session.Session, now time.Time) error {
	switch format {
	case formatJSON:
		_, data, err := session.ExportPlan(s, now)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case formatYAML:
		doc, err := session.NewPlanFile(s, now)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()

	default:
		if s.Phase != session.PhaseResult {
			return session.ErrNothingToExport
		}
		fmt.Fprintf(w, "Goal: %s\n", s.Goal)
		fmt.Fprintf(w, "%s\n\n", task.FormatSummary(s.Summary()))
		for i, t := range s.Tasks {
			fmt.Fprint(w, task.FormatTask(i, t))
		}
		if report := task.CheckDependencies(s.Tasks); !report.OK() {
			fmt.Fprintf(w, "\nNote: %s\n", report.String())
		}
		return nil
	}
}
