package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/josephgoksu/TaskFlow/internal/config"
	"github.com/josephgoksu/TaskFlow/internal/logger"
	"github.com/josephgoksu/TaskFlow/internal/session"
	"github.com/josephgoksu/TaskFlow/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// uiLogFile receives logs while the TUI owns the terminal.
const uiLogFile = "taskflow.log"

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive planner",
	Long: `Open the interactive planner.

Type a goal and press Enter. Tab cycles through example goals, Ctrl+E
exports the current plan as JSON and Ctrl+R starts over.`,
	Args: cobra.NoArgs,
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
	uiCmd.Flags().String("export-dir", "", "directory for Ctrl+E exports (default current directory)")
}

func runUI(cmd *cobra.Command, args []string) error {
	if !ui.IsInteractive() {
		return errors.New("taskflow ui needs a terminal; use 'taskflow plan' instead")
	}

	v := viper.GetViper()
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	dir := config.GetStateDir(v)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, uiLogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	log, err := logger.Setup(f, logOptions())
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}
	return ui.RunPlanner(cmd.Context(), session.NewController(gen, log), cfg.Export.Dir)
}
