package cmd

import (
	"fmt"
	"os"

	"github.com/josephgoksu/TaskFlow/internal/config"
	"github.com/josephgoksu/TaskFlow/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables debug logging.
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "TaskFlow - turn a goal into an actionable task plan",
	Long: `TaskFlow breaks a free-text goal into 3-7 actionable tasks using an
OpenAI-compatible chat model.

Run the relay with 'taskflow serve', then plan from the terminal with
'taskflow ui' (interactive) or 'taskflow plan "<goal>"' (scriptable).
Pass --local to skip the relay and call the model in-process.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		PrintError(err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.taskflow.yaml or $HOME/.taskflow/.taskflow.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("provider", "", "upstream provider: openai, ollama, anthropic, gemini")
	pf.String("model", "", "upstream model name")
	pf.String("relay-url", "", "relay base URL used by plan and ui")
	pf.Bool("local", false, "run the relay in-process instead of over HTTP")
}

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"verbose":    "verbose",
	"log-level":  "log.level",
	"log-format": "log.format",
	"provider":   "relay.provider",
	"model":      "relay.model",
	"relay-url":  "client.relayURL",
	"local":      "client.local",
	"addr":       "server.addr",
	"export-dir": "export.dir",
}

// bindFlags binds the flags visible to cmd. Binding happens per run so the
// same key can be driven by flags on different subcommands.
func bindFlags(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// initApp loads configuration and installs the default logger.
func initApp(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}
	v := viper.GetViper()
	if err := config.Init(v, cfgFile); err != nil {
		return err
	}

	if _, err := logger.Setup(os.Stderr, logOptions()); err != nil {
		return err
	}

	logger.SetBasePath(config.GetStateDir(v))
	logger.SetVersion(version)
	logger.SetCommand(cmd.CommandPath())
	return nil
}

func logOptions() logger.Options {
	return logger.Options{
		Level:   viper.GetString("log.level"),
		Format:  logger.Format(viper.GetString("log.format")),
		Verbose: viper.GetBool("verbose"),
	}
}
