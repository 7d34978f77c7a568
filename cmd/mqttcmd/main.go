package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/studiowebux/mqttcmd/internal/cli"
	"github.com/studiowebux/mqttcmd/internal/config"
	"github.com/studiowebux/mqttcmd/internal/document"
	"github.com/studiowebux/mqttcmd/internal/highlight"
	"github.com/studiowebux/mqttcmd/internal/keybinds"
	"github.com/studiowebux/mqttcmd/internal/logging"
	"github.com/studiowebux/mqttcmd/internal/remote"
	"github.com/studiowebux/mqttcmd/internal/state"
	"github.com/studiowebux/mqttcmd/internal/storage"
	"github.com/studiowebux/mqttcmd/internal/tui"
	"github.com/studiowebux/mqttcmd/internal/types"
)

var (
	version = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mqttcmd",
	Short: "mqttcmd - MQTT subscribe command builder",
	Long: `mqttcmd edits a JSON document describing MQTT brokers and builds the
matching mqttx connection flags and subscribe commands.

Run without arguments to start the TUI.

Examples:
  mqttcmd                                   # Start interactive TUI
  mqttcmd show -o yaml                      # Print the applied configuration
  mqttcmd command -b Local -t 'sensors/#'   # Print a subscribe command
  mqttcmd select -b Local -t 'sensors/#'    # Preselect a broker and topics
  mqttcmd load https://example.com/mq.json  # Load a configuration from a URL
  mqttcmd apply brokers.json                # Apply a configuration file
  mqttcmd history list                      # Show recent configurations`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, runTUI)
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the applied configuration and the current selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			hl := highlight.New(highlight.DefaultStyle, cli.IsTerminal(os.Stdout))
			return cli.Show(cmd.OutOrStdout(), a.store.Snapshot(), flagOutput, hl)
		})
	},
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the connection flags of a broker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			return cli.Address(cmd.OutOrStdout(), a.store.Snapshot(), flagBroker)
		})
	},
}

var commandCmd = &cobra.Command{
	Use:   "command",
	Short: "Print a subscribe command for a broker and topics",
	Long: `Print a subscribe command for a broker and topics.

Without -t the topics selected in the TUI (or with 'select') are used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			return cli.Command(cmd.OutOrStdout(), a.store.Snapshot(), flagBroker, flagTopics)
		})
	},
}

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Store the broker and topics the TUI starts with",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			if err := cli.Select(a.store, flagBroker, flagTopics); err != nil {
				return err
			}
			st := a.store.Snapshot()
			return cli.Command(cmd.OutOrStdout(), st, st.Selection.Broker.Title, nil)
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored configuration, selection and history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			if err := cli.Reset(a.db, cli.NewPrompter(flagYes)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Storage cleared")
			return nil
		})
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <url>",
	Short: "Load and apply a configuration from a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			if err := cli.Load(a.ctx, a.store, args[0], cli.NewPrompter(flagYes)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s\n", a.store.Snapshot().ActiveConfigName)
			return nil
		})
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <file|->",
	Short: "Apply a configuration from a file or stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			if err := applyFile(a.store, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", a.store.Snapshot().ActiveConfigName)
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recently applied configurations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent configurations, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			return cli.HistoryList(cmd.OutOrStdout(), a.store.Snapshot(), flagOutput)
		})
	},
}

var historyPickCmd = &cobra.Command{
	Use:   "pick <n>",
	Short: "Apply the n-th configuration of the history list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		position, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid history position %q", args[0])
		}
		return withApp(cmd, func(a *app) error {
			if err := cli.HistoryPick(a.store, position, cli.NewPrompter(flagYes)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", a.store.Snapshot().ActiveConfigName)
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every history entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			return cli.HistoryClear(a.store, cli.NewPrompter(flagYes))
		})
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Inspect keybinding overrides",
}

var keybindsExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the default keybindings to keybinds.json",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(flagConfigDir); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		path := config.KeybindsFile
		if len(args) > 0 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !flagYes {
			return fmt.Errorf("%s already exists (use -y to overwrite)", path)
		}
		if err := keybinds.SaveConfig(keybinds.ExportDefaults(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var keybindsCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate a keybindings file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(flagConfigDir); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		path := config.KeybindsFile
		if len(args) > 0 {
			path = args[0]
		}
		cfg, err := keybinds.LoadConfig(path)
		if err != nil {
			return err
		}
		result := keybinds.NewValidator().ValidateConfig(cfg)
		if result.HasErrors() || result.HasWarnings() {
			fmt.Fprintln(cmd.OutOrStdout(), result.String())
		}
		if result.HasErrors() {
			return fmt.Errorf("%s has invalid keybindings", path)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path)
		return nil
	},
}

// Global flags
var (
	flagConfigDir string
	flagLogLevel  string
)

// Subcommand flags
var (
	flagOutput string
	flagBroker string
	flagTopics []string
	flagYes    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "Configuration directory (default ~/.mqttcmd)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (error/warn/info/debug), overrides settings")

	showCmd.Flags().StringVarP(&flagOutput, "output", "o", "text", "Output format (json/yaml/text)")
	historyListCmd.Flags().StringVarP(&flagOutput, "output", "o", "text", "Output format (json/yaml/text)")

	addressCmd.Flags().StringVarP(&flagBroker, "broker", "b", "", "Broker title (prompts when omitted)")
	commandCmd.Flags().StringVarP(&flagBroker, "broker", "b", "", "Broker title (prompts when omitted)")
	commandCmd.Flags().StringArrayVarP(&flagTopics, "topic", "t", nil, "Topic to subscribe to, can be repeated")
	selectCmd.Flags().StringVarP(&flagBroker, "broker", "b", "", "Broker title (prompts when omitted)")
	selectCmd.Flags().StringArrayVarP(&flagTopics, "topic", "t", nil, "Topic to select, can be repeated")

	loadCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
	historyPickCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
	historyClearCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
	resetCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
	keybindsExportCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Overwrite an existing file")

	historyCmd.AddCommand(historyListCmd, historyPickCmd, historyClearCmd)
	keybindsCmd.AddCommand(keybindsExportCmd, keybindsCheckCmd)
	rootCmd.AddCommand(showCmd, addressCmd, commandCmd, selectCmd, loadCmd, applyCmd, historyCmd, resetCmd, keybindsCmd)
}

// app holds what every command shares
type app struct {
	ctx      context.Context
	settings config.Settings
	logger   *slog.Logger
	db       *storage.Manager
	store    *state.Store
}

// withApp opens the configuration directory, log and database, hydrates the
// store and runs fn
func withApp(cmd *cobra.Command, fn func(a *app) error) error {
	if err := config.Initialize(flagConfigDir); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	settings, err := config.LoadSettings(config.SettingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	level := settings.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logger, closeLog, err := logging.Setup(config.LogFile, logging.ParseLevel(level))
	if err != nil {
		return err
	}
	defer closeLog()

	manager, err := storage.NewManager(config.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer manager.Close()

	loader := remote.NewLoader(settings.RequestTimeout(), "mqttcmd/"+version, logger)

	store := state.New(state.Options{
		Persister:     manager,
		Fetcher:       loader,
		ApplyingDelay: settings.ApplyingDelay(),
		DefaultDocument: func() types.Document {
			return document.DefaultFrom(settings.DefaultConfigPath)
		},
		Logger: logger,
	})
	store.Hydrate()

	logger.Debug("command started", "command", cmd.CommandPath(), "version", version)
	return fn(&app{ctx: cmd.Context(), settings: settings, logger: logger, db: manager, store: store})
}

// runTUI starts the interactive TUI
func runTUI(a *app) error {
	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}

	return tui.Run(a.store, tui.Options{
		Keybinds:    registry,
		Highlighter: highlight.New(highlight.DefaultStyle, true),
		TopicsQuery: a.settings.TopicsQuery,
		Logger:      a.logger,
		Context:     a.ctx,
	})
}

// applyFile applies the document in path, or stdin when path is "-"
func applyFile(store *state.Store, path string) error {
	if path == "-" {
		return cli.ApplyReader(store, os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return cli.ApplyReader(store, f)
}
