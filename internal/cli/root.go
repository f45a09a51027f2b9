package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Replica/internal/config"
	"github.com/SmitUplenchwar2687/Replica/internal/logging"
	"github.com/SmitUplenchwar2687/Replica/internal/report"
)

// Environment variables consulted for secrets the config file leaves out.
const (
	EnvRedisPassword = "REPLICA_REDIS_PASSWORD"
	EnvSentryDSN     = "REPLICA_SENTRY_DSN"
)

// app carries what PersistentPreRunE resolves for the subcommands.
type app struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string

	cfg      config.Config
	log      *logrus.Logger
	reporter *report.Reporter
}

// NewRootCmd creates the root replica command.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), log: logging.Discard()}

	root := &cobra.Command{
		Use:   "replica",
		Short: "Record and replay actor motion from VR sessions",
		Long: `Replica samples the positions and rotations of scene actors at a fixed
rate, logs named events alongside them, and saves the result as XML (for
playback) and CSV (for spreadsheets). Recordings replay onto actor
representations and redeliver their events at any speed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (JSON, or YAML by extension)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file with secrets, ignored when missing")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(
		newRecordCmd(a),
		newReplayCmd(a),
		newExportCmd(a),
		newInspectCmd(a),
		newGenerateCmd(),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", a.envFile, err)
		}
	}

	if a.configPath != "" {
		cfg, err := config.LoadFile(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	if a.cfg.Archive.Redis.Password == "" {
		a.cfg.Archive.Redis.Password = os.Getenv(EnvRedisPassword)
	}
	if a.cfg.Sentry.DSN == "" {
		a.cfg.Sentry.DSN = os.Getenv(EnvSentryDSN)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") || a.configPath == "" {
		a.cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") || a.configPath == "" {
		a.cfg.Log.Format = a.logFormat
	}

	lg, err := logging.NewWithWriter(a.cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.log = lg

	rep, err := report.New(a.cfg.Sentry, lg)
	if err != nil {
		return err
	}
	a.reporter = rep
	return nil
}

// capture is handed to components that report internal errors.
func (a *app) capture(err error) {
	a.reporter.Capture(err, nil)
}
