package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/me/minify/internal/api"
	"github.com/me/minify/internal/auth"
	"github.com/me/minify/internal/config"
	"github.com/me/minify/internal/logging"
	"github.com/me/minify/internal/metrics"
	"github.com/me/minify/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// app is the state shared by every command of one invocation.
type app struct {
	flagServer         string
	flagConfig         string
	flagDebug          bool
	flagLogLevel       string
	flagLogFormat      string
	flagSessionBackend string
	flagSessionPath    string
	flagMetricsFile    string

	cfg      config.ClientConfig
	logger   *slog.Logger
	store    *session.Store
	client   *api.Client
	auth     *auth.Context
	nav      *navigator
	registry *prometheus.Registry

	// interactive reports whether prompts may be shown.
	interactive func() bool
}

// NewRootCmd creates the root cobra command for the minify CLI.
func NewRootCmd() *cobra.Command {
	a := &app{interactive: stdinIsTerminal}

	root := &cobra.Command{
		Use:   "minify",
		Short: "Minify URL shortener client",
		Long:  "minify shortens URLs and shows your links and analytics from a Minify server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flagServer, "server", "", "Minify server URL (or MINIFY_API_URL env)")
	pf.StringVar(&a.flagConfig, "config", "", "Config file (default ~/.minify/config.yaml)")
	pf.BoolVar(&a.flagDebug, "debug", false, "Enable debug logging")
	pf.StringVar(&a.flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&a.flagLogFormat, "log-format", "", "Log format (text, json, auto)")
	pf.StringVar(&a.flagSessionBackend, "session-backend", "", "Session store (file, sqlite, redis, memory)")
	pf.StringVar(&a.flagSessionPath, "session-path", "", "Session file or database path")
	pf.StringVar(&a.flagMetricsFile, "metrics-file", "", "Write request metrics in Prometheus text format to this file")

	root.AddCommand(
		newShortenCmd(a),
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newURLsCmd(a),
		newAdminCmd(a),
		newTimeframeCmd(a),
	)

	return root
}

// configure resolves configuration and the logger. Flags win over the
// environment, which wins over the config file.
func (a *app) configure(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flagConfig)
	if err != nil {
		return err
	}
	override(&cfg.APIURL, a.flagServer)
	override(&cfg.LogLevel, a.flagLogLevel)
	override(&cfg.LogFormat, a.flagLogFormat)
	override(&cfg.Session.Backend, a.flagSessionBackend)
	override(&cfg.Session.Path, a.flagSessionPath)
	override(&cfg.MetricsFile, a.flagMetricsFile)
	if a.flagDebug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	level := logging.ParseLevel(cfg.LogLevel)
	if w := cmd.ErrOrStderr(); w == io.Writer(os.Stderr) {
		a.logger = logging.NewLogger(level, cfg.LogFormat)
	} else {
		a.logger = logging.NewLoggerWithWriter(level, cfg.LogFormat, w)
	}
	return nil
}

func override(dst *string, flag string) {
	if flag != "" {
		*dst = flag
	}
}

// open builds the session store, API client and auth context, and
// resolves the current user.
func (a *app) open(cmd *cobra.Command) error {
	ctx := cmd.Context()

	store, err := session.Open(ctx, a.cfg.Session, a.logger)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	a.store = store

	a.registry = prometheus.NewRegistry()
	a.nav = newNavigator(cmd.ErrOrStderr())
	a.client = api.New(a.cfg.APIURL, store, a.nav, a.logger,
		api.WithMetrics(metrics.NewCollector(a.registry)))
	a.auth = auth.New(a.client, store, a.nav, a.logger)
	// A 401 has already cleared the store; forget the in-memory user too.
	a.nav.onLogin = a.auth.Reset

	a.auth.Init(ctx)
	return nil
}

// close writes the metrics file, if configured, and releases the store.
func (a *app) close() {
	if a.cfg.MetricsFile != "" && a.registry != nil {
		if err := metrics.WriteTextfile(a.cfg.MetricsFile, a.registry); err != nil {
			a.logger.Warn("write metrics file", "path", a.cfg.MetricsFile, "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close session store", "error", err)
		}
	}
}

// run wraps a command body with open and close.
func (a *app) run(fn func(ctx context.Context, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.open(cmd); err != nil {
			return err
		}
		defer a.close()
		return fn(cmd.Context(), cmd, args)
	}
}
