package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"integribot/internal/api"
	"integribot/internal/app"
	"integribot/internal/backend"
	"integribot/internal/roles"
	"integribot/internal/telemetry"
	"integribot/internal/ui"
)

func main() {
	// A missing .env is fine; the environment and flags still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "integribot: load .env: %v\n", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type clientFlags struct {
	backendURL string
	logPath    string
	rolesDir   string
	ascii      bool
	overlay    bool
	noAgain    bool
	noSave     bool
}

func (f *clientFlags) register(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringVar(&f.backendURL, "backend", "", "IntegriBot backend base URL")
	fs.StringVar(&f.logPath, "log", "", "write JSON logs to this file")
	fs.StringVar(&f.rolesDir, "roles-dir", "", "directory of extra role YAML files")
	fs.BoolVar(&f.ascii, "ascii", false, "ASCII-only rendering")
	fs.BoolVar(&f.overlay, "overlay", false, "show the loading overlay during requests")
	fs.BoolVar(&f.noAgain, "no-again", false, "disable the generate-again key")
	fs.BoolVar(&f.noSave, "no-save", false, "disable the save-score key")
}

// clientConfig layers changed flags over the environment.
func (f *clientFlags) clientConfig(cmd *cobra.Command) (app.Config, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return cfg, err
	}
	fs := cmd.Flags()
	if fs.Changed("backend") {
		cfg.BackendURL = f.backendURL
	}
	if fs.Changed("log") {
		cfg.LogPath = f.logPath
	}
	if fs.Changed("roles-dir") {
		cfg.RolesDir = f.rolesDir
	}
	if fs.Changed("ascii") {
		cfg.ASCIIOnly = f.ascii
	}
	if fs.Changed("overlay") {
		cfg.OverlayOnRequests = f.overlay
	}
	if f.noAgain {
		cfg.Keys.Again = false
	}
	if f.noSave {
		cfg.Keys.Save = false
	}
	return cfg, cfg.Validate()
}

func newRootCmd() *cobra.Command {
	flags := &clientFlags{}
	root := &cobra.Command{
		Use:          "integribot",
		Short:        "Workplace integrity scenarios in the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, flags)
		},
	}
	flags.register(root)
	root.AddCommand(
		&cobra.Command{
			Use:   "play",
			Short: "Start the interactive client (default)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runPlay(cmd, flags)
			},
		},
		&cobra.Command{
			Use:   "leaderboard",
			Short: "Print the current leaderboard and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runLeaderboard(cmd, flags)
			},
		},
		&cobra.Command{
			Use:   "roles",
			Short: "List known roles",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := flags.clientConfig(cmd)
				if err != nil {
					return err
				}
				return printRoles(cmd.OutOrStdout(), cfg.RolesDir)
			},
		},
		newServeCmd(),
	)
	return root
}

func runPlay(cmd *cobra.Command, flags *clientFlags) error {
	cfg, err := flags.clientConfig(cmd)
	if err != nil {
		return err
	}
	catalog, err := roles.Load(cfg.RolesDir)
	if err != nil {
		return fmt.Errorf("load roles: %w", err)
	}
	a, err := app.New(cfg, catalog)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(cmd.Context())
}

func runLeaderboard(cmd *cobra.Command, flags *clientFlags) error {
	cfg, err := flags.clientConfig(cmd)
	if err != nil {
		return err
	}
	client, err := api.NewClient(cfg.BackendURL, api.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return err
	}
	lb, err := client.Leaderboard(cmd.Context())
	if err != nil {
		return fmt.Errorf("leaderboard: %w", err)
	}
	return printLeaderboard(cmd.OutOrStdout(), app.LeaderboardRows(lb))
}

func printRoles(w io.Writer, dir string) error {
	catalog, err := roles.Load(dir)
	if err != nil {
		return fmt.Errorf("load roles: %w", err)
	}
	for _, name := range catalog.Names() {
		if _, err := fmt.Fprintln(w, catalog.Describe(name)); err != nil {
			return err
		}
	}
	return nil
}

func newServeCmd() *cobra.Command {
	var addr, dataDir string
	var storeLogs bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local IntegriBot backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := backend.LoadConfig(app.EnvPrefix)
			if err != nil {
				return err
			}
			if cfg.Gemini.APIKey == "" {
				cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
			}
			fs := cmd.Flags()
			if fs.Changed("addr") {
				cfg.Addr = addr
			}
			if fs.Changed("data-dir") {
				cfg.DataDir = dataDir
			}
			if fs.Changed("store-logs") {
				cfg.StoreLogs = storeLogs
			}
			logger, err := telemetry.NewLogger(telemetry.Options{Path: cfg.LogPath, Level: cfg.LogLevel, Prefix: "integribot-server"})
			if err != nil {
				return err
			}
			defer logger.Close()

			gin.SetMode(gin.ReleaseMode)
			srv, store, err := backend.Open(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "IntegriBot backend listening on %s\n", cfg.Addr)
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory for the score database")
	cmd.Flags().BoolVar(&storeLogs, "store-logs", false, "record request events")
	return cmd
}

func printLeaderboard(w io.Writer, rows []ui.LeaderboardRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No scores yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tROLE\tSCORE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Rank, r.Name, r.Role, r.Score)
	}
	return tw.Flush()
}
