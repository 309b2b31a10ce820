package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ecole/schoolrecords/internal/bootstrap"
	"github.com/ecole/schoolrecords/internal/config"
	"github.com/ecole/schoolrecords/internal/pkg/logger"
	"github.com/ecole/schoolrecords/internal/server"
)

// @title School Records API
// @version 1.0
// @description CRUD API for students, courses and enrollments
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@ecole.fr

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	configPath     string
	port           string
	skipMigrations bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "schoolrecords",
		Short: "School records API server",
		Long:  `schoolrecords serves a REST API over students, courses and enrollments stored in PostgreSQL.`,
		// Running without a subcommand starts the server
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to the YAML configuration file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "HTTP server port (overrides server.port / SERVER_PORT)")
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Start without applying pending migrations")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations and exit",
		RunE:  runMigrate,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Insert demo students, courses and enrollments",
		RunE:  runSeed,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("schoolrecords %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	srv, err := server.NewServer(server.Options{
		ConfigPath:     configPath,
		Port:           port,
		SkipMigrations: skipMigrations,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	logger.Info().Str("version", version).Msg("Starting school records API")
	if err := srv.Run(); err != nil {
		return err
	}

	logger.Info().Msg("Application finished gracefully.")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	pool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer pool.Close()

	applied, err := bootstrap.RunMigrations(ctx, cfg, pool, lgr)
	if err != nil {
		return err
	}

	fmt.Printf("%d migration(s) applied\n", applied)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	pool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer pool.Close()

	return bootstrap.SeedDemoData(ctx, cfg, pool, true, lgr)
}
