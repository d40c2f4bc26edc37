package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/plazacoche/charger-rota/cmd/cli/commands"
	"github.com/plazacoche/charger-rota/internal/config"
	"github.com/plazacoche/charger-rota/pkg/clients/gmailclient"
	"github.com/plazacoche/charger-rota/pkg/clients/mqttclient"
	"github.com/plazacoche/charger-rota/pkg/clients/sheetsclient"
	"github.com/plazacoche/charger-rota/pkg/metrics"
	"github.com/plazacoche/charger-rota/pkg/postgres"
	"github.com/plazacoche/charger-rota/pkg/utils/logging"
)

var (
	env     string
	verbose bool

	app     = &commands.AppContext{}
	pgDB    *postgres.DB
	mqttCli *mqttclient.Client
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	app.Ctx = ctx

	rootCmd := &cobra.Command{
		Use:          "charger-rota",
		Short:        "Charger Rota CLI - Share one EV charger fairly",
		Long:         `A CLI tool that assigns weekly charger hours from users' monthly schedules, least recent usage first.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[commands.SkipInitAnnotation] != "" {
				return nil
			}
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects charger_config.<env>.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")

	rootCmd.AddCommand(commands.AutoAssignCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.WeekCmd(app))
	rootCmd.AddCommand(commands.AddUserCmd(app))
	rootCmd.AddCommand(commands.ListUsersCmd(app))
	rootCmd.AddCommand(commands.SubmitScheduleCmd(app))
	rootCmd.AddCommand(commands.RecordUsageCmd(app))
	rootCmd.AddCommand(commands.ViewUsageCmd(app))
	rootCmd.AddCommand(commands.PublishWeekCmd(app))
	rootCmd.AddCommand(commands.ShellCmd(app))

	if err := rootCmd.Execute(); err != nil {
		closeApp()
		stop()
		os.Exit(1)
	}
}

// initApp sets up config, logger, database, metrics and the optional clients
func initApp() error {
	var err error

	// Load configuration
	cfg, err := config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Cfg = cfg

	// Initialize logger
	app.Logger, err = logging.InitLogger(env, cfg.LogDir, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Location, err = cfg.Location()
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	// Connect to database
	app.Logger.Info("Connecting to database")
	pgDB, err = postgres.NewDB(app.Ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pgDB.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Database = pgDB
	app.Logger.Debug("Database initialized successfully")

	app.Metrics, err = metrics.NewRecorder(nil)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	// Initialize sheets client
	if cfg.Publishing.SpreadsheetID != "" {
		app.Logger.Info("Initializing sheets client")
		sheets, err := sheetsclient.NewClient(app.Ctx, &cfg.Google)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		app.SheetsClient = sheets
	}

	// Initialize gmail client
	if cfg.Notifications.Enabled {
		app.Logger.Info("Initializing gmail client")
		gmail, err := gmailclient.NewClient(app.Ctx, &cfg.Google, cfg.Notifications.Sender)
		if err != nil {
			return fmt.Errorf("failed to create gmail client: %w", err)
		}
		app.GmailClient = gmail
	}

	// Connect to the charger's broker
	if cfg.MQTT.Enabled {
		app.Logger.Info("Connecting to mqtt broker", zap.String("broker", cfg.MQTT.Broker))
		mqttCli, err = mqttclient.NewClient(&cfg.MQTT)
		if err != nil {
			return fmt.Errorf("failed to create mqtt client: %w", err)
		}
		app.PlanPublisher = mqttCli
	}

	return nil
}

func closeApp() {
	if mqttCli != nil {
		mqttCli.Close()
		mqttCli = nil
	}
	if pgDB != nil {
		pgDB.Close()
		pgDB = nil
	}
	if app.Logger != nil {
		_ = app.Logger.Sync()
	}
}
