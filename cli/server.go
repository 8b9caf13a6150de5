package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/capitalninja/ninja/core/campaign"
	"github.com/capitalninja/ninja/core/investor"
	"github.com/capitalninja/ninja/core/list"
	"github.com/capitalninja/ninja/core/raise"
	"github.com/capitalninja/ninja/core/team"
	"github.com/capitalninja/ninja/core/user"
	ninjaserver "github.com/capitalninja/ninja/internal/server"
	"github.com/capitalninja/ninja/internal/store/postgres"
	"github.com/capitalninja/ninja/pkg/statsd"
	"github.com/capitalninja/ninja/pkg/telemetry"
	"github.com/goto/salt/log"
	"github.com/spf13/cobra"
)

// Version of the current build. overridden by the build system.
// see "Makefile" for more information
var (
	Version string
)

func serverCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "server <command>",
		Aliases: []string{"s"},
		Short:   "Run ninja server",
		Long:    "Server management commands.",
		Example: heredoc.Doc(`
			$ ninja server start
			$ ninja server start -c ./config.yaml
			$ ninja server migrate
			$ ninja server rollback
		`),
	}

	cmd.AddCommand(
		serverStartCommand(cfg),
		serverMigrateCommand(cfg),
		serverRollbackCommand(cfg),
	)

	return cmd
}

func serverStartCommand(cfg *Config) *cobra.Command {
	c := &cobra.Command{
		Use:     "start",
		Short:   "Start server on default port 8080",
		Example: "ninja server start",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := overrideConfig(cmd, cfg); err != nil {
				return err
			}
			if err := runServer(cmd.Context(), cfg); err != nil {
				return fmt.Errorf("run server: %w", err)
			}
			return nil
		},
	}

	return c
}

func serverMigrateCommand(cfg *Config) *cobra.Command {
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Run storage migration",
		Example: heredoc.Doc(`
			$ ninja server migrate
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := overrideConfig(cmd, cfg); err != nil {
				return err
			}
			return runMigrations(cfg, false)
		},
	}

	return c
}

func serverRollbackCommand(cfg *Config) *cobra.Command {
	c := &cobra.Command{
		Use:   "rollback",
		Short: "Roll back the latest storage migration",
		Example: heredoc.Doc(`
			$ ninja server rollback
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := overrideConfig(cmd, cfg); err != nil {
				return err
			}
			return runMigrations(cfg, true)
		},
	}

	return c
}

func overrideConfig(cmd *cobra.Command, cfg *Config) error {
	cfgFile, _ := cmd.Flags().GetString(configFlag)
	if cfgFile == "" {
		return nil
	}
	if err := LoadConfigFromFlag(cfgFile, cfg); err != nil {
		return fmt.Errorf("load config %q: %w", cfgFile, err)
	}
	return nil
}

func runServer(ctx context.Context, config *Config) error {
	logger := initLogger(config.LogLevel)
	logger.Info("ninja starting", "version", Version)

	nrApp, err := telemetry.InitNewRelic(config.NewRelic, logger)
	if err != nil {
		return err
	}
	statsdReporter, err := statsd.Init(logger, config.StatsD)
	if err != nil {
		return err
	}
	defer func() {
		if err := statsdReporter.Close(); err != nil {
			logger.Error("close statsd reporter", "err", err)
		}
	}()

	pgClient, err := initPostgres(logger, config)
	if err != nil {
		return err
	}

	// init user
	userRepository, err := postgres.NewUserRepository(pgClient)
	if err != nil {
		return fmt.Errorf("create new user repository: %w", err)
	}
	userService := user.NewService(logger, userRepository)

	// init investor
	investorRepository, err := postgres.NewInvestorRepository(pgClient)
	if err != nil {
		return fmt.Errorf("create new investor repository: %w", err)
	}
	var cache *investor.Cache
	if config.Cache.Enabled {
		cache = investor.NewCache(config.Cache.MaxEntries)
	}
	investorService := investor.NewService(logger, investorRepository,
		investor.ServiceWithCache(cache),
		investor.ServiceWithStatsDReporter(statsdReporter),
	)
	if cache != nil && config.Cache.ListenChanges {
		if err := startChangeListener(ctx, logger, config.DB, investorService); err != nil {
			return err
		}
	}

	// init list
	listRepository, err := postgres.NewListRepository(pgClient)
	if err != nil {
		return fmt.Errorf("create new list repository: %w", err)
	}
	listService := list.NewService(logger, listRepository)

	// init raise
	raiseRepository, err := postgres.NewRaiseRepository(pgClient)
	if err != nil {
		return fmt.Errorf("create new raise repository: %w", err)
	}
	raiseService := raise.NewService(logger, raiseRepository)

	// init campaign
	campaignRepository, err := postgres.NewCampaignRepository(pgClient)
	if err != nil {
		return fmt.Errorf("create new campaign repository: %w", err)
	}
	campaignService := campaign.NewService(logger, campaignRepository)

	// init team
	teamRepository, err := postgres.NewTeamRepository(pgClient)
	if err != nil {
		return fmt.Errorf("create new team repository: %w", err)
	}
	teamService := team.NewService(logger, teamRepository)

	return ninjaserver.Serve(
		ctx,
		config.Service,
		logger,
		pgClient,
		nrApp,
		statsdReporter,
		ninjaserver.Services{
			Investor:  investorService,
			List:      listService,
			Raise:     raiseService,
			Campaign:  campaignService,
			Team:      teamService,
			User:      userService,
			Lists:     listService,
			Investors: investorService,
		},
	)
}

func startChangeListener(ctx context.Context, logger log.Logger, cfg postgres.Config, svc *investor.Service) error {
	listener, err := postgres.NewChangeListener(cfg, logger)
	if err != nil {
		return fmt.Errorf("create change listener: %w", err)
	}
	go func() {
		if err := listener.Run(ctx, svc.Invalidate); err != nil {
			logger.Error("change listener stopped", "err", err)
		}
	}()
	logger.Info("listening for investor changes", "channel", postgres.InvestorsChannel)
	return nil
}

func initLogger(logLevel string) *log.Logrus {
	logger := log.NewLogrus(
		log.LogrusWithLevel(logLevel),
		log.LogrusWithWriter(os.Stdout),
	)
	return logger
}

func initPostgres(logger log.Logger, config *Config) (*postgres.Client, error) {
	pgClient, err := postgres.NewClient(config.DB)
	if err != nil {
		return nil, fmt.Errorf("error creating postgres client: %w", err)
	}
	logger.Info("connected to postgres server", "host", config.DB.Host, "port", config.DB.Port)

	return pgClient, nil
}

func runMigrations(config *Config, down bool) error {
	fmt.Println("Preparing migration...")

	logger := initLogger(config.LogLevel)
	logger.Info("ninja is migrating", "version", Version, "down", down)

	pgClient, err := initPostgres(logger, config)
	if err != nil {
		logger.Error("failed to prepare migration", "error", err)
		return err
	}
	defer pgClient.Close()

	migrate := pgClient.Migrate
	if down {
		migrate = pgClient.MigrateDown
	}
	ver, err := migrate()
	if err != nil {
		return fmt.Errorf("problem with migration %w", err)
	}

	logger.Info("Migration Postgres done.", "version", ver)
	return nil
}
