package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	formatter "github.com/bluexlab/logrus-formatter"
	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/gobuffalo/pop"
	"github.com/gobuffalo/pop/logging"
	"github.com/openpcs/openpcs/pkg/config"
	"github.com/openpcs/openpcs/pkg/pcs_server/api"
	"github.com/openpcs/openpcs/pkg/pcs_server/manager"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage/memory"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage/postgres"
	"github.com/openpcs/openpcs/pkg/pcs_server/webhook"
	"github.com/openpcs/openpcs/pkg/util"
	"github.com/sirupsen/logrus"
)

const appName string = "pcs-server"

const (
	StorageKindPostgres = "postgres"
	StorageKindMemory   = "memory"
)

type CLI struct {
	Server struct {
		NoWebhook bool `long:"no-webhook" help:"Do not deliver webhook events from this process"`
	} `cmd:"" help:"Run the API and manager servers"`
	Migrate struct {
		Path string `short:"p" long:"path" help:"Path to the migration files" type:"existingdir" default:"migrations"`
	} `cmd:"" help:"Migrate the database"`
	Webhook struct {
	} `cmd:"" help:"Run the webhook processor alone"`
	Config  string `short:"c" long:"config" help:"Path to the configuration file" type:"existingfile" default:"config.yaml"`
	EnvFile string `long:"env-file" help:"Dotenv file applied before the configuration is rendered" default:".env"`
}

type Config struct {
	Database util.PostgresDatabaseConfig `yaml:"database"`
	Storage  string                      `yaml:"storage"` // postgres (default) or memory.
	Server   struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	Manager struct {
		Host           string `yaml:"host"`
		Port           int    `yaml:"port"`
		Admin          string `yaml:"admin"`
		AdminTokenHash string `yaml:"admin_token_hash"`
	} `yaml:"manager"`
	Webhook struct {
		CheckInterval int     `yaml:"check_interval"`
		BatchSize     int     `yaml:"batch_size"`
		Timeout       int     `yaml:"timeout"`
		MaxRetry      int     `yaml:"max_retry"`
		RatePerHost   float64 `yaml:"rate_per_host"`
	} `yaml:"webhook"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

type App struct{}

func (a *App) Run() {
	formatter.InitLogger()

	var cli CLI
	ctx := kong.Parse(&cli, kong.UsageOnError())
	switch ctx.Command() {
	case "server":
		a.runServer(cli)
	case "migrate":
		a.runMigrate(cli)
	case "webhook":
		a.runWebhook(cli)
	default:
	}
}

func loadConfig(cli CLI) Config {
	var appConfig Config
	if err := config.LoadEnvFile(cli.EnvFile); err != nil {
		logrus.Errorf("failed to load env file %q: %v", cli.EnvFile, err)
		os.Exit(128)
	}
	if err := config.FromFile(cli.Config, &appConfig); err != nil {
		logrus.Errorf("failed to load config: %v", err)
		os.Exit(128)
	}
	return appConfig
}

func newStorage(appConfig Config) (api.Storage, error) {
	switch appConfig.Storage {
	case "", StorageKindPostgres:
		return postgres.NewStorageWithConfig(appConfig.Database)
	case StorageKindMemory:
		logrus.Warn("using the memory storage, nothing survives a restart")
		return memory.NewStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", appConfig.Storage)
	}
}

func initExporter(ctx context.Context, appConfig Config) func() {
	endpoint := appConfig.OTLPEndpoint
	if endpoint == "" {
		return func() {}
	}

	exporter, err := otlp_util.InitExporter(
		otlp_util.WithContext(ctx),
		otlp_util.WithEndPoint(endpoint),
		otlp_util.WithServiceName(appName),
		otlp_util.WithInSecure(),
		otlp_util.WithErrorHandler(func(err error) {
			logrus.Warnf("OTLP error: %v", err)
		}),
	)
	if err != nil {
		logrus.Errorf("failed to initialize OTLP exporter: %v", err)
		os.Exit(128)
	}
	return func() { _ = exporter.Shutdown(ctx) }
}

func newProcessor(appConfig Config, store api.Storage) (*webhook.Processor, error) {
	processorConfig := webhook.Config{
		Database:      appConfig.Database,
		CheckInterval: appConfig.Webhook.CheckInterval,
		BatchSize:     appConfig.Webhook.BatchSize,
		Timeout:       appConfig.Webhook.Timeout,
		MaxRetry:      appConfig.Webhook.MaxRetry,
		RatePerHost:   appConfig.Webhook.RatePerHost,
	}
	return webhook.NewProcessorWithConfig(processorConfig, webhook.WithStorage(store))
}

func (a *App) runServer(cli CLI) {
	ctx := context.Background()
	appConfig := loadConfig(cli)
	shutdownExporter := initExporter(ctx, appConfig)
	defer shutdownExporter()

	store, err := newStorage(appConfig)
	if err != nil {
		logrus.Errorf("failed to create storage: %v", err)
		os.Exit(128)
	}

	apiConfig := api.APIConfig{
		LocalAddress: net.JoinHostPort(appConfig.Server.Host, strconv.Itoa(appConfig.Server.Port)),
	}
	apiServer, err := api.NewAPIWithStorage(store, apiConfig)
	if err != nil {
		logrus.Errorf("failed to create API server: %v", err)
		os.Exit(128)
	}

	managerAPIConfig := manager.ManagerAPIConfig{
		LocalAddress:   net.JoinHostPort(appConfig.Manager.Host, strconv.Itoa(appConfig.Manager.Port)),
		Admin:          appConfig.Manager.Admin,
		AdminTokenHash: appConfig.Manager.AdminTokenHash,
	}
	managerServer, err := manager.NewManagerAPI(store, managerAPIConfig)
	if err != nil {
		logrus.Errorf("failed to create Manager server: %v", err)
		os.Exit(128)
	}

	// The memory storage is only visible to this process, so it always delivers its own webhooks.
	var processor *webhook.Processor
	if !cli.Server.NoWebhook || appConfig.Storage == StorageKindMemory {
		if processor, err = newProcessor(appConfig, store); err != nil {
			logrus.Errorf("failed to create webhook processor: %v", err)
			os.Exit(128)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg := &sync.WaitGroup{}

	wg.Add(1)
	go func(wg *sync.WaitGroup) {
		defer wg.Done()

		if err := apiServer.Run(); err != nil {
			logrus.Errorf("failed to run API server: %v", err)
			os.Exit(1)
		}
	}(wg)

	wg.Add(1)
	go func(wg *sync.WaitGroup) {
		defer wg.Done()

		if err := managerServer.Run(); err != nil {
			logrus.Errorf("failed to run Manager server: %v", err)
			os.Exit(1)
		}
	}(wg)

	if processor != nil {
		wg.Add(1)
		go func(wg *sync.WaitGroup) {
			defer wg.Done()
			processor.Run(ctx)
		}(wg)
	}

	logrus.Infof("API server listening on %s, manager on %s", apiConfig.LocalAddress, managerAPIConfig.LocalAddress)

	// listen for the stop signal
	<-ctx.Done()

	// Restore default behavior on the signals we are listening to
	stop()
	logrus.Info("shutting down gracefully, press Ctrl+C again to force")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Close(ctx); err != nil {
		logrus.Warnf("failed to close API server: %v", err)
		os.Exit(1)
	}
	if err := managerServer.Close(ctx); err != nil {
		logrus.Warnf("failed to close Manager server: %v", err)
		os.Exit(1)
	}

	wg.Wait()
}

func (a *App) runWebhook(cli CLI) {
	ctx := context.Background()
	appConfig := loadConfig(cli)
	if appConfig.Storage == StorageKindMemory {
		logrus.Error("the webhook processor cannot run alone on the memory storage")
		os.Exit(128)
	}
	shutdownExporter := initExporter(ctx, appConfig)
	defer shutdownExporter()

	store, err := newStorage(appConfig)
	if err != nil {
		logrus.Errorf("failed to create storage: %v", err)
		os.Exit(128)
	}
	processor, err := newProcessor(appConfig, store)
	if err != nil {
		logrus.Errorf("failed to create webhook processor: %v", err)
		os.Exit(128)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	processor.Run(ctx)
	logrus.Info("webhook processor stopped")
}

func (a *App) runMigrate(cli CLI) {
	appConfig := loadConfig(cli)

	// set up the logger
	pop.SetLogger(func(lvl logging.Level, s string, args ...interface{}) {
		switch lvl {
		case logging.Debug:
			logrus.Debugf(s, args...)
		case logging.Info:
			logrus.Infof(s, args...)
		case logging.Warn:
			logrus.Warnf(s, args...)
		case logging.Error:
			logrus.Errorf(s, args...)
		case logging.SQL:
			// Do nothing
		}
	})

	// setup database connection
	cd := pop.ConnectionDetails{
		Dialect:  "postgres",
		Database: appConfig.Database.Database,
		Host:     appConfig.Database.Host,
		Port:     strconv.Itoa(appConfig.Database.Port),
		User:     appConfig.Database.User,
		Password: appConfig.Database.Password,
	}
	conn, err := pop.NewConnection(&cd)
	if err != nil {
		logrus.Errorf("failed to create connection: %v", err)
		os.Exit(128)
	}

	// create the database if it doesn't exist
	if err = conn.Dialect.CreateDB(); err != nil {
		logrus.Warnf("failed to create database: %v", err)
	}

	migrator, err := pop.NewFileMigrator(cli.Migrate.Path, conn)
	if err != nil {
		logrus.Errorf("failed to create migrator: %v", err)
		os.Exit(128)
	}
	// Remove SchemaPath to prevent migrator try to dump schema.
	migrator.SchemaPath = ""

	if err = migrator.Up(); err != nil {
		logrus.Errorf("failed to migrate: %v", err)
		os.Exit(1)
	}
	logrus.Info("database migrated")
}
