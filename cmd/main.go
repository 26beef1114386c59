package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quote_server/internal/config"
	"quote_server/internal/handlers"
	"quote_server/internal/logger"
	"quote_server/internal/repository"
	"quote_server/internal/repository/db"
	"quote_server/internal/server"
	"quote_server/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// @title                       Knock-Knock Quote Server API
// @version                     1.0
// @description                 Serves knock-knock jokes by id, by tag set or at random. Adding quotes requires a bearer token obtained at /api/v1/register.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

var (
	configPath string
	initFrom   string
)

var rootCmd = &cobra.Command{
	Use:   "quote-server",
	Short: "Knock-knock quote server",
	Long: `quote-server serves knock-knock jokes from a SQLite store over a JSON API,
an HTML page and a WebSocket feed. Adding quotes requires a bearer token.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), viper.GetViper())
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default ./configs/config.yml)")
	flags.String("port", "", "listen port")
	flags.String("db-uri", "", "SQLite database path or sqlite: URI")
	flags.StringVar(&initFrom, "init-from", "", "load quotes from a JSON or YAML file before serving")

	_ = viper.BindPFlag(config.KeyPort, flags.Lookup("port"))
	_ = viper.BindPFlag(config.KeyDBPath, flags.Lookup("db-uri"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return err
	}

	// init logger
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	// open DB
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Errorw("failed to init sqlite", "err", err)
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	authority, err := newTokenAuthority(cfg.Auth)
	if err != nil {
		log.Errorw("failed to init token authority", "err", err)
		return err
	}

	// wire dependencies
	repos := repository.NewRepository(conn)
	if initFrom != "" {
		if err := loadQuotes(ctx, repos, initFrom, log); err != nil {
			log.Errorw("bulk load failed", "err", err, "file", initFrom)
			return err
		}
	}
	services := service.NewService(repos, authority)
	if n, err := services.Count(ctx); err != nil {
		log.Warnw("could not count quotes", "err", err)
	} else {
		log.Infow("quote store ready", "quotes", n)
	}
	apiHandler := handlers.NewHandler(services, log.Named("http"))

	srv := server.New(server.Timeouts{
		ReadHeader: cfg.Server.ReadHeaderTimeout,
		Write:      cfg.Server.WriteTimeout,
		Idle:       cfg.Server.IdleTimeout,
	})
	errCh := runHTTPServer(srv, cfg.Addr(), apiHandler, log)

	// graceful shutdown
	return waitForShutdown(srv, errCh, cfg.Server.ShutdownTimeout, log)
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg config.Config, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening quote store", "db", cfg.DBPath)
	return db.InitDB(cfg.DBPath)
}

// newTokenAuthority reads both secrets once and builds the token authority.
func newTokenAuthority(cfg config.AuthConfig) (*service.TokenAuthority, error) {
	signing, err := config.ReadSecret(cfg.JWTSecretFile)
	if err != nil {
		return nil, fmt.Errorf("jwt secret: %w", err)
	}
	reg, err := config.ReadSecret(cfg.RegPasswordFile)
	if err != nil {
		return nil, fmt.Errorf("registration password: %w", err)
	}
	return service.NewTokenAuthority(service.AuthConfig{
		SigningSecret:      []byte(signing),
		RegistrationSecret: reg,
		Issuer:             cfg.Issuer,
		TokenTTL:           cfg.TokenTTL,
	})
}

// loadQuotes bulk-loads a quote file, skipping ids that already exist.
func loadQuotes(ctx context.Context, repos *repository.Repository, path string, log *logger.Logger) error {
	quotes, err := service.ReadQuotesFile(path)
	if err != nil {
		return err
	}
	report, err := service.NewQuoteService(repos.Quotes).Load(ctx, quotes)
	for _, s := range report.Skipped {
		log.Warnw("quote skipped", "quote_id", s.ID, "reason", s.Reason)
	}
	log.Infow("bulk load finished", "file", path, "loaded", report.Loaded, "skipped", len(report.Skipped))
	return err
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, addr string, handler *handlers.Handler, log *logger.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting server", "addr", addr)
		errCh <- srv.Run(addr, handler.InitRoutes())
	}()
	return errCh
}

// waitForShutdown blocks until a termination signal or a server failure,
// then drains in-flight requests.
func waitForShutdown(srv *server.Server, errCh <-chan error, timeout time.Duration, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			log.Errorw("error starting server", "err", err)
		}
		return err
	case <-quit:
	}

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
		return err
	}
	return nil
}
