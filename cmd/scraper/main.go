// cmd/scraper/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/ps-vitor/landscraper/internal/api/handlers"
	"github.com/ps-vitor/landscraper/internal/config"
	"github.com/ps-vitor/landscraper/internal/domain"
	"github.com/ps-vitor/landscraper/internal/repositories"
	"github.com/ps-vitor/landscraper/internal/services/property"
	"github.com/ps-vitor/landscraper/internal/services/scraping"
	"github.com/ps-vitor/landscraper/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:          "landscraper",
	Short:        "Collect Western Cape property listings into CSV files",
	Long:         `Scrapes vacant-land listings from Property24 and for-sale listings from PrivateProperty, appending them to CSV files in the working directory.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.scraper.Run(cmd.Context())
		printSummary(cmd.OutOrStdout(), summary)
		return err
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scrape trigger and stored listings over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return a.serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type app struct {
	cfg      *config.Config
	log      *logger.Logger
	scraper  *scraping.ScraperService
	listings *property.ListingService
	closers  []func()
}

func setup(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log, logFile, err := logger.Open(cfg.App.LogFile)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}
	a.closers = append(a.closers, func() { logFile.Close() })

	p24 := repositories.ListingRepository(repositories.NewCSVRepository(
		cfg.Scraping.Property24.OutputFile, domain.Property24Header()))
	pp := repositories.ListingRepository(repositories.NewCSVRepository(
		cfg.Scraping.PrivateProperty.OutputFile, domain.PrivatePropertyHeader()))

	if cfg.Database.DSN != "" {
		pool, err := repositories.OpenPostgres(ctx, cfg.Database.DSN)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		p24, pp = mirror(pool, p24, pp)
		log.Info("Mirroring listings to PostgreSQL.")
	}

	a.scraper = scraping.NewFromConfig(cfg, log, p24, pp)
	a.listings = property.NewListingService(map[string]repositories.ListingRepository{
		domain.SourceProperty24:      p24,
		domain.SourcePrivateProperty: pp,
	})
	return a, nil
}

func mirror(pool *pgxpool.Pool, p24, pp repositories.ListingRepository) (repositories.ListingRepository, repositories.ListingRepository) {
	return repositories.NewMulti(p24, repositories.NewPostgresRepository(pool, domain.SourceProperty24)),
		repositories.NewMulti(pp, repositories.NewPostgresRepository(pool, domain.SourcePrivateProperty))
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) serve(ctx context.Context) error {
	router := handlers.NewRouter(
		handlers.NewScrapingHandler(a.scraper),
		handlers.NewAPIHandler(a.listings),
	)
	srv := &http.Server{
		Addr:              a.cfg.App.APIAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Infof("API listening on %s", a.cfg.App.APIAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func printSummary(w io.Writer, s scraping.Summary) {
	if s.Aborted {
		fmt.Fprintln(w, "No city IDs retrieved; scraping aborted.")
		return
	}
	fmt.Fprintf(w, "Property24:      %d rows from %d pages (%d failed)\n",
		s.Property24.Rows, s.Property24.Pages, len(s.Property24.Failed))
	fmt.Fprintf(w, "PrivateProperty: %d rows from %d pages (%d failed)\n",
		s.PrivateProperty.Rows, s.PrivateProperty.Pages, len(s.PrivateProperty.Failed))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
