package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/landing-site/internal/bg"
	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/payment"
	"github.com/jonathan/landing-site/internal/server"
)

// sweepInterval is how often expired rendered pages are purged from PostgreSQL.
const sweepInterval = 15 * time.Minute

var (
	servePort    int
	serveWatch   bool
	serveOptions appOptions
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the site server",
	Long: `Start an HTTP server that renders the site pages, serves robots.txt, sitemap.xml and
site.webmanifest, and exposes the revalidation and payment APIs.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the fixture and revalidate the site when it changes")
	serveOptions.register(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveWatch && serveOptions.fixture == "" && serveOptions.configPath == "" {
		return fmt.Errorf("--watch requires --fixture")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, serveOptions)
	if err != nil {
		return err
	}

	srv, err := buildServer(cmd, a, cancel)
	if err != nil {
		a.close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	if serveWatch {
		if a.memory == nil {
			a.close()
			return fmt.Errorf("--watch requires --fixture")
		}
		stop, err := watchFixture(a.fixture, a.memory, srv.revalidate)
		if err != nil {
			a.close()
			return err
		}
		defer stop()
	}

	if a.db != nil {
		srv.background.Do(func() { sweepExpiredPages(ctx, a.db, sweepInterval) })
	}

	return srv.Start()
}

// builtServer is the server plus the orchestrator the fixture watcher reuses and the
// runner whose work shutdown waits for.
type builtServer struct {
	*server.Server
	revalidate revalidateRunner
	background *bg.Tracked
}

// buildServer wires the server. onShutdown stops long-running work such as the page
// sweeper before the database is closed.
func buildServer(cmd *cobra.Command, a *app, onShutdown func()) (*builtServer, error) {
	port := servePort
	if !cmd.Flags().Changed("port") && a.file.Port > 0 {
		port = a.file.Port
	}

	background := &bg.Tracked{}
	orchestrator, err := a.orchestrator(background)
	if err != nil {
		return nil, err
	}

	paymentCfg, err := config.NewPaymentConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid payment configuration: %w", err)
	}

	deps := server.Deps{
		Site:       a.site,
		Webhook:    a.webhook,
		Pages:      a.pages,
		Renderer:   a.renderer,
		Cache:      a.cache,
		Revalidate: orchestrator,
		SEO:        a.seo,
		Checkout:   payment.NewCheckout(a.content, paymentCfg),
		Background: background,
		OnShutdown: onShutdown,
	}

	if jwtCfg, err := config.NewJWTConfig(); err == nil {
		deps.JWT = server.NewJWTService(jwtCfg)
	} else {
		log.Printf("[serve] admin API disabled: %v", err)
	}
	if !a.webhook.Configured() {
		log.Printf("[serve] REVALIDATE_SECRET is not set, the webhook will answer 500")
	}
	if a.db != nil {
		deps.Runs = a.db
		deps.DB = a.db
	}

	srv, err := server.New(server.Config{Port: port}, deps)
	if err != nil {
		return nil, err
	}
	return &builtServer{Server: srv, revalidate: orchestrator, background: background}, nil
}

// expiredPageSweeper is the part of the database the sweeper needs.
type expiredPageSweeper interface {
	DeleteExpiredRenderedPages(ctx context.Context) (int64, error)
}

// sweepExpiredPages deletes expired rendered pages every interval until ctx is done.
func sweepExpiredPages(ctx context.Context, database expiredPageSweeper, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := database.DeleteExpiredRenderedPages(ctx)
			if err != nil {
				log.Printf("[serve] failed to sweep expired pages: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[serve] swept %d expired pages", n)
			}
		}
	}
}
