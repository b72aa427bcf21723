package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/landing-site/internal/bg"
	"github.com/jonathan/landing-site/internal/cms"
	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/db"
	"github.com/jonathan/landing-site/internal/fetch"
	"github.com/jonathan/landing-site/internal/paths"
	"github.com/jonathan/landing-site/internal/rendercache"
	"github.com/jonathan/landing-site/internal/rendering"
	"github.com/jonathan/landing-site/internal/revalidate"
	"github.com/jonathan/landing-site/internal/seo"
	"github.com/jonathan/landing-site/internal/site"
)

// appOptions are the flags shared by every command that reads content.
type appOptions struct {
	configPath  string
	fixture     string
	templates   string
	databaseURL string
}

func (o *appOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.configPath, "config", "", "Path to a YAML or JSON config file")
	cmd.Flags().StringVar(&o.fixture, "fixture", "", "Serve content from a local fixture instead of the CMS")
	cmd.Flags().StringVar(&o.templates, "templates", "", "Directory overriding the built-in page templates")
}

// app holds the collaborators shared by the commands.
type app struct {
	file     *config.Config
	site     *config.SiteConfig
	webhook  *config.WebhookConfig
	fixture  string
	memory   *cms.MemoryRepository
	content  *cms.Content
	routes   *paths.Resolver
	pages    *site.Resolver
	renderer *rendering.Renderer
	seo      *seo.Service
	cache    rendercache.Store
	db       *db.DB
}

// newApp builds the content stack. Flags win over the config file, which wins over
// environment variables. A fixture replaces the CMS and DATABASE_URL moves the render
// cache to PostgreSQL.
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	a := &app{file: &config.Config{}}

	if opts.configPath != "" {
		file, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		if err := file.Validate(); err != nil {
			return nil, err
		}
		a.file = file
	}

	siteCfg, err := config.NewSiteConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid site configuration: %w", err)
	}
	if err := siteCfg.Apply(*a.file); err != nil {
		return nil, fmt.Errorf("invalid site configuration: %w", err)
	}
	a.site = siteCfg

	webhookCfg, err := config.NewWebhookConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid webhook configuration: %w", err)
	}
	if webhookCfg.Endpoint == "" {
		webhookCfg.Endpoint = a.file.RevalidateEndpoint
	}
	a.webhook = webhookCfg

	a.fixture = firstNonEmpty(opts.fixture, a.file.Fixture)
	var repo cms.Repository
	if a.fixture != "" {
		memory, err := cms.LoadFixture(a.fixture)
		if err != nil {
			return nil, err
		}
		log.Printf("[app] serving content from fixture %s", a.fixture)
		a.memory = memory
		repo = memory
	} else {
		cmsCfg, err := config.NewCMSConfig()
		if err != nil {
			return nil, fmt.Errorf("no fixture given and CMS not configured: %w", err)
		}
		client, err := cms.NewClient(cmsCfg)
		if err != nil {
			return nil, err
		}
		repo = client
	}

	a.content = cms.NewContent(repo)
	a.routes = paths.NewResolver(a.content)
	a.pages = site.NewResolver(a.content, 0)
	a.seo = seo.NewService(a.routes, a.content, a.site)

	if opts.templates != "" {
		a.renderer, err = rendering.NewFromDir(a.site, opts.templates)
	} else {
		a.renderer, err = rendering.New(a.site)
	}
	if err != nil {
		return nil, err
	}

	databaseURL := firstNonEmpty(opts.databaseURL, os.Getenv("DATABASE_URL"), a.file.DatabaseURL)
	if databaseURL == "" {
		store, err := rendercache.NewLRUStore(a.site.CacheSize, a.site.PageTTL)
		if err != nil {
			return nil, err
		}
		a.cache = store
		return a, nil
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	a.db = database
	a.cache = rendercache.NewPGStore(database, a.site.PageTTL)
	return a, nil
}

// orchestrator invalidates the render cache and, when REVALIDATE_ENDPOINT is set, the
// remote instance behind it. Runs are recorded when a database is connected.
func (a *app) orchestrator(runner bg.Runner) (*revalidate.Orchestrator, error) {
	invalidators := revalidate.Multi{revalidate.InvalidatorFunc(a.cache.Invalidate)}
	if a.webhook.Endpoint != "" {
		remote, err := revalidate.NewHTTPInvalidator(a.webhook.Endpoint, a.webhook.EndpointToken, fetch.DefaultOptions())
		if err != nil {
			return nil, err
		}
		invalidators = append(invalidators, remote)
	}

	o := revalidate.NewOrchestrator(a.routes, invalidators, runner, revalidate.OptionsFromConfig(a.webhook))
	if a.db != nil {
		o.WithRecorder(a.db)
	}
	return o, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
