package app

import (
	"fmt"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/templui/cosmicblog/internal/config"
	"github.com/templui/cosmicblog/internal/cosmic"
	"github.com/templui/cosmicblog/internal/markdown"
	"github.com/templui/cosmicblog/internal/metrics"
	"github.com/templui/cosmicblog/internal/repository"
	"github.com/templui/cosmicblog/internal/service"
)

type App struct {
	Cfg            *config.Config
	Registry       *prometheus.Registry
	Metrics        *metrics.Metrics
	Parser         *markdown.Parser
	ContentService *service.ContentService
	MetaService    *service.MetaService
	PageService    *service.PageService
	SitemapService *service.SitemapService
	FeedService    *service.FeedService
}

func New(cfg *config.Config) (*App, error) {
	_, err := url.ParseRequestURI(cfg.CosmicAPIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid COSMIC_API_URL: %w", err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Content bucket
	client := cosmic.NewClient(cosmic.Config{
		BaseURL:    cfg.CosmicAPIURL,
		BucketSlug: cfg.CosmicBucketSlug,
		ReadKey:    cfg.CosmicReadKey,
	})

	// Repositories
	postRepository := repository.NewPostRepository(client)
	authorRepository := repository.NewAuthorRepository(client)
	categoryRepository := repository.NewCategoryRepository(client)

	// Services
	parser := markdown.NewParser()
	contentService := service.NewContentService(postRepository, authorRepository, categoryRepository, m)
	metaService := service.NewMetaService(cfg)
	pageService := service.NewPageService(cfg.ContentPath, parser, cfg.IsDevelopment())
	sitemapService := service.NewSitemapService(contentService, pageService, cfg.AppURL)
	feedService := service.NewFeedService(contentService, metaService)

	return &App{
		Cfg:            cfg,
		Registry:       registry,
		Metrics:        m,
		Parser:         parser,
		ContentService: contentService,
		MetaService:    metaService,
		PageService:    pageService,
		SitemapService: sitemapService,
		FeedService:    feedService,
	}, nil
}
