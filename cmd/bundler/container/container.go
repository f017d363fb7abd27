package container

import (
	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/providers"
	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/repository"
	"github.com/Ajasmt08/Asset-Bundler-Pro/cmd/bundler/service"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/bootstrap"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/cache"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/clients"
	rediscommon "github.com/Ajasmt08/Asset-Bundler-Pro/common/redis"
	"github.com/redis/go-redis/v9"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components
	Redis      *rediscommon.Client

	// Repositories
	BundleRepo *repository.BundleRepository

	// Services
	SearchService     *service.SearchService
	BundleService     *service.BundleService
	BatchOrchestrator *service.BatchOrchestrator
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	cfg := components.Config

	// One shared outbound client covers provider calls and image downloads
	fetchClient := clients.NewFetchClient(cfg.Fetch.Timeout, cfg.Fetch.InsecureTLS, components.Logger)

	// Provider adapters, in fixed registration order
	provs := []providers.Provider{
		providers.NewPexels(cfg.Providers.PexelsAPIKey, fetchClient),
		providers.NewPixabay(cfg.Providers.PixabayAPIKey, fetchClient),
		providers.NewUnsplash(cfg.Providers.UnsplashAccessKey, fetchClient),
	}

	names := make([]string, len(provs))
	for i, p := range provs {
		names[i] = p.Name()
	}
	planner := service.NewPlanner(names)

	// Search-round cache: Redis when configured, in-process otherwise
	var searchCache cache.Cache
	var redisClient *rediscommon.Client
	if cfg.Redis.Enabled {
		raw := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		redisClient = rediscommon.NewClient(raw, components.Logger)
		searchCache = cache.NewRedisCache(redisClient)
	} else {
		searchCache = cache.NewMemoryCache(components.Logger)
	}

	searchService := service.NewSearchService(planner, provs, searchCache, cfg.Redis.SearchTTL, components.Logger)
	bundleService := service.NewBundleService(fetchClient, cfg.Bundler, components.Logger)

	// Manifest persistence is optional; the pipeline works without a DB
	var bundleRepo *repository.BundleRepository
	var store service.ManifestStore
	if components.DB != nil {
		bundleRepo = repository.NewBundleRepository(components.DB)
		store = bundleRepo
	}

	batchOrchestrator := service.NewBatchOrchestrator(bundleService, store, cfg.Bundler.PerBatchLimit, components.Logger)

	return &Container{
		Components:        components,
		Redis:             redisClient,
		BundleRepo:        bundleRepo,
		SearchService:     searchService,
		BundleService:     bundleService,
		BatchOrchestrator: batchOrchestrator,
	}, nil
}
