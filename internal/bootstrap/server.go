package bootstrap

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/imobsite/listing-manager/internal/api"
	"github.com/imobsite/listing-manager/internal/cache"
	"github.com/imobsite/listing-manager/internal/config"
	"github.com/imobsite/listing-manager/internal/docstore"
	"github.com/imobsite/listing-manager/internal/events"
	"github.com/imobsite/listing-manager/internal/handlers"
	"github.com/imobsite/listing-manager/internal/importer"
	"github.com/imobsite/listing-manager/internal/logger"
	"github.com/imobsite/listing-manager/internal/metrics"
	"github.com/imobsite/listing-manager/internal/repository"
)

// SetupRouter assembles the repository, handlers and router.
func SetupRouter(
	cfg *config.Config,
	store docstore.Store,
	redisClient *redis.Client,
	log logger.Logger,
) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	repo := repository.NewListingRepository(store, cfg.Store.Collection, log, m)
	images := cache.New(redisClient, cfg.Listings.CacheTTL, log)
	publisher := events.NewPublisher(redisClient, log)
	syncer := importer.NewFeedSyncer(repo, log, m)

	listingHandler := handlers.NewListingHandler(repo, images, publisher, cfg.Listings.PageSize, log)
	importHandler := handlers.NewImportHandler(syncer, listingHandler, publisher, log)

	return api.NewRouter(listingHandler, importHandler, cfg.Server.CORSOrigins, log)
}
