package bootstrap

import (
	"github.com/imobsite/listing-manager/internal/config"
	"github.com/imobsite/listing-manager/internal/docstore"
	"github.com/imobsite/listing-manager/internal/logger"
)

// SetupStore creates the remote document store client.
func SetupStore(cfg *config.Config, log logger.Logger) *docstore.Client {
	return docstore.NewClient(docstore.Config{
		BaseURL: cfg.Store.BaseURL,
		APIKey:  cfg.Store.APIKey,
		Timeout: cfg.Store.Timeout,
	}, log)
}
