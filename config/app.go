package config

import (
	"sync"
	"time"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName string
	Env     string
	Debug   bool

	// Source selects the snapshot source: "db" or "search".
	Source string
	// Taxonomy selects the classifier preset: "apparel" or "collections".
	Taxonomy string
	// Locale is the BCP-47 tag used for name collation.
	Locale string

	SnapshotTTL       time.Duration
	WarmScopes        []string
	WarmSchedule      string
	InventorySource   string
	SearchIndexPrefix string
	DefaultPageSize   int
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() *Config {
	once.Do(func() {
		AppConfig = &Config{
			AppName:           GetEnv("APP_NAME", "storefront"),
			Env:               GetEnv("APP_ENV", "development"),
			Debug:             GetEnvBool("DEBUG", false),
			Source:            GetEnv("CATALOG_SOURCE", "db"),
			Taxonomy:          GetEnv("CATALOG_TAXONOMY", "apparel"),
			Locale:            GetEnv("CATALOG_LOCALE", "en"),
			SnapshotTTL:       GetEnvDuration("SNAPSHOT_TTL", 10*time.Minute),
			WarmScopes:        GetEnvList("SNAPSHOT_WARM_SCOPES", []string{"all-collections"}),
			WarmSchedule:      GetEnv("SNAPSHOT_WARM_SCHEDULE", "@every 15m"),
			InventorySource:   GetEnv("INVENTORY_SOURCE", "default"),
			SearchIndexPrefix: GetEnv("ELASTICSEARCH_INDEX_PREFIX", "storefront"),
			DefaultPageSize:   GetEnvInt("CATALOG_PAGE_SIZE", 24),
		}
	})
	return AppConfig
}
