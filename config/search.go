package config

import (
	"github.com/elastic/go-elasticsearch/v8"
)

// NewSearchClient builds an Elasticsearch client from ELASTICSEARCH_HOST.
func NewSearchClient() (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: GetEnvList("ELASTICSEARCH_HOST", []string{"http://localhost:9200"}),
		Username:  GetEnv("ELASTICSEARCH_USER", ""),
		Password:  GetEnv("ELASTICSEARCH_PASS", ""),
	})
}
