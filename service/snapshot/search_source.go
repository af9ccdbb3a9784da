package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront.GO/model/entity/product"
)

// ErrSearchUnavailable is returned when no search client is configured.
var ErrSearchUnavailable = errors.New("snapshot: search client not configured")

const defaultSearchPageSize = 500

// SearchSource reads published product documents from the
// <prefix>_storefront_products index. Documents use the same snake_case
// field names as the product JSON encoding.
type SearchSource struct {
	client   *elasticsearch.Client
	index    string
	pageSize int
	log      *zap.Logger
}

func NewSearchSource(client *elasticsearch.Client, prefix string, log *zap.Logger) *SearchSource {
	if prefix == "" {
		prefix = "storefront"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SearchSource{
		client:   client,
		index:    prefix + "_storefront_products",
		pageSize: defaultSearchPageSize,
		log:      log,
	}
}

// Index returns the queried index name.
func (s *SearchSource) Index() string {
	return s.index
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// FetchSnapshot pages through every published document. Scope is logged but
// not pushed down because tag classification is substring based.
func (s *SearchSource) FetchSnapshot(ctx context.Context, scope string) ([]product.Product, error) {
	if s.client == nil {
		return nil, ErrSearchUnavailable
	}
	start := time.Now()

	var products []product.Product
	for from := 0; ; from += s.pageSize {
		resp, err := s.page(ctx, from)
		if err != nil {
			return nil, err
		}
		for _, hit := range resp.Hits.Hits {
			p, err := decodeProduct(hit.Source)
			if err != nil {
				s.log.Warn("skipping undecodable product document", zap.Error(err))
				continue
			}
			products = append(products, p)
		}
		if len(resp.Hits.Hits) < s.pageSize || from+s.pageSize >= resp.Hits.Total.Value {
			break
		}
	}

	s.log.Debug("search snapshot loaded",
		zap.String("index", s.index),
		zap.String("scope", scope),
		zap.Int("products", len(products)),
		zap.Duration("took", time.Since(start)))
	return products, nil
}

func (s *SearchSource) page(ctx context.Context, from int) (*searchResponse, error) {
	body := map[string]any{
		"from": from,
		"size": s.pageSize,
		"sort": []map[string]any{{"id": "asc"}},
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []map[string]any{
					{"term": map[string]any{"published": true}},
				},
			},
		},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot: search %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("snapshot: elasticsearch error: %s", res.String())
	}

	var out searchResponse
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("snapshot: decode search response: %w", err)
	}
	return &out, nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// toDecimalHook converts JSON numbers and numeric strings to decimal.Decimal.
func toDecimalHook() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data any) (any, error) {
		if t != decimalType {
			return data, nil
		}
		switch v := data.(type) {
		case json.Number:
			return decimal.NewFromString(v.String())
		case string:
			return decimal.NewFromString(v)
		case float64:
			return decimal.NewFromFloat(v), nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		}
		return data, nil
	}
}

var productDecodeHook = mapstructure.ComposeDecodeHookFunc(
	toDecimalHook(),
	mapstructure.StringToTimeHookFunc(time.RFC3339),
)

func decodeProduct(src map[string]any) (product.Product, error) {
	var p product.Product
	cfg := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       productDecodeHook,
		Result:           &p,
		TagName:          "json",
	}
	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return product.Product{}, err
	}
	if err := dec.Decode(src); err != nil {
		return product.Product{}, fmt.Errorf("decode product %v: %w", src["id"], err)
	}
	return p, nil
}
