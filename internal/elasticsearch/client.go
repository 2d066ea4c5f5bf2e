package elasticsearch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rs/zerolog/log"

	"logs-dashboard/config"
)

// ConnectPolicy bounds the startup connection retries.
type ConnectPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

var DefaultConnectPolicy = ConnectPolicy{
	InitialInterval: 2 * time.Second,
	MaxInterval:     15 * time.Second,
	MaxElapsedTime:  90 * time.Second,
}

// NewTypedClient builds a typed client and waits, with exponential backoff,
// until the cluster answers.
func NewTypedClient(ctx context.Context, cfg config.ElasticsearchConfig, policy ConnectPolicy) (*elasticsearch.TypedClient, error) {
	if len(cfg.Addresses) == 0 {
		log.Error().Msg("Elasticsearch addresses are not configured.")
		return nil, errors.New("elasticsearch configuration missing")
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: time.Second * 10,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
	}
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	}

	var typedClient *elasticsearch.TypedClient
	operation := func() error {
		client, err := elasticsearch.NewTypedClient(esCfg)
		if err != nil {
			log.Warn().Err(err).Msg("Attempt failed: Error creating the Elasticsearch client")
			return err
		}
		res, err := client.Info().Do(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Attempt failed: Elasticsearch Info() call failed")
			return err
		}
		log.Info().Str("cluster", res.ClusterName).Msg("Elasticsearch client initialized and connection verified!")
		typedClient = client
		return nil
	}

	connectBackoff := backoff.NewExponentialBackOff()
	connectBackoff.InitialInterval = policy.InitialInterval
	connectBackoff.MaxInterval = policy.MaxInterval
	connectBackoff.MaxElapsedTime = policy.MaxElapsedTime

	log.Info().Strs("addresses", cfg.Addresses).Msg("Attempting to connect to Elasticsearch with retries...")
	if err := backoff.Retry(operation, connectBackoff); err != nil {
		log.Error().Err(err).Msg("Failed to connect to Elasticsearch after multiple retries")
		return nil, err
	}
	return typedClient, nil
}
