// Package neo4jsync mirrors the assembled knowledge graph into Neo4j so it
// can be explored with Cypher.
package neo4jsync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/scigraph/kg/internal/config"
	"github.com/scigraph/kg/internal/logger"
)

// ErrNotConfigured is returned when no Neo4j URI is set.
var ErrNotConfigured = errors.New("neo4j uri not configured (set NEO4J_URI or neo4j.uri)")

const connectTimeout = 10 * time.Second

type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
	log      *logger.Logger
}

// New connects using the resolved configuration and verifies connectivity.
func New(ctx context.Context, cfg config.Neo4jConfig, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jsync: logger required")
	}

	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, ErrNotConfigured
	}
	user := strings.TrimSpace(cfg.User)
	if user == "" {
		user = "neo4j"
	}

	auth := neo4j.BasicAuth(user, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(uri, auth, func(c *neo4j.Config) {
		c.SocketConnectTimeout = connectTimeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jsync: init driver: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jsync: verify connectivity: %w", err)
	}

	return &Client{
		Driver:   driver,
		Database: strings.TrimSpace(cfg.Database),
		log:      log.With("client", "neo4j"),
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}
