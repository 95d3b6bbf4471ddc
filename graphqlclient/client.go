// Package graphqlclient wraps the GraphQL transport to the restaurant
// backend. It is the single place queries and mutations are executed;
// services above it never touch HTTP directly.
package graphqlclient

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/machinebox/graphql"
)

// Client executes GraphQL operations against the backend endpoint
type Client struct {
	gql      *graphql.Client
	endpoint string
}

// New creates a client for the given endpoint. When debug is set, the
// underlying transport logs every operation.
func New(endpoint string, debug bool) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	gql := graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient))
	if debug {
		gql.Log = func(s string) { log.Printf("graphql: %s", s) }
	}
	return &Client{gql: gql, endpoint: endpoint}
}

// Endpoint returns the configured backend URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Run executes one operation. vars may be nil; resp must be a pointer to the
// expected data shape. Transport and GraphQL-level errors come back as one
// wrapped error; there are no retries here, failures surface immediately.
func (c *Client) Run(ctx context.Context, query string, vars map[string]interface{}, resp interface{}) error {
	req := graphql.NewRequest(query)
	for k, v := range vars {
		req.Var(k, v)
	}
	req.Header.Set("Accept", "application/json")

	if err := c.gql.Run(ctx, req, resp); err != nil {
		return fmt.Errorf("graphql request failed: %w", err)
	}
	return nil
}
