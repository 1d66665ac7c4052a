// SPDX-License-Identifier: MIT

package githubclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const graphqlURL = "https://api.github.com/graphql"

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   map[string]any `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// GraphQL issues a GraphQL POST against the forge's API. No typed
// go-github helper exists for GraphQL, so this talks to the endpoint
// directly through the same cached, authenticated http.Client the REST
// calls use. A token is mandatory; any "errors" entry in the response
// fails the call.
func (c *Client) GraphQL(ctx context.Context, query string) (map[string]any, error) {
	if c.token == "" {
		return nil, errors.New("graphql query requires a github token")
	}

	body, err := json.Marshal(graphqlRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("encoding graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, graphqlURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github+json")
	c.applyCommonHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing graphql request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 { //nolint:mnd
		return nil, fmt.Errorf("graphql request returned status %d", resp.StatusCode)
	}

	var parsed graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding graphql response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("graphql response carried errors: %s", parsed.Errors[0].Message)
	}

	return parsed.Data, nil
}
