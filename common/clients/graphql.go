package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GraphQLError is one entry of a GraphQL "errors" array
type GraphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// GraphQLErrors is returned when the response carries errors
type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Message)
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

// NotFound reports whether any error is of type NOT_FOUND
func (e GraphQLErrors) NotFound() bool {
	for _, err := range e {
		if err.Type == "NOT_FOUND" {
			return true
		}
	}
	return false
}

// GraphQLClient posts queries to a GraphQL endpoint
type GraphQLClient struct {
	endpoint string
	token    string
	http     *HTTPClient
	logger   Logger
}

// NewGraphQLClient creates a client for endpoint authenticating with token
func NewGraphQLClient(endpoint, token string, httpClient *http.Client, logger Logger) *GraphQLClient {
	return &GraphQLClient{
		endpoint: endpoint,
		token:    token,
		http:     NewHTTPClient(httpClient, logger),
		logger:   logger,
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors GraphQLErrors   `json:"errors"`
}

// Do runs query with variables and decodes the "data" member into out.
// When the response has errors, data is still decoded and GraphQLErrors is returned.
func (c *GraphQLClient) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	if _, ok := GetToken(ctx); !ok && c.token != "" {
		ctx = WithToken(ctx, c.token)
	}

	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode graphql request: %w", err)
	}

	resp, err := c.http.DoRequest(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to call graphql endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("graphql request failed: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var decoded graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to decode graphql response: %w", err)
	}

	if out != nil && len(decoded.Data) > 0 && string(decoded.Data) != "null" {
		if err := json.Unmarshal(decoded.Data, out); err != nil {
			return fmt.Errorf("failed to decode graphql data: %w", err)
		}
	}

	if len(decoded.Errors) > 0 {
		c.logger.Debug("graphql response carried errors", "errors", decoded.Errors.Error())
		return decoded.Errors
	}
	return nil
}
