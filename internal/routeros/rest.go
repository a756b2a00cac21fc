package routeros

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/HerbHall/wispgate/pkg/models"
	"go.uber.org/zap"
)

// Compile-time interface guard.
var _ Client = (*restClient)(nil)

// restClient executes commands against a device's JSON API. Clients are
// stateless and safe for concurrent use, which is why the factory caches
// them per router.
type restClient struct {
	httpClient *http.Client
	baseURL    string
	user       string
	password   string
	logger     *zap.Logger
}

func newRESTClient(r *models.Router, logger *zap.Logger) *restClient {
	scheme := "http"
	if r.Port == 443 {
		scheme = "https"
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, //nolint:gosec // devices ship self-signed certs
		},
	}
	return &restClient{
		httpClient: &http.Client{
			Timeout:   connectTimeout,
			Transport: transport,
		},
		baseURL:  fmt.Sprintf("%s://%s/rest", scheme, net.JoinHostPort(r.Host, strconv.Itoa(r.Port))),
		user:     r.User,
		password: r.Password,
		logger:   logger,
	}
}

// Do executes one command. Reads drop a trailing "/print" path segment,
// which exists only in the sentence dialect; the JSON API lists a
// resource by fetching its bare path.
func (c *restClient) Do(ctx context.Context, req Request) (*Reply, error) {
	path := strings.Trim(req.Path, "/")
	if req.IsRead() {
		path = strings.TrimSuffix(path, "/print")
	}

	target := c.baseURL + "/" + path
	if len(req.Query) > 0 {
		q := url.Values{}
		for k, v := range req.Query {
			q.Set(k, v)
		}
		target += "?" + q.Encode()
	}

	var body io.Reader
	if !req.IsRead() && len(req.Body) > 0 {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.SetBasicAuth(c.user, c.password)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ProtocolError{
			Message: fmt.Sprintf("%s %s: %v", req.Method, path, err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProtocolError{
			Message: fmt.Sprintf("read response: %v", err),
			Err:     err,
		}
	}

	if resp.StatusCode >= 400 {
		return nil, &ProtocolError{
			Status:  resp.StatusCode,
			Message: restErrorMessage(respBody),
		}
	}

	return restReply(resp.StatusCode, respBody)
}

func (c *restClient) List(ctx context.Context, path string, query map[string]string) ([]Entity, error) {
	rep, err := c.Do(ctx, Request{
		Path:   path,
		Method: http.MethodGet,
		Query:  query,
	})
	if err != nil {
		return nil, err
	}
	if rep.Entities == nil {
		return []Entity{}, nil
	}
	return rep.Entities, nil
}

func (c *restClient) Add(ctx context.Context, path string, attrs map[string]string) (Entity, error) {
	rep, err := c.Do(ctx, Request{
		Path:   strings.Trim(path, "/") + "/add",
		Method: http.MethodPost,
		Body:   attrs,
	})
	if err != nil {
		return nil, err
	}
	if len(rep.Entities) > 0 {
		return rep.Entities[0], nil
	}
	// Older firmware answers an add with just the assigned identifier.
	ent := make(Entity, len(attrs)+1)
	for k, v := range attrs {
		ent[k] = v
	}
	if id := rep.Attrs["ret"]; id != "" {
		ent["id"] = id
	}
	return ent, nil
}

func (c *restClient) Set(ctx context.Context, path, id string, attrs map[string]string) error {
	body := make(map[string]string, len(attrs)+1)
	for k, v := range attrs {
		body[k] = v
	}
	body[".id"] = id
	_, err := c.Do(ctx, Request{
		Path:   strings.Trim(path, "/") + "/set",
		Method: http.MethodPost,
		Body:   body,
	})
	return err
}

func (c *restClient) Remove(ctx context.Context, path, id string) error {
	_, err := c.Do(ctx, Request{
		Path:   strings.Trim(path, "/") + "/remove",
		Method: http.MethodPost,
		Body:   map[string]string{".id": id},
	})
	return err
}

// Close is a no-op; REST sessions hold no connection state.
func (c *restClient) Close() error {
	return nil
}

// restReply decodes a JSON API response. List endpoints answer with an
// array, item endpoints and command results with a single object.
func restReply(status int, body []byte) (*Reply, error) {
	out := &Reply{Status: status}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return out, nil
	}

	switch trimmed[0] {
	case '[':
		var rows []map[string]any
		if err := decodeJSON(trimmed, &rows); err != nil {
			return nil, &ProtocolError{
				Status:  status,
				Message: fmt.Sprintf("decode response: %v", err),
				Err:     err,
			}
		}
		stringified := make([]map[string]string, len(rows))
		for i, row := range rows {
			stringified[i] = StringifyAttrs(row)
		}
		out.Entities = normalizeRESTAll(stringified)
	case '{':
		var row map[string]any
		if err := decodeJSON(trimmed, &row); err != nil {
			return nil, &ProtocolError{
				Status:  status,
				Message: fmt.Sprintf("decode response: %v", err),
				Err:     err,
			}
		}
		out.Entities = []Entity{normalizeREST(StringifyAttrs(row))}
		out.Single = true
	default:
		out.Attrs = map[string]string{"result": string(trimmed)}
	}

	return out, nil
}

// decodeJSON decodes with UseNumber so numeric values survive verbatim
// instead of round-tripping through float64.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
