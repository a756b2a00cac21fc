package routeros

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/HerbHall/wispgate/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRESTClient(t *testing.T, handler http.HandlerFunc) *restClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	r := &models.Router{
		ID:       "r1",
		Host:     u.Hostname(),
		Port:     port,
		User:     "api-svc",
		Password: "s3cret",
		APIType:  models.APITypeREST,
	}
	return newRESTClient(r, zap.NewNop())
}

func TestRESTDo_ListStripsPrintAndAuthenticates(t *testing.T) {
	c := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/ip/firewall/address-list", r.URL.Path)
		assert.Equal(t, "authorized", r.URL.Query().Get("list"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "api-svc", user)
		assert.Equal(t, "s3cret", pass)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{".id": "*1", "list": "authorized", "address": "10.0.0.5", "disabled": false},
			{".id": "*2", "list": "authorized", "address": "10.0.0.6", "disabled": true}
		]`))
	})

	rep, err := c.Do(context.Background(), Request{
		Path:   "ip/firewall/address-list/print",
		Method: http.MethodGet,
		Query:  map[string]string{"list": "authorized"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rep.Status)
	require.Len(t, rep.Entities, 2)
	assert.Equal(t, "*1", rep.Entities[0].ID())
	assert.Equal(t, "false", rep.Entities[0]["disabled"])
	assert.Equal(t, "true", rep.Entities[1]["disabled"])
	assert.False(t, rep.Single)
}

func TestRESTDo_WriteKeepsPathVerbatim(t *testing.T) {
	c := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/queue/simple/print", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cust-10.0.0.5", body["name"])

		_, _ = w.Write([]byte(`[]`))
	})

	rep, err := c.Do(context.Background(), Request{
		Path:   "queue/simple/print",
		Method: http.MethodPost,
		Body:   map[string]string{"name": "cust-10.0.0.5"},
	})
	require.NoError(t, err)
	require.NotNil(t, rep.Entities)
	assert.Empty(t, rep.Entities)
}

func TestRESTDo_SingleObject(t *testing.T) {
	c := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/system/resource", r.URL.Path)
		_, _ = w.Write([]byte(`{"uptime": "2w3d", "cpu-load": 4, "free-memory": 215421321}`))
	})

	rep, err := c.Do(context.Background(), Request{
		Path:   "system/resource",
		Method: http.MethodGet,
	})
	require.NoError(t, err)

	assert.True(t, rep.Single)
	require.Len(t, rep.Entities, 1)
	assert.Equal(t, "2w3d", rep.Entities[0]["uptime"])
	assert.Equal(t, "4", rep.Entities[0]["cpu-load"])
	assert.Equal(t, "215421321", rep.Entities[0]["free-memory"])
}

func TestRESTDo_UpstreamErrorBecomesProtocolError(t *testing.T) {
	c := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "unknown parameter dst", "error": 400, "message": "Bad Request"}`))
	})

	_, err := c.Do(context.Background(), Request{
		Path:   "ip/route",
		Method: http.MethodGet,
	})

	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusBadRequest, perr.Status)
	assert.Equal(t, "unknown parameter dst", perr.Message)
}

func TestRESTDo_ErrorWithoutDetailFallsBackToMessage(t *testing.T) {
	c := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": 401, "message": "Unauthorized"}`))
	})

	_, err := c.Do(context.Background(), Request{Path: "system/identity", Method: http.MethodGet})

	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusUnauthorized, perr.Status)
	assert.Equal(t, "Unauthorized", perr.Message)
}

func TestRESTDo_ContextCancellation(t *testing.T) {
	c := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Do(ctx, Request{Path: "system/resource", Method: http.MethodGet})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRESTAdd_UsesUniversalWriteVerb(t *testing.T) {
	c := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/ip/firewall/address-list/add", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "authorized", body["list"])

		_, _ = w.Write([]byte(`{".id": "*9", "list": "authorized", "address": "10.0.0.7"}`))
	})

	ent, err := c.Add(context.Background(), "ip/firewall/address-list", map[string]string{
		"list":    "authorized",
		"address": "10.0.0.7",
	})
	require.NoError(t, err)
	assert.Equal(t, "*9", ent.ID())
	assert.Equal(t, "10.0.0.7", ent["address"])
}

func TestRESTSetAndRemove_TargetByID(t *testing.T) {
	var paths []string
	var bodies []map[string]string

	c := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)

		_, _ = w.Write([]byte(`[]`))
	})

	require.NoError(t, c.Set(context.Background(), "queue/simple", "*3", map[string]string{"max-limit": "20M/20M"}))
	require.NoError(t, c.Remove(context.Background(), "queue/simple", "*3"))

	require.Len(t, paths, 2)
	assert.Equal(t, "/rest/queue/simple/set", paths[0])
	assert.Equal(t, "/rest/queue/simple/remove", paths[1])

	assert.Equal(t, "*3", bodies[0][".id"])
	assert.Equal(t, "20M/20M", bodies[0]["max-limit"])
	assert.Equal(t, map[string]string{".id": "*3"}, bodies[1])
}

func TestRESTList_EmptyArrayIsNotNil(t *testing.T) {
	c := newTestRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ents, err := c.List(context.Background(), "ip/dhcp-server/lease", map[string]string{"address": "10.9.9.9"})
	require.NoError(t, err)
	require.NotNil(t, ents)
	assert.Empty(t, ents)
}
