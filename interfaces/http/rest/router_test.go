package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"familytree-backend/application/store"
	"familytree-backend/domain/config"
	"familytree-backend/domain/services"
	"familytree-backend/domain/services/layout"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.DefaultDomainConfig()
	familyStore := store.NewFamilyStore(
		cfg,
		services.NewRelationshipBuilder(cfg),
		layout.NewEngine(cfg),
		nil, nil, nil,
		zap.NewNop(),
	)

	router := NewRouter(familyStore, nil, []string{"http://localhost:3000"}, zap.NewNop())
	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, client *http.Client, method, url string, body interface{}) (*http.Response, apiEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPersonLifecycle(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	// Create a person
	resp, envelope := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/people", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, envelope.Success)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &created))
	require.NotEmpty(t, created.ID)

	// Rename them
	resp, envelope = doJSON(t, client, http.MethodPatch, srv.URL+"/api/v1/people/"+created.ID,
		map[string]string{"name": "Marie", "gender": "FEMALE"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)

	// The graph reflects the update
	resp, envelope = doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/graph", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var graph struct {
		Nodes []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Gender string `json:"gender"`
		} `json:"nodes"`
		SelectedNodeID string `json:"selectedNodeId"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &graph))
	require.Len(t, graph.Nodes, 1)
	assert.Equal(t, "Marie", graph.Nodes[0].Name)
	assert.Equal(t, "FEMALE", graph.Nodes[0].Gender)
	assert.Equal(t, created.ID, graph.SelectedNodeID)

	// Delete them
	resp, _ = doJSON(t, client, http.MethodDelete, srv.URL+"/api/v1/people/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, envelope = doJSON(t, client, http.MethodDelete, srv.URL+"/api/v1/people/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestSpouseAndChildEndpoints(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	_, envelope := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/people", nil)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &created))

	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/people/"+created.ID+"/spouse", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/people/"+created.ID+"/children", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Unknown parent maps the silent domain no-op to 404
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/people/ghost/spouse", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, envelope = doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/graph", nil)
	var graph struct {
		Nodes []json.RawMessage `json:"nodes"`
		Edges []struct {
			IsSpouse bool `json:"isSpouse"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &graph))
	assert.Len(t, graph.Nodes, 3)
	assert.Len(t, graph.Edges, 3, "marriage plus one hierarchy edge per parent")
}

func TestSelectionEndpoint(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	_, envelope := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/people", nil)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &created))

	resp, envelope := doJSON(t, client, http.MethodPut, srv.URL+"/api/v1/selection",
		map[string]string{"nodeId": ""})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var graph struct {
		SelectedNodeID string `json:"selectedNodeId"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &graph))
	assert.Empty(t, graph.SelectedNodeID)
}

func TestConnectionsEndpointValidation(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	resp, envelope := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/connections",
		map[string]string{"source": "a", "target": "b", "sourceHandle": "middle", "targetHandle": "top"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, envelope.Error)

	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/connections",
		map[string]string{"source": "a", "target": "b", "sourceHandle": "left", "targetHandle": "right"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "unknown endpoints map to 404")
}

func TestReplaceGraphEndpoint(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	body := map[string]interface{}{
		"nodes": []map[string]interface{}{
			{"id": "p1", "name": "Parent", "gender": "MALE", "position": map[string]float64{"x": 0, "y": 0}},
			{"id": "p2", "name": "Child", "gender": "OTHER", "position": map[string]float64{"x": 0, "y": 0}},
		},
		"edges": []map[string]interface{}{
			{"id": "e-p1-p2", "source": "p1", "target": "p2", "sourceHandle": "bottom", "targetHandle": "top"},
		},
	}
	resp, envelope := doJSON(t, client, http.MethodPut, srv.URL+"/api/v1/graph", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)

	// Dangling edge is rejected
	bad := map[string]interface{}{
		"nodes": []map[string]interface{}{{"id": "p1", "name": "A"}},
		"edges": []map[string]interface{}{{"id": "e1", "source": "p1", "target": "ghost"}},
	}
	resp, _ = doJSON(t, client, http.MethodPut, srv.URL+"/api/v1/graph", bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLayoutEndpoint(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/people", nil)
	resp, envelope := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/layout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
}

func TestTreesEndpointsWithoutRemote(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	resp, envelope := doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/trees", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "REMOTE_DISABLED", envelope.Error.Code)
}

func TestImportEndpointWithoutExtractor(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/import",
		map[string]string{"description": "John married Mary"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
