package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moontigerdev/server-inventory-manager/internal/tenantos"
)

func newTestRouter(t *testing.T, api FleetAPI) (*mux.Router, *Repo) {
	t.Helper()
	repo, _ := newTestRepo(t)
	r := mux.NewRouter()
	NewHTTP(repo, NewSyncer(api, repo)).RegisterRoutes(r)
	return r, repo
}

func doRequest(r *mux.Router, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGetServersEndpoint(t *testing.T) {
	r, repo := newTestRouter(t, &fakeAPI{})
	require.NoError(t, repo.UpsertServer(record(1, "beta")))
	require.NoError(t, repo.UpsertServer(record(2, "alpha")))

	rec := doRequest(r, http.MethodGet, "/api/servers")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "alpha", out[0]["hostname"])
	assert.Equal(t, "beta", out[1]["hostname"])
}

func TestGetServerEndpointNotFound(t *testing.T) {
	r, _ := newTestRouter(t, &fakeAPI{})

	rec := doRequest(r, http.MethodGet, "/api/servers/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "Server not found"}`, rec.Body.String())
}

func TestGetServerEndpoint(t *testing.T) {
	r, repo := newTestRouter(t, &fakeAPI{})
	srv := record(7, "web07")
	srv.Hardware = hardware()
	require.NoError(t, repo.UpsertServer(srv))

	rec := doRequest(r, http.MethodGet, "/api/servers/7")
	assert.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.EqualValues(t, 7, out["id"])
	assert.Equal(t, "web07", out["hostname"])
	assert.Equal(t, "EPYC 7443P", out["cpu_model"])
	assert.NotNil(t, out["memory_details"])
}

func TestSyncEndpoint(t *testing.T) {
	api := &fakeAPI{servers: []tenantos.ServerRecord{record(1, "alpha"), record(2, "beta")}}
	r, _ := newTestRouter(t, api)

	rec := doRequest(r, http.MethodPost, "/api/sync")
	assert.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, true, out["success"])
	assert.EqualValues(t, 2, out["count"])
	assert.Equal(t, "Successfully synced 2 servers", out["message"])
}

func TestSyncEndpointFailure(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("remote unavailable")}
	r, _ := newTestRouter(t, api)

	rec := doRequest(r, http.MethodPost, "/api/sync")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "remote unavailable")
}

func TestSyncInventoryEndpoint(t *testing.T) {
	api := &fakeAPI{
		inventory: map[int64][]tenantos.InventoryItem{
			1: {{Model: "AMI", Value: "2.4", RootComponent: &tenantos.RootComponent{Description: "BIOS"}}},
		},
		invErr: map[int64]error{2: errors.New("timeout")},
	}
	r, repo := newTestRouter(t, api)
	require.NoError(t, repo.UpsertServer(record(1, "alpha")))
	require.NoError(t, repo.UpsertServer(record(2, "bravo")))

	rec := doRequest(r, http.MethodPost, "/api/sync-inventory")
	assert.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Count   int      `json:"count"`
		Errors  []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, "Successfully synced inventory for 1 servers", out.Message)
	assert.Equal(t, []string{"bravo: timeout"}, out.Errors)
}

func TestBIOSEndpoint(t *testing.T) {
	r, repo := newTestRouter(t, &fakeAPI{})
	require.NoError(t, repo.UpsertServer(record(1, "alpha")))
	require.NoError(t, repo.UpsertInventory(1, []tenantos.InventoryItem{
		{Model: "AMI", Value: "2.4", RootComponent: &tenantos.RootComponent{Description: "BIOS"}},
	}))

	rec := doRequest(r, http.MethodGet, "/api/bios")
	assert.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "AMI", out[0]["model"])
}

func TestBMCEndpointEmpty(t *testing.T) {
	r, _ := newTestRouter(t, &fakeAPI{})

	rec := doRequest(r, http.MethodGet, "/api/bmc")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

// end-to-end against a fake remote over HTTP, using the real client
func TestSyncAgainstHTTPFake(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/servers":
			_, _ = w.Write([]byte(`{"result": [{"id": 1, "hostname": "alpha", "ipassignments": [{"ip": "10.0.0.1"}]}]}`))
		case "/servers/1/inventory":
			_, _ = w.Write([]byte(`{"result": [{"model": "AMI", "value": "2.4", "root_component": {"description": "BIOS"}}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer remote.Close()

	repo, _ := newTestRepo(t)
	client := tenantos.NewClient(remote.URL, "key", nil)
	syncer := NewSyncer(client, repo)

	count, err := syncer.SyncServers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, syncErrs, err := syncer.SyncInventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Empty(t, syncErrs)

	rows, err := repo.ListBIOS()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Value)
	assert.Equal(t, "2.4", *rows[0].Value)
}
