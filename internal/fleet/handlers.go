package fleet

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type HTTP struct {
	repo   *Repo
	syncer *Syncer
}

func NewHTTP(repo *Repo, syncer *Syncer) *HTTP {
	return &HTTP{repo: repo, syncer: syncer}
}

func (h *HTTP) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/servers", h.listServers).Methods(http.MethodGet)
	api.HandleFunc("/servers/{id:[0-9]+}", h.getServer).Methods(http.MethodGet)
	api.HandleFunc("/sync", h.syncServers).Methods(http.MethodPost)
	api.HandleFunc("/sync-inventory", h.syncInventory).Methods(http.MethodPost)
	api.HandleFunc("/bios", h.listBIOS).Methods(http.MethodGet)
	api.HandleFunc("/bmc", h.listBMC).Methods(http.MethodGet)
}

func (h *HTTP) listServers(w http.ResponseWriter, _ *http.Request) {
	servers, err := h.repo.ListServers()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, servers)
}

func (h *HTTP) getServer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid server id"))
		return
	}

	srv, err := h.repo.GetServer(id)
	if err != nil {
		if errors.Is(err, ErrServerNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Server not found"})
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, srv)
}

func (h *HTTP) syncServers(w http.ResponseWriter, r *http.Request) {
	count, err := h.syncer.SyncServers(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Successfully synced %d servers", count),
		"count":   count,
	})
}

func (h *HTTP) syncInventory(w http.ResponseWriter, r *http.Request) {
	count, syncErrs, err := h.syncer.SyncInventory(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	if syncErrs == nil {
		syncErrs = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Successfully synced inventory for %d servers", count),
		"count":   count,
		"errors":  syncErrs,
	})
}

func (h *HTTP) listBIOS(w http.ResponseWriter, _ *http.Request) {
	rows, err := h.repo.ListBIOS()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *HTTP) listBMC(w http.ResponseWriter, _ *http.Request) {
	rows, err := h.repo.ListBMC()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
