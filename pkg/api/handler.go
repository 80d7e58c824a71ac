package api

import (
	"encoding/json"
	"net/http"

	"github.com/openfuid/fuid-registry/pkg/catalog"
	"github.com/openfuid/fuid-registry/pkg/fuid"
	"github.com/openfuid/fuid-registry/pkg/kit"
)

// NewRouter returns an http.Handler with all registry API routes.
func NewRouter(store *catalog.Store) http.Handler {
	mux := http.NewServeMux()
	h := &handler{
		search:   searchEndpoint(store),
		register: registerEndpoint(store),
		data:     dataEndpoint(store),
		stats:    statsEndpoint(store),
		store:    store,
	}

	mux.HandleFunc("GET /v1/search", methodNotAllowed) // query goes in the POST body
	mux.HandleFunc("POST /v1/search", h.handleSearch)
	mux.HandleFunc("POST /v1/fuids", h.handleRegister)
	mux.HandleFunc("GET /v1/data", h.handleData)
	mux.HandleFunc("GET /v1/stats", h.handleStats)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(mux)
}

type handler struct {
	search   kit.Endpoint
	register kit.Endpoint
	data     kit.Endpoint
	stats    kit.Endpoint
	store    *catalog.Store
}

// --- search ---

type httpSearchRequest struct {
	Query        string `json:"query"`
	Mode         string `json:"mode,omitempty"`
	SelectedTerm string `json:"selectedTerm,omitempty"`
	Platform     string `json:"platform,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

func (h *handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024) // 64 KiB max
	var req httpSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "missing query")
		return
	}

	resp, err := h.search(r.Context(), &searchReq{
		Query: req.Query,
		Opts: fuid.Options{
			Mode:         fuid.Mode(req.Mode),
			SelectedTerm: req.SelectedTerm,
			Platform:     req.Platform,
			Limit:        req.Limit,
		},
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- register ---

func (h *handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)
	var req catalog.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.register(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- data / stats ---

func (h *handler) handleData(w http.ResponseWriter, r *http.Request) {
	resp, err := h.data(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleStats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.stats(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status     string `json:"status"`
	TotalFUIDs int    `json:"totalFuids"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		TotalFUIDs: h.store.Snapshot().Len(),
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
