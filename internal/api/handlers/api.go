package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ps-vitor/landscraper/internal/domain"
	"github.com/ps-vitor/landscraper/internal/services/property"
)

type APIHandler struct {
	listingService *property.ListingService
}

func NewAPIHandler(listingService *property.ListingService) *APIHandler {
	return &APIHandler{listingService: listingService}
}

func (h *APIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/listings", h.handleSources).Methods(http.MethodGet)
	r.HandleFunc("/api/listings/{source}", h.handleListings).Methods(http.MethodGet)
}

func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

func (h *APIHandler) handleSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.listingService.Sources())
}

func (h *APIHandler) handleListings(w http.ResponseWriter, r *http.Request) {
	source := mux.Vars(r)["source"]

	rows, err := h.listingService.FindAll(r.Context(), source)
	if errors.Is(err, property.ErrUnknownSource) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to load listings", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []domain.Row{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// NewRouter mounts the scrape trigger and the read-only listing routes.
func NewRouter(scrapingHandler *ScrapingHandler, apiHandler *APIHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/scrape", scrapingHandler.HandleScrape).Methods(http.MethodGet, http.MethodPost)
	apiHandler.RegisterRoutes(r)
	return r
}
