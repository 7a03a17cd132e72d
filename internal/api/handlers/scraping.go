// internal/api/handlers/scraping.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ps-vitor/landscraper/internal/services/scraping"
)

type Runner interface {
	Run(ctx context.Context) (scraping.Summary, error)
}

type ScrapingHandler struct {
	scraperService Runner
}

func NewScrapingHandler(svc Runner) *ScrapingHandler {
	return &ScrapingHandler{scraperService: svc}
}

// HandleScrape runs one scrape synchronously and replies with its summary.
func (h *ScrapingHandler) HandleScrape(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.scraperService.Run(ctx)
	if errors.Is(err, scraping.ErrRunInProgress) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
