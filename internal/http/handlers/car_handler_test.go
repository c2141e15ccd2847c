package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
)

func TestCreateCarValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	// Year outside the accepted range never reaches the service.
	w := doJSON(t, r, http.MethodPost, "/cars", gin.H{"make": "polestar", "model": "4", "year": 1900}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestUpdateCarPartialMerge(t *testing.T) {
	r, _ := newTestRouter(t)
	carID := seedCarHTTP(t, r)

	w := doJSON(t, r, http.MethodPatch, "/cars/"+carID,
		gin.H{"location": "Gothenburg lab", "android_version": "15"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	got := decodeJSON[domain.Car](t, w)
	if got.Location != "Gothenburg lab" || got.AndroidVersion != "15" {
		t.Fatalf("car = %+v, want patched fields applied", got)
	}
	if got.Make != "polestar" || got.Year != 2026 {
		t.Fatalf("car = %+v, untouched fields changed", got)
	}
}

func TestGetCarNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/cars/4dd1f354-0a51-43a9-9a27-4a8dcb4f1e39", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/cars/not-a-uuid", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad uuid: status = %d, want 400", w.Code)
	}
}
