package http

import (
	"net/http"

	"spendflix/internal/shared/logging"
)

var log = logging.ForModule("http")

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
