package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/goto/salt/log"
)

// ErrorResponse is the payload written for every failed request.
type ErrorResponse struct {
	Reason string `json:"reason"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) error {
	return writeJSON(w, status, &ErrorResponse{Reason: msg})
}

func internalServerError(w http.ResponseWriter, logger log.Logger, msg string) {
	ref := time.Now().Unix()
	logger.Error("internal server error", "ref", ref, "cause", msg)
	writeJSONError(w, http.StatusInternalServerError,
		fmt.Sprintf("%s - ref (%d)", http.StatusText(http.StatusInternalServerError), ref))
}
