package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goto/salt/log"
)

const maxBodyBytes = 1 << 20

var errMissingUserInfo = errors.New("missing user information")

type ErrorResponse struct {
	Reason string `json:"reason"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		_, _ = w.Write([]byte("error encoding response to json"))
	}
}

func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, &ErrorResponse{
		Reason: msg,
	})
}

// internalServerError hides err from the caller and logs it under a
// reference the caller can report.
func internalServerError(w http.ResponseWriter, logger log.Logger, err error) {
	ref := time.Now().Unix()

	logger.Error(fmt.Sprintf("ref (%d)", ref), "err", err)
	WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf(
		"%s - ref (%d)",
		http.StatusText(http.StatusInternalServerError),
		ref,
	))
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func bodyParserErrorMsg(err error) string {
	return fmt.Sprintf("error parsing request body: %v", err)
}
