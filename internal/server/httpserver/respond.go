package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/weynak/weynak/internal/common"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// writeJSON writes JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// writeError renders err as {"message", "kind"} with the status its kind maps to.
func writeError(w http.ResponseWriter, err error) {
	kind := common.KindOf(err)
	msg := "Internal server error"
	var ae *common.AuthError
	if errors.As(err, &ae) && kind != common.KindInternal {
		msg = ae.Message
	}
	writeJSON(w, statusFor(kind), errorResponse{Message: msg, Kind: kind.String()})
}

func statusFor(kind common.Kind) int {
	switch kind {
	case common.KindInvalidInput, common.KindDuplicateEmail, common.KindInvalidOtp, common.KindOtpExpired:
		return http.StatusBadRequest
	case common.KindInvalidCredentials:
		return http.StatusUnauthorized
	case common.KindNotFound:
		return http.StatusNotFound
	case common.KindInvalidToken:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a JSON object into dst. Unknown fields are ignored.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.NewAuthError(common.KindInvalidInput, "Invalid request body")
	}
	return nil
}
