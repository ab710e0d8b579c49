package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	ferrors "github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/indirect"
	"github.com/matzehuels/folio/pkg/integrations"
	"github.com/matzehuels/folio/pkg/store"
)

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// classify maps err to an HTTP status and an error code.
func classify(err error) (int, ferrors.Code) {
	switch {
	case errors.Is(err, integrations.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, ferrors.ErrCodeNotFound
	case errors.Is(err, indirect.ErrCycle):
		return http.StatusInternalServerError, ferrors.ErrCodeCyclicDefinition
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ferrors.ErrCodeTimeout
	}

	code := ferrors.GetCode(err)
	switch code {
	case ferrors.ErrCodeInvalidInput, ferrors.ErrCodeInvalidUsername,
		ferrors.ErrCodeInvalidFormat, ferrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest, code
	case ferrors.ErrCodeNotFound:
		return http.StatusNotFound, code
	case ferrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests, code
	case ferrors.ErrCodeUnauthorized, ferrors.ErrCodeNetwork:
		return http.StatusBadGateway, code
	case ferrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, code
	}
	if errors.Is(err, integrations.ErrNetwork) {
		return http.StatusBadGateway, ferrors.ErrCodeNetwork
	}
	return http.StatusInternalServerError, ferrors.ErrCodeInternal
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)

	var rl *ferrors.RateLimitedError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
	}

	msg := ferrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		loggerFrom(r).Error("request failed", "error", err)
		msg = http.StatusText(status)
	} else {
		loggerFrom(r).Debug("request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: msg, RequestID: RequestIDFrom(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
