package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SscSPs/sismog_console/internal/apperrors"
)

const pgUniqueViolation = "23505"

// errorBody covers the error shapes of both APIs: PostgREST sends
// code/message/details/hint, GoTrue sends msg or error/error_description.
type errorBody struct {
	Code             any    `json:"code"`
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Details          string `json:"details"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (b errorBody) text() string {
	for _, s := range []string{b.Message, b.Msg, b.ErrorDescription, b.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	msg := body.text()
	if msg == "" {
		msg = fmt.Sprintf("data service responded %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return apperrors.NewAppError(resp.StatusCode, msg, sentinelFor(resp.StatusCode, body))
}

func sentinelFor(status int, body errorBody) error {
	if code, ok := body.Code.(string); ok && code == pgUniqueViolation {
		return apperrors.ErrDuplicate
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.ErrUnauthorized
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusConflict:
		return apperrors.ErrDuplicate
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.ErrValidation
	}
	return fmt.Errorf("data service status %d", status)
}
