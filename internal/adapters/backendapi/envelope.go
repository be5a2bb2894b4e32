package backendapi

import (
	"bytes"
	"encoding/json"

	"github.com/target/mmk-backoffice/internal/domain/model"
)

// envelope is the wrapper every backend response uses.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *Meta           `json:"meta,omitempty"`
	Error   *errorBody      `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Meta carries response metadata; list endpoints include pagination.
type Meta struct {
	Pagination *model.Pagination `json:"pagination,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UnmarshalJSON accepts both {"code","message"} objects and bare strings.
func (e *errorBody) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &e.Message)
	}
	type plain errorBody
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*e = errorBody(p)
	return nil
}

func (e *envelope) failed() bool {
	return e.Success != nil && !*e.Success
}

func (e *envelope) apiError(status int) *APIError {
	out := &APIError{Status: status, Message: e.Message}
	if e.Error != nil {
		out.Code = e.Error.Code
		if e.Error.Message != "" {
			out.Message = e.Error.Message
		}
	}
	return out
}
