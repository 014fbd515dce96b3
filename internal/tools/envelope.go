package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sdwan-mcp/internal/api"
	"sdwan-mcp/internal/controller"
)

// Error kinds reported in the error envelope.
const (
	KindValidation     = "validation"
	KindAuthentication = "authentication"
	KindHTTP           = "http"
	KindParse          = "parse"
	KindTimeout        = "timeout"
	KindNetwork        = "network"
	KindInternal       = "internal"
)

// ErrorDetail classifies a failed tool call.
type ErrorDetail struct {
	Kind      string `json:"kind"`
	Field     string `json:"field,omitempty"`
	Step      string `json:"step,omitempty"`
	Status    int    `json:"status,omitempty"`
	Exhausted bool   `json:"exhausted,omitempty"`
}

type successEnvelope struct {
	Status string `json:"status"`
	Tool   string `json:"tool"`
	Data   any    `json:"data"`
}

type errorEnvelope struct {
	Status  string      `json:"status"`
	Tool    string      `json:"tool"`
	Error   ErrorDetail `json:"error"`
	Message string      `json:"message"`
}

// Classify maps an error to the detail reported to tool callers.
func Classify(err error) ErrorDetail {
	var validationErr *api.ValidationError
	if errors.As(err, &validationErr) {
		return ErrorDetail{Kind: KindValidation, Field: validationErr.Field}
	}

	if reqErr, ok := controller.AsRequestError(err); ok {
		detail := ErrorDetail{Status: reqErr.Status}
		switch reqErr.Cause {
		case controller.CauseAuth:
			detail.Kind = KindAuthentication
			detail.Exhausted = reqErr.Exhausted
			if authErr, ok := controller.AsAuthError(err); ok {
				detail.Step = string(authErr.Step)
				if detail.Status == 0 {
					detail.Status = authErr.Status
				}
			}
		case controller.CauseHTTP:
			detail.Kind = KindHTTP
		case controller.CauseParse:
			detail.Kind = KindParse
		case controller.CauseTimeout:
			detail.Kind = KindTimeout
		default:
			detail.Kind = KindNetwork
		}
		return detail
	}

	if authErr, ok := controller.AsAuthError(err); ok {
		return ErrorDetail{Kind: KindAuthentication, Step: string(authErr.Step), Status: authErr.Status}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorDetail{Kind: KindTimeout}
	}
	return ErrorDetail{Kind: KindInternal}
}

func successResult(tool string, data any) *api.CallToolResult {
	body, err := json.MarshalIndent(successEnvelope{Status: "success", Tool: tool, Data: data}, "", "  ")
	if err != nil {
		return errorResult(tool, fmt.Errorf("failed to encode result: %w", err))
	}
	return &api.CallToolResult{Content: []interface{}{string(body)}}
}

func errorResult(tool string, err error) *api.CallToolResult {
	env := errorEnvelope{
		Status:  "error",
		Tool:    tool,
		Error:   Classify(err),
		Message: err.Error(),
	}
	body, marshalErr := json.MarshalIndent(env, "", "  ")
	if marshalErr != nil {
		body = []byte(fmt.Sprintf(`{"status":"error","tool":%q,"error":{"kind":"internal"},"message":%q}`, tool, err.Error()))
	}
	return &api.CallToolResult{Content: []interface{}{string(body)}, IsError: true}
}
