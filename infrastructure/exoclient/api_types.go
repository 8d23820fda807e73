package exoclient

import (
	"encoding/json"
	"fmt"
	"strings"
)

// invokeCommandRequest is the InvokeCommand envelope.
type invokeCommandRequest struct {
	CmdletInput cmdletInput `json:"CmdletInput"`
}

type cmdletInput struct {
	CmdletName string         `json:"CmdletName"`
	Parameters map[string]any `json:"Parameters"`
}

// invokeCommandResponse carries cmdlet output rows plus paging and warnings.
type invokeCommandResponse struct {
	Value    []json.RawMessage `json:"value"`
	NextLink string            `json:"@odata.nextLink"`
	Warnings []string          `json:"@adminapi.warnings"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"details"`
		InnerError struct {
			ClientRequestID string `json:"client-request-id"`
		} `json:"innererror"`
	} `json:"error"`
}

// mailboxPlanJSON matches Get-MailboxPlan output. Key matching is case-insensitive.
type mailboxPlanJSON struct {
	DisplayName      string `json:"DisplayName"`
	MaxSendSize      string `json:"MaxSendSize"`
	MaxReceiveSize   string `json:"MaxReceiveSize"`
	Guid             string `json:"Guid"`
	ExchangeObjectId string `json:"ExchangeObjectId"`
}

// APIError is a failed InvokeCommand call.
type APIError struct {
	StatusCode int
	Cmdlet     string
	Code       string
	Message    string
	Details    []string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	if len(e.Details) > 0 {
		msg += ": " + strings.Join(e.Details, "; ")
	}
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Cmdlet, msg, e.StatusCode)
}

// Throttled reports whether Exchange rejected the call for rate limiting.
func (e *APIError) Throttled() bool {
	return e.StatusCode == 429
}

func parseAPIError(cmdlet string, status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Cmdlet: cmdlet}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	apiErr.Code = env.Error.Code
	apiErr.Message = env.Error.Message
	apiErr.RequestID = env.Error.InnerError.ClientRequestID
	for _, d := range env.Error.Details {
		if d.Message != "" && d.Message != env.Error.Message {
			apiErr.Details = append(apiErr.Details, d.Message)
		}
	}
	return apiErr
}
