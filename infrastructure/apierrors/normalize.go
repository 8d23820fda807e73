package apierrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"

	"exostandards/infrastructure/exoclient"
)

type knownError struct {
	match    string
	friendly string
}

// knownErrors maps raw service messages to actionable text. Matching is case-insensitive substring.
var knownErrors = []knownError{
	{"AADSTS50020", "AADSTS50020: The account used for delegated access is a guest in this tenant or is missing from the required admin group."},
	{"AADSTS50177", "AADSTS50177: The account used for delegated access is a guest in this tenant or is missing from the required admin group."},
	{"AADSTS53003", "Access has been blocked by Conditional Access policies for this tenant."},
	{"AADSTS5000224", "This resource is not available. Has this tenant been deleted?"},
	{"AADSTS700016", "The application was not found in this tenant. Has consent been granted?"},
	{"AADSTS700027", "The certificate used to authenticate is not registered on the application."},
	{"AADSTS900023", "This tenant is not available for this operation. Please check the selected tenant and try again."},
	{"AADSTS65001", "The application does not have consent in this tenant."},
	{"Request not applicable to target tenant", "Required license not available for this tenant."},
	{"Authorization_RequestDenied", "The application does not have the required Graph permissions for this tenant."},
	{"Provide valid credential", "There is an issue with the Exchange token configuration. Please perform an access check for this tenant."},
	{"Account is not provisioned", "The account is not provisioned. The tenant does not have the correct license to access this information."},
	{"TooManyRequests", "The request was throttled by Microsoft 365. Try again later."},
	{"Rate limit exceeded", "The request was throttled by Microsoft 365. Try again later."},
}

// Normalizer implements contracts.ErrorNormalizer with Normalize.
type Normalizer struct{}

// Normalize returns a short human readable message for err.
func (Normalizer) Normalize(err error) string {
	return Normalize(err)
}

// Normalize unwraps Graph, Azure and Exchange errors and maps known failures to friendly text.
func Normalize(err error) string {
	if err == nil {
		return ""
	}

	msg := rawMessage(err)
	lower := strings.ToLower(msg)
	for _, known := range knownErrors {
		if strings.Contains(lower, strings.ToLower(known.match)) {
			return known.friendly
		}
	}
	return msg
}

func rawMessage(err error) string {
	var oDataErr *odataerrors.ODataError
	if errors.As(err, &oDataErr) {
		if main := oDataErr.GetErrorEscaped(); main != nil && main.GetMessage() != nil {
			code := ""
			if main.GetCode() != nil {
				code = *main.GetCode()
			}
			return fmt.Sprintf("%s: %s", code, *main.GetMessage())
		}
		return fmt.Sprintf("Graph request failed with HTTP status %d", oDataErr.ResponseStatusCode)
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return fmt.Sprintf("%s (HTTP %d)", respErr.ErrorCode, respErr.StatusCode)
	}

	var apiErr *exoclient.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if apiErr.Code != "" {
			msg = apiErr.Code + ": " + msg
		}
		if len(apiErr.Details) > 0 {
			// Exchange prefixes detail messages with an internal id, e.g. "Ex6F9304|Couldn't find object".
			details := make([]string, 0, len(apiErr.Details))
			for _, d := range apiErr.Details {
				if _, text, ok := strings.Cut(d, "|"); ok {
					d = text
				}
				details = append(details, d)
			}
			msg += " " + strings.Join(details, " ")
		}
		return msg
	}

	return err.Error()
}
