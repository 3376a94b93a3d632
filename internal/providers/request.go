package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"poolpass/syncbridge/internal/constants"
)

// authHeader is the provider-specific auth injection applied to every
// outbound request.
type authHeader struct {
	name  string
	value string
}

func bearerAuth(token string) authHeader {
	return authHeader{name: "Authorization", value: "Bearer " + token}
}

func apiKeyAuth(header, key string) authHeader {
	return authHeader{name: header, value: key}
}

// doAuthenticatedRequest is the single funnel for all provider calls. It
// injects the auth header, executes the request, and converts failures
// into ProviderError: NETWORK_ERROR for transport faults, REQUEST_FAILED
// for non-2xx responses. The response body is decoded into out when out
// is non-nil.
func doAuthenticatedRequest(ctx context.Context, client *http.Client, method, url string, auth authHeader, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(auth.name, auth.value)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, &ProviderError{
			Code:    constants.ErrCodeRequestFailed,
			Message: constants.GetErrorMessage(constants.ErrCodeRequestFailed),
			Details: fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// isAuthStatus reports whether a failed request was an auth rejection
// rather than a transport or server fault.
func isAuthStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}
