package provider

import (
	"errors"
	"fmt"
)

// The three failure classes a remote provider can surface. Each produces a
// human-readable message that tells the user which kind of problem it is:
// a server-side configuration gap, an upstream rejection, or the network.
type (
	// CredentialError reports a missing or misconfigured server-side API
	// credential for a remote provider.
	CredentialError struct {
		Provider string
		EnvVar   string
	}

	// UpstreamError reports a non-success response from the inference
	// endpoint.
	UpstreamError struct {
		Provider string
		Status   int
		Body     string
	}

	// TransportError reports a network failure reaching the endpoint.
	TransportError struct {
		Provider string
		Err      error
	}
)

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s is not configured on the server", e.EnvVar)
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error: status %d", e.Provider, e.Status)
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to reach %s: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsCredentialError reports whether err is a provider credential problem.
func IsCredentialError(err error) bool {
	var ce *CredentialError
	return errors.As(err, &ce)
}
