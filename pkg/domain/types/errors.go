package types

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrTransport is wrapped around failures to send a request or read its response.
	ErrTransport = goerr.New("HTTP client error")

	// ErrInvalidHeaderValue means a configured value (e.g. the access token)
	// cannot be encoded as an HTTP header value.
	ErrInvalidHeaderValue = goerr.New("invalid header value")

	// ErrHeaderDecode means a response header contains bytes that are not
	// representable as text.
	ErrHeaderDecode = goerr.New("could not get header value")

	// ErrMalformedPagination means the Link header announced a last page but
	// no page number could be extracted from it.
	ErrMalformedPagination = goerr.New("malformed pagination header")

	// ErrDecodeBody means the response body is not a JSON array of releases.
	ErrDecodeBody = goerr.New("failed to decode response body")

	// ErrRepositoryNotFound is returned when the API answers 404, either
	// because the repository does not exist or it is not visible with the
	// configured credentials.
	ErrRepositoryNotFound = goerr.New("repository not found")

	// ErrNoReleases is returned when a repository has no release, or none of
	// its release tags is a valid semantic version. The two cases are not
	// distinguished.
	ErrNoReleases = goerr.New("no release found")
)

// AuthenticationError is returned when the API answers 401 or 403.
type AuthenticationError struct {
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error (status %d)", e.StatusCode)
}

// HTTPResponseError is returned for any other non-success status code.
type HTTPResponseError struct {
	StatusCode int
}

func (e *HTTPResponseError) Error() string {
	return fmt.Sprintf("received error HTTP response code %d", e.StatusCode)
}
