package catalog

import "fmt"

// RemoteError reports a non-success HTTP status from the catalog API.
type RemoteError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("catalog api %s: %s", e.Endpoint, e.Status)
}

// ParseError reports a response body that does not have the expected shape.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("catalog api %s: decode response: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product not found: slug=%s", e.Slug)
}
