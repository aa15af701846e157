package ensemble

import "fmt"

// StatusError reports a non-200 response from the EnsembleData API. The
// status code and body text surface to the user as-is; no retry is attempted.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("ensembledata: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("ensembledata: %d - %s", e.StatusCode, e.Body)
}

// DecodeError reports a response body that could not be mapped onto records.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ensembledata: decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
