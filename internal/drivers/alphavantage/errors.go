package alphavantage

import "fmt"

// fallbackMessage is reported when the provider omits the time series without explaining why.
const fallbackMessage = "invalid API response or usage limit reached"

// ConnectionError means the request never produced an HTTP response.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http status %s", e.Status)
	}
	return fmt.Sprintf("http status %s: %s", e.Status, e.Body)
}

// APIResponseError carries the provider's own diagnostic when the payload holds no data,
// typically a rate limit notice or an invalid symbol.
type APIResponseError struct {
	Message string
}

func (e *APIResponseError) Error() string {
	return e.Message
}
