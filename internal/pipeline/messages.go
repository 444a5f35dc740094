package pipeline

import (
	"errors"
	"net/http"

	"github.com/navid-fn/stockpipe/configs"
	"github.com/navid-fn/stockpipe/internal/drivers/alphavantage"
	"github.com/navid-fn/stockpipe/internal/storage"
	"github.com/navid-fn/stockpipe/internal/transform"
)

const (
	SuccessMessage    = "ETL process completed successfully!"
	MissingKeyMessage = "Server configuration error: API key not found."
	PermissionMessage = "Permission error accessing the warehouse."

	apiErrorPrefix        = "Error fetching data from API: "
	connectionErrorPrefix = "API connection error: "
	processingErrorPrefix = "Data processing error: "
	loadErrorPrefix       = "Error loading data into the warehouse: "
	unexpectedErrorPrefix = "Unexpected error: "
)

// describe maps a run error to the log label and the caller-facing message.
func describe(err error) (label, message string) {
	var (
		apiErr    *alphavantage.APIResponseError
		connErr   *alphavantage.ConnectionError
		httpErr   *alphavantage.HTTPError
		schemaErr *transform.SchemaError
		typeErr   *transform.DataTypeError
		permErr   *storage.PermissionError
		loadErr   *storage.LoadError
	)

	switch {
	case errors.Is(err, configs.ErrMissingAPIKey):
		return "Configuration error", MissingKeyMessage
	case errors.As(err, &apiErr):
		return "API error", apiErrorPrefix + apiErr.Message
	case errors.As(err, &connErr), errors.As(err, &httpErr):
		return "Connection error", connectionErrorPrefix + err.Error()
	case errors.As(err, &schemaErr), errors.As(err, &typeErr):
		return "Transform error", processingErrorPrefix + err.Error()
	case errors.As(err, &permErr):
		return "Permission error", PermissionMessage
	case errors.As(err, &loadErr):
		return "Load error", loadErrorPrefix + loadErr.Err.Error()
	default:
		return "Unexpected error", unexpectedErrorPrefix + err.Error()
	}
}

// statusFor returns the HTTP status of a terminal state.
func statusFor(s State) int {
	if s == Done {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}
