package alphavantage

// Keys of the TIME_SERIES_DAILY payload.
const (
	TimeSeriesKey = "Time Series (Daily)"

	// Diagnostic keys, in the order they are consulted.
	InformationKey  = "Information"
	NoteKey         = "Note"
	ErrorMessageKey = "Error Message"
)

// Per-day field labels as the provider names them.
const (
	OpenField   = "1. open"
	HighField   = "2. high"
	LowField    = "3. low"
	CloseField  = "4. close"
	VolumeField = "5. volume"
)

var diagnosticKeys = []string{InformationKey, NoteKey, ErrorMessageKey}
