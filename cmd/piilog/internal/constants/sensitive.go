package constants

// PIIFields are the log keys whose values must never reach a log sink in
// plaintext. Order is irrelevant for redaction.
// Used in: logging/logger.go, main.go
var PIIFields = []string{
	"name",
	"email",
	"phone",
	"ssn",
	"password",
}

// RedactionMarker is the literal substituted for a sensitive value.
// It reveals neither the length nor the content of the original value.
// Used in: logging/formatter.go
const RedactionMarker = "***"

// FieldSeparator terminates each key=value pair in a log message.
// Used in: logging/formatter.go, users/exporter.go
const FieldSeparator = ";"
