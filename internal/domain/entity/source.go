package entity

// RawEventSource é o valor bruto da coluna eventsource do CloudTrail,
// normalmente na forma "<prefixo>.amazonaws.com".
type RawEventSource string

// CanonicalService is the normalized, de-duplicated service name used for
// comparison and reporting (e.g. "EC2", "CloudWatch").
type CanonicalService string

// AthenaQueryParams holds everything needed to run the event-source query
// against the CloudTrail table in Athena.
type AthenaQueryParams struct {
	Database       string `json:"database"`
	Table          string `json:"table"`
	Workgroup      string `json:"workgroup"`
	OutputLocation string `json:"output_location"`
	Region         string `json:"region"`
	Month          string `json:"month"` // partition prefix, "YYYY/MM"
}

// LogsQueryParams holds the parameters for the CloudWatch Logs Insights
// variant of the event-source query.
type LogsQueryParams struct {
	LogGroup string `json:"log_group"`
	Region   string `json:"region"`
	Month    string `json:"month"` // "YYYY/MM", expanded to a start/end range
}

// QueryResult carries the distinct event sources observed in the window,
// plus execution metadata for the report header.
type QueryResult struct {
	ExecutionID      string           `json:"execution_id"`
	EventSources     []RawEventSource `json:"event_sources"`
	DataScannedBytes int64            `json:"data_scanned_bytes,omitempty"`
}
