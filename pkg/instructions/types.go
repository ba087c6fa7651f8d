// Package instructions resolves per-driver usage guidance for the connected
// cloud service. Resolution is layered: an in-memory TTL cache, an optional
// remote instruction service, a packaged local document set, and a generic
// fallback document, tried in that order.
package instructions

// DriverInstructions is one instruction document for a single driver.
// Documents are immutable after load; a fresher fetch replaces the whole
// document, never parts of it.
type DriverInstructions struct {
	DriverName   string  `json:"driverName"`
	Version      string  `json:"version"`
	Instructions Details `json:"instructions"`
	LastUpdated  string  `json:"lastUpdated"`
}

// Details holds the instructional body of a driver document.
type Details struct {
	Overview         string            `json:"overview"`
	DataModel        DataModel         `json:"dataModel"`
	QueryPatterns    QueryPatterns     `json:"queryPatterns"`
	FieldConventions map[string]string `json:"fieldConventions,omitempty"`
	Limitations      []string          `json:"limitations,omitempty"`
	Troubleshooting  []string          `json:"troubleshooting,omitempty"`
}

// DataModel describes how the driver organizes its data.
type DataModel struct {
	Hierarchy     string   `json:"hierarchy"`
	KeyTables     []string `json:"keyTables,omitempty"`
	Relationships string   `json:"relationships,omitempty"`
}

// QueryPatterns describes how to query the driver effectively.
type QueryPatterns struct {
	TimeFiltering string   `json:"timeFiltering,omitempty"`
	CommonQueries []string `json:"commonQueries,omitempty"`
	BestPractices []string `json:"bestPractices,omitempty"`
}
