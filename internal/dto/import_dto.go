package dto

// ImportRowError pins a failure to its spreadsheet row. Rows are processed
// independently; one bad row never aborts the rest.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportSummaryDTO struct {
	Success []string         `json:"success"`
	Errors  []ImportRowError `json:"errors"`
}
