package config

// Status values for Payload and FileReport.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Payload is the top-level result of a parse run across one or more
// files reached through "include" expansion.
type Payload struct {
	Status string        `json:"status" yaml:"status"`
	Errors []PayloadError `json:"errors" yaml:"errors"`
	Config []FileReport  `json:"config" yaml:"config"`
}

// PayloadError is an error recorded at the payload level; it names the
// originating file explicitly since, unlike FileError, it is not nested
// inside that file's own report.
type PayloadError struct {
	File     string      `json:"file" yaml:"file"`
	Line     int         `json:"line,omitempty" yaml:"line,omitempty"`
	Error    string      `json:"error" yaml:"error"`
	Callback interface{} `json:"callback,omitempty" yaml:"callback,omitempty"`
}

// FileReport is the parse result for a single file.
type FileReport struct {
	File   string      `json:"file" yaml:"file"`
	Status string      `json:"status" yaml:"status"`
	Errors []FileError `json:"errors" yaml:"errors"`
	Parsed []*Directive `json:"parsed" yaml:"parsed"`
}

// FileError is an error recorded against a single file. It omits the
// file name since it is always nested inside that file's FileReport.
type FileError struct {
	Line     int         `json:"line,omitempty" yaml:"line,omitempty"`
	Error    string      `json:"error" yaml:"error"`
	Callback interface{} `json:"callback,omitempty" yaml:"callback,omitempty"`
}

// NewPayload returns an empty, "ok" payload ready to accumulate file
// reports.
func NewPayload() *Payload {
	return &Payload{Status: StatusOK, Errors: []PayloadError{}, Config: []FileReport{}}
}

// NewFileReport returns an empty, "ok" report for the named file.
func NewFileReport(file string) *FileReport {
	return &FileReport{File: file, Status: StatusOK, Errors: []FileError{}, Parsed: []*Directive{}}
}

// MarkFailed records err against both the file report and the payload,
// attaching the optional callback value returned by an onError hook.
func (p *Payload) MarkFailed(report *FileReport, line int, message string, callback interface{}) {
	report.Status = StatusFailed
	report.Errors = append(report.Errors, FileError{Line: line, Error: message, Callback: callback})

	p.Status = StatusFailed
	p.Errors = append(p.Errors, PayloadError{File: report.File, Line: line, Error: message, Callback: callback})
}
