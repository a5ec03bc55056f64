package source

import (
	"errors"
)

// ErrNotFound indicates the document backing a data source does not exist.
// The pipeline treats it as informational: the remaining sources still run.
var ErrNotFound = errors.New("source document not found")

// DataSource supplies one raw markdown document to the pipeline, already
// decoded to text.
type DataSource interface {
	Name() string
	Fetch() ([]byte, error)
}
