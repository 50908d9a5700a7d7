package dataset

import "fmt"

// DataError reports a dataset that cannot be prepared: required columns
// missing, or a column with no numeric values after coercion.
type DataError struct {
	Column string
	Reason string
}

func (e *DataError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("dataset: column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("dataset: %s", e.Reason)
}
