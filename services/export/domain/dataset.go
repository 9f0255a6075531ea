package domain

import "errors"

// ErrUnknownEntity rejects export requests for entities we don't serve.
var ErrUnknownEntity = errors.New("unknown export entity")

// ErrUnknownFormat rejects export formats we don't encode.
var ErrUnknownFormat = errors.New("unknown export format")

// Dataset is a flat, ordered table ready for encoding. Cell values are
// strings already formatted for the spreadsheet (dates as YYYY-MM-DD,
// quantities in display units).
type Dataset struct {
	Entity  string
	Headers []string
	Rows    [][]string
}
