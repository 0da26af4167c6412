package documents

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
)

var ErrNoText = errors.New("no text extracted from PDF")

type TooLargeError struct {
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("PDF is too large: %s exceeds the %s limit", humanize.Bytes(uint64(e.Size)), humanize.Bytes(uint64(e.Limit)))
}

type FetchError struct {
	URL    string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("attachment download failed with status %d", e.Status)
}
