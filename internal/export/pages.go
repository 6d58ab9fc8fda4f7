package export

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageCount opens a rendered PDF and returns its number of pages.
func PageCount(data []byte) (n int, err error) {
	defer func() {
		// the reader panics on some truncated inputs
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("read pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	return r.NumPage(), nil
}
