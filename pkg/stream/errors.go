package stream

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// PutRecords request limits.
const (
	MaxKinesisRecords      = 500
	MaxKinesisRequestBytes = 5 * 1024 * 1024
)

var ErrNoRecords = errors.New("no records to write")

// PartialFailureError reports records the stream refused inside an otherwise
// accepted bulk write.
type PartialFailureError struct {
	StreamName string
	Failed     int
	Total      int
	Codes      map[string]int
}

func (e *PartialFailureError) Error() string {
	codes := make([]string, 0, len(e.Codes))
	for code, count := range e.Codes {
		codes = append(codes, fmt.Sprintf("%s=%d", code, count))
	}
	sort.Strings(codes)
	return fmt.Sprintf("%d of %d records failed on stream %s (%s)", e.Failed, e.Total, e.StreamName, strings.Join(codes, ", "))
}
