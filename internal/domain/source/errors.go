package source

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyFile rejects uploads with no header row or no data rows; nothing is
// persisted for them.
var ErrEmptyFile = errors.New("file is empty or has no data rows")

// DetectionError reports a header set that matches no known source type. The
// offending headers are part of the message so upload failures are
// diagnosable from logs alone.
type DetectionError struct {
	Headers []string
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("no source type matches headers: %s", strings.Join(e.Headers, ","))
}

// CompatibilityError reports an upload whose detected schema conflicts with
// the schema configured on the target account.
type CompatibilityError struct {
	AccountID string
	Expected  string
	Detected  string
}

func (e *CompatibilityError) Error() string {
	return fmt.Sprintf("account %s expects source type %s, file detected as %s",
		e.AccountID, e.Expected, e.Detected)
}
