package snapcache

import (
	"context"
	"errors"
	"os"

	"github.com/codeGROOVE-dev/snapcache/pkg/notestore"
	"github.com/codeGROOVE-dev/snapcache/pkg/report"
	"github.com/codeGROOVE-dev/snapcache/pkg/sharedstore"
)

// Failure taxonomy for the fetch path. Custom fetch functions can wrap
// these to classify their own failures; anything unrecognized is treated
// as a backing-store failure.
var (
	// ErrStoreUnavailable indicates the backing store is unreachable or
	// erroring.
	ErrStoreUnavailable = errors.New("backing store unavailable")

	// ErrSerialization indicates a cached or fetched value was malformed.
	ErrSerialization = errors.New("snapshot serialization failed")

	// ErrSharedStorageUnavailable indicates the durable shared scalar
	// store could not be read or written.
	ErrSharedStorageUnavailable = errors.New("shared storage unavailable")

	// ErrTimeout indicates a fetch exceeded its execution budget.
	ErrTimeout = errors.New("snapshot fetch timed out")
)

// Classify maps an error into the failure taxonomy as a report
// fingerprint. Context deadline errors count as timeouts, since a fetch
// that exhausts the host budget is indistinguishable from one the caller
// timed out.
func Classify(domain string, err error) report.Fingerprint {
	code := "store_unavailable"
	switch {
	case errors.Is(err, ErrTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, os.ErrDeadlineExceeded):
		code = "timeout"
	case errors.Is(err, ErrSerialization):
		code = "serialization"
	case errors.Is(err, ErrSharedStorageUnavailable),
		errors.Is(err, sharedstore.ErrUnavailable):
		code = "shared_storage_unavailable"
	case errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, notestore.ErrUnavailable):
		code = "store_unavailable"
	}
	return report.Fingerprint{Domain: domain, Code: code}
}
