package backup

import (
	"errors"
	"fmt"
)

var ErrInvalidArchive = errors.New("the archive is not a valid backup")

// RestoreError reports a restore that failed while swapping collection
// directories into the live tree. The live tree may be partially updated;
// SafetyCopy points at the pre-restore copy, and RolledBack states whether
// it was reinstated automatically.
type RestoreError struct {
	Group       string // the collection group being swapped when the failure happened
	SafetyCopy  string
	RolledBack  bool
	Err         error
	RollbackErr error
}

func (e *RestoreError) Error() string {
	if e.RolledBack {
		return fmt.Sprintf("restoring %s failed, the previous state was reinstated from the safety copy at %s: %v", e.Group, e.SafetyCopy, e.Err)
	}

	return fmt.Sprintf("restoring %s failed and rolling back from the safety copy at %s failed too (%v), restore it manually: %v", e.Group, e.SafetyCopy, e.RollbackErr, e.Err)
}

func (e *RestoreError) Unwrap() error {
	return e.Err
}
