package registry

import "errors"

// ErrTotalMismatch is returned by Verify when the running aggregate total
// differs from the sum recomputed over active units.
var ErrTotalMismatch = errors.New("registry: total mismatch")
