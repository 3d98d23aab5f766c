package coordinator

import "errors"

// ErrAlreadyRun is returned when Run is called more than once.
var ErrAlreadyRun = errors.New("coordinator: run already started")
