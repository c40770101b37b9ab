package worker

import "errors"

// ErrPoolNotRunning is returned by Evaluate before Start or after Shutdown.
var ErrPoolNotRunning = errors.New("worker pool not running")
