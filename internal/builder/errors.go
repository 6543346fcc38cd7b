package builder

import "errors"

// ErrNoContainerfile indicates the container strategy was requested for a
// target that has no containerfile configured. This is a configuration
// error, not an external process failure.
var ErrNoContainerfile = errors.New("no containerfile specified for target")
