package cpu

import "errors"

// ErrFatal marks errors that indicate a guest program or host bug the
// interpreter cannot make progress past (e.g. an unrecognized PSR mode
// written directly into CPSR). Wrapped with fmt.Errorf("%w: ...", ErrFatal, ...)
// so callers can errors.Is against it regardless of message text.
var ErrFatal = errors.New("cpu: fatal condition")

// ErrUndefined marks an undefined-instruction encoding.
var ErrUndefined = errors.New("cpu: undefined instruction")
