package allocator

import "errors"

// ErrGenerationExhausted is the halt cause once no retries remain below
// minimum generation.
var ErrGenerationExhausted = errors.New("allocator: retry budget exhausted below minimum generation")
