package goThrottle

import (
	"errors"

	"github.com/MrEthical07/goThrottle/store"
)

var (
	// ErrStoreUnavailable wraps store transport failures surfaced by
	// administrative operations. Admission paths never return it — they
	// fail open instead.
	ErrStoreUnavailable = store.ErrUnavailable

	// ErrInvalidPolicy rejects a malformed policy at registration time
	// (zero budget, sub-second or non-integral window). Policies are
	// validated when set, never at check time.
	ErrInvalidPolicy = errors.New("invalid limit policy")

	// ErrInvalidMultiplier rejects a non-positive per-user multiplier.
	ErrInvalidMultiplier = errors.New("invalid rate multiplier")

	// ErrBuilderUsed is returned by [Builder.Build] on reuse.
	ErrBuilderUsed = errors.New("builder already used")
)
