package protocol

import "errors"

// ErrOverflow is returned by Session.Receive, alongside OutcomeOverflow,
// when committing an item would exceed the caller's buffer capacity.
var ErrOverflow = errors.New("protocol: item count exceeds buffer capacity")

// ErrCorrupt is returned by Session.Receive, alongside OutcomeCorrupt, when
// a wire byte fails its check code. Whether this is surfaced to the caller
// this way or folded silently into Pending is controlled by
// Config.ReportCorrupt.
var ErrCorrupt = errors.New("protocol: corrupt byte on link")

// ErrLink wraps a failure from the underlying Link.
var ErrLink = errors.New("protocol: link error")
