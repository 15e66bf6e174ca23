package clock

import "time"

// NowFunc is the time source for task timestamps, store expiry and lock
// leases. Tests replace it to move time forward without sleeping.
var NowFunc = time.Now

// Now returns the current time of NowFunc
func Now() time.Time { return NowFunc() }

// Since returns the time elapsed since t according to NowFunc
func Since(t time.Time) time.Duration { return NowFunc().Sub(t) }
