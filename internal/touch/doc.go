// Package touch decodes raw touch-controller events into screen coordinates.
//
// The controller reports coordinates in its own range, which can exceed the
// visible display area. The Decoder clamps every point to
// [0, width-1] x [0, height-1], saturating rather than wrapping.
//
// Touch polling is lossy and high frequency: GetTouchEvent treats a read
// failure as "nothing happened this poll". Callers that care about failure
// telemetry use Poll, which reports "no event" and "error" separately, or
// read the counters from Stats.
package touch
