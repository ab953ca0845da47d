// Package server implements a stand-in ZeroClaw gateway for desktop testing.
//
// The server speaks the same HTTP contract as a real gateway:
//
//	POST /webhook   {"message": "..."} -> {"response": "..."} or {"error": "..."}
//	GET  /health    200 when serving
//
// The assistant echoes messages back (or answers with a fixed reply). A few
// message prefixes trigger failure modes so the device client's error paths
// can be exercised by hand:
//
//	/error <text>   replies {"error": "<text>"}
//	/status <code>  replies with that HTTP status
//	/silent         replies {} (no response field)
//	/big            replies with a body larger than the device buffer
//	/sleep <dur>    waits before replying, e.g. "/sleep 5s"
//
// # Touch injection
//
// GET /touch upgrades to a WebSocket. Each text message is a JSON raw touch
// event that is queued on the simulated panel:
//
//	{"kind": "touch", "x": 120, "y": 80}
//	{"kind": "release"}
//
// The server answers every event with {"ok": true, "pending": n} or
// {"ok": false, "error": "..."}.
//
// # Discovery
//
// With Advertise set, the server registers "_zeroclaw._tcp" over mDNS so
// `zeroclaw-ui scan` can find it.
package server
