// Package protocol implements the wire format exchanged between the device
// and the ZeroClaw assistant gateway, plus the in-memory vocabulary shared
// with the UI layer.
//
// # Wire Format
//
// The device talks to the gateway with small JSON documents:
//
//	POST /webhook   {"message": "hello"}
//	200 OK          {"response": "hi"}            answer
//	200 OK          {"error": "rate limited"}     rejected by the assistant
//	200 OK          {}                            no answer
//
// Requests are encoded into a 1024 byte budget and responses are decoded
// into fixed-capacity fields (2048 bytes for the answer, 256 for the error).
// Unknown fields are ignored so older firmware keeps working against newer
// gateways. An absent or null "response" decodes to a nil pointer, which is
// how callers tell "no answer" apart from an empty answer.
//
// Some gateways append trailing bytes after the JSON document. The decoder
// requires the body to start with an object (after whitespace) and ignores
// whatever follows it, see ExtractObject.
//
// # UI Vocabulary
//
// ChatMessage, UiStatus, UiCommand and UiResponse are the values the UI
// layer exchanges with the device runtime. UiCommand and UiResponse are JSON
// encodable so a remote or scripted UI can drive the runtime.
//
// # Error Handling
//
// The package distinguishes between:
//   - ErrMessageTooLong: the request does not fit its buffer
//   - ErrInvalidResponse: the peer sent bytes that are not UTF-8
//   - ErrParse: the peer sent malformed or oversized JSON
//
// All errors are wrapped with context and can be matched with errors.Is.
//
// # Thread Safety
//
// All encoding and decoding functions are stateless and safe for concurrent use.
package protocol
