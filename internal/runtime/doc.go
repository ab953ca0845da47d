// Package runtime is the device's single owner of mutable state.
//
// A Runtime holds the WiFi manager, the chat client, the touch decoder and
// the conversation history. The UI layer never touches them directly: it
// submits protocol.UiCommand values and receives protocol.UiResponse
// replies, and it watches Events for status changes pushed by the runtime
// (health checks, WiFi transitions, new messages).
package runtime
