// Package bounded provides fixed-capacity text containers.
//
// Every text field exchanged between the UI layer, the chat client and the
// WiFi manager is sized at the boundary of its worst realistic input. Writes
// that would exceed that boundary are rejected with ErrCapacityExceeded
// instead of growing the buffer or silently truncating.
//
// # Usage
//
//	url := bounded.New(bounded.URLCapacity)
//	if err := url.Push("http://192.168.1.100:8080"); err != nil {
//	    return err
//	}
//	if err := url.Push("/webhook"); err != nil {
//	    // url still holds "http://192.168.1.100:8080"
//	}
//
// # Copy Semantics
//
// Text is a value type. Assigning or passing a Text produces an independent
// copy: pushing to one copy never changes another.
package bounded
