package client

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorKind represents the category of a chat client failure.
type ErrorKind int

const (
	// KindURLTooLong indicates the base URL or an endpoint URL exceeds 128 bytes
	KindURLTooLong ErrorKind = iota
	// KindAPIKeyTooLong indicates the API key exceeds 64 bytes
	KindAPIKeyTooLong
	// KindMessageTooLong indicates the encoded request exceeds its buffer
	KindMessageTooLong
	// KindConnectionFailed indicates the server could not be reached
	KindConnectionFailed
	// KindRequestFailed indicates the request could not be built or sent
	KindRequestFailed
	// KindReadFailed indicates the response body could not be read
	KindReadFailed
	// KindInvalidResponse indicates the body was not valid UTF-8
	KindInvalidResponse
	// KindParse indicates the body was not the expected JSON
	KindParse
	// KindNoResponse indicates a well-formed reply without a response field
	KindNoResponse
	// KindHTTP indicates a status other than 200
	KindHTTP
	// KindServer indicates the server answered with an error field
	KindServer
	// KindResponseTooLarge indicates the body did not fit the response buffer
	KindResponseTooLarge
)

func (k ErrorKind) String() string {
	switch k {
	case KindURLTooLong:
		return "URL Too Long"
	case KindAPIKeyTooLong:
		return "API Key Too Long"
	case KindMessageTooLong:
		return "Message Too Long"
	case KindConnectionFailed:
		return "Connection Failed"
	case KindRequestFailed:
		return "Request Failed"
	case KindReadFailed:
		return "Read Failed"
	case KindInvalidResponse:
		return "Invalid Response"
	case KindParse:
		return "Parse Error"
	case KindNoResponse:
		return "No Response"
	case KindHTTP:
		return "HTTP Error"
	case KindServer:
		return "Server Error"
	case KindResponseTooLarge:
		return "Response Too Large"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// NetworkSubtype narrows down transport failures.
type NetworkSubtype int

const (
	NetworkGeneral NetworkSubtype = iota
	NetworkTimeout
	NetworkConnectionRefused
	NetworkDNS
	NetworkHostUnreachable
	NetworkNetworkUnreachable
)

// Sentinels matched by errors.Is against any *ClientError of the same kind.
var (
	ErrURLTooLong       = errors.New("URL too long")
	ErrAPIKeyTooLong    = errors.New("API key too long")
	ErrMessageTooLong   = errors.New("message too long")
	ErrConnectionFailed = errors.New("connection failed")
	ErrRequestFailed    = errors.New("request failed")
	ErrReadFailed       = errors.New("read failed")
	ErrInvalidResponse  = errors.New("invalid response")
	ErrParse            = errors.New("failed to parse response")
	ErrNoResponse       = errors.New("no response from server")
	ErrHTTP             = errors.New("HTTP error")
	ErrServer           = errors.New("server error")
	ErrResponseTooLarge = errors.New("response too large")
)

var kindSentinels = map[ErrorKind]error{
	KindURLTooLong:       ErrURLTooLong,
	KindAPIKeyTooLong:    ErrAPIKeyTooLong,
	KindMessageTooLong:   ErrMessageTooLong,
	KindConnectionFailed: ErrConnectionFailed,
	KindRequestFailed:    ErrRequestFailed,
	KindReadFailed:       ErrReadFailed,
	KindInvalidResponse:  ErrInvalidResponse,
	KindParse:            ErrParse,
	KindNoResponse:       ErrNoResponse,
	KindHTTP:             ErrHTTP,
	KindServer:           ErrServer,
	KindResponseTooLarge: ErrResponseTooLarge,
}

// ClientError is returned by every Client operation that can fail.
type ClientError struct {
	Kind       ErrorKind      // Category of error
	Message    string         // Human-readable message; the server text for KindServer
	StatusCode int            // HTTP status code (KindHTTP only)
	Err        error          // Underlying error (if any)
	Subtype    NetworkSubtype // Transport failure detail
	Retryable  bool           // Whether sending again may succeed
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ClientError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *ClientError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

func newError(kind ErrorKind, message string, err error) *ClientError {
	return &ClientError{Kind: kind, Message: message, Err: err}
}

func newHTTPError(status int) *ClientError {
	return &ClientError{
		Kind:       KindHTTP,
		Message:    fmt.Sprintf("unexpected status code: %d", status),
		StatusCode: status,
		Retryable:  status >= 500 || status == 429,
	}
}

// ClassifyNetworkError turns a transport error into a KindConnectionFailed
// or KindRequestFailed error with a subtype.
func ClassifyNetworkError(err error) *ClientError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &ClientError{
			Kind:      KindRequestFailed,
			Message:   "request timed out",
			Err:       err,
			Subtype:   NetworkTimeout,
			Retryable: true,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &ClientError{
			Kind:    KindConnectionFailed,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
			Subtype: NetworkDNS,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		subtype, message := NetworkGeneral, "network error"
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			subtype, message = NetworkConnectionRefused, "server refused connection"
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			subtype, message = NetworkHostUnreachable, "host unreachable"
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			subtype, message = NetworkNetworkUnreachable, "network unreachable"
		}
		kind := KindRequestFailed
		if opErr.Op == "dial" {
			kind = KindConnectionFailed
		}
		return &ClientError{
			Kind:      kind,
			Message:   message,
			Err:       err,
			Subtype:   subtype,
			Retryable: true,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err)
	}

	return &ClientError{
		Kind:      KindRequestFailed,
		Message:   "request failed",
		Err:       err,
		Subtype:   NetworkGeneral,
		Retryable: true,
	}
}

func asClientError(err error) (*ClientError, bool) {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsTransportError reports connection, request and read failures.
func IsTransportError(err error) bool {
	ce, ok := asClientError(err)
	if !ok {
		return false
	}
	switch ce.Kind {
	case KindConnectionFailed, KindRequestFailed, KindReadFailed:
		return true
	}
	return false
}

// IsProtocolError reports replies the client could not make sense of.
func IsProtocolError(err error) bool {
	ce, ok := asClientError(err)
	if !ok {
		return false
	}
	switch ce.Kind {
	case KindInvalidResponse, KindParse, KindNoResponse, KindResponseTooLarge:
		return true
	}
	return false
}

// IsHTTPError checks if an error is a non-200 status
func IsHTTPError(err error) bool {
	ce, ok := asClientError(err)
	return ok && ce.Kind == KindHTTP
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	ce, ok := asClientError(err)
	return ok && ce.Retryable
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if ce, ok := asClientError(err); ok {
		return ce.StatusCode
	}
	return 0
}

// TroubleshootingHint returns user-facing advice for err.
func TroubleshootingHint(err error) string {
	ce, ok := asClientError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch ce.Kind {
	case KindURLTooLong:
		return "The server URL is longer than 128 bytes. Use a shorter hostname or path."
	case KindAPIKeyTooLong:
		return "The API key is longer than 64 bytes. Check that the whole key was not pasted twice."
	case KindMessageTooLong:
		return "The message is too long to send. Split it into shorter messages."

	case KindConnectionFailed, KindRequestFailed:
		hint := []string{"Could not talk to the ZeroClaw server."}
		switch ce.Subtype {
		case NetworkTimeout:
			hint = append(hint,
				"Troubleshooting:",
				"  • The server may be busy generating a reply, try again",
				"  • Try increasing the timeout in the config file",
			)
		case NetworkConnectionRefused:
			hint = append(hint,
				"Troubleshooting:",
				"  • Check that the server is running",
				"  • Verify the port in the server URL",
			)
		case NetworkDNS:
			hint = append(hint,
				"Troubleshooting:",
				"  • Use the IP address instead of hostname",
				"  • Try discovery with: zeroclaw-ui scan",
			)
		default:
			hint = append(hint,
				"Troubleshooting:",
				"  • Check that WiFi is connected",
				"  • Verify the server URL is correct",
				"  • Ensure the server is on the same network",
			)
		}
		return strings.Join(hint, "\n")

	case KindReadFailed:
		return "The connection dropped while reading the reply. Try again."

	case KindHTTP:
		switch {
		case ce.StatusCode == 401 || ce.StatusCode == 403:
			return "The server rejected the API key. Check the api_key setting."
		case ce.StatusCode == 404:
			return "The server has no /webhook endpoint. Check the server URL path."
		case ce.StatusCode >= 500:
			return fmt.Sprintf("The server failed (HTTP %d). Check the server logs and try again.", ce.StatusCode)
		}
		return fmt.Sprintf("The server returned HTTP error %d.", ce.StatusCode)

	case KindServer:
		return "The assistant reported an error: " + ce.Message

	case KindInvalidResponse, KindParse, KindNoResponse:
		return "The server reply was not understood. Check that the URL points at a ZeroClaw gateway."

	case KindResponseTooLarge:
		return "The reply was larger than this device can display. Ask for a shorter answer."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// ShortMessage returns a concise, user-friendly message for err.
func ShortMessage(err error) string {
	ce, ok := asClientError(err)
	if !ok {
		return err.Error()
	}

	switch ce.Kind {
	case KindConnectionFailed:
		switch ce.Subtype {
		case NetworkConnectionRefused:
			return "Server refused connection"
		case NetworkDNS:
			return "Cannot resolve server hostname"
		default:
			return "Cannot reach server"
		}
	case KindRequestFailed:
		if ce.Subtype == NetworkTimeout {
			return "Server not responding (timeout)"
		}
		return "Request failed"
	case KindHTTP:
		return fmt.Sprintf("Server error (HTTP %d)", ce.StatusCode)
	case KindServer:
		return ce.Message
	default:
		return ce.Kind.String()
	}
}
