package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/zeroclaw/zeroclaw-ui/internal/bounded"
)

var (
	// ErrMessageTooLong is returned when a message does not fit its buffer.
	ErrMessageTooLong = errors.New("message too long")

	// ErrParse is returned when the peer sent malformed or oversized JSON.
	ErrParse = errors.New("failed to parse response")

	// ErrInvalidResponse is returned when the peer sent non UTF-8 bytes.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrUnterminated is returned by ExtractObject when the JSON object is
	// not closed before the data ends.
	ErrUnterminated = errors.New("unclosed JSON object")
)

// ChatRequest is the body of POST /webhook.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the decoded body of a /webhook reply.
// Nil fields were absent (or null) on the wire.
type ChatResponse struct {
	Response *bounded.Text
	Error    *bounded.Text
}

// HasResponse reports whether the peer sent an answer.
func (r ChatResponse) HasResponse() bool { return r.Response != nil }

// HasError reports whether the peer sent an error.
func (r ChatResponse) HasError() bool { return r.Error != nil }

// EncodeChatRequest builds {"message":"..."} within bounded.RequestCapacity bytes.
func EncodeChatRequest(message string) ([]byte, error) {
	encoded, err := marshalNoEscape(ChatRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	body := bounded.New(bounded.RequestCapacity)
	if err := body.PushBytes(encoded); err != nil {
		return nil, fmt.Errorf("%w: encoded request is %d bytes (max %d)",
			ErrMessageTooLong, len(encoded), bounded.RequestCapacity)
	}
	return body.Bytes(), nil
}

// wireResponse mirrors the peer's JSON. Pointers keep absent apart from empty.
type wireResponse struct {
	Response *string `json:"response"`
	Error    *string `json:"error"`
}

// DecodeChatResponse parses a /webhook reply into bounded fields.
func DecodeChatResponse(data []byte) (ChatResponse, error) {
	if !utf8.Valid(data) {
		return ChatResponse{}, ErrInvalidResponse
	}

	obj, err := ExtractObject(data)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var wire wireResponse
	if err := json.Unmarshal(obj, &wire); err != nil {
		return ChatResponse{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var resp ChatResponse
	if wire.Response != nil {
		text, err := bounded.From(bounded.ResponseCapacity, *wire.Response)
		if err != nil {
			return ChatResponse{}, fmt.Errorf("%w: response field: %w", ErrParse, err)
		}
		resp.Response = &text
	}
	if wire.Error != nil {
		text, err := bounded.From(bounded.ErrorCapacity, *wire.Error)
		if err != nil {
			return ChatResponse{}, fmt.Errorf("%w: error field: %w", ErrParse, err)
		}
		resp.Error = &text
	}

	return resp, nil
}

// ExtractObject returns the top-level JSON object data starts with.
// Leading whitespace is skipped and bytes after the closing brace are
// ignored; anything else before the opening brace is an error.
func ExtractObject(data []byte) ([]byte, error) {
	start := len(data) - len(bytes.TrimLeft(data, " \t\r\n"))
	if start == len(data) || data[start] != '{' {
		return nil, errors.New("response does not start with a JSON object")
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(data); i++ {
		b := data[i]

		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return data[start : i+1], nil
			}
		}
	}

	return nil, ErrUnterminated
}

// marshalNoEscape encodes v as compact JSON with HTML characters left as-is.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
