package ui

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeroclaw/zeroclaw-ui/internal/discovery"
	"github.com/zeroclaw/zeroclaw-ui/internal/protocol"
)

// Printer writes UI components to a writer.
// This is the primary way one-shot commands output styled content.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the width used for rendering
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Param) {
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Param) {
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error) {
	p.Println(NewFailureResult(title, err).SetWidth(p.width).Render())
}

// PrintStatus prints a status card
func (p *Printer) PrintStatus(status protocol.UiStatus) {
	p.Println(RenderStatusCard(status, p.width))
}

// PrintMessages prints a chat transcript
func (p *Printer) PrintMessages(messages []protocol.ChatMessage) {
	if len(messages) == 0 {
		return
	}
	p.Println(RenderTranscript(messages, p.width))
}

// PrintGateways prints discovery results
func (p *Printer) PrintGateways(gateways []*discovery.Gateway) {
	p.Println(RenderGateways(gateways, p.width))
}

// PrintResponse prints a runtime reply: messages and status when present,
// or an error box when the command failed.
func (p *Printer) PrintResponse(title string, resp protocol.UiResponse) {
	if !resp.Success {
		r := &Result{Type: ResultFailure, Title: title, Error: errors.New(resp.ErrorText()), Width: p.width}
		p.Println(r.Render())
		p.PrintMessages(resp.Messages)
		return
	}
	p.PrintMessages(resp.Messages)
	if resp.Status != nil {
		p.PrintStatus(*resp.Status)
	}
	if len(resp.Messages) == 0 && resp.Status == nil {
		p.PrintSuccess(title)
	}
}
