package python

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"

	"github.com/caffeineduck/scriptrun/hostfunc"
)

// Host calls travel on the guest's stderr as \x00SCRIPTRUN:{json}\x00.
// The reply is one JSON line on the guest's stdin.
const (
	protocolPrefix = "\x00SCRIPTRUN:"
	protocolSuffix = "\x00"
)

type callRequest struct {
	Fn   string         `json:"fn"`
	Argv []any          `json:"argv,omitempty"`
	Args map[string]any `json:"args,omitempty"`
}

type callResponse struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// protocolHandler intercepts the guest's stderr. Plain output is passed on to
// stderr; protocol messages are dispatched to the registry.
type protocolHandler struct {
	ctx      context.Context
	registry *hostfunc.Registry
	reply    io.Writer
	stderr   io.Writer
	buf      bytes.Buffer
	mu       sync.Mutex
}

func newProtocolHandler(ctx context.Context, registry *hostfunc.Registry, reply, stderr io.Writer) *protocolHandler {
	return &protocolHandler{
		ctx:      ctx,
		registry: registry,
		reply:    reply,
		stderr:   stderr,
	}
}

func (p *protocolHandler) Write(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf.Write(data)

	for {
		content := p.buf.String()
		idx := findNextMessage(content)
		if idx == -1 {
			keep := partialPrefixLen(content)
			io.WriteString(p.stderr, content[:len(content)-keep])
			p.buf.Reset()
			p.buf.WriteString(content[len(content)-keep:])
			break
		}

		io.WriteString(p.stderr, content[:idx])

		payload, remaining, ok := extractMessage(content, idx, protocolPrefix)
		if !ok {
			p.buf.Reset()
			p.buf.WriteString(content[idx:])
			break
		}
		p.buf.Reset()
		p.buf.WriteString(remaining)

		var req callRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			p.respond(callResponse{Error: "invalid call format"})
			continue
		}
		p.respond(p.handleCall(req))
	}

	return len(data), nil
}

// respond writes asynchronously: the pipe blocks until the guest reads, and
// the guest only reads after this Write has returned.
func (p *protocolHandler) respond(resp callResponse) {
	data, _ := json.Marshal(resp)
	go p.reply.Write(append(data, '\n'))
}

func (p *protocolHandler) handleCall(req callRequest) callResponse {
	result, err := p.registry.Call(p.ctx, req.Fn, req.Argv, req.Args)
	if err != nil {
		return callResponse{Error: err.Error()}
	}
	return callResponse{Data: result}
}

// Flush writes out anything still buffered, including an unfinished message.
func (p *protocolHandler) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buf.Len() > 0 {
		p.stderr.Write(p.buf.Bytes())
		p.buf.Reset()
	}
}

func findNextMessage(content string) int {
	return strings.Index(content, protocolPrefix)
}

// extractMessage returns the payload of the message starting at idx and the
// text after it. ok is false when the message is not complete yet.
func extractMessage(content string, idx int, prefix string) (payload, remaining string, ok bool) {
	start := idx + len(prefix)
	end := strings.Index(content[start:], protocolSuffix)
	if end == -1 {
		return "", content[idx:], false
	}
	return content[start : start+end], content[start+end+len(protocolSuffix):], true
}

// partialPrefixLen returns how many trailing bytes of content could be the
// start of a protocol message split across writes.
func partialPrefixLen(content string) int {
	for n := min(len(protocolPrefix)-1, len(content)); n > 0; n-- {
		if strings.HasSuffix(content, protocolPrefix[:n]) {
			return n
		}
	}
	return 0
}
