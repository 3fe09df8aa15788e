// Package chat exposes the FAQ navigator as Model Context Protocol tools so
// an assistant can walk the menu on a user's behalf.
package chat

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/faqtree/internal/journal"
	"github.com/agentic-research/faqtree/internal/menu"
	"github.com/agentic-research/faqtree/internal/updater"
)

const (
	ToolStart    = "faq_start"
	ToolNavigate = "faq_navigate"
	ToolUpdate   = "faq_update"
	ToolCurrent  = "faq_current"
)

// Applier replaces and reads back the FAQ document. *updater.Updater
// satisfies it.
type Applier interface {
	Apply(ctx context.Context, data []byte, source string) (updater.Result, error)
	Current() ([]byte, error)
}

// Server is the MCP surface over a Navigator.
type Server struct {
	nav      *menu.Navigator
	applier  Applier
	notifier updater.Notifier
	mcp      *server.MCPServer
}

type Option func(*Server)

// WithNotifier sends handler faults to n.
func WithNotifier(n updater.Notifier) Option {
	return func(s *Server) { s.notifier = n }
}

// New registers the navigation tools. The update and current-document tools
// are only registered when applier is non-nil.
func New(name, version string, nav *menu.Navigator, applier Applier, opts ...Option) *Server {
	s := &Server{
		nav:     nav,
		applier: applier,
		mcp: server.NewMCPServer(name, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp.AddTool(mcp.NewTool(ToolStart,
		mcp.WithDescription("Show the FAQ greeting and the top-level menu. "+
			"Each button is listed as [label](token); pass a token to "+ToolNavigate+" to follow it."),
	), s.guard(ToolStart, s.handleStart))

	s.mcp.AddTool(mcp.NewTool(ToolNavigate,
		mcp.WithDescription("Follow a menu button. Returns the category menu or the answer it leads to."),
		mcp.WithString("token",
			mcp.Required(),
			mcp.Description("Button token such as go_by_id:3 or back_by_id:-2"),
		),
	), s.guard(ToolNavigate, s.handleNavigate))

	if applier != nil {
		s.mcp.AddTool(mcp.NewTool(ToolUpdate,
			mcp.WithDescription("Replace the whole FAQ with a new JSON document. "+
				"The document is validated first; an invalid one changes nothing."),
			mcp.WithString("document",
				mcp.Required(),
				mcp.Description(`JSON object with "texts" and "questions" sections`),
			),
		), s.guard(ToolUpdate, s.handleUpdate))

		s.mcp.AddTool(mcp.NewTool(ToolCurrent,
			mcp.WithDescription("Return the active FAQ document exactly as stored in the live file."),
		), s.guard(ToolCurrent, s.handleCurrent))
	}
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Serve speaks MCP over in/out until ctx is done or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

func (s *Server) handleStart(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatReply(s.nav.Start())), nil
}

func (s *Server) handleNavigate(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := req.RequireString("token")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(FormatReply(s.nav.Handle(strings.TrimSpace(token)))), nil
}

func (s *Server) handleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.applier.Apply(ctx, []byte(doc), "chat")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.Status == journal.StatusUnchanged {
		return mcp.NewToolResultText("FAQ unchanged: the document matches the active one."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("FAQ updated: %d categories, %d questions.",
		res.Stats.Categories, res.Stats.Questions)), nil
}

func (s *Server) handleCurrent(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.applier.Current()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// guard turns a panic or an error returned by h into an error result and
// reports it to the notifier.
func (s *Server) guard(tool string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (res *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				res, err = s.fault(ctx, tool, fmt.Errorf("panic: %v", r)), nil
			}
		}()
		res, err = h(ctx, req)
		if err != nil {
			return s.fault(ctx, tool, err), nil
		}
		return res, nil
	}
}

func (s *Server) fault(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	if s.notifier != nil {
		s.notifier.Notify(ctx, updater.Event{Kind: updater.EventHandlerError, Source: tool, Detail: err.Error()})
	}
	return mcp.NewToolResultError("internal error in " + tool)
}

// FormatReply renders a reply as its text followed by one line per button
// row, each button written as [label](token).
func FormatReply(r menu.Reply) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(r.Text, "\n"))
	if len(r.Rows) > 0 {
		b.WriteString("\n\n")
	}
	for i, row := range r.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, btn := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "[%s](%s)", btn.Label, btn.Token)
		}
	}
	return b.String()
}
