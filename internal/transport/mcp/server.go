package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/techassist/internal/core"
	"github.com/sandevgo/techassist/pkg/log"
)

const ToolAnswerQuestion = "answer_question"

// Server exposes the assistant as an MCP tool over stdio.
type Server struct {
	answerer core.Answerer
	mcp      *server.MCPServer
	in       io.Reader
	out      io.Writer
}

func NewServer(answerer core.Answerer, in io.Reader, out io.Writer) *Server {
	s := &Server{
		answerer: answerer,
		mcp:      server.NewMCPServer(core.AppName, core.AppVersion, server.WithToolCapabilities(false)),
		in:       in,
		out:      out,
	}
	s.mcp.AddTool(answerTool(), s.handleAnswer)
	return s
}

func answerTool() mcpproto.Tool {
	return mcpproto.NewTool(ToolAnswerQuestion,
		mcpproto.WithDescription("Answer an FTTH field-support question using the technical knowledge base. "+
			"Pass prior chat messages as history to keep the conversation context."),
		mcpproto.WithString("question",
			mcpproto.Required(),
			mcpproto.Description("The technician's latest question"),
		),
		mcpproto.WithArray("history",
			mcpproto.Description("Earlier messages, oldest first. fromMe marks messages written by the technician."),
			mcpproto.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"fromMe": map[string]any{"type": "boolean"},
					"body":   map[string]any{"type": "string"},
				},
				"required": []string{"fromMe", "body"},
			}),
		),
	)
}

func (s *Server) handleAnswer(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	history, err := parseHistory(req.GetArguments()["history"])
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	reply, err := s.answerer.Respond(ctx, history, question)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("answer_question failed")
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	return mcpproto.NewToolResultText(reply.Answer), nil
}

// parseHistory accepts the decoded JSON array or a JSON string holding one,
// since some clients stringify nested arguments.
func parseHistory(raw any) ([]core.HistoryEntry, error) {
	if raw == nil {
		return nil, nil
	}

	var data []byte
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		data = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("invalid history: %w", err)
		}
		data = b
	}

	var history []core.HistoryEntry
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("invalid history: %w", err)
	}
	return history, nil
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("mcp stdio server started")

	err := server.NewStdioServer(s.mcp).Listen(ctx, s.in, s.out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Shutdown is a no-op; Listen returns once the start context is cancelled.
func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}
