// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/memobridge/memobridge/lib/version"
	"github.com/memobridge/memobridge/memos"
)

// Server is an MCP server that exposes the note operations of a
// [memos.Session] as tools over JSON-RPC 2.0 on newline-delimited
// stdio.
type Server struct {
	session     memos.Session
	logger      *slog.Logger
	tools       []tool
	toolsByName map[string]*tool
	initialized bool
}

// tool is a single entry in the static tool catalog.
type tool struct {
	name        string
	title       string
	description string
	annotations *toolAnnotations
	inputSchema any
	handler     func(ctx context.Context, session memos.Session, arguments json.RawMessage) (any, error)
}

// NewServer creates an MCP server serving the note tool catalog on top
// of the given session. The session is the only shared state across
// tool calls and is never mutated by them; it must remain open for the
// lifetime of the server. If logger is nil, slog.Default() is used.
func NewServer(session memos.Session, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		session: session,
		logger:  logger,
		tools:   noteTools(),
	}

	s.toolsByName = make(map[string]*tool, len(s.tools))
	for i := range s.tools {
		s.toolsByName[s.tools[i].name] = &s.tools[i]
	}

	return s
}

// Serve starts the MCP server reading from os.Stdin and writing to
// os.Stdout. It returns when stdin reaches EOF or ctx is cancelled
// between requests.
func (s *Server) Serve(ctx context.Context) error {
	return s.Run(ctx, os.Stdin, os.Stdout)
}

// Run processes JSON-RPC 2.0 requests from input and writes responses
// to output until input reaches EOF. Each request occupies a single
// line (newline-delimited JSON-RPC, not Content-Length framed).
func (s *Server) Run(ctx context.Context, input io.Reader, output io.Writer) error {
	scanner := bufio.NewScanner(input)
	// MCP messages can be large (a created note echoes its content).
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	encoder := json.NewEncoder(output)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			if writeErr := writeError(encoder, json.RawMessage("null"), codeParseError, "parse error: "+err.Error()); writeErr != nil {
				return writeErr
			}
			continue
		}

		if req.JSONRPC != "2.0" {
			if !req.isNotification() {
				if writeErr := writeError(encoder, req.ID, codeInvalidRequest, "unsupported JSON-RPC version"); writeErr != nil {
					return writeErr
				}
			}
			continue
		}

		// Notifications have no ID and receive no response.
		if req.isNotification() {
			continue
		}

		if err := s.dispatch(ctx, encoder, &req); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// dispatch routes a JSON-RPC request to the appropriate handler.
func (s *Server) dispatch(ctx context.Context, encoder *json.Encoder, req *request) error {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(encoder, req)
	case "ping":
		return s.handlePing(encoder, req)
	case "tools/list":
		if !s.initialized {
			return writeError(encoder, req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleToolsList(encoder, req)
	case "tools/call":
		if !s.initialized {
			return writeError(encoder, req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleToolsCall(ctx, encoder, req)
	default:
		return writeError(encoder, req.ID, codeMethodNotFound, "unknown method: "+req.Method)
	}
}

func (s *Server) handleInitialize(encoder *json.Encoder, req *request) error {
	if len(req.Params) == 0 {
		return writeError(encoder, req.ID, codeInvalidParams, "params required for initialize")
	}

	var params initializeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, "invalid initialize params: "+err.Error())
	}

	// The MCP specification says the server responds with its own
	// protocol version and the client decides whether it can proceed.
	// We do not reject clients that request a different version —
	// all MCP versions are additive, so older clients will simply
	// ignore fields they don't recognize.
	s.initialized = true
	s.logger.Info("mcp session initialized",
		"client", params.ClientInfo.Name,
		"clientVersion", params.ClientInfo.Version,
		"requestedProtocol", params.ProtocolVersion)

	return writeResult(encoder, req.ID, initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: serverCapabilities{
			Tools: &toolCapability{},
		},
		ServerInfo: serverInfo{
			Name:    "memobridge",
			Version: version.Short(),
		},
	})
}

func (s *Server) handlePing(encoder *json.Encoder, req *request) error {
	return writeResult(encoder, req.ID, map[string]any{})
}

func (s *Server) handleToolsList(encoder *json.Encoder, req *request) error {
	descriptions := make([]toolDescription, 0, len(s.tools))
	for _, t := range s.tools {
		descriptions = append(descriptions, toolDescription{
			Name:        t.name,
			Title:       t.title,
			Description: t.description,
			InputSchema: t.inputSchema,
			Annotations: t.annotations,
		})
	}
	return writeResult(encoder, req.ID, toolsListResult{Tools: descriptions})
}

func (s *Server) handleToolsCall(ctx context.Context, encoder *json.Encoder, req *request) error {
	if len(req.Params) == 0 {
		return writeError(encoder, req.ID, codeInvalidParams, "params required for tools/call")
	}

	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, "invalid tools/call params: "+err.Error())
	}

	t, ok := s.toolsByName[params.Name]
	if !ok {
		return writeError(encoder, req.ID, codeInvalidParams, "unknown tool: "+params.Name)
	}

	result, runErr := t.handler(ctx, s.session, params.Arguments)
	if runErr != nil {
		s.logger.Warn("tool call failed", "tool", t.name, "error", runErr)
	}

	return writeResult(encoder, req.ID, buildToolResult(result, runErr))
}

// buildToolResult assembles a toolsCallResult from a typed handler
// result and an optional error. On success the result is serialized
// into a text content block and mirrored in structuredContent. On
// failure the text block carries the {"error": message} envelope —
// the single error shape every tool failure collapses to.
func buildToolResult(result any, runErr error) toolsCallResult {
	if runErr != nil {
		envelope, err := json.Marshal(map[string]string{"error": runErr.Error()})
		if err != nil {
			// A map[string]string always marshals; this is unreachable.
			envelope = []byte(`{"error":"internal encoding failure"}`)
		}
		return toolsCallResult{
			Content:   []contentBlock{{Type: "text", Text: string(envelope)}},
			IsError:   true,
			ErrorInfo: classifyError(runErr),
		}
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return buildToolResult(nil, err)
	}
	return toolsCallResult{
		Content:           []contentBlock{{Type: "text", Text: string(encoded)}},
		StructuredContent: result,
	}
}

// Error categories for errorInfo.
const (
	categoryValidation = "validation"
	categoryNotFound   = "not_found"
	categoryForbidden  = "forbidden"
	categoryConflict   = "conflict"
	categoryTransient  = "transient"
	categoryInternal   = "internal"
)

// classifyError extracts structured error metadata from an error. It
// checks the client layer's typed errors first (APIError status,
// ValidationError), then context errors, and falls back to internal.
func classifyError(err error) *errorInfo {
	var validationErr *memos.ValidationError
	if errors.As(err, &validationErr) {
		return &errorInfo{Category: categoryValidation, Retryable: false}
	}

	var apiErr *memos.APIError
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &errorInfo{Category: categoryTransient, Retryable: true}
	}

	return &errorInfo{Category: categoryInternal, Retryable: false}
}

// classifyAPIError maps an upstream HTTP status to an error category.
func classifyAPIError(err *memos.APIError) *errorInfo {
	switch {
	case err.StatusCode == http.StatusNotFound:
		return &errorInfo{Category: categoryNotFound, Retryable: false}
	case err.StatusCode == http.StatusUnauthorized, err.StatusCode == http.StatusForbidden:
		return &errorInfo{Category: categoryForbidden, Retryable: false}
	case err.StatusCode == http.StatusConflict:
		return &errorInfo{Category: categoryConflict, Retryable: false}
	case err.StatusCode == http.StatusTooManyRequests, err.StatusCode >= 500:
		return &errorInfo{Category: categoryTransient, Retryable: true}
	case err.StatusCode >= 400:
		return &errorInfo{Category: categoryValidation, Retryable: false}
	default:
		return &errorInfo{Category: categoryInternal, Retryable: false}
	}
}

// writeResult sends a JSON-RPC 2.0 success response.
func writeResult(encoder *json.Encoder, id json.RawMessage, result any) error {
	return encoder.Encode(response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

// writeError sends a JSON-RPC 2.0 error response.
func writeError(encoder *json.Encoder, id json.RawMessage, code int, message string) error {
	return encoder.Encode(response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: message},
	})
}
