// File: service.go
// Title: Action Service
// Description: gRPC front end of a session host. Batches that fail while
//              running are reported in the reply together with their
//              partial output; requests that cannot be decoded fail with a
//              status error.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial service

package rpc

import (
	"context"
	"encoding/json"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	"github.com/msto63/actionvm/foundation/utils/mapx"
	"github.com/msto63/actionvm/internal/action"
	"github.com/msto63/actionvm/internal/interp"
	"github.com/msto63/actionvm/internal/session"
	"github.com/msto63/actionvm/internal/store"
)

// Service implements ActionServiceServer over a host
type Service struct {
	host *session.Host
}

// NewService creates the service for host
func NewService(host *session.Host) *Service {
	return &Service{host: host}
}

// Register adds the service to a gRPC server
func (s *Service) Register(server grpc.ServiceRegistrar) {
	RegisterActionServiceServer(server, s)
}

// Execute runs the request's actions as one batch
func (s *Service) Execute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	actions, err := s.decodeRequest(req)
	if err != nil {
		return nil, err
	}
	return s.reply(s.host.Execute(ctx, actions), nil)
}

// ExecuteStream runs the request's actions and sends one "output" message
// per printed line, then a final "done" message
func (s *Service) ExecuteStream(req *structpb.Struct, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	actions, err := s.decodeRequest(req)
	if err != nil {
		return err
	}

	w := session.NewLineWriter(func(line string) error {
		msg, err := structpb.NewStruct(map[string]any{"type": "output", "line": line})
		if err != nil {
			return err
		}
		return stream.Send(msg)
	})
	result := s.host.ExecuteTo(stream.Context(), actions, w)
	if err := w.Flush(); err != nil {
		return err
	}

	done, err := s.reply(result, map[string]any{"type": "done"})
	if err != nil {
		return err
	}
	return stream.Send(done)
}

// Lookup renders the value at the request's identifier. A missing
// identifier renders the whole store.
func (s *Service) Lookup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var id action.Identifier
	if raw, ok := req.AsMap()["identifier"]; ok {
		parsed, err := action.IdentifierFromValue(raw)
		if err != nil {
			return nil, err
		}
		id = parsed
	}

	text, found, err := s.host.Render(id)
	if err != nil && !mdwerror.HasCode(err, mdwerror.CodePathNotFound) {
		return nil, err
	}

	reply := map[string]any{"found": found}
	if !found {
		reply["text"] = interp.NotFoundMessage(id)
		return structpb.NewStruct(reply)
	}
	reply["text"] = text
	if text != store.Undefined {
		var v any
		if err := json.Unmarshal([]byte(text), &v); err == nil {
			reply["value"] = v
		}
	}
	return structpb.NewStruct(reply)
}

// Stats returns the host counters
func (s *Service) Stats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	stats := s.host.Stats()
	reply := map[string]any{
		"session_id": stats.SessionID,
		"started":    stats.Started.Format(time.RFC3339),
		"batches":    stats.Batches,
		"actions":    stats.Actions,
		"failures":   stats.Failures,
	}
	if !stats.LastBatch.IsZero() {
		reply["last_batch"] = stats.LastBatch.Format(time.RFC3339)
	}
	return structpb.NewStruct(reply)
}

func (s *Service) reply(r *session.Result, extra map[string]any) (*structpb.Struct, error) {
	output := make([]any, len(r.Output))
	for i, line := range r.Output {
		output[i] = line
	}

	m := map[string]any{
		"session_id":  s.host.ID(),
		"batch_id":    r.BatchID,
		"output":      output,
		"executed":    r.Executed,
		"duration_ms": r.Duration.Milliseconds(),
	}
	if r.Err != nil {
		m["error"] = map[string]any{
			"code":    string(mdwerror.GetCode(r.Err)),
			"message": r.Err.Error(),
		}
	}
	return structpb.NewStruct(mapx.Merge(m, extra))
}

// decodeRequest reads actions from either an "actions" list or a "script"
// text with an optional "format"
func (s *Service) decodeRequest(req *structpb.Struct) ([]action.Action, error) {
	fields := req.AsMap()
	if script, ok := fields["script"].(string); ok {
		format := action.FormatJSON
		if f, _ := fields["format"].(string); f == string(action.FormatYAML) {
			format = action.FormatYAML
		}
		return s.host.Parse([]byte(script), format)
	}

	raw, ok := fields["actions"]
	if !ok {
		return nil, mdwerror.New("request has neither actions nor script").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("rpc.decodeRequest")
	}
	return action.FromDocument(raw)
}
