// File: client.go
// Title: Action Service Client
// Description: Typed client for the action service.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial client
// - 2026-10-18 v0.1.1: Actions are sent as JSON script text

package rpc

import (
	"context"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	"github.com/msto63/actionvm/internal/action"
)

// Reply is the decoded result of a remote batch
type Reply struct {
	SessionID    string
	BatchID      string
	Output       []string
	Executed     int
	DurationMS   int64
	ErrorCode    string
	ErrorMessage string
}

// Err returns the batch failure as an error, or nil
func (r *Reply) Err() error {
	if r.ErrorCode == "" && r.ErrorMessage == "" {
		return nil
	}
	return mdwerror.New(r.ErrorMessage).
		WithCode(mdwerror.Code(r.ErrorCode)).
		WithOperation("rpc.remote").
		WithDetail("batch_id", r.BatchID)
}

// LookupReply is the decoded result of a remote lookup
type LookupReply struct {
	Found bool
	Text  string
	Value any
}

// Client calls the action service over a connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Execute runs actions remotely as one batch
func (c *Client) Execute(ctx context.Context, actions []action.Action) (*Reply, error) {
	req, err := actionsRequest(actions)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ExecuteMethod, req, out); err != nil {
		return nil, err
	}
	return replyFrom(out), nil
}

// ExecuteStream runs actions remotely and calls onLine for every printed
// line as it arrives
func (c *Client) ExecuteStream(ctx context.Context, actions []action.Action, onLine func(string)) (*Reply, error) {
	req, err := actionsRequest(actions)
	if err != nil {
		return nil, err
	}

	stream, err := c.cc.NewStream(ctx, &ActionServiceDesc.Streams[0], ExecuteStreamMethod)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}

	for {
		msg, err := x.Recv()
		if err == io.EOF {
			return nil, mdwerror.New("stream ended without a result").
				WithCode(mdwerror.CodeNetworkError).
				WithOperation("rpc.ExecuteStream")
		}
		if err != nil {
			return nil, err
		}
		fields := msg.GetFields()
		switch fields["type"].GetStringValue() {
		case "output":
			if onLine != nil {
				onLine(fields["line"].GetStringValue())
			}
		case "done":
			return replyFrom(msg), nil
		}
	}
}

// Lookup renders a remote value. An empty identifier renders the store.
func (c *Client) Lookup(ctx context.Context, id action.Identifier) (*LookupReply, error) {
	segments := make([]any, len(id))
	for i, s := range id {
		segments[i] = s
	}
	req, err := structpb.NewStruct(map[string]any{"identifier": segments})
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, LookupMethod, req, out); err != nil {
		return nil, err
	}
	fields := out.GetFields()
	reply := &LookupReply{
		Found: fields["found"].GetBoolValue(),
		Text:  fields["text"].GetStringValue(),
	}
	if v, ok := fields["value"]; ok {
		reply.Value = v.AsInterface()
	}
	return reply, nil
}

// Stats returns the remote host counters
func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, StatsMethod, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

// actionsRequest sends actions as JSON script text; a Struct would lose
// the key order of literal objects.
func actionsRequest(actions []action.Action) (*structpb.Struct, error) {
	script, err := action.Marshal(actions)
	if err != nil {
		return nil, mdwerror.Wrap(err, "encode actions").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("rpc.actionsRequest")
	}
	return structpb.NewStruct(map[string]any{
		"script": string(script),
		"format": string(action.FormatJSON),
	})
}

func replyFrom(s *structpb.Struct) *Reply {
	fields := s.GetFields()
	reply := &Reply{
		SessionID:  fields["session_id"].GetStringValue(),
		BatchID:    fields["batch_id"].GetStringValue(),
		Executed:   int(fields["executed"].GetNumberValue()),
		DurationMS: int64(fields["duration_ms"].GetNumberValue()),
	}
	for _, v := range fields["output"].GetListValue().GetValues() {
		reply.Output = append(reply.Output, v.GetStringValue())
	}
	if e := fields["error"].GetStructValue(); e != nil {
		reply.ErrorCode = e.GetFields()["code"].GetStringValue()
		reply.ErrorMessage = e.GetFields()["message"].GetStringValue()
	}
	return reply
}
