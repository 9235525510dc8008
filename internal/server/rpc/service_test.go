// File: service_test.go
// Title: Action Service Tests
// Description: End-to-end tests of the action service over an in-memory
//              connection with the standard interceptor chain.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial tests

package rpc

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/msto63/actionvm/internal/action"
	"github.com/msto63/actionvm/internal/interp"
	"github.com/msto63/actionvm/internal/session"
	"github.com/msto63/actionvm/internal/store"
	coregrpc "github.com/msto63/actionvm/pkg/core/grpc"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	ds := store.NewSeeded(map[string]any{"config": map[string]any{"name": "vm"}})
	host := session.NewHost(interp.New(ds, interp.Options{}), nil)

	listener := bufconn.Listen(1 << 20)
	server := coregrpc.NewServer(coregrpc.DefaultServerConfig())
	NewService(host).Register(server.GRPCServer())
	go server.Serve(listener)
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return NewClient(conn)
}

func TestExecute(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	reply, err := client.Execute(ctx, []action.Action{
		&action.Assign{Identifier: action.Identifier{"a"}, Content: action.Lit(1)},
		&action.Print{Identifier: action.Identifier{"a"}},
		&action.Print{Identifier: action.Identifier{"config", "name"}},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if reply.Err() != nil {
		t.Fatalf("batch error = %v", reply.Err())
	}
	if len(reply.Output) != 2 || reply.Output[0] != "1" || reply.Output[1] != `"vm"` {
		t.Errorf("Output = %q", reply.Output)
	}
	if reply.Executed != 3 || reply.SessionID == "" || reply.BatchID == "" {
		t.Errorf("reply = %+v", reply)
	}
}

func TestExecuteBatchFailure(t *testing.T) {
	client := newTestClient(t)

	reply, err := client.Execute(context.Background(), []action.Action{
		&action.Print{Identifier: action.Identifier{"config"}},
		&action.Assign{Identifier: action.Identifier{"no", "where"}, Content: action.Lit(1)},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if reply.ErrorCode != "PATH_NOT_FOUND" {
		t.Errorf("ErrorCode = %q, want PATH_NOT_FOUND", reply.ErrorCode)
	}
	if reply.Executed != 1 || len(reply.Output) != 1 {
		t.Errorf("reply = %+v", reply)
	}
}

func TestExecuteUndecodableRequest(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Execute(context.Background(), []action.Action{
		&action.Print{Identifier: action.Identifier{}},
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("Execute() error = %v, want InvalidArgument", err)
	}
}

func TestExecuteStream(t *testing.T) {
	client := newTestClient(t)

	var lines []string
	reply, err := client.ExecuteStream(context.Background(), []action.Action{
		&action.Print{Identifier: action.Identifier{"config", "name"}},
		&action.Print{Identifier: action.Identifier{"missing"}},
	}, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("ExecuteStream() error = %v", err)
	}
	if len(lines) != 2 || lines[1] != "Variable 'missing' not found." {
		t.Errorf("streamed lines = %q", lines)
	}
	if reply.Executed != 2 || reply.Err() != nil {
		t.Errorf("reply = %+v", reply)
	}
}

func TestLookup(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		id        action.Identifier
		wantFound bool
		wantText  string
	}{
		{"nested", action.Identifier{"config", "name"}, true, `"vm"`},
		{"root", nil, true, `{"config":{"name":"vm"}}`},
		{"missing", action.Identifier{"nope"}, false, "Variable 'nope' not found."},
		{"missing parent", action.Identifier{"nope", "x"}, false, "Variable 'nope,x' not found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := client.Lookup(ctx, tt.id)
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if reply.Found != tt.wantFound || reply.Text != tt.wantText {
				t.Errorf("Lookup() = %+v, want found=%v text=%q", reply, tt.wantFound, tt.wantText)
			}
		})
	}

	reply, _ := client.Lookup(ctx, action.Identifier{"config"})
	if m, ok := reply.Value.(map[string]any); !ok || m["name"] != "vm" {
		t.Errorf("Lookup(config).Value = %#v", reply.Value)
	}
}

func TestStats(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	client.Execute(ctx, []action.Action{&action.Print{Identifier: action.Identifier{"config"}}})

	stats, err := client.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats["batches"] != float64(1) || stats["actions"] != float64(1) {
		t.Errorf("Stats() = %v", stats)
	}
}
