package health

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[string]Status
		want     Status
		wantCode int
	}{
		{"all healthy", map[string]Status{"session": StatusHealthy, "grpc": StatusHealthy}, StatusHealthy, 200},
		{"one degraded", map[string]Status{"session": StatusDegraded, "grpc": StatusHealthy}, StatusDegraded, 200},
		{"unhealthy wins", map[string]Status{"session": StatusDegraded, "grpc": StatusUnhealthy}, StatusUnhealthy, 503},
		{"no checks", map[string]Status{}, StatusHealthy, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("actionvm", "0.1.0")
			for name, status := range tt.statuses {
				status := status
				registry.RegisterFunc(name, func(ctx context.Context) CheckResult {
					return CheckResult{Status: status}
				})
			}

			report := registry.Check(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if report.HTTPStatus() != tt.wantCode {
				t.Errorf("HTTPStatus() = %v, want %v", report.HTTPStatus(), tt.wantCode)
			}
			if len(report.Checks) != len(tt.statuses) {
				t.Errorf("Checks count = %v, want %v", len(report.Checks), len(tt.statuses))
			}
		})
	}
}

func TestRegistry_ChecksSortedAndNamed(t *testing.T) {
	registry := NewRegistry("actionvm", "0.1.0")
	registry.RegisterFunc("websocket", func(ctx context.Context) CheckResult { return CheckResult{Status: StatusHealthy} })
	registry.RegisterFunc("grpc", func(ctx context.Context) CheckResult { return CheckResult{Status: StatusHealthy} })

	report := registry.Check(context.Background())
	if report.Checks[0].Name != "grpc" || report.Checks[1].Name != "websocket" {
		t.Errorf("checks = %v, %v, want sorted names", report.Checks[0].Name, report.Checks[1].Name)
	}
	if report.Checks[0].Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry("actionvm", "0.1.0")
	registry.RegisterFunc("temp", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusUnhealthy}
	})
	registry.Unregister("temp")

	if report := registry.CheckWithTimeout(time.Second); len(report.Checks) != 0 || report.Status != StatusHealthy {
		t.Errorf("report after Unregister = %+v", report)
	}
}

func TestTCPCheck(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()

	if result := TCPCheck("grpc", addr, time.Second).Check(context.Background()); result.Status != StatusHealthy {
		t.Errorf("open port Status = %v (%s)", result.Status, result.Message)
	}

	listener.Close()
	if result := TCPCheck("grpc", addr, time.Second).Check(context.Background()); result.Status != StatusUnhealthy {
		t.Errorf("closed port Status = %v, want unhealthy", result.Status)
	}
}

func TestReport_String(t *testing.T) {
	report := &Report{Service: "actionvm", Status: StatusHealthy, Uptime: time.Minute}
	if got := report.String(); got != "Service: actionvm, Status: healthy, Uptime: 1m0s, Checks: 0" {
		t.Errorf("String() = %q", got)
	}
}
