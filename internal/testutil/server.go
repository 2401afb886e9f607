package testutil

import (
	"net/http/httptest"
	"testing"

	"convcompare/internal/mockserver"
)

// TargetInstance is a mock chat server listening on a loopback port.
type TargetInstance struct {
	BaseURL string
	Server  *mockserver.Server
	Close   func()
}

// StartTarget launches a mock chat server closed at test cleanup.
func StartTarget(t testing.TB, opts mockserver.Options) *TargetInstance {
	t.Helper()
	srv := mockserver.New(opts)
	server := httptest.NewServer(srv.Handler())
	t.Cleanup(server.Close)
	return &TargetInstance{
		BaseURL: server.URL,
		Server:  srv,
		Close:   server.Close,
	}
}

// UnreachableURL returns the address of a server that has already shut down.
func UnreachableURL(t testing.TB) string {
	t.Helper()
	server := httptest.NewServer(nil)
	url := server.URL
	server.Close()
	return url
}
