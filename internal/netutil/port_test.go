package netutil

import (
	"net"
	"testing"
)

// reserveAddr grabs an ephemeral port and releases it so the address is free
// for the code under test.
func reserveAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	if err := ln.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return addr
}

// holdAddr grabs an ephemeral port and keeps it occupied for the test.
func holdAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })
	return ln.Addr().String()
}

func TestSelectBindAddrPreferredFree(t *testing.T) {
	addr := reserveAddr(t)
	got, err := SelectBindAddr(addr, nil, false)
	if err != nil {
		t.Fatalf("SelectBindAddr() = %v; want nil", err)
	}
	if got != addr {
		t.Fatalf("SelectBindAddr() = %q; want %q", got, addr)
	}
}

func TestSelectBindAddrFallsBackWhenPreferredBusy(t *testing.T) {
	busy := holdAddr(t)
	free := reserveAddr(t)

	got, err := SelectBindAddr(busy, []string{busy, free}, true)
	if err != nil {
		t.Fatalf("SelectBindAddr() = %v; want nil", err)
	}
	if got != free {
		t.Fatalf("SelectBindAddr() = %q; want fallback %q", got, free)
	}
}

func TestSelectBindAddrNoFallbackFailsFast(t *testing.T) {
	busy := holdAddr(t)
	if _, err := SelectBindAddr(busy, []string{reserveAddr(t)}, false); err == nil {
		t.Fatalf("SelectBindAddr() = nil; want error when preferred is busy and fallback is off")
	}
}

func TestSelectBindAddrAllCandidatesBusy(t *testing.T) {
	busy := holdAddr(t)
	if _, err := SelectBindAddr(busy, []string{busy}, true); err == nil {
		t.Fatalf("SelectBindAddr() = nil; want error when every candidate is busy")
	}
}
