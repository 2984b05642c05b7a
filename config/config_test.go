package config

import "testing"

func TestSplitPeers(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "   ", 0},
		{"single", "ws://localhost:7000", 1},
		{"multiple with spaces", "ws://a:7000, ws://b:7000 ,ws://c:7000", 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := splitPeers(tc.in)
			if len(got) != tc.want {
				t.Fatalf("splitPeers(%q) length = %d, want %d", tc.in, len(got), tc.want)
			}
		})
	}
}

func TestLoadRequiresPrivateKey(t *testing.T) {
	t.Setenv("VALIDATOR_PRIVATE_KEY", "")
	t.Setenv("VALIDATOR_PEERS", "")
	t.Setenv("VALIDATOR_LISTEN_ADDR", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load must fail without VALIDATOR_PRIVATE_KEY")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VALIDATOR_PRIVATE_KEY", "deadbeef")
	t.Setenv("VALIDATOR_PEERS", "")
	t.Setenv("VALIDATOR_LISTEN_ADDR", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Fatalf("ListenAddr = %q, want default %q", cfg.ListenAddr, DefaultListenAddr)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
}
