package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{envConfig, envTFTPAddr, envNFSAddr} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"8080", 8080},
		{"9090", 9090},
		{" 3000 ", 3000},
		{"+81", 81},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := parsePort(tt.in)
		if err != nil {
			t.Fatalf("parsePort(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("parsePort(%q)=%d want=%d", tt.in, got, tt.want)
		}
	}
}

func TestParsePortInvalid(t *testing.T) {
	for _, in := range []string{"abc", "", "80a", "1.5", "0x50"} {
		_, err := parsePort(in)
		var pe *invalidPortError
		if !errors.As(err, &pe) {
			t.Fatalf("parsePort(%q) err=%v want *invalidPortError", in, err)
		}
		if got, want := err.Error(), "Invalid port number: "+in; got != want {
			t.Fatalf("message=%q want=%q", got, want)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := loadConfig(nil)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != defaultPort {
		t.Fatalf("port=%d want=%d", cfg.Port, defaultPort)
	}
	if cfg.TFTPAddr != "" || cfg.NFSAddr != "" {
		t.Fatalf("mirrors enabled by default: tftp=%q nfs=%q", cfg.TFTPAddr, cfg.NFSAddr)
	}
	if !filepath.IsAbs(cfg.Root) {
		t.Fatalf("root=%q is not absolute", cfg.Root)
	}
}

func TestLoadConfigPortArgument(t *testing.T) {
	clearEnv(t)
	cfg, err := loadConfig([]string{"9090"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("port=%d want=9090", cfg.Port)
	}

	_, err = loadConfig([]string{"abc"})
	if err == nil || err.Error() != "Invalid port number: abc" {
		t.Fatalf("err=%v want Invalid port number: abc", err)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "panel.toml")
	data := "port = 7000\ntftp_addr = \":6969\"\nnfs_addr = \":12049\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(envConfig, path)

	cfg, err := loadConfig(nil)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != 7000 || cfg.TFTPAddr != ":6969" || cfg.NFSAddr != ":12049" {
		t.Fatalf("cfg=%+v", cfg)
	}

	t.Setenv(envTFTPAddr, "127.0.0.1:69")
	t.Setenv(envNFSAddr, "")
	cfg, err = loadConfig([]string{"8181"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != 8181 {
		t.Fatalf("port=%d want=8181", cfg.Port)
	}
	if cfg.TFTPAddr != "127.0.0.1:69" {
		t.Fatalf("tftp=%q want=127.0.0.1:69", cfg.TFTPAddr)
	}
	if cfg.NFSAddr != "" {
		t.Fatalf("nfs=%q want disabled", cfg.NFSAddr)
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "panel.toml")
	if err := os.WriteFile(path, []byte("port = \"not a number\""), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(envConfig, path)
	if _, err := loadConfig(nil); err == nil {
		t.Fatalf("expected decode error")
	}

	// The port argument is still reported first.
	_, err := loadConfig([]string{"abc"})
	var pe *invalidPortError
	if !errors.As(err, &pe) {
		t.Fatalf("err=%v want *invalidPortError", err)
	}
}

func TestLoadConfigRoot(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "panel.toml")
	if err := os.WriteFile(path, []byte("root = \"www\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(envConfig, path)

	cfg, err := loadConfig(nil)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if want := filepath.Join(dir, "www"); cfg.Root != want {
		t.Fatalf("root=%q want=%q", cfg.Root, want)
	}

	abs := filepath.Join(t.TempDir(), "panel")
	if err := os.WriteFile(path, []byte("root = \""+abs+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig(nil)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Root != abs {
		t.Fatalf("root=%q want=%q", cfg.Root, abs)
	}
}
