package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"cnc-panel-server/rootfs"
)

const defaultPort = 8080

// Config holds everything the server needs at startup. Port comes from the
// command line; the optional mirrors come from a TOML file and the environment.
//
// Root defaults to the directory holding the executable. Under "go run"
// that is a build-cache directory, so set root in the config file to serve
// a source checkout. A relative root is resolved against the config file.
type Config struct {
	Port     int    `toml:"port"`
	Root     string `toml:"root"`
	TFTPAddr string `toml:"tftp_addr"`
	NFSAddr  string `toml:"nfs_addr"`
}

const (
	envConfig   = "CNC_PANEL_CONFIG"
	envTFTPAddr = "CNC_PANEL_TFTP_ADDR"
	envNFSAddr  = "CNC_PANEL_NFS_ADDR"
)

type invalidPortError struct {
	value string
}

func (e *invalidPortError) Error() string {
	return "Invalid port number: " + e.value
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &invalidPortError{value: s}
	}
	return p, nil
}

// loadConfig builds the startup configuration from the positional
// arguments (without the program name). The port argument is checked
// first so that a bad value is reported before anything else.
func loadConfig(args []string) (Config, error) {
	var port int
	hasPort := len(args) > 0
	if hasPort {
		p, err := parsePort(args[0])
		if err != nil {
			return Config{}, err
		}
		port = p
	}

	cfg := Config{Port: defaultPort}
	if path := os.Getenv(envConfig); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
		if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
			cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
		}
	}
	if v, ok := os.LookupEnv(envTFTPAddr); ok {
		cfg.TFTPAddr = v
	}
	if v, ok := os.LookupEnv(envNFSAddr); ok {
		cfg.NFSAddr = v
	}
	if hasPort {
		cfg.Port = port
	}

	if cfg.Root == "" {
		root, err := rootfs.ExecutableDir()
		if err != nil {
			return Config{}, fmt.Errorf("locate served directory: %w", err)
		}
		cfg.Root = root
	}
	return cfg, nil
}
