package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-r remote sync endpoint base URL
//	-d local database file path
//	-legacy-state legacy flat state file path
//	-coordination-dir shared leader-election directory
//	-heartbeat-interval leader heartbeat interval (e.g., "2s")
//	-leader-timeout stale-claim takeover timeout (e.g., "6s")
//	-sync-interval periodic sync loop interval (e.g., "30s")
//	-batch-size max operations pushed per sync cycle
//	-request-timeout outbound request timeout (e.g., "15s")
//	-hash-key transport integrity hash key
//	-t/-token bearer token for the remote endpoint
//	-a reference server address in format [host]:[port]
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var remoteBaseURL string
	var databaseDSN string
	var legacyStatePath string
	var coordinationDir string
	var heartbeatInterval time.Duration
	var leaderTimeout time.Duration
	var syncInterval time.Duration
	var batchSize int
	var requestTimeout time.Duration
	var hashKey string
	var token string
	var serverAddress NetAddress
	var jsonConfigPath string

	flag.StringVar(&remoteBaseURL, "r", "", "Remote sync endpoint base URL")
	flag.StringVar(&databaseDSN, "d", "", "Local database file path")
	flag.StringVar(&legacyStatePath, "legacy-state", "", "Legacy state file path")
	flag.StringVar(&coordinationDir, "coordination-dir", "", "Shared leader-election directory")
	flag.DurationVar(&heartbeatInterval, "heartbeat-interval", 0, "Leader heartbeat interval (e.g., 2s)")
	flag.DurationVar(&leaderTimeout, "leader-timeout", 0, "Stale-claim takeover timeout (e.g., 6s)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Periodic sync loop interval (e.g., 30s)")
	flag.IntVar(&batchSize, "batch-size", 0, "Max operations pushed per sync cycle")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	flag.StringVar(&hashKey, "hash-key", "", "Transport integrity hash key")
	flag.StringVar(&token, "t", "", "Bearer token for the remote endpoint")
	flag.StringVar(&token, "token", "", "Bearer token for the remote endpoint (alias)")
	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Adapter: Adapter{
			BaseURL:        remoteBaseURL,
			RequestTimeout: requestTimeout,
			HashKey:        hashKey,
			Token:          token,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Legacy: Legacy{
				StatePath: legacyStatePath,
			},
		},
		Coordinator: Coordinator{
			Dir:               coordinationDir,
			HeartbeatInterval: heartbeatInterval,
			LeaderTimeout:     leaderTimeout,
		},
		Workers: Workers{
			SyncInterval: syncInterval,
			BatchSize:    batchSize,
		},
		Server: Server{
			HTTPAddress: serverAddress.String(),
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
