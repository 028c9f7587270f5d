package gerrit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSH client errors.
var (
	// ErrNoSSHAgent indicates SSH_AUTH_SOCK is not set.
	ErrNoSSHAgent = errors.New("no ssh-agent available (SSH_AUTH_SOCK not set)")
)

// DefaultPort is the Gerrit SSH port.
const DefaultPort = 29418

// Querier runs Gerrit queries. The SSH client is the real
// implementation; tests script a mock.
type Querier interface {
	// Query runs `gerrit query status:open <terms> --format json` and
	// returns the matched reviews keyed by URL.
	Query(ctx context.Context, terms string) (map[string]Review, error)
}

// ClientConfig holds configuration for the SSH client.
type ClientConfig struct {
	// Host is the Gerrit server. Required.
	Host string

	// Port is the SSH port. Defaults to DefaultPort.
	Port int

	// User is the SSH login name. Required.
	User string

	// KnownHostsFile verifies the server host key.
	// Defaults to ~/.ssh/known_hosts.
	KnownHostsFile string

	// Timeout bounds the TCP dial. Defaults to 10s.
	Timeout time.Duration
}

// Client queries Gerrit over SSH with ssh-agent authentication.
type Client struct {
	addr         string
	clientConfig *ssh.ClientConfig
	agentConn    io.Closer
}

// NewClient connects to the local ssh-agent and prepares an SSH client
// configuration for the Gerrit server. Close releases the agent
// connection.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("gerrit host is required")
	}
	if cfg.User == "" {
		return nil, errors.New("gerrit user is required")
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.KnownHostsFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		cfg.KnownHostsFile = filepath.Join(home, ".ssh", "known_hosts")
	}

	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil, ErrNoSSHAgent
	}
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil, fmt.Errorf("connect to ssh-agent: %w", err)
	}

	hostKeyCallback, err := knownhosts.New(cfg.KnownHostsFile)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("load known hosts: %w", err)
	}

	ag := agent.NewClient(conn)
	return &Client{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		clientConfig: &ssh.ClientConfig{
			User:            cfg.User,
			Auth:            []ssh.AuthMethod{ssh.PublicKeysCallback(ag.Signers)},
			HostKeyCallback: hostKeyCallback,
			Timeout:         cfg.Timeout,
		},
		agentConn: conn,
	}, nil
}

// Close releases the ssh-agent connection.
func (c *Client) Close() error {
	if c.agentConn != nil {
		return c.agentConn.Close()
	}
	return nil
}

// Query runs a gerrit query for open reviews matching terms.
func (c *Client) Query(ctx context.Context, terms string) (map[string]Review, error) {
	output, err := c.run(ctx, fmt.Sprintf(
		"gerrit query status:open %s --format json", terms))
	if err != nil {
		return nil, fmt.Errorf("gerrit query %q: %w", terms, err)
	}
	return ParseQueryOutput(output)
}

// run executes one remote command over a fresh SSH connection. The
// connection is torn down when ctx is cancelled.
func (c *Client) run(ctx context.Context, command string) (string, error) {
	dialer := net.Dialer{Timeout: c.clientConfig.Timeout}
	tcpConn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return "", err
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(tcpConn, c.addr, c.clientConfig)
	if err != nil {
		tcpConn.Close()
		return "", err
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", err
	}
	defer session.Close()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			client.Close()
		case <-done:
		}
	}()
	defer close(done)

	output, err := session.Output(command)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return string(output), nil
}
