package router

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"

	"github.com/yarninisrael/OpenInsight/internal/errors"
	"github.com/yarninisrael/OpenInsight/internal/logger"
)

const defaultPort = 22

var errFactory = errors.New()

// Config holds everything needed to reach the device. Unset fields fall
// back to the matching ~/.ssh/config entry when one exists; explicit
// values always win.
type Config struct {
	Host           string
	Port           int
	User           string
	Password       string
	KeyFile        string
	ConnectTimeout time.Duration
}

// Session is an authenticated SSH connection to the device.
type Session struct {
	client *ssh.Client
	addr   string
}

// Connect dials the device and authenticates. Connection failures are
// classified: unreachable, credentials rejected, or handshake broken.
func Connect(cfg Config) (*Session, error) {
	tgt := resolveTarget(cfg, loadSSHConfig())

	auth, err := buildAuth(cfg, tgt)
	if err != nil {
		return nil, err
	}

	clientCfg := &ssh.ClientConfig{
		User: tgt.user,
		Auth: auth,
		// The device host key is not verified; the poller talks to one
		// known box on its own network.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         cfg.ConnectTimeout,
	}

	conn, err := net.DialTimeout("tcp", tgt.addr, cfg.ConnectTimeout)
	if err != nil {
		return nil, errFactory.Wrap(ErrUnreachable, err).WithData(tgt.addr)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, tgt.addr, clientCfg)
	if err != nil {
		conn.Close()
		return nil, errFactory.Wrap(classifyHandshakeError(err), err)
	}

	logger.Info().Str("addr", tgt.addr).Str("user", tgt.user).Msg("Connected to router")

	return &Session{
		client: ssh.NewClient(sshConn, chans, reqs),
		addr:   tgt.addr,
	}, nil
}

// Run executes one command and returns its stdout. The wait is abandoned
// when ctx expires. A command that runs but exits non-zero yields empty
// output and no error; the parsers treat missing output as absent data.
func (s *Session) Run(ctx context.Context, command string) (string, error) {
	sess, err := s.client.NewSession()
	if err != nil {
		return "", errFactory.Wrap(ErrSessionFailed, err)
	}
	defer sess.Close()

	var stdout, stderr bytes.Buffer
	sess.Stdout = &stdout
	sess.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- sess.Run(command)
	}()

	select {
	case <-ctx.Done():
		return "", errFactory.Wrap(ErrCommandTimeout, ctx.Err()).WithData(command)
	case err = <-done:
	}

	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			logger.Warn().
				Str("command", command).
				Int("exit_code", exitErr.ExitStatus()).
				Str("stderr", strings.TrimSpace(stderr.String())).
				Msg("Remote command exited non-zero")

			return "", nil
		}

		return "", errFactory.Wrap(ErrCommandFailed, err).WithData(command)
	}

	return stdout.String(), nil
}

// Close shuts down the connection.
func (s *Session) Close() error {
	if s.client == nil {
		return nil
	}

	return s.client.Close()
}

// Addr returns the resolved address the session dialed.
func (s *Session) Addr() string {
	return s.addr
}

type target struct {
	addr    string
	user    string
	keyFile string
}

// resolveTarget fills unset connection fields from the decoded ssh
// config.
func resolveTarget(cfg Config, sshCfg *ssh_config.Config) target {
	hostname := cfg.Host
	if v := lookup(sshCfg, cfg.Host, "HostName"); v != "" {
		hostname = v
	}

	port := cfg.Port
	if port == 0 {
		if v := lookup(sshCfg, cfg.Host, "Port"); v != "" {
			if p, err := strconv.Atoi(v); err == nil {
				port = p
			}
		}
	}
	if port == 0 {
		port = defaultPort
	}

	user := cfg.User
	if user == "" {
		user = lookup(sshCfg, cfg.Host, "User")
	}
	if user == "" {
		user = currentUser()
	}

	keyFile := cfg.KeyFile
	if keyFile == "" {
		keyFile = expandPath(lookup(sshCfg, cfg.Host, "IdentityFile"))
	}

	return target{
		addr:    net.JoinHostPort(hostname, strconv.Itoa(port)),
		user:    user,
		keyFile: keyFile,
	}
}

func lookup(sshCfg *ssh_config.Config, alias, key string) string {
	if sshCfg == nil {
		return ""
	}

	value, err := sshCfg.Get(alias, key)
	if err != nil {
		return ""
	}

	return value
}

// loadSSHConfig decodes ~/.ssh/config; a missing or unreadable file just
// means no fallbacks.
func loadSSHConfig() *ssh_config.Config {
	f, err := os.Open(filepath.Join(homeDir(), ".ssh", "config"))
	if err != nil {
		return nil
	}
	defer f.Close()

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return nil
	}

	return cfg
}

// buildAuth assembles auth methods: the configured password first, then a
// private key when one is configured or resolvable.
func buildAuth(cfg Config, tgt target) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if cfg.Password != "" {
		methods = append(methods, ssh.Password(cfg.Password))
	}

	if tgt.keyFile != "" {
		if signer, err := loadKeyFile(tgt.keyFile); err == nil {
			methods = append(methods, ssh.PublicKeys(signer))
		} else {
			logger.Debug().Str("key_file", tgt.keyFile).Err(err).Msg("Skipping unusable private key")
		}
	}

	if len(methods) == 0 {
		return nil, errFactory.New(ErrNoAuthMethod)
	}

	return methods, nil
}

func loadKeyFile(path string) (ssh.Signer, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ssh.ParsePrivateKey(key)
}

// classifyHandshakeError separates rejected credentials from everything
// else that can break the handshake.
func classifyHandshakeError(err error) errors.ErrorCode {
	msg := err.Error()
	if strings.Contains(msg, "unable to authenticate") || strings.Contains(msg, "no supported methods") {
		return ErrAuthFailed
	}

	return ErrHandshake
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}

	return home
}

func currentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}

	return "root"
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}

	return path
}
