package router

import "github.com/yarninisrael/OpenInsight/internal/errors"

const (
	// Connection Errors
	ErrUnreachable  = errors.ErrorCode("router_unreachable")
	ErrAuthFailed   = errors.ErrorCode("router_auth_failed")
	ErrHandshake    = errors.ErrorCode("router_handshake_failed")
	ErrNoAuthMethod = errors.ErrorCode("router_no_auth_method")

	// Command Errors
	ErrSessionFailed  = errors.ErrorCode("router_session_failed")
	ErrCommandFailed  = errors.ErrorCode("router_command_failed")
	ErrCommandTimeout = errors.ErrorCode("router_command_timeout")
)
