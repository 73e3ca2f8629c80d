package text

import (
	"errors"
	"fmt"
)

// Error types for classic text protocol operations.
// These errors tell clients whether the connection can be reused after a
// failure, which drives the reconnect policy in the DataSource layer.

// ClientError represents a CLIENT_ERROR response from memcached.
// The server detected invalid client input; its parsing state is undefined,
// so the connection MUST be closed.
//
// Common causes:
//   - Key length > 250 bytes
//   - Declared size does not match the data block
//   - Non-numeric value for incr/decr
//
// Connection handling: CLOSE connection immediately
type ClientError struct {
	Message string
}

func (e *ClientError) Error() string {
	return "CLIENT_ERROR: " + e.Message
}

// ShouldCloseConnection returns true - client errors require closing connection
func (e *ClientError) ShouldCloseConnection() bool {
	return true
}

// ServerError represents a SERVER_ERROR response from memcached.
// The operation failed server-side (out of memory, internal error) but the
// protocol stream is still aligned.
//
// Connection handling: Connection can be REUSED
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "SERVER_ERROR: " + e.Message
}

// ShouldCloseConnection returns false - server errors don't corrupt protocol state
func (e *ServerError) ShouldCloseConnection() bool {
	return false
}

// GenericError represents the bare ERROR response, returned for unknown
// commands or protocol violations.
//
// Connection handling: CLOSE connection, protocol state is uncertain
type GenericError struct {
	Message string
}

func (e *GenericError) Error() string {
	return e.Message
}

// ShouldCloseConnection returns true - generic errors indicate protocol issues
func (e *GenericError) ShouldCloseConnection() bool {
	return true
}

// InvalidKeyError is returned when a key fails validation, before any bytes
// are written to the server.
//
// Common causes:
//   - Empty key
//   - Key exceeds 250 bytes
//   - Key contains whitespace or control bytes
//
// Connection handling: Connection is still valid, operation was rejected client-side
type InvalidKeyError struct {
	Message string
}

func (e *InvalidKeyError) Error() string {
	return e.Message
}

// InvalidValueError is returned when a value fails validation, before any
// bytes are written to the server.
type InvalidValueError struct {
	Message string
}

func (e *InvalidValueError) Error() string {
	return e.Message
}

// FramingError represents a byte-accounting violation in a reply: the
// declared payload length does not match what follows, or a terminator line
// is missing where one is required. Never resynchronized; subsequent bytes
// on the stream cannot be attributed to any command.
//
// Connection handling: CLOSE connection, stream position is unknown
type FramingError struct {
	Message string
	Err     error // Underlying error, if any
}

func (e *FramingError) Error() string {
	if e.Err != nil {
		return "framing error: " + e.Message + ": " + e.Err.Error()
	}
	return "framing error: " + e.Message
}

// Unwrap returns the underlying error for error chain inspection
func (e *FramingError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns true - framing errors mean the stream position is lost
func (e *FramingError) ShouldCloseConnection() bool {
	return true
}

// ConnectionError wraps underlying I/O errors from connection operations.
//
// Connection handling: Connection is already broken, CLOSE and potentially RECONNECT
type ConnectionError struct {
	Op  string // Operation that failed (read, write, dial)
	Err error  // Underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns true - connection errors mean the connection is broken
func (e *ConnectionError) ShouldCloseConnection() bool {
	return true
}

// ErrorWithConnectionState is implemented by all protocol error types and
// reports whether the connection must be closed after the error.
type ErrorWithConnectionState interface {
	error
	ShouldCloseConnection() bool
}

// ShouldCloseConnection reports whether err requires closing the connection.
//
// Returns true for ClientError, GenericError, FramingError, ConnectionError
// and any unknown error type. Returns false for ServerError and nil.
func ShouldCloseConnection(err error) bool {
	if err == nil {
		return false
	}

	var e ErrorWithConnectionState
	if errors.As(err, &e) {
		return e.ShouldCloseConnection()
	}

	// Unknown error type - be conservative and close connection
	return true
}
