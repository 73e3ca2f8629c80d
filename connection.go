package memcadm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/pior/memcadm/text"
)

var (
	ErrConnectionClosed = errors.New("memcadm: connection closed")
)

// ConnectError reports a failure to establish a connection, carrying the
// attempted address.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("memcadm: connect to %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// Connection owns a single socket to one memcached endpoint and exposes the
// line-based primitives the codec needs. A Connection is either fully usable
// or closed; after any I/O failure it transitions to closed and must be
// replaced with a new Dial.
//
// One command is in flight at a time; callers serialize access. The mutex
// only guards the closed flag against a concurrent Close.
type Connection struct {
	addr    string
	timeout time.Duration
	conn    net.Conn
	reader  *bufio.Reader
	writer  *bufio.Writer

	mu     sync.Mutex
	closed bool
}

// Dial opens a connection to addr, which is either "host:port" or a unix
// socket path (selected when the address contains a slash). The timeout
// bounds the dial and every subsequent read and write; zero disables it.
func Dial(addr string, timeout time.Duration) (*Connection, error) {
	network := "tcp"
	if strings.Contains(addr, "/") {
		network = "unix"
	}

	conn, err := net.DialTimeout(network, addr, timeout)
	if err != nil {
		return nil, &ConnectError{Addr: addr, Err: err}
	}

	return newConnection(conn, addr, timeout), nil
}

// newConnection wraps an established net.Conn. Split from Dial so tests can
// inject a scripted conn.
func newConnection(conn net.Conn, addr string, timeout time.Duration) *Connection {
	return &Connection{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		reader:  bufio.NewReader(conn),
		writer:  bufio.NewWriter(conn),
	}
}

// Addr returns the connection address.
func (c *Connection) Addr() string {
	return c.addr
}

// IsClosed returns whether the connection is closed.
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close closes the connection. Closing aborts any blocked read or write,
// which then surfaces ErrConnectionClosed; this is the only supported
// cancellation point.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	return c.conn.Close()
}

// SendRequest encodes req and writes it to the socket.
func (c *Connection) SendRequest(req *text.Request) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.applyDeadline()

	err := text.WriteRequest(c.writer, req)
	if err == nil {
		return nil
	}

	// Validation errors leave the stream untouched; only wire failures
	// poison the connection.
	var connErr *text.ConnectionError
	if errors.As(err, &connErr) {
		return c.ioFailure(err)
	}
	return err
}

// SendLine writes one raw command line, appending the CRLF terminator.
// This is the escape hatch behind DataSource.Query.
func (c *Connection) SendLine(line string) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	c.applyDeadline()

	c.writer.WriteString(line)
	c.writer.WriteString(text.CRLF)
	if err := c.writer.Flush(); err != nil {
		return c.ioFailure(err)
	}
	return nil
}

// ReadLine reads one reply line with the terminator stripped.
func (c *Connection) ReadLine() (string, error) {
	if err := c.checkOpen(); err != nil {
		return "", err
	}
	c.applyDeadline()

	line, err := text.ReadLine(c.reader)
	if err != nil {
		return "", c.ioFailure(err)
	}
	return line, nil
}

// ReadExact reads exactly n bytes of payload.
func (c *Connection) ReadExact(n int) ([]byte, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	c.applyDeadline()

	buf := make([]byte, n)
	if _, err := io.ReadFull(c.reader, buf); err != nil {
		return nil, c.ioFailure(err)
	}
	return buf, nil
}

// ReadStatus reads and classifies a single-line reply.
func (c *Connection) ReadStatus() (text.Status, error) {
	if err := c.checkOpen(); err != nil {
		return text.Status{}, err
	}
	c.applyDeadline()

	status, err := text.ReadStatus(c.reader)
	if err != nil {
		return text.Status{}, c.ioFailure(err)
	}
	return status, nil
}

// ReadValueBlock reads one get reply (VALUE header, payload, END).
// Framing violations are returned as-is: fatal to the operation, but
// classified separately from link failures so callers never mistake them
// for a miss or a dropped connection.
func (c *Connection) ReadValueBlock() (*text.ValueReply, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	c.applyDeadline()

	reply, err := text.ReadValueBlock(c.reader)
	if err != nil {
		return nil, c.readFailure(err)
	}
	return reply, nil
}

// ReadLines accumulates reply lines until the END terminator (excluded).
func (c *Connection) ReadLines() ([]string, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	c.applyDeadline()

	lines, err := text.ReadLines(c.reader)
	if err != nil {
		return lines, c.readFailure(err)
	}
	return lines, nil
}

func (c *Connection) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	return nil
}

// applyDeadline arms the per-operation deadline. Timeouts apply per read or
// write, not per logical multi-line reply as a whole.
func (c *Connection) applyDeadline() {
	if c.timeout > 0 {
		c.conn.SetDeadline(time.Now().Add(c.timeout))
	}
}

// readFailure classifies a decode error: wire failures become
// ErrConnectionClosed; framing and protocol errors pass through, closing
// the socket when the codec says the stream position is lost.
func (c *Connection) readFailure(err error) error {
	var connErr *text.ConnectionError
	if errors.As(err, &connErr) {
		return c.ioFailure(err)
	}
	if text.ShouldCloseConnection(err) {
		c.markClosed()
	}
	return err
}

// ioFailure marks the connection closed after a wire-level failure and
// normalizes the error so callers can match ErrConnectionClosed.
func (c *Connection) ioFailure(err error) error {
	c.markClosed()
	return errors.Join(ErrConnectionClosed, err)
}

func (c *Connection) markClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		c.conn.Close()
	}
}
