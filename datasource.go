package memcadm

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/pior/memcadm/text"
)

// ErrNotStored reports a conditional storage command whose condition was
// not met (add on an existing key, replace/append/prepend on a missing one).
var ErrNotStored = errors.New("memcadm: item not stored")

// DataSourceError wraps the underlying cause when an operation still fails
// after the one automatic reconnect.
type DataSourceError struct {
	Op  string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("memcadm: %s failed: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// UnknownReplyError surfaces a reply line this client does not recognize.
// Unrecognized tokens are never silently dropped; the caller decides
// whether they are fatal.
type UnknownReplyError struct {
	Raw string
}

func (e *UnknownReplyError) Error() string {
	return "memcadm: unknown reply: " + strconv.Quote(e.Raw)
}

// DataSource is the session-facing API over one connection to one server:
// typed operations for every supported verb plus Query, the raw escape
// hatch for the stats family.
//
// The connection is established lazily on first use. If it drops mid
// session, the failed operation triggers exactly one reconnect (through the
// circuit breaker when configured) and one retry; a second failure surfaces
// as a DataSourceError. A storage command retried this way may have already
// been applied by the server before the drop: without CAS protection that
// at-most-once/at-least-once ambiguity is inherent to the protocol and not
// resolved by this layer.
//
// A DataSource is not safe for concurrent use; callers serialize, one
// DataSource per worker.
type DataSource struct {
	config  Config
	logger  *zap.Logger
	breaker CircuitBreaker
	stats   *sessionStatsCollector

	conn *Connection
}

// New creates a DataSource for the configured server. No connection is
// opened until the first operation.
func New(config Config) *DataSource {
	config = config.withDefaults()

	ds := &DataSource{
		config: config,
		logger: config.Logger,
		stats:  newSessionStatsCollector(),
	}
	if config.NewCircuitBreaker != nil {
		ds.breaker = config.NewCircuitBreaker(config.Addr)
	}
	return ds
}

// Addr returns the configured server address.
func (d *DataSource) Addr() string {
	return d.config.Addr
}

// Stats returns a snapshot of the session's client-side counters.
func (d *DataSource) Stats() SessionStats {
	return d.stats.snapshot()
}

// Close tears the connection down. The DataSource remains usable: the next
// operation reconnects.
func (d *DataSource) Close() error {
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

// Get retrieves one item. A miss is not an error: the returned item has
// Found set to false.
func (d *DataSource) Get(ctx context.Context, key string) (Item, error) {
	return d.get(ctx, key, false)
}

// GetWithCAS is Get via the gets command; the returned item carries the
// server's CAS token.
func (d *DataSource) GetWithCAS(ctx context.Context, key string) (Item, error) {
	return d.get(ctx, key, true)
}

func (d *DataSource) get(ctx context.Context, key string, withCAS bool) (Item, error) {
	var reply *text.ValueReply

	err := d.roundTrip(ctx, "get", func(conn *Connection) error {
		if err := conn.SendRequest(text.NewGetRequest(key, withCAS)); err != nil {
			return err
		}
		var err error
		reply, err = conn.ReadValueBlock()
		return err
	})
	if err != nil {
		d.stats.recordError()
		return Item{}, err
	}

	if !reply.Found {
		d.stats.recordGet(false)
		return Item{Key: key, Found: false}, nil
	}

	d.stats.recordGet(true)
	return Item{
		Key:    reply.Key,
		Value:  reply.Data,
		Flags:  reply.Flags,
		CAS:    reply.CAS,
		HasCAS: reply.HasCAS,
		Found:  true,
	}, nil
}

// Set stores an item unconditionally.
//
// If the connection drops after the command was sent, the automatic retry
// may store the item a second time; see the type documentation.
func (d *DataSource) Set(ctx context.Context, item Item) error {
	return d.store(ctx, text.VerbSet, item)
}

// Add stores only if the key does not exist; ErrNotStored otherwise.
func (d *DataSource) Add(ctx context.Context, item Item) error {
	return d.store(ctx, text.VerbAdd, item)
}

// Replace stores only if the key exists; ErrNotStored otherwise.
func (d *DataSource) Replace(ctx context.Context, item Item) error {
	return d.store(ctx, text.VerbReplace, item)
}

// Append appends the item value to an existing value.
func (d *DataSource) Append(ctx context.Context, item Item) error {
	return d.store(ctx, text.VerbAppend, item)
}

// Prepend prepends the item value to an existing value.
func (d *DataSource) Prepend(ctx context.Context, item Item) error {
	return d.store(ctx, text.VerbPrepend, item)
}

func (d *DataSource) store(ctx context.Context, verb text.Verb, item Item) error {
	var status text.Status

	err := d.roundTrip(ctx, string(verb), func(conn *Connection) error {
		req := text.NewStorageRequest(verb, item.Key, item.Value, item.Flags, item.Expire)
		if err := conn.SendRequest(req); err != nil {
			return err
		}
		var err error
		status, err = conn.ReadStatus()
		return err
	})
	if err != nil {
		d.stats.recordError()
		return err
	}

	switch status.Kind {
	case text.StatusStored:
		d.stats.recordStore()
		return nil
	case text.StatusNotStored:
		d.stats.recordStore()
		return ErrNotStored
	default:
		return d.statusError(status)
	}
}

// Delete removes an item. The bool reports whether the key existed; a miss
// is not an error.
func (d *DataSource) Delete(ctx context.Context, key string) (bool, error) {
	var status text.Status

	err := d.roundTrip(ctx, "delete", func(conn *Connection) error {
		if err := conn.SendRequest(text.NewDeleteRequest(key)); err != nil {
			return err
		}
		var err error
		status, err = conn.ReadStatus()
		return err
	})
	if err != nil {
		d.stats.recordError()
		return false, err
	}

	switch status.Kind {
	case text.StatusDeleted:
		d.stats.recordDelete()
		return true, nil
	case text.StatusNotFound:
		d.stats.recordDelete()
		return false, nil
	default:
		return false, d.statusError(status)
	}
}

// Touch updates the expiration of an existing item. The bool reports
// whether the key existed.
func (d *DataSource) Touch(ctx context.Context, key string, expire int32) (bool, error) {
	var status text.Status

	err := d.roundTrip(ctx, "touch", func(conn *Connection) error {
		if err := conn.SendRequest(text.NewTouchRequest(key, expire)); err != nil {
			return err
		}
		var err error
		status, err = conn.ReadStatus()
		return err
	})
	if err != nil {
		d.stats.recordError()
		return false, err
	}

	switch status.Kind {
	case text.StatusTouched:
		d.stats.recordTouch()
		return true, nil
	case text.StatusNotFound:
		d.stats.recordTouch()
		return false, nil
	default:
		return false, d.statusError(status)
	}
}

// Incr increments a decimal value by delta. The bool reports whether the
// key existed. The server rejects non-numeric values with CLIENT_ERROR.
func (d *DataSource) Incr(ctx context.Context, key string, delta uint64) (uint64, bool, error) {
	return d.arithmetic(ctx, text.VerbIncr, key, delta)
}

// Decr decrements a decimal value by delta, flooring at zero.
func (d *DataSource) Decr(ctx context.Context, key string, delta uint64) (uint64, bool, error) {
	return d.arithmetic(ctx, text.VerbDecr, key, delta)
}

func (d *DataSource) arithmetic(ctx context.Context, verb text.Verb, key string, delta uint64) (uint64, bool, error) {
	var status text.Status

	err := d.roundTrip(ctx, string(verb), func(conn *Connection) error {
		if err := conn.SendRequest(text.NewArithmeticRequest(verb, key, delta)); err != nil {
			return err
		}
		var err error
		status, err = conn.ReadStatus()
		return err
	})
	if err != nil {
		d.stats.recordError()
		return 0, false, err
	}

	switch status.Kind {
	case text.StatusNumeric:
		d.stats.recordArithmetic()
		value, err := strconv.ParseUint(status.Message, 10, 64)
		if err != nil {
			return 0, false, &text.FramingError{Message: "invalid numeric reply", Err: err}
		}
		return value, true, nil
	case text.StatusNotFound:
		d.stats.recordArithmetic()
		return 0, false, nil
	default:
		return 0, false, d.statusError(status)
	}
}

// Version returns the server version string.
func (d *DataSource) Version(ctx context.Context) (string, error) {
	var status text.Status

	err := d.roundTrip(ctx, "version", func(conn *Connection) error {
		if err := conn.SendRequest(text.NewVersionRequest()); err != nil {
			return err
		}
		var err error
		status, err = conn.ReadStatus()
		return err
	})
	if err != nil {
		d.stats.recordError()
		return "", err
	}

	if status.Kind != text.StatusVersion {
		return "", d.statusError(status)
	}
	return status.Message, nil
}

// FlushAll invalidates every item on the server.
func (d *DataSource) FlushAll(ctx context.Context) error {
	var status text.Status

	err := d.roundTrip(ctx, "flush_all", func(conn *Connection) error {
		if err := conn.SendRequest(text.NewFlushAllRequest()); err != nil {
			return err
		}
		var err error
		status, err = conn.ReadStatus()
		return err
	})
	if err != nil {
		d.stats.recordError()
		return err
	}

	if status.Kind != text.StatusOK {
		return d.statusError(status)
	}
	return nil
}

// Query sends one raw command line and accumulates reply lines until the
// END terminator, which is excluded. This is how the stats family is
// exposed: the lines are returned verbatim for domain-specific parsing by
// the caller ("stats", "stats items", "stats slabs", "stats sizes",
// "stats cachedump <class> <limit>", "stats detail dump").
//
// Commands whose reply is not END-terminated will block until the read
// timeout; use the typed operations for those.
func (d *DataSource) Query(ctx context.Context, raw string) ([]string, error) {
	var lines []string

	err := d.roundTrip(ctx, "query", func(conn *Connection) error {
		if err := conn.SendLine(raw); err != nil {
			return err
		}
		var err error
		lines, err = conn.ReadLines()
		return err
	})
	if err != nil {
		d.stats.recordError()
		return nil, err
	}

	d.stats.recordQuery()
	return lines, nil
}

// statusError maps a server-reported status into its typed error; an
// unclassifiable line becomes an UnknownReplyError. When the error kind
// means the server's parse state is undefined, the connection is discarded
// so the next operation starts on a fresh one. The failed operation itself
// is never retried.
func (d *DataSource) statusError(status text.Status) error {
	d.stats.recordError()

	err := status.Err()
	if err == nil {
		err = &UnknownReplyError{Raw: status.Raw}
	}

	if text.ShouldCloseConnection(err) && d.conn != nil {
		d.conn.Close()
		d.conn = nil
	}
	return err
}

// roundTrip runs one command cycle against the connection, establishing it
// on demand. When the link reports ErrConnectionClosed, it reconnects once
// and retries once; any further failure is wrapped in a DataSourceError.
// No other error kind is ever retried.
func (d *DataSource) roundTrip(ctx context.Context, op string, fn func(*Connection) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err := d.ensureConnected()
	if err != nil {
		return err
	}

	err = fn(conn)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrConnectionClosed) {
		return err
	}

	d.logger.Debug("connection lost, reconnecting",
		zap.String("op", op),
		zap.String("addr", d.config.Addr),
		zap.Error(err))
	d.conn = nil
	d.stats.recordReconnect()

	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err = d.ensureConnected()
	if err != nil {
		return &DataSourceError{Op: op, Err: err}
	}

	if err := fn(conn); err != nil {
		d.conn = nil
		return &DataSourceError{Op: op, Err: err}
	}
	return nil
}

// ensureConnected returns the live connection, dialing when there is none.
// Dials go through the circuit breaker when one is configured.
func (d *DataSource) ensureConnected() (*Connection, error) {
	if d.conn != nil && !d.conn.IsClosed() {
		return d.conn, nil
	}

	dial := d.config.dial
	if dial == nil {
		dial = func() (*Connection, error) {
			return Dial(d.config.Addr, d.config.Timeout)
		}
	}

	var conn *Connection
	var err error
	if d.breaker != nil {
		conn, err = d.breaker.Execute(dial)
	} else {
		conn, err = dial()
	}
	if err != nil {
		d.logger.Debug("dial failed",
			zap.String("addr", d.config.Addr),
			zap.Error(err))
		return nil, err
	}

	d.conn = conn
	return conn, nil
}
