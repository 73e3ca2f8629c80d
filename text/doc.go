// Package text provides a low-level wire protocol implementation for the
// classic Memcached text protocol.
//
// This package serves as a foundation for building higher-level clients
// and tools. It focuses on correctness of serialization, parsing and
// framing, without imposing architectural decisions on callers: no
// connection management, no retries, no business logic.
//
// # Core Types
//
// Request and the reply types are pure data containers:
//
//   - Request: one outbound command (get, set, delete, incr, stats, ...)
//   - Status: one classified single-line reply
//   - ValueReply: one decoded value block (VALUE header + payload)
//
// # Serialization and Parsing
//
// WriteRequest serializes requests to wire format, validating the key and
// value before any byte reaches the stream:
//
//	req := text.NewStorageRequest(text.VerbSet, "mykey", []byte("hello"), 0, 60)
//	err := text.WriteRequest(conn, req)
//
// Replies come in three shapes, with one reader each:
//
//	status, err := text.ReadStatus(r)      // STORED, DELETED, VERSION ..., errors
//	reply, err := text.ReadValueBlock(r)   // VALUE <key> <flags> <bytes>\r\n<data>\r\nEND
//	lines, err := text.ReadLines(r)        // stats family, verbatim until END
//
// # Framing
//
// ReadValueBlock enforces the protocol's byte accounting: the declared
// payload length must be fully and exactly consumed, followed by CRLF and
// the END terminator. Any violation is a FramingError, distinct from a
// miss, and is never resynchronized: once the stream position is uncertain,
// subsequent bytes cannot be attributed to any command.
//
// # Error Handling
//
// Error types indicate connection state after the failure:
//
//   - ClientError: server rejected our input, CLOSE connection
//   - ServerError: server-side failure, connection can be REUSED
//   - GenericError: unknown command reply, CLOSE connection
//   - FramingError: stream position lost, CLOSE connection
//   - ConnectionError: network/I/O failure, connection already broken
//   - InvalidKeyError, InvalidValueError: rejected client-side, nothing sent
//
// Use ShouldCloseConnection to pick the handling strategy:
//
//	if err != nil {
//	    if text.ShouldCloseConnection(err) {
//	        conn.Close()
//	    }
//	    return err
//	}
package text
