package text

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"sync"
)

// Buffer pool for building requests
var bufferPool = sync.Pool{
	New: func() any {
		// Typical command line is well under 300 bytes
		return bytes.NewBuffer(make([]byte, 0, 256))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	buf.Reset()
	bufferPool.Put(buf)
}

// ValidateKey checks if a key is valid for the memcache text protocol.
// Keys must be 1-250 bytes with no whitespace or control bytes.
func ValidateKey(key string) error {
	if len(key) < MinKeyLength {
		return &InvalidKeyError{Message: "key is empty"}
	}

	if len(key) > MaxKeyLength {
		return &InvalidKeyError{Message: "key exceeds maximum length of 250 bytes"}
	}

	for i := 0; i < len(key); i++ {
		if key[i] <= 32 || key[i] == 127 {
			return &InvalidKeyError{Message: "key contains whitespace or control characters"}
		}
	}

	return nil
}

// ValidateValue checks that a value fits the protocol's declared length
// field and the server's default size limit.
func ValidateValue(value []byte) error {
	if len(value) > MaxValueSize {
		return &InvalidValueError{Message: "value exceeds maximum size of 1048576 bytes"}
	}
	return nil
}

// WriteRequest serializes a Request to wire format and writes it to w.
//
// For storage verbs: <verb> <key> <flags> <exptime> <bytes>\r\n<data>\r\n
// For keyed verbs:   <verb> <key> [<args>]\r\n
// For bare verbs:    <verb> [<args>]\r\n
//
// Key and value are validated before any byte is written, so a rejected
// request leaves the stream untouched.
func WriteRequest(w io.Writer, req *Request) error {
	if req.NeedsKey() {
		if err := ValidateKey(req.Key); err != nil {
			return err
		}
	}
	if req.HasData() {
		if err := ValidateValue(req.Data); err != nil {
			return err
		}
	}

	// Optimize for bufio.Writer (used by Connection)
	if bw, ok := w.(*bufio.Writer); ok {
		writeRequestTo(bw, req)
		if err := bw.Flush(); err != nil {
			return &ConnectionError{Op: "write", Err: err}
		}
		return nil
	}

	// Fallback to a pooled buffer for other writers (tests, etc.)
	buf := getBuffer()
	defer putBuffer(buf)

	writeRequestTo(buf, req)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return &ConnectionError{Op: "write", Err: err}
	}
	return nil
}

// lineWriter is the subset of bufio.Writer/bytes.Buffer used by the encoder.
// Both accumulate in memory, so the per-call errors are checked once at the end.
type lineWriter interface {
	WriteString(s string) (int, error)
	Write(p []byte) (int, error)
}

func writeRequestTo(w lineWriter, req *Request) {
	w.WriteString(string(req.Verb))

	if req.NeedsKey() {
		w.WriteString(Space)
		w.WriteString(req.Key)
	}

	for _, arg := range req.Args {
		w.WriteString(Space)
		w.WriteString(arg)
	}

	if req.HasData() {
		w.WriteString(Space)
		w.WriteString(strconv.Itoa(len(req.Data)))
	}

	w.WriteString(CRLF)

	if req.HasData() {
		w.Write(req.Data)
		w.WriteString(CRLF)
	}
}

// EncodeRequest returns the wire bytes of a request. Mostly useful for tests
// and debug logging; the hot path writes through WriteRequest.
func EncodeRequest(req *Request) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteRequest(&buf, req); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
