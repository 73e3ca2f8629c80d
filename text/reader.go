package text

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"
)

// Pre-allocated byte slices for comparisons (avoid allocation in hot path)
var (
	crlfBytes   = []byte(CRLF)
	endBytes    = []byte(TokenEnd)
	valuePrefix = []byte(TokenValuePrefix + Space)
)

// ReadLine reads one reply line from r with the CRLF terminator stripped.
// I/O failures are wrapped in ConnectionError.
func ReadLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		// Line exceeds buffer, fall back to ReadBytes (allocates)
		line, err = r.ReadBytes('\n')
	}
	if err != nil {
		return "", &ConnectionError{Op: "read", Err: err}
	}

	line = bytes.TrimSuffix(line, crlfBytes)
	line = bytes.TrimSuffix(line, []byte("\n"))
	return string(line), nil
}

// ReadStatus reads and classifies a single-line reply.
func ReadStatus(r *bufio.Reader) (Status, error) {
	line, err := ReadLine(r)
	if err != nil {
		return Status{}, err
	}
	return ParseStatus(line), nil
}

// ReadValueBlock reads one get reply from r.
//
// A reply is either:
//
//	END\r\n                                          (miss)
//	VALUE <key> <flags> <bytes> [<cas>]\r\n
//	<data: exactly bytes octets>\r\n
//	END\r\n                                          (hit)
//
// The declared byte count must be fully and exactly consumed, the data block
// must end in CRLF, and the block must close with END. Any violation of that
// sequence is a FramingError, never a miss. Server error tokens in place of
// the header surface as their typed errors.
func ReadValueBlock(r *bufio.Reader) (*ValueReply, error) {
	line, err := r.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		line, err = r.ReadBytes('\n')
	}
	if err != nil {
		return nil, &ConnectionError{Op: "read", Err: err}
	}
	line = bytes.TrimSuffix(line, crlfBytes)

	if bytes.Equal(line, endBytes) {
		return &ValueReply{Found: false}, nil
	}

	if !bytes.HasPrefix(line, valuePrefix) {
		if err := ParseStatus(string(line)).Err(); err != nil {
			return nil, err
		}
		return nil, &FramingError{Message: "expected VALUE or END, got " + strconv.Quote(string(line))}
	}

	reply, size, err := parseValueHeader(line)
	if err != nil {
		return nil, err
	}

	// Read data + CRLF together in a single read
	data := make([]byte, size+2)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, &FramingError{Message: "short data block", Err: err}
	}
	if !bytes.HasSuffix(data, crlfBytes) {
		return nil, &FramingError{Message: "data block not terminated by CRLF"}
	}
	reply.Data = data[:size]

	// The block must close with END on its own line
	end, err := r.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		end, err = r.ReadBytes('\n')
	}
	if err != nil {
		return nil, &ConnectionError{Op: "read", Err: err}
	}
	end = bytes.TrimSuffix(end, crlfBytes)
	if !bytes.Equal(end, endBytes) {
		return nil, &FramingError{Message: "expected END after data block, got " + strconv.Quote(string(end))}
	}

	return reply, nil
}

// parseValueHeader parses "VALUE <key> <flags> <bytes> [<cas>]".
func parseValueHeader(line []byte) (*ValueReply, int, error) {
	fields := strings.Fields(string(line))
	if len(fields) < 4 || len(fields) > 5 {
		return nil, 0, &FramingError{Message: "malformed VALUE header: " + strconv.Quote(string(line))}
	}

	flags, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return nil, 0, &FramingError{Message: "invalid flags in VALUE header", Err: err}
	}

	size, err := strconv.Atoi(fields[3])
	if err != nil || size < 0 {
		return nil, 0, &FramingError{Message: "invalid size in VALUE header: " + fields[3]}
	}

	reply := &ValueReply{
		Found: true,
		Key:   fields[1],
		Flags: uint32(flags),
	}

	if len(fields) == 5 {
		cas, err := strconv.ParseUint(fields[4], 10, 64)
		if err != nil {
			return nil, 0, &FramingError{Message: "invalid cas in VALUE header", Err: err}
		}
		reply.CAS = cas
		reply.HasCAS = true
	}

	return reply, size, nil
}

// ReadLines accumulates verbatim reply lines until the END terminator.
// Used for the stats family (stats, stats items, stats slabs, cachedump,
// detail dump), whose lines are domain-specific and left to the caller.
//
// The terminator is excluded from the result. A server error token ends the
// reply and surfaces as its typed error together with the lines read so far.
func ReadLines(r *bufio.Reader) ([]string, error) {
	var lines []string

	for {
		line, err := ReadLine(r)
		if err != nil {
			return lines, err
		}

		if line == TokenEnd {
			return lines, nil
		}

		status := ParseStatus(line)
		if err := status.Err(); err != nil {
			return lines, err
		}

		lines = append(lines, line)
	}
}
