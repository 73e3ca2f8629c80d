package text

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestReadValueBlockHit(t *testing.T) {
	r := newReader("VALUE mykey 0 5\r\nhello\r\nEND\r\n")

	reply, err := ReadValueBlock(r)
	require.NoError(t, err)
	assert.True(t, reply.Found)
	assert.Equal(t, "mykey", reply.Key)
	assert.Equal(t, uint32(0), reply.Flags)
	assert.False(t, reply.HasCAS)
	assert.Equal(t, []byte("hello"), reply.Data)
}

func TestReadValueBlockMiss(t *testing.T) {
	r := newReader("END\r\n")

	reply, err := ReadValueBlock(r)
	require.NoError(t, err)
	assert.False(t, reply.Found)
}

func TestReadValueBlockWithCAS(t *testing.T) {
	r := newReader("VALUE mykey 42 5 123456\r\nhello\r\nEND\r\n")

	reply, err := ReadValueBlock(r)
	require.NoError(t, err)
	assert.True(t, reply.Found)
	assert.Equal(t, uint32(42), reply.Flags)
	assert.True(t, reply.HasCAS)
	assert.Equal(t, uint64(123456), reply.CAS)
}

func TestReadValueBlockBinaryData(t *testing.T) {
	// Data containing CRLF must be consumed by byte count, not line reads
	r := newReader("VALUE mykey 0 9\r\nab\r\ncd\r\ne\r\nEND\r\n")

	reply, err := ReadValueBlock(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("ab\r\ncd\r\ne"), reply.Data)
}

func TestReadValueBlockFramingErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			// size declares 5 but only 3 bytes precede the terminator
			name:  "declared length exceeds payload",
			input: "VALUE mykey 0 5\r\nabc\r\nEND\r\n",
		},
		{
			name:  "missing END after data",
			input: "VALUE mykey 0 5\r\nhello\r\nVALUE other 0 1\r\n",
		},
		{
			name:  "malformed header",
			input: "VALUE mykey 0\r\n",
		},
		{
			name:  "non-numeric size",
			input: "VALUE mykey 0 five\r\nhello\r\nEND\r\n",
		},
		{
			name:  "non-numeric flags",
			input: "VALUE mykey abc 5\r\nhello\r\nEND\r\n",
		},
		{
			name:  "unexpected token",
			input: "BOGUS\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadValueBlock(newReader(tt.input))
			require.Error(t, err)

			var framing *FramingError
			require.ErrorAs(t, err, &framing, "error = %v", err)
		})
	}
}

func TestReadValueBlockServerErrors(t *testing.T) {
	var serverErr *ServerError
	_, err := ReadValueBlock(newReader("SERVER_ERROR out of memory\r\n"))
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "out of memory", serverErr.Message)

	var genericErr *GenericError
	_, err = ReadValueBlock(newReader("ERROR\r\n"))
	require.ErrorAs(t, err, &genericErr)
}

func TestReadValueBlockEOF(t *testing.T) {
	_, err := ReadValueBlock(newReader(""))

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestReadLines(t *testing.T) {
	r := newReader("STAT pid 12345\r\nSTAT uptime 3600\r\nSTAT version 1.6.21\r\nEND\r\n")

	lines, err := ReadLines(r)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"STAT pid 12345",
		"STAT uptime 3600",
		"STAT version 1.6.21",
	}, lines)
}

func TestReadLinesEmpty(t *testing.T) {
	lines, err := ReadLines(newReader("END\r\n"))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestReadLinesCachedump(t *testing.T) {
	r := newReader("ITEM mykey [5 b; 1609459200 s]\r\nITEM other [3 b; 1609459201 s]\r\nEND\r\n")

	lines, err := ReadLines(r)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ITEM "))
}

func TestReadLinesServerError(t *testing.T) {
	r := newReader("STAT pid 12345\r\nSERVER_ERROR out of memory\r\n")

	lines, err := ReadLines(r)
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	// Lines read before the error are preserved
	assert.Equal(t, []string{"STAT pid 12345"}, lines)
}

func TestReadStatus(t *testing.T) {
	status, err := ReadStatus(newReader("STORED\r\n"))
	require.NoError(t, err)
	assert.Equal(t, StatusStored, status.Kind)

	_, err = ReadStatus(newReader(""))
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.True(t, errors.Is(err, io.EOF))
}
