package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		line    string
		kind    StatusKind
		message string
	}{
		{"STORED", StatusStored, ""},
		{"NOT_STORED", StatusNotStored, ""},
		{"DELETED", StatusDeleted, ""},
		{"NOT_FOUND", StatusNotFound, ""},
		{"TOUCHED", StatusTouched, ""},
		{"EXISTS", StatusExists, ""},
		{"OK", StatusOK, ""},
		{"ERROR", StatusError, ""},
		{"VERSION 1.6.21", StatusVersion, "1.6.21"},
		{"CLIENT_ERROR bad data chunk", StatusClientError, "bad data chunk"},
		{"SERVER_ERROR out of memory storing object", StatusServerError, "out of memory storing object"},
		{"42", StatusNumeric, "42"},
		{"0", StatusNumeric, "0"},
		{"WAT", StatusUnknown, ""},
		{"", StatusUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			status := ParseStatus(tt.line)
			assert.Equal(t, tt.kind, status.Kind)
			assert.Equal(t, tt.message, status.Message)
			assert.Equal(t, tt.line, status.Raw)
		})
	}
}

func TestStatusErr(t *testing.T) {
	var clientErr *ClientError
	err := ParseStatus("CLIENT_ERROR bad data chunk").Err()
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, "bad data chunk", clientErr.Message)
	assert.True(t, ShouldCloseConnection(err))

	var serverErr *ServerError
	err = ParseStatus("SERVER_ERROR out of memory").Err()
	require.ErrorAs(t, err, &serverErr)
	assert.False(t, ShouldCloseConnection(err))

	var genericErr *GenericError
	err = ParseStatus("ERROR").Err()
	require.ErrorAs(t, err, &genericErr)
	assert.True(t, ShouldCloseConnection(err))

	// Non-error statuses, including unknown ones, yield no error
	assert.NoError(t, ParseStatus("STORED").Err())
	assert.NoError(t, ParseStatus("NOT_FOUND").Err())
	assert.NoError(t, ParseStatus("WAT").Err())
}

func TestShouldCloseConnection(t *testing.T) {
	assert.False(t, ShouldCloseConnection(nil))
	assert.True(t, ShouldCloseConnection(&FramingError{Message: "x"}))
	assert.True(t, ShouldCloseConnection(&ConnectionError{Op: "read"}))
	assert.False(t, ShouldCloseConnection(&ServerError{Message: "x"}))
	// Unknown error types are treated conservatively
	assert.True(t, ShouldCloseConnection(assert.AnError))
}
