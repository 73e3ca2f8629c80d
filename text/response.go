package text

import "strings"

// Status is a classified single-line reply.
type Status struct {
	// Kind is the classification of the reply line
	Kind StatusKind

	// Message carries the server message for CLIENT_ERROR/SERVER_ERROR,
	// the version text for VERSION, and the decimal text for incr/decr
	// results.
	Message string

	// Raw is the reply line as received (terminator stripped).
	// Always populated, so unrecognized replies can be surfaced verbatim.
	Raw string
}

// ParseStatus classifies one reply line. Unrecognized tokens yield
// StatusUnknown with the raw line preserved; callers decide whether an
// unknown status is fatal.
func ParseStatus(line string) Status {
	s := Status{Raw: line}

	switch line {
	case TokenStored:
		s.Kind = StatusStored
		return s
	case TokenNotStored:
		s.Kind = StatusNotStored
		return s
	case TokenDeleted:
		s.Kind = StatusDeleted
		return s
	case TokenNotFound:
		s.Kind = StatusNotFound
		return s
	case TokenTouched:
		s.Kind = StatusTouched
		return s
	case TokenExists:
		s.Kind = StatusExists
		return s
	case TokenOK:
		s.Kind = StatusOK
		return s
	case TokenError:
		s.Kind = StatusError
		return s
	}

	if msg, ok := strings.CutPrefix(line, TokenVersionPrefix+Space); ok {
		s.Kind = StatusVersion
		s.Message = msg
		return s
	}
	if msg, ok := strings.CutPrefix(line, TokenClientErrorPrefix+Space); ok {
		s.Kind = StatusClientError
		s.Message = msg
		return s
	}
	if msg, ok := strings.CutPrefix(line, TokenServerErrorPrefix+Space); ok {
		s.Kind = StatusServerError
		s.Message = msg
		return s
	}

	if isDecimal(line) {
		s.Kind = StatusNumeric
		s.Message = line
		return s
	}

	s.Kind = StatusUnknown
	return s
}

// Err converts a server-reported error status into the matching typed error.
// Returns nil for every non-error kind, including StatusUnknown.
func (s Status) Err() error {
	switch s.Kind {
	case StatusClientError:
		return &ClientError{Message: s.Message}
	case StatusServerError:
		return &ServerError{Message: s.Message}
	case StatusError:
		return &GenericError{Message: TokenError}
	}
	return nil
}

func isDecimal(line string) bool {
	if line == "" {
		return false
	}
	for i := 0; i < len(line); i++ {
		if line[i] < '0' || line[i] > '9' {
			return false
		}
	}
	return true
}

// ValueReply is the decoded result of a get value block.
type ValueReply struct {
	// Found is false when the block was just END (a miss)
	Found bool

	// Header fields from the VALUE line
	Key   string
	Flags uint32
	CAS   uint64

	// HasCAS is true when the header carried the optional cas token
	HasCAS bool

	// Data is the raw value payload, exactly <bytes> octets
	Data []byte
}
