package text

import "strconv"

// Request represents a classic text protocol command.
// This is a low-level container for request data without serialization
// logic. Fields map directly to protocol elements.
type Request struct {
	// Verb is the command word: get, set, delete, incr, stats, ...
	Verb Verb

	// Key is the cache key (1-250 bytes, no whitespace).
	// Empty for version, stats and flush_all.
	Key string

	// Args holds the verb's ordered arguments other than key and size
	// (flags/exptime for storage verbs, delta for incr/decr,
	// subcommand tokens for stats).
	Args []string

	// Data is the value to store (storage verbs only).
	// Size is derived from len(Data), not stored separately.
	Data []byte
}

// NewGetRequest builds a get (or gets, when withCAS is set) request.
func NewGetRequest(key string, withCAS bool) *Request {
	verb := VerbGet
	if withCAS {
		verb = VerbGets
	}
	return &Request{Verb: verb, Key: key}
}

// NewStorageRequest builds a set/add/replace/append/prepend request.
// flags and exptime are encoded in the argument positions the storage
// command line requires: <verb> <key> <flags> <exptime> <bytes>.
func NewStorageRequest(verb Verb, key string, value []byte, flags uint32, exptime int32) *Request {
	return &Request{
		Verb: verb,
		Key:  key,
		Args: []string{
			strconv.FormatUint(uint64(flags), 10),
			strconv.FormatInt(int64(exptime), 10),
		},
		Data: value,
	}
}

// NewDeleteRequest builds a delete request.
func NewDeleteRequest(key string) *Request {
	return &Request{Verb: VerbDelete, Key: key}
}

// NewArithmeticRequest builds an incr or decr request.
func NewArithmeticRequest(verb Verb, key string, delta uint64) *Request {
	return &Request{
		Verb: verb,
		Key:  key,
		Args: []string{strconv.FormatUint(delta, 10)},
	}
}

// NewTouchRequest builds a touch request.
func NewTouchRequest(key string, exptime int32) *Request {
	return &Request{
		Verb: VerbTouch,
		Key:  key,
		Args: []string{strconv.FormatInt(int64(exptime), 10)},
	}
}

// NewVersionRequest builds a version request.
func NewVersionRequest() *Request {
	return &Request{Verb: VerbVersion}
}

// NewStatsRequest builds a stats request with optional subcommand tokens,
// e.g. ("items"), ("slabs"), ("cachedump", "3", "100"), ("detail", "dump").
func NewStatsRequest(args ...string) *Request {
	return &Request{Verb: VerbStats, Args: args}
}

// NewFlushAllRequest builds a flush_all request.
func NewFlushAllRequest() *Request {
	return &Request{Verb: VerbFlushAll}
}

// HasData reports whether the request carries a data block.
func (r *Request) HasData() bool {
	switch r.Verb {
	case VerbSet, VerbAdd, VerbReplace, VerbAppend, VerbPrepend:
		return true
	}
	return false
}

// NeedsKey reports whether the verb requires a key token.
func (r *Request) NeedsKey() bool {
	switch r.Verb {
	case VerbVersion, VerbStats, VerbFlushAll:
		return false
	}
	return true
}
