package text

// Verb identifies a classic text protocol command.
type Verb string

// StatusKind classifies a single-line server reply.
type StatusKind int

// Protocol delimiters
const (
	// CRLF is the line terminator for the memcached protocol
	CRLF = "\r\n"

	// Space separates command tokens
	Space = " "
)

// Command verbs (classic text protocol)
//
// Each verb has a fixed argument layout. See the Request constructors for
// the exact wire format produced per verb.
const (
	// VerbGet retrieves one item with its value.
	//
	// Wire format: get <key>\r\n
	//
	// Reply: VALUE <key> <flags> <bytes>\r\n<data>\r\nEND\r\n on a hit,
	// or just END\r\n on a miss.
	VerbGet Verb = "get"

	// VerbGets is get with a CAS token in the VALUE header.
	//
	// Wire format: gets <key>\r\n
	//
	// Reply: VALUE <key> <flags> <bytes> <cas>\r\n<data>\r\nEND\r\n
	VerbGets Verb = "gets"

	// VerbSet stores an item unconditionally.
	//
	// Wire format: set <key> <flags> <exptime> <bytes>\r\n<data>\r\n
	//
	// Reply: STORED, NOT_STORED, CLIENT_ERROR or SERVER_ERROR.
	VerbSet Verb = "set"

	// VerbAdd stores only if the key does not exist (NOT_STORED otherwise).
	VerbAdd Verb = "add"

	// VerbReplace stores only if the key exists (NOT_STORED otherwise).
	VerbReplace Verb = "replace"

	// VerbAppend appends to an existing value (NOT_STORED on miss).
	VerbAppend Verb = "append"

	// VerbPrepend prepends to an existing value (NOT_STORED on miss).
	VerbPrepend Verb = "prepend"

	// VerbDelete removes an item.
	//
	// Wire format: delete <key>\r\n
	//
	// Reply: DELETED or NOT_FOUND.
	VerbDelete Verb = "delete"

	// VerbIncr increments a decimal value.
	//
	// Wire format: incr <key> <delta>\r\n
	//
	// Reply: the new value as a decimal line, or NOT_FOUND,
	// or CLIENT_ERROR for a non-numeric value.
	VerbIncr Verb = "incr"

	// VerbDecr decrements a decimal value (floors at zero).
	VerbDecr Verb = "decr"

	// VerbTouch updates the expiration of an existing item.
	//
	// Wire format: touch <key> <exptime>\r\n
	//
	// Reply: TOUCHED or NOT_FOUND.
	VerbTouch Verb = "touch"

	// VerbVersion asks for the server version.
	//
	// Wire format: version\r\n
	//
	// Reply: VERSION <text>\r\n
	VerbVersion Verb = "version"

	// VerbStats requests server statistics.
	//
	// Wire format: stats [<args>]\r\n
	//
	// Reply: zero or more STAT/ITEM lines terminated by END\r\n.
	// Common argument forms: "items", "slabs", "sizes", "settings",
	// "cachedump <class> <limit>", "detail dump".
	VerbStats Verb = "stats"

	// VerbFlushAll invalidates every item on the server.
	//
	// Wire format: flush_all\r\n
	//
	// Reply: OK.
	VerbFlushAll Verb = "flush_all"
)

// Reply tokens
const (
	// TokenStored confirms a storage command
	TokenStored = "STORED"

	// TokenNotStored rejects a conditional storage command (add/replace/
	// append/prepend condition not met); not an error
	TokenNotStored = "NOT_STORED"

	// TokenDeleted confirms a delete
	TokenDeleted = "DELETED"

	// TokenNotFound is the miss reply for delete/touch/incr/decr
	TokenNotFound = "NOT_FOUND"

	// TokenTouched confirms a touch
	TokenTouched = "TOUCHED"

	// TokenExists is the CAS-mismatch reply for "cas" storage
	TokenExists = "EXISTS"

	// TokenOK confirms flush_all and a few administrative commands
	TokenOK = "OK"

	// TokenVersionPrefix starts the version reply line
	TokenVersionPrefix = "VERSION"

	// TokenValuePrefix starts a value block header line
	TokenValuePrefix = "VALUE"

	// TokenEnd terminates a value block or multi-line reply
	TokenEnd = "END"

	// TokenStatPrefix starts each statistics line
	TokenStatPrefix = "STAT"

	// TokenError is returned for unknown commands
	// The connection should be closed afterwards: protocol state is uncertain
	TokenError = "ERROR"

	// TokenClientErrorPrefix indicates the server rejected client input.
	// The connection should be closed: the server's parse state is undefined
	TokenClientErrorPrefix = "CLIENT_ERROR"

	// TokenServerErrorPrefix indicates a server-side failure.
	// The connection remains usable
	TokenServerErrorPrefix = "SERVER_ERROR"
)

// Status classification for single-line replies
const (
	StatusUnknown StatusKind = iota
	StatusStored
	StatusNotStored
	StatusDeleted
	StatusNotFound
	StatusTouched
	StatusExists
	StatusOK
	StatusVersion
	StatusError
	StatusClientError
	StatusServerError
	StatusNumeric // incr/decr result line
)

// Protocol limits
const (
	// MaxKeyLength is the maximum key length in bytes.
	// Keys exceeding this return CLIENT_ERROR
	MaxKeyLength = 250

	// MinKeyLength is the minimum key length in bytes
	MinKeyLength = 1

	// MaxValueSize is the default maximum value size (configurable on server)
	MaxValueSize = 1024 * 1024 // 1 MB
)
