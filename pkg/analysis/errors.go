package analysis

// Kind classifies why an upload failed.
type Kind uint8

const (
	// KindTransport means no response was received (DNS, refused, aborted).
	KindTransport Kind = iota
	// KindRejected means the service answered with a non-2xx status.
	KindRejected
	// KindMalformed means a 2xx body did not match the report contract.
	KindMalformed
	// KindUnexpected wraps any other failure surfaced by a submitter.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRejected:
		return "rejected"
	case KindMalformed:
		return "malformed"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// User-visible messages used when the service does not supply one.
const (
	MsgTransport = "Could not reach the analysis service"
	MsgRejected  = "Upload failed"
	MsgMalformed = "The analysis service returned a malformed report"
)

// UploadError is the single error type returned by Client.Submit. Message is
// always non-empty and safe to show to the user.
type UploadError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *UploadError) Error() string {
	return e.Message
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
