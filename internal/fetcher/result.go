package fetcher

// Kind discriminates the variants of an Outcome
type Kind int

const (
	// KindSuccess carries a payload in Outcome.Value
	KindSuccess Kind = iota
	// KindFailure carries the error detail in Outcome.Err
	KindFailure
	// KindUnauthorized signals rejected credentials. Only news sources produce it.
	KindUnauthorized
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindFailure:
		return "failure"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Outcome represents the classified result of a single gateway call.
// It is produced by a source and routed by a coordinator to exactly one channel.
type Outcome[T any] struct {
	// Kind selects which of the remaining fields is meaningful
	Kind Kind

	// Value is the payload of a successful fetch
	Value T

	// Err is the opaque failure detail, usually a *FetchError.
	// It is passed through to observers without being interpreted.
	Err error
}

// Success builds a successful outcome
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Kind: KindSuccess, Value: v}
}

// Failure builds a failed outcome
func Failure[T any](err error) Outcome[T] {
	return Outcome[T]{Kind: KindFailure, Err: err}
}

// Unauthorized builds an unauthorized outcome
func Unauthorized[T any]() Outcome[T] {
	return Outcome[T]{Kind: KindUnauthorized, Err: ErrUnauthorized}
}

// Ok reports whether the outcome is a success
func (o Outcome[T]) Ok() bool {
	return o.Kind == KindSuccess
}
