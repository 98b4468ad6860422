package object

import "errors"

// Sentinel errors for the failure kinds the object layer can report.
// Callers match with errors.Is; wrapping adds per-site context.
var (
	ErrObjectNotFound   = errors.New("object not found")
	ErrCorruptObject    = errors.New("corrupt object")
	ErrCorruptStream    = errors.New("corrupt compressed stream")
	ErrMalformedHash    = errors.New("malformed object hash")
	ErrBadPackSignature = errors.New("invalid pack signature")
	ErrTruncatedPack    = errors.New("truncated pack")
	ErrTypeMismatch     = errors.New("object type mismatch")
)
