package inference

import "errors"

var (
	// ErrPoolClosed is returned by Acquire after the pool has been closed.
	ErrPoolClosed = errors.New("inference: pool closed")

	// ErrSessionClosed is returned by Infer on a closed session.
	ErrSessionClosed = errors.New("inference: session closed")

	// ErrInvalidLabels indicates a labels file that cannot drive decoding.
	ErrInvalidLabels = errors.New("inference: invalid labels file")

	// ErrOutputShape indicates the model produced logits of an unexpected size.
	ErrOutputShape = errors.New("inference: unexpected output shape")
)
