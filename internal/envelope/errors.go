package envelope

import (
	"errors"
	"fmt"
)

// ErrCrypto is the parent of every envelope failure.
var ErrCrypto = errors.New("envelope crypto failure")

var (
	ErrUnknownCounterparty = fmt.Errorf("%w: unknown counterparty", ErrCrypto)
	ErrInvalidSignature    = fmt.Errorf("%w: invalid signature", ErrCrypto)
	ErrMalformedPayload    = fmt.Errorf("%w: malformed payload", ErrCrypto)
	ErrSerialization       = fmt.Errorf("%w: payload not serializable", ErrCrypto)
	ErrKey                 = fmt.Errorf("%w: key material missing or invalid", ErrCrypto)
)
