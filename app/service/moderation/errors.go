package moderation

import "errors"

var (
	// ErrInvalidMessage marks a submission rejected before any
	// classifier call: empty text or text over the configured cap.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrClassifierUnavailable covers network, auth, rate-limit and
	// timeout failures talking to the classifier endpoint.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrResponseMalformed means the classifier answered, but the
	// answer could not be parsed into a verdict. This is distinct from
	// a blocked verdict: the model refused to cooperate, it did not
	// decide anything.
	ErrResponseMalformed = errors.New("classifier response malformed")
)
