package submissions

import "errors"

var (
	ErrNoStore          = errors.New("submissions: no store configured")
	ErrInvalidRetention = errors.New("submissions: invalid retention")
	ErrStoreFailed      = errors.New("submissions: store failed")
)
