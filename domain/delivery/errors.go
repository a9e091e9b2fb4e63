package delivery

import "errors"

var (
	// ErrNothingToPublish is returned when there is neither a bundle nor a single output
	ErrNothingToPublish = errors.New("nothing to publish: need a bundle or exactly one output")

	// ErrNoRemoteStore is returned when publishing without a configured remote store
	ErrNoRemoteStore = errors.New("no remote store configured")
)
