package service

import (
	"errors"
	"fmt"

	"github.com/fitlens/backend/internal/models"
)

// ErrUpstream is matched by every record store read failure
var ErrUpstream = errors.New("record store unavailable")

// UpstreamError wraps a record store failure for one source
type UpstreamError struct {
	Source models.Source
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("failed to fetch %s records: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUpstream) true for any UpstreamError
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
