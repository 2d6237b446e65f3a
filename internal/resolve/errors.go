package resolve

import "fmt"

// ErrorReason classifies why a resolution failed. The presentation layer
// only ever sees one of these, never a raw transport error.
type ErrorReason string

const (
	// ReasonInvalidSource means the URL does not address a supported video service
	ReasonInvalidSource ErrorReason = "invalid_source"

	// ReasonPrivateVideo means the underlying service reported the video as private
	ReasonPrivateVideo ErrorReason = "private_video"

	// ReasonUnavailable covers every other lookup failure
	ReasonUnavailable ErrorReason = "unavailable"
)

// ResolutionError is the classified failure returned by Resolver.Resolve.
type ResolutionError struct {
	Reason ErrorReason
	Err    error
}

// Error implements the error interface.
func (re *ResolutionError) Error() string {
	if re.Err != nil {
		return fmt.Sprintf("resolve: %s: %v", re.Reason, re.Err)
	}
	return fmt.Sprintf("resolve: %s", re.Reason)
}

// Unwrap returns the underlying cause.
func (re *ResolutionError) Unwrap() error {
	return re.Err
}
