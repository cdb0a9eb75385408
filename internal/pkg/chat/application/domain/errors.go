package chat

import "errors"

// Chat creation failures. Stage errors (ErrContextResolution, ErrParticipantResolution) wrap the
// specific kind so callers can match either one with errors.Is.
var (
	ErrInvalidRequest           = errors.New("chat: invalid creation request")
	ErrForbidden                = errors.New("chat: requesting user may not create a chat for this context")
	ErrUnsupportedContextKind   = errors.New("chat: unsupported context kind")
	ErrContextNotFound          = errors.New("chat: context not found or not eligible for chat creation")
	ErrContextResolution        = errors.New("chat: context resolution failed")
	ErrParticipantResolution    = errors.New("chat: participant resolution failed")
	ErrInvalidChatType          = errors.New("chat: invalid chat type")
	ErrParticipantLimitExceeded = errors.New("chat: participant limit exceeded")
	ErrInvalidParticipantRole   = errors.New("chat: invalid participant role assignment")
	ErrStorageUnavailable       = errors.New("chat: storage unavailable")
)

// IsRetryable reports whether the caller may retry the same request as-is.
// Resolution and rule failures are deterministic for the same input.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
