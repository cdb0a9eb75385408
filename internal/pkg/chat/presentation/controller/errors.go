package controller

import (
	"context"
	"errors"
	"net/http"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
	"ucoa-chat/internal/pkg/chat/application/usecase"
)

// errorStatus maps application errors to an HTTP status and a stable machine code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, chat.ErrInvalidRequest),
		errors.Is(err, chat.ErrUnsupportedContextKind),
		errors.Is(err, chat.ErrInvalidMessage),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, usecase.ErrMissingID):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, chat.ErrForbidden), errors.Is(err, chat.ErrNotParticipant):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, chat.ErrContextNotFound):
		return http.StatusNotFound, "context_not_found"
	case errors.Is(err, chat.ErrParticipantLimitExceeded):
		return http.StatusUnprocessableEntity, "participant_limit_exceeded"
	case errors.Is(err, chat.ErrInvalidParticipantRole):
		return http.StatusUnprocessableEntity, "invalid_participant_role"
	case errors.Is(err, chat.ErrInvalidChatType):
		return http.StatusUnprocessableEntity, "invalid_chat_type"
	// Transient failures keep their retryable status even when a resolution stage wraps them.
	case errors.Is(err, chat.ErrStorageUnavailable), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, "canceled"
	case errors.Is(err, chat.ErrParticipantResolution):
		return http.StatusUnprocessableEntity, "participant_resolution_failed"
	case errors.Is(err, chat.ErrContextResolution):
		return http.StatusUnprocessableEntity, "context_resolution_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
