package usecase

import "errors"

// ErrPersistence indicates an infrastructure/repository failure inside a message use case.
var ErrPersistence = errors.New("chat use case persistence error")

// ErrMissingID is returned when a required chat or user id is empty.
var ErrMissingID = errors.New("chat use case: chat_id and user_id are required")
