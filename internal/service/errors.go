package service

import (
	"errors"

	"gorm.io/gorm"
)

// Every rejected action maps to exactly one of these so the boundary can tell
// "already assigned" apart from "not your task".
var (
	ErrNotFound         = errors.New("not found")
	ErrWorkerNotFound   = errors.New("worker not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidState     = errors.New("transition not allowed from current status")
	ErrAlreadyUpvoted   = errors.New("already upvoted")
	ErrNotUpvoted       = errors.New("not upvoted")
	ErrAlreadyRated     = errors.New("already rated")
)

// mapStoreError folds store sentinels into the service taxonomy.
func mapStoreError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
