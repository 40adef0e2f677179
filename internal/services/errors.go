package services

import "errors"

var (
	// ErrNotFound is returned by stores when no row matches
	ErrNotFound = errors.New("services: not found")
	// ErrScheduleNotDraft is returned when a publish/copy targets a published schedule
	ErrScheduleNotDraft = errors.New("services: schedule is not an editable draft")
	// ErrScheduleNotPublished is returned when a copy source is an unpublished draft
	ErrScheduleNotPublished = errors.New("services: schedule is not published")
	// ErrShiftNotInDraft is returned when an edit references an unknown shift id
	ErrShiftNotInDraft = errors.New("services: shift not present in draft")
	// ErrPublishInProgress is returned when a second publish is requested while a
	// job for the same draft is still pending or running
	ErrPublishInProgress = errors.New("services: publish already in progress for this draft")
	// ErrReconcilerClosed is returned after Close when further edits arrive
	ErrReconcilerClosed = errors.New("services: draft reconciler closed")
)
