package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors carry no infrastructure dependency.

var (
	// Engagement errors
	ErrUnknownAction     = errors.New("unknown xp action")
	ErrInvalidLevelTable = errors.New("level table must start at level 1 / 0 XP and increase strictly")
	ErrInvalidDate       = errors.New("invalid calendar date")

	// Curriculum errors
	ErrNoCurriculum      = errors.New("no curriculum loaded")
	ErrModuleNotFound    = errors.New("module not found")
	ErrInvalidTransition = errors.New("view transition not allowed")
	ErrEmptyCurriculum   = errors.New("curriculum has no modules")

	// Storage errors
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
)
