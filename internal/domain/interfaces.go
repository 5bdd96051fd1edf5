package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// Infrastructure implements them; the app layer depends on them.

// Persisted state keys.
const (
	KeyEngagement   = "engagement"
	KeyCurriculum   = "vuca-state"
	KeyAchievements = "achievements"
)

// StateStore is the per-user persistence gateway. Values are opaque to
// the store; implementations encode them as JSON.
type StateStore interface {
	// Load decodes the value saved under (userID, key) into v.
	// found is false (and v untouched) when nothing was saved yet.
	Load(ctx context.Context, userID, key string, v any) (found bool, err error)

	// Save replaces the value under (userID, key).
	Save(ctx context.Context, userID, key string, v any) error

	// Delete removes the value under (userID, key). Missing keys are not an error.
	Delete(ctx context.Context, userID, key string) error

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	Close() error
}

// Clock supplies the current calendar date in one fixed convention.
type Clock interface {
	Today() Today
}
