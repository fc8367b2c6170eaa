package pubsub

// DefaultDirectoryChannel carries directory maintenance events.
const DefaultDirectoryChannel = "coach-directory.events"

// Directory event types.
const (
	// EventCoachVerified is published by the admin tool when a coach's
	// verified flag changes.
	EventCoachVerified = "coach.verified"
	// EventDirectoryInvalidated asks every instance to refresh its cache.
	EventDirectoryInvalidated = "directory.invalidated"
)

// CoachVerifiedPayload is the payload of EventCoachVerified.
type CoachVerifiedPayload struct {
	Verified bool `json:"verified"`
}

// DirectoryInvalidatedPayload is the payload of EventDirectoryInvalidated.
type DirectoryInvalidatedPayload struct {
	Reason string `json:"reason,omitempty"`
}
