package chat

import "context"

// Repository persists chat sessions and their message log
type Repository interface {
	// Touch creates the session if missing and updates its last activity.
	// A session owned by another user is shared.ErrNotFound.
	Touch(ctx context.Context, sessionID, userEmail string) error

	// Load returns the messages of the user's session in order. Unknown
	// sessions yield none; a session owned by another user is shared.ErrNotFound.
	Load(ctx context.Context, sessionID, userEmail string) ([]Message, error)

	// Append adds messages to the end of the session log
	Append(ctx context.Context, sessionID, userEmail string, messages []Message) error
}
