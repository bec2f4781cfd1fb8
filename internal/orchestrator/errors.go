package orchestrator

import (
	"errors"
	"fmt"

	"verse-tui/internal/api"
	"verse-tui/internal/config"
	"verse-tui/internal/favorites"
	"verse-tui/internal/storage"
)

// ErrorKind groups failures by how the reader should react to them.
type ErrorKind int

const (
	// KindNetwork covers non-success responses and transport failures. The
	// user can retry by repeating the action.
	KindNetwork ErrorKind = iota
	// KindConfig is a missing or rejected API key or an invalid setting;
	// every provider-backed view fails until it is fixed.
	KindConfig
	// KindData is a response missing what the view needs.
	KindData
	// KindStorage is an unreadable or unwritable local store.
	KindStorage
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindConfig:
		return "config"
	case KindData:
		return "data"
	case KindStorage:
		return "storage"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Classify maps an error to its kind. Unrecognized errors count as network
// failures, which are retryable.
func Classify(err error) ErrorKind {
	var dataErr *api.DataError
	switch {
	case errors.Is(err, api.ErrMissingAPIKey), errors.Is(err, api.ErrUnauthorized),
		errors.Is(err, config.ErrInvalid):
		return KindConfig
	case errors.As(err, &dataErr), errors.Is(err, favorites.ErrUnknownSchema):
		return KindData
	case errors.Is(err, storage.ErrStorage):
		return KindStorage
	default:
		return KindNetwork
	}
}

// Message is the inline text shown in place of a view that failed to load.
func Message(kind ErrorKind, view ViewKind) string {
	switch kind {
	case KindConfig:
		return "The scripture API key is missing or invalid. Set VERSE_API_KEY or api_key in the config file."
	case KindData:
		return fmt.Sprintf("The service returned unexpected data for %s.", view)
	case KindStorage:
		return "Favorites could not be read or saved."
	default:
		return fmt.Sprintf("Failed to load %s. Please try again later.", view)
	}
}
