package room

import "strings"

const (
	MaxMessageLen        = 2048
	MaxRoomNameLen       = 128
	MaxWelcomeMessageLen = 2048
)

// ValidationError carries a reason meant to be shown to the user as is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// ParseRoomName checks that name is a usable room name: non-empty, at most
// MaxRoomNameLen bytes, and made of ASCII letters, digits, '_' and '-'.
func ParseRoomName(name string) (string, error) {
	if name == "" {
		return "", invalid("The room name cannot be empty.")
	}
	if len(name) > MaxRoomNameLen {
		return "", invalid("The room name is too long.")
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return "", invalid("The room name contains invalid characters.")
		}
	}
	return name, nil
}

func ValidateMessage(content string) error {
	if strings.TrimSpace(content) == "" {
		return invalid("The message cannot be empty.")
	}
	if len(content) > MaxMessageLen {
		return invalid("The message is too long.")
	}
	return nil
}

func ValidateWelcomeMessage(msg string) error {
	if len(msg) > MaxWelcomeMessageLen {
		return invalid("The welcome message is too long.")
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return invalid("The password cannot be empty.")
	}
	return nil
}
