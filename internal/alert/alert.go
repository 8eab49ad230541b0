// Package alert defines the transient notices shown by the admin panels.
package alert

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notice stays on screen before it is dismissed.
const DefaultTTL = 3 * time.Second

// Kind is the severity of a notice.
type Kind string

// Notice kinds.
const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Alert is a single auto-dismissing notice.
type Alert struct {
	ID      string
	Kind    Kind
	Message string
}

// New creates an alert with a fresh element id.
func New(kind Kind, message string) Alert {
	return Alert{
		ID:      "alert-" + uuid.NewString(),
		Kind:    kind,
		Message: message,
	}
}

// Success creates a success notice.
func Success(message string) Alert { return New(KindSuccess, message) }

// Info creates an informational notice.
func Info(message string) Alert { return New(KindInfo, message) }

// Warning creates a warning notice.
func Warning(message string) Alert { return New(KindWarning, message) }

// Error creates an error notice.
func Error(message string) Alert { return New(KindError, message) }
