package ui

import "errors"

// ErrNotConfirmed is returned when the user declines a confirmation prompt.
var ErrNotConfirmed = errors.New("not confirmed")

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a transient, user facing message (the CLI's equivalent of a toast).
type Notice struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(n Notice)
}

// Destination names a view the client can move to.
type Destination string

const (
	DestinationSignIn Destination = "signin"
	DestinationNotes  Destination = "notes"
)

type Navigator interface {
	Navigate(to Destination)
}

// Confirmer blocks until the user affirms or declines.
type Confirmer interface {
	Confirm(prompt string) bool
}

// View is everything a controller needs from the presentation layer.
type View interface {
	Notifier
	Navigator
	Confirmer
}

func Success(n Notifier, msg string) {
	n.Notify(Notice{Level: LevelSuccess, Message: msg})
}

func Error(n Notifier, msg string) {
	n.Notify(Notice{Level: LevelError, Message: msg})
}

func Info(n Notifier, msg string) {
	n.Notify(Notice{Level: LevelInfo, Message: msg})
}

// Discard drops notices and navigation and declines every confirmation.
type Discard struct{}

func (Discard) Notify(Notice) {}

func (Discard) Navigate(Destination) {}

func (Discard) Confirm(string) bool { return false }
