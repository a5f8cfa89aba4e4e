package sessions

import (
	"github.com/jrsteele09/go-notes-client/internal/utils"
	"github.com/jrsteele09/go-notes-client/users"
)

// State is the client's belief about who is signed in.
// IsAuthenticated is true exactly when User is set.
type State struct {
	User            *users.User
	IsAuthenticated bool
	IsLoading       bool
}

// InitialState is the state before restoration has run.
func InitialState() State {
	return State{IsLoading: true}
}

// Action is one of LoginAction, LogoutAction or SetLoadingAction.
type Action interface {
	isAction()
}

type LoginAction struct {
	User *users.User
}

type LogoutAction struct{}

type SetLoadingAction struct {
	Loading bool
}

func (LoginAction) isAction()      {}
func (LogoutAction) isAction()     {}
func (SetLoadingAction) isAction() {}

// Reduce returns the state that follows s after a.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoginAction:
		if a.User == nil {
			return State{}
		}
		return State{User: utils.Clone(a.User), IsAuthenticated: true}
	case LogoutAction:
		return State{}
	case SetLoadingAction:
		s.IsLoading = a.Loading
		return s
	default:
		return s
	}
}
