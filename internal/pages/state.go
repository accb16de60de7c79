// Package pages holds the menu state machine of the library UI.
//
// Every menu entry is a State with one Handler. A handler takes the parsed
// user input and the book repository and returns the View to render. Any
// state may follow any other, so every View offers all states as transitions.
package pages

import (
	"context"
	"fmt"

	"library/internal/storage/books"
	"library/internal/types"
	"library/internal/validation"
)

type State string

const (
	Home      State = "home"
	Add       State = "add"
	View      State = "view"
	Update    State = "update"
	Delete    State = "delete"
	Analytics State = "analytics"
)

// States in menu order. Home is the initial state.
var States = []State{Home, Add, View, Update, Delete, Analytics}

func (s State) Label() string {
	switch s {
	case Home:
		return "Home"
	case Add:
		return "Add Book"
	case View:
		return "View Books"
	case Update:
		return "Update Book"
	case Delete:
		return "Delete Book"
	case Analytics:
		return "Analytics"
	}

	return string(s)
}

func (s State) Path() string {
	if s == Home {
		return "/"
	}

	return "/" + string(s)
}

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
)

type Notice struct {
	Level   NoticeLevel
	Message string
}

// Input is what the user sent along with the selected state.
type Input struct {
	// Submitted is set when the page form was posted.
	Submitted  bool
	Form       validation.Book
	SelectedId int64
	Query      string
}

// Option is one entry of the book selector.
type Option struct {
	Id       int64
	Label    string
	Selected bool
}

type Page struct {
	State       State
	Heading     string
	Transitions []State
	Notice      *Notice
	// Rejected is set when a submitted write was refused by validation or a constraint.
	Rejected bool
	// Empty is set when the page needs books and there are none.
	Empty bool

	Books   []*types.Book
	Total   int
	Query   string
	Options []Option
	Form    validation.Book
	Genres  []string
	Chart   *Chart
}

type Handler func(ctx context.Context, repo books.Repository, in Input) (*Page, error)

var handlers = map[State]Handler{
	Home:      handleHome,
	Add:       handleAdd,
	View:      handleView,
	Update:    handleUpdate,
	Delete:    handleDelete,
	Analytics: handleAnalytics,
}

// Handle runs the handler of state. Errors returned are storage failures only,
// rejected writes are reported through Page.Notice.
func Handle(ctx context.Context, state State, repo books.Repository, in Input) (*Page, error) {
	h, ok := handlers[state]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", state)
	}

	p, err := h(ctx, repo, in)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", state, err)
	}

	p.State = state
	p.Transitions = States

	return p, nil
}
