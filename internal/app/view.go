package app

import "github.com/AarushM142/Todo-list-with-Authentication/internal/session"

// View is everything the page needs for one render.
type View struct {
	Authenticated bool
	Email         string
	Mode          session.Mode
	Flash         *session.Flash
	Tasks         []TaskRow
}

// TaskRow is one numbered line of the list.
type TaskRow struct {
	Number  int
	ID      int64
	Text    string
	Editing bool
	Draft   string
}

// Empty reports whether a signed-in user has no tasks to show.
func (v *View) Empty() bool {
	return v.Authenticated && len(v.Tasks) == 0
}
