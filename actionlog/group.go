package actionlog

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Grouper folds the output of a function into a collapsible log group. Outside
// Actions it only logs the group title.
type Grouper struct {
	out     io.Writer
	enabled bool
}

func NewGrouper(out io.Writer, enabled bool) *Grouper {
	return &Grouper{out: out, enabled: enabled}
}

var Default = NewGrouper(os.Stdout, InActions())

func (g *Grouper) Group(title string, fn func()) {
	g.GroupErr(title, func() error {
		fn()
		return nil
	})
}

// GroupErr closes the group even when fn fails or panics.
func (g *Grouper) GroupErr(title string, fn func() error) error {
	if !g.enabled {
		logrus.Info(title)
		return fn()
	}

	fmt.Fprintf(g.out, "::group::%s\n", escapeData(title))
	defer fmt.Fprintln(g.out, "::endgroup::")
	return fn()
}

func Group(title string, fn func()) {
	Default.Group(title, fn)
}

func GroupErr(title string, fn func() error) error {
	return Default.GroupErr(title, fn)
}
