package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/scenestack/scenestack/internal/presentation/tui"
	"github.com/scenestack/scenestack/pkg/adapters/memory"
	"github.com/scenestack/scenestack/pkg/layers"
)

// View renders the visible surfaces of a layer tree to the terminal, in
// stacking order. Surface content is treated as markdown.
type View struct {
	out    io.Writer
	host   *memory.Host
	render func(string) (string, error)
}

// NewView creates a View writing to out.
func NewView(out io.Writer, host *memory.Host) *View {
	return &View{
		out:    out,
		host:   host,
		render: tui.NewRenderer(),
	}
}

// Render draws every visible surface with non-empty string content.
func (v *View) Render(tree *layers.Tree) {
	type surface struct {
		order   int
		content string
	}

	var visible []surface
	for _, name := range tree.Names() {
		l, ok := tree.Get(name)
		if !ok || !l.Visible() {
			continue
		}
		c, ok := v.host.Container(name)
		if !ok {
			continue
		}
		text, ok := c.Content.(string)
		if !ok || text == "" {
			continue
		}
		visible = append(visible, surface{order: c.StackOrder, content: text})
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].order < visible[j].order
	})

	for _, s := range visible {
		rendered, err := v.render(s.content)
		if err != nil {
			fmt.Fprintln(v.out, s.content)
			continue
		}
		fmt.Fprint(v.out, rendered)
	}
}
