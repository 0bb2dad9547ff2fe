package toast

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// Renderer prints each newly appended notification once. It subscribes to a
// Bus and is the terminal equivalent of the web client's toast container.
type Renderer struct {
	w io.Writer

	mu   sync.Mutex
	seen map[string]bool
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w, seen: make(map[string]bool)}
}

// Attach subscribes the renderer to the bus and returns the unsubscribe
// function.
func (r *Renderer) Attach(bus *Bus) func() {
	return bus.Subscribe(r.render)
}

func (r *Renderer) render(toasts []Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range toasts {
		if r.seen[t.ID] {
			continue
		}
		r.seen[t.ID] = true

		switch t.Severity {
		case SeveritySuccess:
			fmt.Fprintln(r.w, successStyle.Render("✓ "+t.Message))
		case SeverityError:
			fmt.Fprintln(r.w, errStyle.Render("✗ "+t.Message))
		default:
			fmt.Fprintln(r.w, infoStyle.Render("• "+t.Message))
		}
	}
}
