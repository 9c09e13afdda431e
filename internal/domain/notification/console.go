package notification

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// ThemeSource reports the current theme. It is read on every render so a
// toggle takes effect on the next toast.
type ThemeSource interface {
	IsDark() bool
}

type palette struct {
	pending lipgloss.Color
	success lipgloss.Color
	failure lipgloss.Color
	muted   lipgloss.Color
}

var (
	lightPalette = palette{
		pending: lipgloss.Color("#1e66f5"),
		success: lipgloss.Color("#40a02b"),
		failure: lipgloss.Color("#d20f39"),
		muted:   lipgloss.Color("#6c6f85"),
	}
	darkPalette = palette{
		pending: lipgloss.Color("#89b4fa"),
		success: lipgloss.Color("#a6e3a1"),
		failure: lipgloss.Color("#f38ba8"),
		muted:   lipgloss.Color("#a6adc8"),
	}
)

// Console prints every toast change as one styled line. Updates are printed
// under the same short id as the pending line they replace.
type Console struct {
	mutex sync.Mutex
	out   io.Writer
	theme ThemeSource
}

func NewConsole(out io.Writer, theme ThemeSource) *Console {
	return &Console{out: out, theme: theme}
}

func (c *Console) CreatePending(message string) Handle {
	h := Handle(uuid.NewString())
	c.print(h, LevelPending, message)
	return h
}

func (c *Console) UpdateToSuccess(h Handle, message string) {
	c.print(h, LevelSuccess, message)
}

func (c *Console) UpdateToError(h Handle, message string) {
	c.print(h, LevelError, message)
}

func (c *Console) Error(message string) {
	c.print("", LevelError, message)
}

func (c *Console) Dismiss(Handle) {}

func (c *Console) print(h Handle, level Level, message string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	p := lightPalette
	if c.theme != nil && c.theme.IsDark() {
		p = darkPalette
	}

	var (
		icon  string
		color lipgloss.Color
	)
	switch level {
	case LevelPending:
		icon, color = "…", p.pending
	case LevelSuccess:
		icon, color = "✔", p.success
	default:
		icon, color = "✘", p.failure
	}

	id := ""
	if h != "" {
		id = lipgloss.NewStyle().Foreground(p.muted).Render(fmt.Sprintf("[%s] ", shortHandle(h)))
	}

	line := lipgloss.NewStyle().Bold(true).Foreground(color).Render(icon + " " + message)
	fmt.Fprintln(c.out, id+line)
}

func shortHandle(h Handle) string {
	if len(h) > 8 {
		return string(h[:8])
	}
	return string(h)
}
