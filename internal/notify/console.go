package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

var (
	timeStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"})

	levelStyles = map[domain.NotificationLevel]lipgloss.Style{
		domain.LevelSuccess: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}),
		domain.LevelInfo:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}),
		domain.LevelWarning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		domain.LevelError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}

	actionStyle = lipgloss.NewStyle().Italic(true)
)

// Render formats one notification as a console line.
func Render(n domain.Notification) string {
	style, ok := levelStyles[n.Level]
	if !ok {
		style = lipgloss.NewStyle()
	}

	line := fmt.Sprintf("%s %s", timeStyle.Render(n.Time.Local().Format("15:04:05")), style.Render(fmt.Sprintf("[%s]", n.Level)))
	if n.Action != "" {
		line += " " + actionStyle.Render(string(n.Action))
	}
	return line + " " + n.Message
}

// Console prints notifications from the hub until ctx is done.
type Console struct {
	hub *Hub
	out io.Writer
}

// NewConsole creates a console renderer writing to out.
func NewConsole(hub *Hub, out io.Writer) *Console {
	return &Console{hub: hub, out: out}
}

// Run blocks until ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	ch := c.hub.Subscribe()
	defer c.hub.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-ch:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintln(c.out, Render(n)); err != nil {
				return err
			}
		}
	}
}
