// Package tui provides the interactive chat terminal UI for nudge.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/nudge/internal/gateway"
	"github.com/fentz26/nudge/internal/models"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	agentStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

// chatLine is one rendered entry in the transcript.
type chatLine struct {
	speaker string
	text    string
	muted   bool
	isErr   bool
}

// App is the chat TUI model. It drives the gateway service in-process, so
// every typed line goes through the full interpreter pipeline.
type App struct {
	service   *gateway.Service
	agentName string
	authorID  string
	locale    string

	lines    []chatLine
	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int
}

// New creates the chat application.
func New(service *gateway.Service, agentName, authorID, locale string) *App {
	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("Talk to %s: \"hey %s remind me to ... in 2 hours\"", agentName, agentName)
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 80

	vp := viewport.New(80, 20)

	return &App{
		service:   service,
		agentName: agentName,
		authorID:  authorID,
		locale:    locale,
		input:     ti,
		viewport:  vp,
		lines: []chatLine{
			{speaker: agentName, text: fmt.Sprintf("Hi! Wake me with \"hey %s\" or just my name. Ctrl+C quits.", agentName), muted: true},
		},
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(a.input.Value())
			a.input.SetValue("")
			if text != "" {
				a.send(text)
			}
			return a, nil
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 7
		a.input.Width = msg.Width - 6
		a.refresh()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// send runs one typed line through the interpreter and appends the exchange.
func (a *App) send(text string) {
	a.lines = append(a.lines, chatLine{speaker: a.authorID, text: text})

	reply, err := a.service.HandleMessage(text, a.authorID, a.locale, false, time.Now().UTC())
	switch {
	case err != nil:
		a.lines = append(a.lines, chatLine{speaker: a.agentName, text: err.Error(), isErr: true})
	case !reply.Addressed:
		a.lines = append(a.lines, chatLine{speaker: "", text: "(not addressed to " + a.agentName + ")", muted: true})
	default:
		line := chatLine{speaker: a.agentName, text: reply.Reply}
		a.lines = append(a.lines, line)
		if reply.Intent != "" && reply.Intent != models.IntentUnknown {
			a.lines = append(a.lines, chatLine{
				text:  fmt.Sprintf("intent=%s confidence=%.2f", reply.Intent, reply.Confidence),
				muted: true,
			})
		}
	}

	a.refresh()
}

// refresh re-renders the transcript into the viewport.
func (a *App) refresh() {
	var b strings.Builder
	for _, line := range a.lines {
		switch {
		case line.isErr:
			b.WriteString(agentStyle.Render(line.speaker+":") + " " + errorStyle.Render(line.text) + "\n")
		case line.muted:
			prefix := ""
			if line.speaker != "" {
				prefix = line.speaker + ": "
			}
			b.WriteString(mutedStyle.Render("  "+prefix+line.text) + "\n")
		case line.speaker == a.agentName:
			b.WriteString(agentStyle.Render(line.speaker+":") + " " + line.text + "\n")
		default:
			b.WriteString(userStyle.Render(line.speaker+":") + " " + line.text + "\n")
		}
	}
	a.viewport.SetContent(b.String())
	a.viewport.GotoBottom()
}

// View implements tea.Model.
func (a *App) View() string {
	header := titleStyle.Render("nudge: conversational reminders")
	status := statusBarStyle.Render(fmt.Sprintf("user: %s  locale: %s", a.authorID, a.locale))
	help := helpStyle.Render("enter: send • esc/ctrl+c: quit")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s",
		header,
		a.viewport.View(),
		inputBoxStyle.Render(a.input.View()),
		status,
		help,
	)
}
