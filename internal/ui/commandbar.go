package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vidyasagar/navsync/internal/theme"
)

// CommandType identifies the kind of command bar interaction.
type CommandType int

const (
	CommandNone   CommandType = iota
	CommandEx                 // : commands
	CommandSearch             // / journal search
)

// CommandResult is emitted when a command is submitted.
type CommandResult struct {
	Type  CommandType
	Value string
}

// Command is a parsed ex command.
type Command struct {
	Name string
	Arg  string
}

// ParseCommand splits ":name rest of line" into name and argument.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(strings.TrimPrefix(line, ":"))
	name, arg, _ := strings.Cut(line, " ")
	return Command{Name: name, Arg: strings.TrimSpace(arg)}
}

// CommandNames are the ex commands offered for completion.
var CommandNames = []string{
	"back", "bookmark", "bookmarks", "clear", "clearjournal", "doc", "forward",
	"get", "help", "journal", "nav", "quit", "reset", "set", "theme", "title",
	"unbookmark",
}

// Complete returns the command names starting with prefix, sorted.
func Complete(prefix string) []string {
	var out []string
	for _, name := range CommandNames {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// recall walks previously submitted lines, newest first.
type recall struct {
	lines []string
	pos   int // -1 when not recalling
}

func (r *recall) add(line string) {
	if n := len(r.lines); n > 0 && r.lines[n-1] == line {
		return
	}
	r.lines = append(r.lines, line)
}

func (r *recall) older() (string, bool) {
	if r.pos+1 >= len(r.lines) {
		return "", false
	}
	r.pos++
	return r.lines[len(r.lines)-1-r.pos], true
}

// newer returns "" once it steps past the newest line.
func (r *recall) newer() (string, bool) {
	if r.pos < 0 {
		return "", false
	}
	r.pos--
	if r.pos < 0 {
		return "", true
	}
	return r.lines[len(r.lines)-1-r.pos], true
}

// CommandBar reads ':' commands and '/' journal searches.
type CommandBar struct {
	input   textinput.Model
	active  bool
	cmdType CommandType
	width   int
	recall  recall
	// hint lists completions for the name being typed.
	hint []string
}

// NewCommandBar creates a new command bar.
func NewCommandBar() CommandBar {
	ti := textinput.New()
	ti.CharLimit = 256
	return CommandBar{input: ti, recall: recall{pos: -1}}
}

// SetWidth sets the command bar width.
func (c *CommandBar) SetWidth(w int) {
	c.width = w
	c.input.Width = w - 4
}

// Open activates the command bar in the given mode.
func (c *CommandBar) Open(ct CommandType) tea.Cmd {
	c.active = true
	c.cmdType = ct
	c.input.Reset()
	c.recall.pos = -1
	c.hint = nil

	if ct == CommandSearch {
		c.input.Prompt = "/"
		c.input.Placeholder = "token or querystring text"
	} else {
		c.input.Prompt = ":"
		c.input.Placeholder = "set <token>, nav <#fragment>, title <text>, journal [n]  (Tab completes)"
	}
	return c.input.Focus()
}

// Close deactivates the command bar.
func (c *CommandBar) Close() {
	c.active = false
	c.cmdType = CommandNone
	c.hint = nil
	c.input.Blur()
	c.input.Reset()
}

// IsActive reports whether the command bar is open.
func (c *CommandBar) IsActive() bool {
	return c.active
}

// Type returns the current command type.
func (c *CommandBar) Type() CommandType {
	return c.cmdType
}

// Value returns the text typed so far.
func (c *CommandBar) Value() string {
	return c.input.Value()
}

// Submit closes the bar and returns what was typed. Ex commands are kept
// for recall with up/down.
func (c *CommandBar) Submit() CommandResult {
	res := CommandResult{Type: c.cmdType, Value: strings.TrimSpace(c.input.Value())}
	if res.Value != "" && res.Type == CommandEx {
		c.recall.add(res.Value)
	}
	c.Close()
	return res
}

// complete extends the command name being typed. A unique match is filled
// in with a trailing space; several matches are shown as a hint and the
// common prefix is filled in.
func (c *CommandBar) complete() {
	val := c.input.Value()
	if strings.Contains(val, " ") {
		return
	}
	matches := Complete(val)
	switch len(matches) {
	case 0:
		c.hint = nil
	case 1:
		c.hint = nil
		c.input.SetValue(matches[0] + " ")
		c.input.CursorEnd()
	default:
		c.hint = matches
		c.input.SetValue(commonPrefix(matches))
		c.input.CursorEnd()
	}
}

func commonPrefix(words []string) string {
	p := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(w, p) {
			p = p[:len(p)-1]
		}
	}
	return p
}

// Update processes messages for the command bar.
func (c *CommandBar) Update(msg tea.Msg) (*CommandBar, tea.Cmd) {
	if !c.active {
		return c, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && c.cmdType == CommandEx {
		switch key.Type {
		case tea.KeyTab:
			c.complete()
			return c, nil
		case tea.KeyUp:
			if line, ok := c.recall.older(); ok {
				c.input.SetValue(line)
				c.input.CursorEnd()
			}
			return c, nil
		case tea.KeyDown:
			if line, ok := c.recall.newer(); ok {
				c.input.SetValue(line)
				c.input.CursorEnd()
			}
			return c, nil
		}
		c.hint = nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// View renders the command bar with any completion hint right-aligned.
func (c *CommandBar) View() string {
	if !c.active {
		return ""
	}

	t := theme.Current
	bar := lipgloss.NewStyle().Foreground(t.Text).Background(t.Surface)
	if len(c.hint) == 0 {
		return bar.Width(c.width).Render(c.input.View())
	}

	hint := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface).
		Render(strings.Join(c.hint, " "))
	left := c.width - lipgloss.Width(hint)
	if left < 10 {
		return bar.Width(c.width).Render(c.input.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, bar.Width(left).Render(c.input.View()), hint)
}
