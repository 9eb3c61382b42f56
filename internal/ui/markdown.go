package ui

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/vidyasagar/navsync/internal/storage"
)

// Cached glamour renderer to avoid recreation on every render call.
var (
	cachedRenderer      *glamour.TermRenderer
	cachedRendererWidth int
	rendererMu          sync.Mutex
)

// RenderMarkdown renders md for the terminal, falling back to the raw
// markdown when glamour fails.
func RenderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	if width > 100 {
		width = 100
	}

	rendererMu.Lock()
	defer rendererMu.Unlock()

	// Recreate renderer only if width changed or not initialized.
	if cachedRenderer == nil || cachedRendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		cachedRenderer = r
		cachedRendererWidth = width
	}

	out, err := cachedRenderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// HelpSection groups key bindings under a heading.
type HelpSection struct {
	Name string
	Keys [][2]string
}

// HelpMarkdown lays the sections out as markdown tables.
func HelpMarkdown(sections []HelpSection) string {
	var sb strings.Builder
	sb.WriteString("# navsync playground\n\n")
	sb.WriteString("The playground drives a simulated browser through the navigation ")
	sb.WriteString("service. Every detected change fires one event, listed in the log.\n\n")

	for _, s := range sections {
		fmt.Fprintf(&sb, "## %s\n\n| Key | Action |\n|---|---|\n", s.Name)
		for _, k := range s.Keys {
			fmt.Fprintf(&sb, "| `%s` | %s |\n", k[0], k[1])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// JournalMarkdown lists journal entries as a table, newest first.
func JournalMarkdown(title string, entries []storage.JournalEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if len(entries) == 0 {
		sb.WriteString("_No recorded navigation events._\n")
		return sb.String()
	}
	sb.WriteString("| When | Event | Token | Parameters |\n|---|---|---|---|\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "| %s | %s | `%s` | %s |\n",
			e.FiredAt.Format(time.DateTime), e.Event, e.Token, formatParams(e.Params))
	}
	return sb.String()
}

// BookmarksMarkdown lists bookmarked tokens.
func BookmarksMarkdown(bookmarks []storage.Bookmark) string {
	var sb strings.Builder
	sb.WriteString("# Bookmarks\n\n")
	if len(bookmarks) == 0 {
		sb.WriteString("_No bookmarks yet. Press `B` to bookmark the current token._\n")
		return sb.String()
	}
	for i, b := range bookmarks {
		title := b.Title
		if title == "" {
			title = b.Token
		}
		fmt.Fprintf(&sb, "%d. **%s** `%s`", i+1, title, b.Token)
		if len(b.Tags) > 0 {
			fmt.Fprintf(&sb, " (%s)", strings.Join(b.Tags, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// DocumentMarkdown shows the document source as an HTML code block.
func DocumentMarkdown(html string) string {
	return "# Document\n\n```html\n" + html + "\n```\n"
}

func formatParams(p map[string]string) string {
	if len(p) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + p[k]
	}
	return strings.Join(parts, " ")
}
