package browser

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

const documentShell = `<!DOCTYPE html><html><head><title></title></head><body></body></html>`

// Document is the simulated window's HTML document.
type Document struct {
	mu  sync.Mutex
	doc *goquery.Document
}

// NewDocument creates an empty document with the given title.
func NewDocument(title string) *Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(documentShell))
	if err != nil {
		// The shell is a constant; parsing it cannot fail.
		panic(err)
	}
	d := &Document{doc: doc}
	d.SetTitle(title)
	return d
}

// SetTitle replaces the text of <title>.
func (d *Document) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc.Find("head > title").SetText(title)
}

// Title returns the text of <title>.
func (d *Document) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find("head > title").Text()
}

// HTML serializes the whole document.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return goquery.OuterHtml(d.doc.Selection)
}
