package navigation

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vidyasagar/navsync/internal/querystring"
)

// Reserved location keys. They always take precedence over decoded
// querystring parameters of the same name.
const (
	KeyToken       = "token"
	KeyQuerystring = "querystring"
)

// Location is a parsed navigation fragment.
type Location struct {
	Token       string
	Querystring string
	// Params holds decoded querystring pairs. It never contains the
	// reserved keys and is nil when nothing was decoded.
	Params map[string]string
}

// Lookup returns the value for key, covering the reserved keys too.
func (l Location) Lookup(key string) (string, bool) {
	switch key {
	case KeyToken:
		return l.Token, true
	case KeyQuerystring:
		return l.Querystring, true
	}
	v, ok := l.Params[key]
	return v, ok
}

// Map flattens the location into a single mapping with the reserved keys set.
func (l Location) Map() map[string]string {
	m := make(map[string]string, len(l.Params)+2)
	for k, v := range l.Params {
		m[k] = v
	}
	m[KeyToken] = l.Token
	m[KeyQuerystring] = l.Querystring
	return m
}

func (l Location) clone() Location {
	if l.Params == nil {
		return l
	}
	p := make(map[string]string, len(l.Params))
	for k, v := range l.Params {
		p[k] = v
	}
	l.Params = p
	return l
}

// ParseLocation splits a raw fragment into token and querystring. It never
// fails: missing delimiters just give a coarser split. A fragment with '='
// but no '?' is treated as a bare token.
func ParseLocation(raw string) Location {
	raw = strings.TrimPrefix(raw, "#")

	if !strings.Contains(raw, "=") {
		return Location{Token: raw}
	}

	token, qs, found := strings.Cut(raw, "?")
	if !found {
		return Location{Token: raw}
	}

	params := querystring.Decode(qs)
	delete(params, KeyToken)
	delete(params, KeyQuerystring)
	if len(params) == 0 {
		params = nil
	}

	return Location{
		Token:       token,
		Querystring: qs,
		Params:      params,
	}
}

// Parser memoizes ParseLocation for recently seen fragments.
type Parser struct {
	cache *lru.Cache[string, Location]
}

// NewParser creates a parser caching up to size results. A size of zero
// or less disables the cache.
func NewParser(size int) *Parser {
	p := &Parser{}
	if size > 0 {
		p.cache, _ = lru.New[string, Location](size)
	}
	return p
}

// Parse returns a parsed copy that callers are free to modify.
func (p *Parser) Parse(raw string) Location {
	if p == nil || p.cache == nil {
		return ParseLocation(raw)
	}
	if loc, ok := p.cache.Get(raw); ok {
		return loc.clone()
	}
	loc := ParseLocation(raw)
	p.cache.Add(raw, loc)
	return loc.clone()
}
