package wordlist

import (
	"embed"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

//go:embed data/positive.txt data/negative.txt data/stopwords.txt
var defaultsFS embed.FS

// Resource file names, both embedded and on disk.
const (
	PositiveFile = "positive.txt"
	NegativeFile = "negative.txt"
	StopFile     = "stopwords.txt"
)

// Lists bundles the three word lists the analyzer consumes. Once returned
// by a Provider the lists are never mutated.
type Lists struct {
	Positive List
	Negative List
	Stop     List
}

// Provider loads word lists from a directory, falling back to the embedded
// defaults when no directory is configured. Lists are loaded on first use
// and cached for the life of the process; Reload discards the cache.
type Provider struct {
	mu    sync.Mutex
	dir   string
	lists *Lists
}

// NewProvider creates a Provider reading from dir. An empty dir means the
// embedded default lists.
func NewProvider(dir string) *Provider {
	return &Provider{dir: dir}
}

// Lists returns the three word lists, loading them on first call.
func (p *Provider) Lists() *Lists {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lists == nil {
		p.lists = p.load()
	}
	return p.lists
}

// Reload discards the cached lists; the next Lists call reloads them.
func (p *Provider) Reload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lists = nil
}

func (p *Provider) load() *Lists {
	return &Lists{
		Positive: p.loadOne(PositiveFile),
		Negative: p.loadOne(NegativeFile),
		Stop:     p.loadOne(StopFile),
	}
}

// loadOne reads a single word list resource. Every failure path returns an
// empty list: a missing file or an unreadable one must not take the
// analyzer down.
func (p *Provider) loadOne(name string) List {
	var (
		data []byte
		err  error
	)
	if p.dir == "" {
		data, err = defaultsFS.ReadFile("data/" + name)
	} else {
		data, err = os.ReadFile(filepath.Join(p.dir, name))
	}
	if err != nil {
		slog.Warn("word list unavailable, using empty list", "resource", name, "error", err)
		return make(List)
	}
	return parse(data)
}
