package cover

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoCorpus      = errors.New("cover: no poems for language")
	ErrInvalidCorpus = errors.New("cover: invalid corpus")
)

//go:embed poems.yaml
var defaultCorpusYAML []byte

// Poem is a titled list of verse lines.
type Poem struct {
	Title string   `yaml:"title"`
	Lines []string `yaml:"lines"`
}

// Text joins the lines with newlines.
func (p Poem) Text() string { return strings.Join(p.Lines, "\n") }

// Corpus is an immutable, language-tagged pool of cover poems.
type Corpus struct {
	poems map[string][]Poem
}

type corpusFile struct {
	Poems map[string][]Poem `yaml:"poems"`
}

// LoadCorpus reads a YAML corpus:
//
//	poems:
//	  fa:
//	    - title: ...
//	      lines: [...]
func LoadCorpus(r io.Reader) (*Corpus, error) {
	var f corpusFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCorpus, err)
	}
	c := &Corpus{poems: make(map[string][]Poem, len(f.Poems))}
	for lang, poems := range f.Poems {
		lang = strings.ToLower(strings.TrimSpace(lang))
		for _, p := range poems {
			lines := make([]string, 0, len(p.Lines))
			for _, l := range p.Lines {
				if l = strings.TrimSpace(l); l != "" {
					lines = append(lines, l)
				}
			}
			if len(lines) == 0 {
				continue
			}
			c.poems[lang] = append(c.poems[lang], Poem{Title: p.Title, Lines: lines})
		}
	}
	if len(c.poems) == 0 {
		return nil, fmt.Errorf("%w: no poems", ErrInvalidCorpus)
	}
	return c, nil
}

func LoadCorpusFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCorpus(f)
}

// DefaultCorpus returns the built-in Persian and English corpus. It is parsed
// once and shared.
var DefaultCorpus = sync.OnceValue(func() *Corpus {
	c, err := LoadCorpus(bytes.NewReader(defaultCorpusYAML))
	if err != nil {
		panic(err)
	}
	return c
})

// Poems returns a copy of the poems for lang.
func (c *Corpus) Poems(lang string) []Poem {
	poems := c.poems[strings.ToLower(lang)]
	out := make([]Poem, len(poems))
	copy(out, poems)
	return out
}

// Languages lists the corpus languages in sorted order.
func (c *Corpus) Languages() []string {
	langs := make([]string, 0, len(c.poems))
	for l := range c.poems {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}
