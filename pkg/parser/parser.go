// Package parser turns taxaquery text into a typed parse tree.
//
// It is a hand written recursive descent parser over the grammar in package grammar:
// parseTree delegates to parseList, which consumes "(", one or more comma separated
// elements and ")". An element starting with "(" is a nested list; anything else is
// parsed as a taxon name with an optional ":extension".
//
// A Parser holds configuration only, so a single value may be shared and used
// concurrently.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/aretw0/taxaquery/pkg/grammar"
)

// DefaultMaxDepth bounds list nesting so adversarial input cannot exhaust the stack.
const DefaultMaxDepth = 256

// Parser parses query text. The zero value is not usable; call New.
type Parser struct {
	maxDepth int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth sets the maximum list nesting depth. Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MaxDepth returns the configured nesting limit.
func (p *Parser) MaxDepth() int {
	return p.maxDepth
}

// Parse parses a whole query. On failure it returns a *domain.SyntaxError and never a partial tree.
func Parse(input string) (domain.Tree, error) {
	return New().Parse(input)
}

// Parse parses a whole query. On failure it returns a *domain.SyntaxError and never a partial tree.
func (p *Parser) Parse(input string) (domain.Tree, error) {
	s := &scanner{input: input, maxDepth: p.maxDepth}
	tree, err := s.parseTree()
	if err != nil {
		return domain.Tree{}, err
	}
	return tree, nil
}

// scanner holds the per-call parsing state.
type scanner struct {
	input    string
	pos      int
	depth    int
	maxDepth int
}

func (s *scanner) parseTree() (domain.Tree, error) {
	s.skipSpace()
	if s.eof() {
		return domain.Tree{}, s.errorf("'('")
	}
	root, err := s.parseList()
	if err != nil {
		return domain.Tree{}, err
	}
	s.skipSpace()
	if !s.eof() {
		return domain.Tree{}, s.errorf("end of input")
	}
	return domain.Tree{Root: root}, nil
}

func (s *scanner) parseList() (domain.TaxonList, error) {
	list := domain.TaxonList{Offset: s.pos}
	if !s.accept(grammar.OpenList) {
		return list, s.errorf("'('")
	}

	s.depth++
	defer func() { s.depth-- }()
	if s.depth > s.maxDepth {
		return list, &domain.SyntaxError{
			Offset: list.Offset,
			Found:  "'('",
			Err:    fmt.Errorf("%w (limit %d)", domain.ErrDepthExceeded, s.maxDepth),
		}
	}

	for {
		el, err := s.parseElement()
		if err != nil {
			return list, err
		}
		list.Elements = append(list.Elements, el)

		s.skipSpace()
		if s.accept(grammar.Separator) {
			continue
		}
		if s.accept(grammar.CloseList) {
			return list, nil
		}
		return list, s.errorf("','", "')'")
	}
}

func (s *scanner) parseElement() (domain.Element, error) {
	s.skipSpace()
	if s.peek() == grammar.OpenList {
		list, err := s.parseList()
		if err != nil {
			return domain.Element{}, err
		}
		return domain.Element{Kind: domain.ElementList, List: list}, nil
	}
	taxon, err := s.parseTaxonFull()
	if err != nil {
		return domain.Element{}, err
	}
	return domain.Element{Kind: domain.ElementTaxon, Taxon: taxon}, nil
}

func (s *scanner) parseTaxonFull() (domain.TaxonFull, error) {
	start := s.pos
	for !s.eof() && grammar.IsNameChar(s.input[s.pos]) {
		s.pos++
	}
	raw := s.input[start:s.pos]
	name := strings.Trim(raw, " ")
	if name == "" {
		s.pos = start
		return domain.TaxonFull{}, s.errorf("taxon name", "'('")
	}
	full := domain.TaxonFull{
		Name:   domain.TaxonName(name),
		Offset: start + strings.Index(raw, name),
	}

	s.skipSpace()
	if !s.accept(grammar.ExtMarker) {
		return full, nil
	}
	s.skipSpace()

	wordStart := s.pos
	for !s.eof() && grammar.IsLetter(s.input[s.pos]) {
		s.pos++
	}
	word := s.input[wordStart:s.pos]
	ext, ok := grammar.LookupExtension(word)
	if !ok {
		s.pos = wordStart
		err := s.errorf("extension")
		if word != "" {
			err.Found = strconv.Quote(word)
			if hint := grammar.Suggest(word); hint != "" {
				err.Hint = fmt.Sprintf("did you mean %q?", hint)
			}
		}
		err.Expected = quoteAll(grammar.Keywords())
		return full, err
	}
	full.Extension = ext
	return full, nil
}

func (s *scanner) skipSpace() {
	for !s.eof() && grammar.IsSpace(s.input[s.pos]) {
		s.pos++
	}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.input[s.pos]
}

func (s *scanner) accept(c byte) bool {
	if s.peek() == c {
		s.pos++
		return true
	}
	return false
}

// errorf builds a SyntaxError at the current position.
func (s *scanner) errorf(expected ...string) *domain.SyntaxError {
	return &domain.SyntaxError{
		Offset:   s.pos,
		Found:    s.found(),
		Expected: expected,
	}
}

func (s *scanner) found() string {
	if s.eof() {
		return "end of input"
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.pos:])
	return strconv.QuoteRune(r)
}

func quoteAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strconv.Quote(w)
	}
	return out
}
