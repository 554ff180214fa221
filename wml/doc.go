package wml

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Doc is the parsed top-level sequence of a WML document: zero or more
// sibling Tag/Attribute nodes, plus the Buffer they were parsed from. A Doc
// is read-only; there is no serializer back to WML text.
type Doc struct {
	Top []TagOrAttr
	buf Buffer
}

// Buffer returns the Buffer this Doc was parsed from, for resolving any
// StringKey reachable from Top.
func (d *Doc) Buffer() Buffer { return d.buf }

// Children returns the top-level Tag/Attribute sequence.
func (d *Doc) Children() []TagOrAttr { return d.Top }

// Options configures a DocProcessor.
type Options struct {
	maxDepth int
	logger   *zap.Logger
}

var defaultOptions = Options{
	maxDepth: 0,
	logger:   zap.NewNop(),
}

// Option configures a DocProcessor constructed by NewDocProcessor.
type Option func(*Options)

// WithMaxDepth caps Tag nesting depth; parsing beyond it fails with
// ErrDepthExceeded. A non-positive value (the default) leaves recursion
// uncapped, relying only on the Go runtime's own stack limit.
func WithMaxDepth(n int) Option {
	return func(o *Options) { o.maxDepth = n }
}

// WithLogger attaches a structured logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

func resolveOptions(opts []Option) Options {
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DocProcessor parses WML buffers, reusing one Arena across calls. It is not
// safe for concurrent use; each goroutine that parses documents needs its
// own DocProcessor (spec.md §5, single-threaded cooperative model).
type DocProcessor struct {
	arena    *Arena
	maxDepth int
	log      *zap.Logger
}

// NewDocProcessor returns a DocProcessor with a fresh Arena.
func NewDocProcessor(opts ...Option) *DocProcessor {
	o := resolveOptions(opts)
	return &DocProcessor{
		arena:    NewArena(),
		maxDepth: o.maxDepth,
		log:      o.logger,
	}
}

// Reset discards all nodes produced by prior Parse calls, reusing the
// DocProcessor's Arena backing memory for the next one. Any Doc returned by
// a prior Parse must not be used after Reset.
func (p *DocProcessor) Reset() {
	p.arena.Reset()
}

// Parse parses buf as a full WML document. The grammar's top level is the
// same zero-or-more Tag/Attribute sequence as a Tag's children, so Parse
// must consume buf in its entirety. An unconsumed suffix after at least one
// top-level node is reported as ErrTrailingInput; a non-empty buf in which no
// top-level node matches at all is reported as ErrParseFailure.
func (p *DocProcessor) Parse(buf Buffer) (*Doc, error) {
	pp := &parser{arena: p.arena, buf: buf, maxDepth: p.maxDepth}

	b := p.arena.tagOrAttr.newBuilder()
	cursor := buf.Bytes()
	pos := 0
	for {
		r, node, ok, err := pp.parseTagOrAttr(cursor, pos, 0)
		if err != nil {
			p.log.Debug("wml: parse aborted", zap.Int("offset", pos), zap.Error(err))
			return nil, errors.Wrapf(err, "at offset %d", pos)
		}
		if !ok {
			break
		}
		b.push(node)
		pos = advance(pos, cursor, r)
		cursor = r
	}

	if pos != buf.Len() {
		if pos == 0 {
			p.log.Debug("wml: no top-level production matched", zap.Int("total", buf.Len()))
			return nil, errors.Wrapf(ErrParseFailure, "at offset 0")
		}
		p.log.Debug("wml: trailing input", zap.Int("consumed", pos), zap.Int("total", buf.Len()))
		return nil, errors.Wrapf(ErrTrailingInput, "consumed %d of %d bytes", pos, buf.Len())
	}

	return &Doc{Top: b.finish(), buf: buf}, nil
}

// Dump renders a Doc as an indented debug tree, resolving every StringKey
// against its Buffer. It exists for inspection and test failure messages,
// not as a serializer back to WML syntax.
func (d *Doc) Dump() string {
	var sb dumpBuilder
	sb.children(d.buf, d.Top, 0)
	return sb.String()
}

type dumpBuilder struct {
	out []byte
}

func (b *dumpBuilder) String() string { return string(b.out) }

func (b *dumpBuilder) indent(depth int) {
	for i := 0; i < depth; i++ {
		b.out = append(b.out, '\t')
	}
}

func (b *dumpBuilder) children(buf Buffer, nodes []TagOrAttr, depth int) {
	for _, n := range nodes {
		b.indent(depth)
		if n.IsTag() {
			b.out = append(b.out, fmt.Sprintf("[%s]\n", buf.Slice(n.Tag.Name.Content))...)
			b.children(buf, n.Tag.Children, depth+1)
			b.indent(depth)
			b.out = append(b.out, fmt.Sprintf("[/%s]\n", buf.Slice(n.Tag.Name.Content))...)
			continue
		}
		b.out = append(b.out, fmt.Sprintf("%s = %s\n", attrKeys(buf, n.Attr.Keys), attrValue(buf, n.Attr.Val))...)
	}
}

func attrKeys(buf Buffer, ks KeySequence) string {
	s := string(buf.Slice(ks.First.Content))
	for _, name := range ks.Rest {
		s += "," + string(buf.Slice(name.Content))
	}
	return s
}

func attrValue(buf Buffer, v Value) string {
	s := valueComponentText(buf, v.First)
	for _, cont := range v.Rest {
		s += "+" + valueComponentText(buf, cont.Component)
	}
	return s
}

func valueComponentText(buf Buffer, vc ValueComponent) string {
	switch vc.Kind {
	case ComponentString:
		return string(buf.Slice(vc.String.Content))
	case ComponentRawString:
		return string(buf.Slice(vc.RawString.Content))
	default:
		return string(buf.Slice(vc.Text.Content))
	}
}
