package wml

// Name is `[A-Za-z0-9_]+`, at least one byte.
type Name struct {
	Content StringKey
}

// TextDomain is a `#textdomain name\n` annotation; Name is the scoped
// domain identifier, `[A-Za-z0-9_-]+`.
type TextDomain struct {
	Name StringKey
}

// Text is an unquoted value component, `[^+\n]*`. It may be empty.
type Text struct {
	Content StringKey
}

// WString is a quoted string value component. Content excludes the
// enclosing quotes; a doubled `""` inside it is a literal escaped quote,
// retained verbatim for the consumer to unescape on demand.
type WString struct {
	Content StringKey
}

// RawString is a `<< ... >>` value component. Content excludes the
// enclosing delimiters.
type RawString struct {
	Content StringKey
}

// ValueComponentKind distinguishes the three alternatives of ValueComponent.
type ValueComponentKind uint8

const (
	ComponentText ValueComponentKind = iota
	ComponentString
	ComponentRawString
)

// ValueComponent is `text | '_'? string | '_'? raw_string`. Only the field
// matching Kind is populated.
type ValueComponent struct {
	Kind        ValueComponentKind
	Underscored bool
	Text        Text
	String      WString
	RawString   RawString
}

// ValueContinuation is one `'+' ('\n' textdomain?)? value_component` tail of
// a Value; Domain is nil when no textdomain annotation preceded the
// component.
type ValueContinuation struct {
	Domain    *TextDomain
	Component ValueComponent
}

// Value is a first ValueComponent plus zero or more '+'-joined continuations.
type Value struct {
	First ValueComponent
	Rest  []ValueContinuation
}

// KeySequence is a first Name plus zero or more comma-separated additional names.
type KeySequence struct {
	First Name
	Rest  []Name
}

// Attribute is `textdomain? key_sequence '=' value '\n'`.
type Attribute struct {
	Domain *TextDomain
	Keys   KeySequence
	Val    Value
}

// Tag is `'[' name ']' doc '[/' name ']'`, with the opening and closing
// names required to be byte-equal. Tag is the only recursive production.
type Tag struct {
	Name     Name
	Children []TagOrAttr
	start    int
	end      int
}

// Span reports the byte range in the originating Buffer this Tag covers,
// from its opening '[' through the trailing whitespace skip after its
// closing ']'.
func (t *Tag) Span() (start, end int) { return t.start, t.end }

// TagOrAttr is the tagged union `wml_tag | wml_attribute`. Exactly one of
// Tag or Attr is non-nil.
type TagOrAttr struct {
	Tag  *Tag
	Attr *Attribute
}

// IsTag reports whether this node is a Tag rather than an Attribute.
func (n TagOrAttr) IsTag() bool { return n.Tag != nil }

// advance computes the new absolute offset after input shrank to after.
func advance(pos int, before, after []byte) int {
	return pos + (len(before) - len(after))
}

// parser holds the state shared across one Parse call: the arena backing
// dynamically-sized child collections, the buffer being parsed (for
// tag-name equality checks), and the optional recursion depth cap.
type parser struct {
	arena    *Arena
	buf      Buffer
	maxDepth int
}

func (p *parser) parseName(input []byte, pos int) (rest []byte, name Name, ok bool) {
	r, key, ok := scanRun(isNameByte, input, pos)
	if !ok {
		return input, Name{}, false
	}
	return r, Name{Content: key}, true
}

func (p *parser) parseTextDomain(input []byte, pos int) (rest []byte, td TextDomain, ok bool) {
	r, ok := tagged([]byte("#textdomain"), input)
	if !ok {
		return input, TextDomain{}, false
	}
	pos2 := advance(pos, input, r)
	r2, ok := whitespace(r)
	if !ok {
		return input, TextDomain{}, false
	}
	pos3 := advance(pos2, r, r2)
	r3, key, ok := scanRun(isTextDomainByte, r2, pos3)
	if !ok {
		return input, TextDomain{}, false
	}
	r4, ok := tagged([]byte("\n"), r3)
	if !ok {
		return input, TextDomain{}, false
	}
	return r4, TextDomain{Name: key}, true
}

func (p *parser) parseText(input []byte, pos int) (rest []byte, t Text) {
	i := 0
	for i < len(input) && input[i] != '+' && input[i] != '\n' {
		i++
	}
	return input[i:], Text{Content: StringKey{idx: pos, len: i}}
}

func (p *parser) parseWString(input []byte, pos int) (rest []byte, s WString, ok bool) {
	r, ok := tagged([]byte(`"`), input)
	if !ok {
		return input, WString{}, false
	}
	contentPos := pos + 1
	i := 0
	for i < len(r) {
		if r[i] == '"' {
			if i+1 < len(r) && r[i+1] == '"' {
				i += 2
				continue
			}
			break
		}
		i++
	}
	key := StringKey{idx: contentPos, len: i}
	after, ok := tagged([]byte(`"`), r[i:])
	if !ok {
		return input, WString{}, false
	}
	return after, WString{Content: key}, true
}

func (p *parser) parseRawString(input []byte, pos int) (rest []byte, s RawString, ok bool) {
	r, ok := tagged([]byte("<<"), input)
	if !ok {
		return input, RawString{}, false
	}
	contentPos := pos + 2
	end := -1
	for i := 0; i+1 < len(r); i++ {
		if r[i] == '>' && r[i+1] == '>' {
			end = i
			break
		}
	}
	if end < 0 {
		return input, RawString{}, false
	}
	key := StringKey{idx: contentPos, len: end}
	return r[end+2:], RawString{Content: key}, true
}

func (p *parser) parseUnderscoredWString(input []byte, pos int) (rest []byte, vc ValueComponent, ok bool) {
	in2, pos2, underscored := input, pos, false
	if r, matched := tagged([]byte("_"), input); matched {
		in2, pos2, underscored = r, pos+1, true
	}
	r, ws, ok := p.parseWString(in2, pos2)
	if !ok {
		return input, ValueComponent{}, false
	}
	return r, ValueComponent{Kind: ComponentString, Underscored: underscored, String: ws}, true
}

func (p *parser) parseUnderscoredRawString(input []byte, pos int) (rest []byte, vc ValueComponent, ok bool) {
	in2, pos2, underscored := input, pos, false
	if r, matched := tagged([]byte("_"), input); matched {
		in2, pos2, underscored = r, pos+1, true
	}
	r, rs, ok := p.parseRawString(in2, pos2)
	if !ok {
		return input, ValueComponent{}, false
	}
	return r, ValueComponent{Kind: ComponentRawString, Underscored: underscored, RawString: rs}, true
}

// parseValueComponent tries, in order, an optionally-underscored WString, an
// optionally-underscored RawString, and finally Text. Text matches the
// empty string and so always succeeds; it must be tried last, or it would
// shadow the other two alternatives entirely (spec.md §4.5/§9).
func (p *parser) parseValueComponent(input []byte, pos int) (rest []byte, vc ValueComponent, ok bool) {
	if r, v, ok := p.parseUnderscoredWString(input, pos); ok {
		return r, v, true
	}
	if r, v, ok := p.parseUnderscoredRawString(input, pos); ok {
		return r, v, true
	}
	r, t := p.parseText(input, pos)
	return r, ValueComponent{Kind: ComponentText, Text: t}, true
}

func (p *parser) parseKeySequence(input []byte, pos int) (rest []byte, ks KeySequence, ok bool) {
	r, first, ok := p.parseName(input, pos)
	if !ok {
		return input, KeySequence{}, false
	}
	b := p.arena.names.newBuilder()
	cursor, curPos := r, advance(pos, input, r)
	for {
		r2, ok2 := tagged([]byte(","), cursor)
		if !ok2 {
			break
		}
		pos2 := advance(curPos, cursor, r2)
		r3, name, ok3 := p.parseName(r2, pos2)
		if !ok3 {
			break
		}
		b.push(name)
		curPos = advance(pos2, r2, r3)
		cursor = r3
	}
	return cursor, KeySequence{First: first, Rest: b.finish()}, true
}

func (p *parser) parseValue(input []byte, pos int) (rest []byte, v Value, ok bool) {
	r, first, ok := p.parseValueComponent(input, pos)
	if !ok {
		return input, Value{}, false
	}
	b := p.arena.values.newBuilder()
	cursor, curPos := r, advance(pos, input, r)
	for {
		r2, ok2 := tagged([]byte("+"), cursor)
		if !ok2 {
			break
		}
		pos2 := advance(curPos, cursor, r2)

		workCursor, workPos := r2, pos2
		var domain *TextDomain
		if r3, ok3 := tagged([]byte("\n"), r2); ok3 {
			pos3 := advance(pos2, r2, r3)
			if r4, td, ok4 := p.parseTextDomain(r3, pos3); ok4 {
				d := td
				domain = &d
				workCursor, workPos = r4, advance(pos3, r3, r4)
			} else {
				workCursor, workPos = r3, pos3
			}
		}

		r5, comp, _ := p.parseValueComponent(workCursor, workPos)
		b.push(ValueContinuation{Domain: domain, Component: comp})
		curPos = advance(workPos, workCursor, r5)
		cursor = r5
	}
	return cursor, Value{First: first, Rest: b.finish()}, true
}

func (p *parser) parseAttribute(input []byte, pos int) (rest []byte, attr *Attribute, ok bool) {
	cursor, curPos := input, pos
	var domain *TextDomain
	if r, td, ok := p.parseTextDomain(cursor, curPos); ok {
		d := td
		domain = &d
		curPos = advance(curPos, cursor, r)
		cursor = r
	}

	r, keys, ok := p.parseKeySequence(cursor, curPos)
	if !ok {
		return input, nil, false
	}
	curPos, cursor = advance(curPos, cursor, r), r

	r, ok = tagged([]byte("="), cursor)
	if !ok {
		return input, nil, false
	}
	curPos, cursor = advance(curPos, cursor, r), r

	r, val, ok := p.parseValue(cursor, curPos)
	if !ok {
		return input, nil, false
	}
	curPos, cursor = advance(curPos, cursor, r), r

	r, ok = tagged([]byte("\n"), cursor)
	if !ok {
		return input, nil, false
	}

	return r, &Attribute{Domain: domain, Keys: keys, Val: val}, true
}

var tagOpen = []byte("[")
var tagClose = []byte("]")
var tagCloseOpen = []byte("[/")
var newlineOrTab = anyOf(isByte('\n'), isByte('\t'))

func (p *parser) parseTag(input []byte, pos, depth int) (rest []byte, tag *Tag, ok bool, err error) {
	if p.maxDepth > 0 && depth > p.maxDepth {
		return input, nil, false, ErrDepthExceeded
	}

	cursor, ok := tagged(tagOpen, input)
	if !ok {
		return input, nil, false, nil
	}
	curPos := advance(pos, input, cursor)

	r, name, ok := p.parseName(cursor, curPos)
	if !ok {
		return input, nil, false, nil
	}
	curPos, cursor = advance(curPos, cursor, r), r

	r, ok = tagged(tagClose, cursor)
	if !ok {
		return input, nil, false, nil
	}
	curPos, cursor = advance(curPos, cursor, r), r

	r = taggedMany0(newlineOrTab, cursor)
	curPos, cursor = advance(curPos, cursor, r), r

	b := p.arena.tagOrAttr.newBuilder()
	for {
		r2, node, cok, cerr := p.parseTagOrAttr(cursor, curPos, depth+1)
		if cerr != nil {
			return input, nil, false, cerr
		}
		if !cok {
			break
		}
		b.push(node)
		curPos, cursor = advance(curPos, cursor, r2), r2
	}
	children := b.finish()

	r, ok = tagged(tagCloseOpen, cursor)
	if !ok {
		return input, nil, false, nil
	}
	curPos, cursor = advance(curPos, cursor, r), r

	r, closeName, ok := p.parseName(cursor, curPos)
	if !ok {
		return input, nil, false, nil
	}
	curPos, cursor = advance(curPos, cursor, r), r

	if !p.buf.Equal(name.Content, closeName.Content) {
		return input, nil, false, nil
	}

	r, ok = tagged(tagClose, cursor)
	if !ok {
		return input, nil, false, nil
	}
	curPos, cursor = advance(curPos, cursor, r), r

	r = taggedMany0(newlineOrTab, cursor)
	curPos, cursor = advance(curPos, cursor, r), r

	return cursor, &Tag{Name: name, Children: children, start: pos, end: curPos}, true, nil
}

func (p *parser) parseTagOrAttr(input []byte, pos, depth int) (rest []byte, node TagOrAttr, ok bool, err error) {
	r, tag, tok, terr := p.parseTag(input, pos, depth)
	if terr != nil {
		return input, TagOrAttr{}, false, terr
	}
	if tok {
		return r, TagOrAttr{Tag: tag}, true, nil
	}
	r, attr, aok := p.parseAttribute(input, pos)
	if aok {
		return r, TagOrAttr{Attr: attr}, true, nil
	}
	return input, TagOrAttr{}, false, nil
}
