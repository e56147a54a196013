package schema

import (
	"strconv"
	"strings"

	"github.com/otfgen/otfgen/pkg/source"
)

// Parse reads one schema document and yields its module-path pragma plus an
// ordered list of top-level items. This stage is purely structural: it
// does not check that a `count` references an existing
// field, that offsets name a declared item, or any other semantic
// invariant — those are the Analyzer's job, so that its diagnostics can
// point at fully-known spans. The only failures here are token-level or
// unmatched-delimiter problems.
func Parse(file *source.File) (*Document, []*source.SyntaxError) {
	p := &parser{file: file, lex: newLexer(file)}
	if err := p.advance(); err != nil {
		return nil, []*source.SyntaxError{err}
	}

	doc := &Document{}

	if p.cur.kind == tokHash {
		path, err := p.parsePragma()
		if err != nil {
			return nil, []*source.SyntaxError{err}
		}

		doc.ParseModulePath = path
	}

	for p.cur.kind != tokEOF {
		item, err := p.parseItem()
		if err != nil {
			p.errors = append(p.errors, err)
			// Best-effort recovery: skip to the next top-level brace close
			// so a single malformed item doesn't hide every later one.
			p.recover()

			continue
		}

		doc.Items = append(doc.Items, item)
	}

	if len(p.errors) > 0 {
		return nil, p.errors
	}

	return doc, nil
}

type parser struct {
	file   *source.File
	lex    *lexer
	cur    token
	errors []*source.SyntaxError
}

func (p *parser) advance() *source.SyntaxError {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}

	p.cur = tok

	return nil
}

func (p *parser) errorf(span source.Span, msg string) *source.SyntaxError {
	return p.file.SyntaxError(span, msg)
}

func (p *parser) expect(kind tokenKind, what string) (token, *source.SyntaxError) {
	if p.cur.kind != kind {
		return token{}, p.errorf(p.cur.span, "expected "+what)
	}

	tok := p.cur
	err := p.advance()

	return tok, err
}

// recover skips tokens until a top-level closing brace has been consumed,
// so that parsing can continue after an error and collect more diagnostics
// in a single pass, the same courtesy the analyzer gives semantic errors.
func (p *parser) recover() {
	depth := 0

	for p.cur.kind != tokEOF {
		switch p.cur.kind {
		case tokLBrace:
			depth++
		case tokRBrace:
			depth--
			if depth <= 0 {
				_ = p.advance()
				return
			}
		}

		if err := p.advance(); err != nil {
			return
		}
	}
}

func (p *parser) parsePragma() (string, *source.SyntaxError) {
	if err := p.advance(); err != nil { // consume '#'
		return "", err
	}

	if _, err := p.expect(tokBang, "'!' after '#'"); err != nil {
		return "", err
	}

	if _, err := p.expect(tokLBrack, "'[' to open attribute"); err != nil {
		return "", err
	}

	name, err := p.expect(tokIdent, "attribute name")
	if err != nil {
		return "", err
	}

	if name.text != "parse_module" {
		return "", p.errorf(name.span, "expected 'parse_module' pragma")
	}

	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return "", err
	}

	path, err := p.parsePath()
	if err != nil {
		return "", err
	}

	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return "", err
	}

	if _, err := p.expect(tokRBrack, "']'"); err != nil {
		return "", err
	}

	return path, nil
}

func (p *parser) parsePath() (string, *source.SyntaxError) {
	first, err := p.expect(tokIdent, "path segment")
	if err != nil {
		return "", err
	}

	segs := []string{first.text}

	for p.cur.kind == tokColonColon {
		if err := p.advance(); err != nil {
			return "", err
		}

		seg, err := p.expect(tokIdent, "path segment")
		if err != nil {
			return "", err
		}

		segs = append(segs, seg.text)
	}

	return strings.Join(segs, "::"), nil
}

// parseDocs consumes zero or more leading `///` doc lines.
func (p *parser) parseDocs() ([]string, *source.SyntaxError) {
	var docs []string

	for p.cur.kind == tokDoc {
		docs = append(docs, p.cur.text)

		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	return docs, nil
}

func (p *parser) parseItem() (Item, *source.SyntaxError) {
	docs, err := p.parseDocs()
	if err != nil {
		return nil, err
	}

	kw, err := p.expect(tokIdent, "a top-level keyword (record, table, group, flags, format, extern)")
	if err != nil {
		return nil, err
	}

	switch kw.text {
	case "record":
		return p.parseRecordOrTable(docs, kw, false)
	case "table":
		return p.parseRecordOrTable(docs, kw, true)
	case "group":
		return p.parseGroup(docs, kw)
	case "flags":
		return p.parseFlagsOrEnum(docs, kw, true)
	case "raw_enum":
		return p.parseFlagsOrEnum(docs, kw, false)
	case "format":
		return p.parseFormat(docs, kw)
	case "extern":
		return p.parseExtern(kw)
	default:
		return nil, p.errorf(kw.span, "unknown top-level keyword '"+kw.text+"'")
	}
}

func (p *parser) parseRecordOrTable(docs []string, kw token, isTable bool) (Item, *source.SyntaxError) {
	name, err := p.expect(tokIdent, "item name")
	if err != nil {
		return nil, err
	}

	fields, endSpan, err := p.parseFieldList()
	if err != nil {
		return nil, err
	}

	span := source.NewSpan(kw.span.Start(), endSpan.End())

	if isTable {
		return &Table{Name_: name.text, Docs_: docs, Fields: fields, Span_: span}, nil
	}

	return &Record{Name_: name.text, Docs_: docs, Fields: fields, Span_: span}, nil
}

func (p *parser) parseGroup(docs []string, kw token) (Item, *source.SyntaxError) {
	name, err := p.expect(tokIdent, "group name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokLParen, "'(' listing the group's variant tables"); err != nil {
		return nil, err
	}

	var variants []string

	for p.cur.kind != tokRParen {
		v, err := p.expect(tokIdent, "variant table name")
		if err != nil {
			return nil, err
		}

		variants = append(variants, v.text)

		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}

	if err := p.advance(); err != nil { // consume ')'
		return nil, err
	}

	fields, endSpan, err := p.parseFieldList()
	if err != nil {
		return nil, err
	}

	return &GenericGroup{
		Name_:        name.text,
		Docs_:        docs,
		HeaderFields: fields,
		Variants:     variants,
		Span_:        source.NewSpan(kw.span.Start(), endSpan.End()),
	}, nil
}

func (p *parser) parseFlagsOrEnum(docs []string, kw token, isFlags bool) (Item, *source.SyntaxError) {
	backing, err := p.expect(tokIdent, "backing scalar type")
	if err != nil {
		return nil, err
	}

	name, err := p.expect(tokIdent, "item name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}

	var values []EnumValue

	for p.cur.kind != tokRBrace {
		vdocs, err := p.parseDocs()
		if err != nil {
			return nil, err
		}

		vname, err := p.expect(tokIdent, "value name")
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokEquals, "'='"); err != nil {
			return nil, err
		}

		lit, err := p.expect(tokInt, "integer literal")
		if err != nil {
			return nil, err
		}

		n, perr := parseIntLiteral(lit.text)
		if perr != nil {
			return nil, p.errorf(lit.span, "malformed integer literal")
		}

		values = append(values, EnumValue{Name: vname.text, Value: n, Docs: vdocs})

		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}

	end := p.cur.span
	if err := p.advance(); err != nil { // consume '}'
		return nil, err
	}

	span := source.NewSpan(kw.span.Start(), end.End())

	if isFlags {
		return &Flags{Name_: name.text, Docs_: docs, Backing: ScalarType(backing.text), Bits: values, Span_: span}, nil
	}

	return &RawEnum{Name_: name.text, Docs_: docs, Backing: ScalarType(backing.text), Values: values, Span_: span}, nil
}

func (p *parser) parseFormat(docs []string, kw token) (Item, *source.SyntaxError) {
	backing, err := p.expect(tokIdent, "discriminant scalar type")
	if err != nil {
		return nil, err
	}

	name, err := p.expect(tokIdent, "item name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}

	var variants []FormatVariant

	for p.cur.kind != tokRBrace {
		vname, err := p.expect(tokIdent, "variant name")
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokLParen, "'('"); err != nil {
			return nil, err
		}

		tname, err := p.expect(tokIdent, "variant table name")
		if err != nil {
			return nil, err
		}

		rparen := p.cur.span

		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}

		variants = append(variants, FormatVariant{
			Name:      vname.text,
			TableName: tname.text,
			Span:      source.NewSpan(vname.span.Start(), rparen.End()),
		})

		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}

	end := p.cur.span
	if err := p.advance(); err != nil { // consume '}'
		return nil, err
	}

	return &Format{
		Name_:        name.text,
		Docs_:        docs,
		Discriminant: ScalarType(backing.text),
		Variants:     variants,
		Span_:        source.NewSpan(kw.span.Start(), end.End()),
	}, nil
}

func (p *parser) parseExtern(kw token) (Item, *source.SyntaxError) {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}

	name, err := p.expect(tokIdent, "extern name")
	if err != nil {
		return nil, err
	}

	if p.cur.kind == tokComma {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	end := p.cur.span

	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}

	return &Extern{Name_: name.text, Span_: source.NewSpan(kw.span.Start(), end.End())}, nil
}

func (p *parser) parseFieldList() ([]Field, source.Span, *source.SyntaxError) {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, source.Span{}, err
	}

	var fields []Field

	for p.cur.kind != tokRBrace {
		f, err := p.parseField()
		if err != nil {
			return nil, source.Span{}, err
		}

		fields = append(fields, f)

		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, source.Span{}, err
			}
		}
	}

	end := p.cur.span
	if err := p.advance(); err != nil { // consume '}'
		return nil, source.Span{}, err
	}

	return fields, end, nil
}

func (p *parser) parseField() (Field, *source.SyntaxError) {
	docs, err := p.parseDocs()
	if err != nil {
		return Field{}, err
	}

	attrs := Attributes{Docs: docs}
	start := p.cur.span

	for p.cur.kind == tokHash {
		if err := p.parseAttr(&attrs); err != nil {
			return Field{}, err
		}
	}

	name, err := p.expect(tokIdent, "field name")
	if err != nil {
		return Field{}, err
	}

	if _, err := p.expect(tokColon, "':'"); err != nil {
		return Field{}, err
	}

	ftype, err := p.parseFieldType()
	if err != nil {
		return Field{}, err
	}

	return Field{
		Name:  name.text,
		Type:  ftype,
		Attrs: attrs,
		Span:  source.NewSpan(start.Start(), p.cur.span.Start()),
	}, nil
}

func (p *parser) parseFieldType() (FieldType, *source.SyntaxError) {
	if p.cur.kind == tokLBrack {
		if err := p.advance(); err != nil {
			return FieldType{}, err
		}

		inner, err := p.parseScalarOrOther()
		if err != nil {
			return FieldType{}, err
		}

		if _, err := p.expect(tokRBrack, "']'"); err != nil {
			return FieldType{}, err
		}

		return FieldType{Kind: KindArray, Inner: &inner}, nil
	}

	return p.parseScalarOrOther()
}

// parseScalarOrOther parses a bare type name, optionally followed by
// `<Target>` angle-bracket syntax used by Offset16/24/32 to name their
// pointee item. It classifies the name on its own: Offset16/24/32 give an
// offset, a known primitive gives a scalar, and any other name gives an
// Other, which the Analyzer later checks against the declared items.
func (p *parser) parseScalarOrOther() (FieldType, *source.SyntaxError) {
	name, err := p.expect(tokIdent, "type name")
	if err != nil {
		return FieldType{}, err
	}

	var target string

	if p.cur.kind == tokLAngle {
		if err := p.advance(); err != nil {
			return FieldType{}, err
		}

		t, err := p.expect(tokIdent, "offset target type")
		if err != nil {
			return FieldType{}, err
		}

		target = t.text

		if _, err := p.expect(tokRAngle, "'>'"); err != nil {
			return FieldType{}, err
		}
	}

	switch name.text {
	case "Offset16":
		return FieldType{Kind: KindOffset, OffsetWidth: 16, Target: target}, nil
	case "Offset24":
		return FieldType{Kind: KindOffset, OffsetWidth: 24, Target: target}, nil
	case "Offset32":
		return FieldType{Kind: KindOffset, OffsetWidth: 32, Target: target}, nil
	}

	if scalar := ScalarType(name.text); isKnownScalar(scalar) {
		return FieldType{Kind: KindScalar, Scalar: scalar}, nil
	}

	return FieldType{Kind: KindOther, Other: name.text}, nil
}

func isKnownScalar(s ScalarType) bool {
	switch s {
	case U8, U16, U24, U32, I8, I16, I24, I32, Tag, FWORD, UFWORD, Fixed, F2Dot14,
		LongDateTime, Version16Dot16, MajorMinor, GlyphID, GlyphID16:
		return true
	default:
		return false
	}
}

// parseAttr parses one `#[...]` attribute and folds it into attrs.
func (p *parser) parseAttr(attrs *Attributes) *source.SyntaxError {
	if err := p.advance(); err != nil { // consume '#'
		return err
	}

	if _, err := p.expect(tokLBrack, "'['"); err != nil {
		return err
	}

	name, err := p.expect(tokIdent, "attribute name")
	if err != nil {
		return err
	}

	switch name.text {
	case "nullable":
		attrs.Nullable = true
	case "skip_getter":
		attrs.SkipGetter = true
	case "skip_offset_getter":
		attrs.SkipOffsetGetter = true
	case "count":
		c, err := p.parseCountArg()
		if err != nil {
			return err
		}

		attrs.Count = c
	case "len":
		if _, err := p.expect(tokLParen, "'('"); err != nil {
			return err
		}

		e, err := p.parseExpr()
		if err != nil {
			return err
		}

		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return err
		}

		attrs.Len = e
		attrs.LenFields = e.Idents()
	case "read_with_args":
		args, err := p.parseIdentArgList()
		if err != nil {
			return err
		}

		attrs.ReadWithArgs = args
	case "available":
		if _, err := p.expect(tokLParen, "'('"); err != nil {
			return err
		}

		lit, err := p.expect(tokInt, "version literal")
		if err != nil {
			return err
		}

		n, perr := parseIntLiteral(lit.text)
		if perr != nil {
			return p.errorf(lit.span, "malformed integer literal")
		}

		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return err
		}

		attrs.Available = &VersionPredicate{Min: n}
	case "format":
		if _, err := p.expect(tokEquals, "'='"); err != nil {
			return err
		}

		lit, err := p.expect(tokInt, "integer literal")
		if err != nil {
			return err
		}

		n, perr := parseIntLiteral(lit.text)
		if perr != nil {
			return p.errorf(lit.span, "malformed integer literal")
		}

		attrs.Format = &n
	case "compile":
		if _, err := p.expect(tokLParen, "'('"); err != nil {
			return err
		}

		e, err := p.parseExpr()
		if err != nil {
			return err
		}

		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return err
		}

		attrs.Compile = e
	case "compile_type":
		if _, err := p.expect(tokLParen, "'('"); err != nil {
			return err
		}

		t, err := p.parseScalarOrOther()
		if err != nil {
			return err
		}

		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return err
		}

		attrs.CompileType = &t
	default:
		return p.errorf(name.span, "unknown attribute '"+name.text+"'")
	}

	_, err = p.expect(tokRBrack, "']'")

	return err
}

func (p *parser) parseCountArg() (*Count, *source.SyntaxError) {
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}

	if p.cur.kind == tokDotDot {
		if err := p.advance(); err != nil {
			return nil, err
		}

		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}

		return &Count{Kind: CountEllipsis}, nil
	}

	if p.cur.kind == tokInt {
		lit := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}

		n, perr := parseIntLiteral(lit.text)
		if perr != nil {
			return nil, p.errorf(lit.span, "malformed integer literal")
		}

		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}

		return &Count{Kind: CountLiteral, Literal: n}, nil
	}

	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}

	if e.IsLeaf() && e.Ident != "" {
		return &Count{Kind: CountField, Field: e.Ident}, nil
	}

	return &Count{Kind: CountExpr, Expr: e}, nil
}

// parseExpr parses the whitelisted count/len/compile sublanguage: a field
// reference (bare ident, optionally `$`-prefixed to mark it as a field
// reference per the sample schemas' `add($num_glyphs, 1)` convention), an
// integer literal, or a call to add/sub/mul.
func (p *parser) parseExpr() (*Expr, *source.SyntaxError) {
	if p.cur.kind == tokInt {
		lit := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}

		n, perr := parseIntLiteral(lit.text)
		if perr != nil {
			return nil, p.errorf(lit.span, "malformed integer literal")
		}

		return &Expr{IsLiteral: true, Literal: n}, nil
	}

	name, err := p.expect(tokIdent, "a field reference or function name (add/sub/mul)")
	if err != nil {
		return nil, err
	}

	ident := strings.TrimPrefix(name.text, "$")

	if p.cur.kind != tokLParen {
		return &Expr{Ident: ident}, nil
	}

	switch name.text {
	case "add", "sub", "mul":
	default:
		return nil, p.errorf(name.span, "unknown function '"+name.text+"' (only add/sub/mul are allowed)")
	}

	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}

	var args []*Expr

	for p.cur.kind != tokRParen {
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		args = append(args, a)

		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}

	if err := p.advance(); err != nil { // consume ')'
		return nil, err
	}

	return &Expr{Op: name.text, Args: args}, nil
}

func (p *parser) parseIdentArgList() ([]string, *source.SyntaxError) {
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}

	var names []string

	for p.cur.kind != tokRParen {
		n, err := p.expect(tokIdent, "argument name")
		if err != nil {
			return nil, err
		}

		names = append(names, strings.TrimPrefix(n.text, "$"))

		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}

	if err := p.advance(); err != nil { // consume ')'
		return nil, err
	}

	return names, nil
}

func parseIntLiteral(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}

	return strconv.ParseUint(s, 10, 64)
}
