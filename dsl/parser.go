package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[][{},:;]`},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(scriptLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Script is the root AST node of a report script.
type Script struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  StringLiteral  `parser:"'report' @String"`
	Items []*Item        `parser:"'{' ( @@ ';'* )* '}'"`
}

// Item is one top-level statement. Exactly one field is set.
type Item struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Meta       *Meta          `parser:"  'meta' @@"`
	Header     *Decoration    `parser:"| 'header' @@"`
	Footer     *Decoration    `parser:"| 'footer' @@"`
	Page       bool           `parser:"| @'page'"`
	Space      *float64       `parser:"| 'space' @Number"`
	Ensure     *float64       `parser:"| 'ensure' @Number"`
	Center     *Center        `parser:"| 'center' @@"`
	Rule       *Rule          `parser:"| 'rule' @@"`
	Section    *StringLiteral `parser:"| 'section' @String"`
	Subsection *StringLiteral `parser:"| 'subsection' @String"`
	Para       *Strings       `parser:"| 'para' @@"`
	Bullet     *Strings       `parser:"| 'bullet' @@"`
	Code       *Strings       `parser:"| 'code' @@"`
	Caption    *StringLiteral `parser:"| 'caption' @String"`
	Table      *Table         `parser:"| 'table' @@"`
	Row        *LooseRow      `parser:"| 'row' @@"`
	Head       *LooseRow      `parser:"| 'head' @@"`
}

// Kind returns the statement keyword.
func (it *Item) Kind() string {
	switch {
	case it == nil:
		return "unknown"
	case it.Meta != nil:
		return "meta"
	case it.Header != nil:
		return "header"
	case it.Footer != nil:
		return "footer"
	case it.Page:
		return "page"
	case it.Space != nil:
		return "space"
	case it.Ensure != nil:
		return "ensure"
	case it.Center != nil:
		return "center"
	case it.Rule != nil:
		return "rule"
	case it.Section != nil:
		return "section"
	case it.Subsection != nil:
		return "subsection"
	case it.Para != nil:
		return "para"
	case it.Bullet != nil:
		return "bullet"
	case it.Code != nil:
		return "code"
	case it.Caption != nil:
		return "caption"
	case it.Table != nil:
		return "table"
	case it.Row != nil:
		return "row"
	case it.Head != nil:
		return "head"
	default:
		return "unknown"
	}
}

// Meta captures `meta { key: "value" ... }`.
type Meta struct {
	Entries []*Entry `parser:"'{' ( @@ ( ','| ';' )? )* '}'"`
}

// Entry is a key/value pair. List values are written as `[ "a", "b" ]`.
type Entry struct {
	Key    string          `parser:"@Ident ':'"`
	Value  *StringLiteral  `parser:"(  @String"`
	Values []StringLiteral `parser:" | '[' ( @String ','? )* ']' )"`
}

// Decoration is the running header/footer line.
type Decoration struct {
	Text  StringLiteral `parser:"@String"`
	Align string        `parser:"( 'align' @( 'left' | 'center' | 'right' ) )?"`
}

// Center is a free-standing centered line, used for title pages.
type Center struct {
	Text StringLiteral `parser:"@String"`
	Opts []*TextOpt    `parser:"@@*"`
}

// TextOpt is a style option of a centered line.
type TextOpt struct {
	Size   *float64 `parser:"  'size' @Number"`
	Weight *string  `parser:"| @( 'bold' | 'italic' | 'regular' )"`
	Tone   *string  `parser:"| 'tone' @Ident"`
	Color  *string  `parser:"| 'color' @Color"`
	Height *float64 `parser:"| 'height' @Number"`
}

// Rule draws a horizontal line at the cursor from X1 to X2 (mm).
type Rule struct {
	X1 float64 `parser:"@Number"`
	X2 float64 `parser:"@Number"`
}

// Strings is one or more string literals. Multiple literals are joined
// without separator, like adjacent literals in source code.
type Strings struct {
	Parts []StringLiteral `parser:"@String+"`
}

// Table is `table [w1, w2] caption "..." { head ... row ... }`.
type Table struct {
	Widths  []float64      `parser:"'[' @Number ( ',' @Number )* ']'"`
	Caption *StringLiteral `parser:"( 'caption' @String )?"`
	Rows    []*Row         `parser:"'{' ( @@ ';'* )* '}'"`
}

// Row is a table row inside a table block.
type Row struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Kind  string         `parser:"@( 'head' | 'row' )"`
	Cells []*Cell        `parser:"@@+"`
}

// LooseRow is a table row outside of a table block, carrying its own widths.
type LooseRow struct {
	Widths []float64 `parser:"'[' @Number ( ',' @Number )* ']'"`
	Cells  []*Cell   `parser:"@@+"`
}

// Cell is a string or numeric cell value.
type Cell struct {
	String *StringLiteral `parser:"  @String"`
	Number *float64       `parser:"| @Number"`
}

// Value returns the cell value as string or float64.
func (c *Cell) Value() any {
	switch {
	case c == nil:
		return nil
	case c.String != nil:
		return string(*c.String)
	case c.Number != nil:
		return *c.Number
	default:
		return nil
	}
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Join concatenates the parts.
func (s *Strings) Join() string {
	if s == nil {
		return ""
	}
	out := ""
	for _, p := range s.Parts {
		out += string(p)
	}
	return out
}

// Parse parses a report script from an io.Reader.
func Parse(r io.Reader) (*Script, error) {
	return scriptParser.Parse("", r)
}

// ParseString parses a report script from a string.
func ParseString(input string) (*Script, error) {
	return scriptParser.ParseString("", input)
}

// ParseFile parses a report script, using name for error positions.
func ParseFile(name string, r io.Reader) (*Script, error) {
	return scriptParser.Parse(name, r)
}
