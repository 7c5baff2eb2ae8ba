package fonts

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	shorthandLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Size", Pattern: `\d+(?:\.\d+)?(?i:px|pt)`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
		{Name: "String", Pattern: `"[^"]*"|'[^']*'`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[,/]`},
		{Name: "Other", Pattern: `\S`},
	})

	shorthandParser = participle.MustBuild[shorthand](
		participle.Lexer(shorthandLexer),
		participle.Elide("Whitespace"),
	)
)

// shorthand is the CSS font grammar: "[style] [weight] <size>[/<line-height>] <family>".
type shorthand struct {
	Prefix []string   `parser:"( @Ident | @Number | @String | @Punct | @Other )*"`
	Size   *sizeToken `parser:"@@"`
	Rest   []string   `parser:"( @Ident | @Number | @Size | @String | @Punct | @Other )*"`
}

type sizeToken struct {
	EndPos     lexer.Position
	Value      string `parser:"@Size"`
	LineHeight string `parser:"( '/' @( Number | Size ) )?"`
}

// ParseShorthand parses a CSS font shorthand such as "italic bold 12pt
// Bravura, Academico". The family is everything after the size token. When
// no "<n>px" or "<n>pt" size is present it reports ok=false and returns a
// 12px descriptor with no family.
func ParseShorthand(css string) (d Descriptor, ok bool) {
	d = Descriptor{Size: DefaultSizePx, Weight: "normal", Style: "normal"}
	ast, err := shorthandParser.ParseString("", css)
	if err != nil || ast.Size == nil {
		return d, false
	}
	d.Size = ToPx(ast.Size.Value)
	for _, word := range ast.Prefix {
		switch w := strings.ToLower(word); w {
		case "italic", "oblique":
			d.Style = "italic"
		default:
			if normalizeWeight(w) == "bold" {
				d.Weight = "bold"
			}
		}
	}
	if off := ast.Size.EndPos.Offset; off <= len(css) {
		d.Family = strings.TrimSpace(css[off:])
	}
	return d, true
}
