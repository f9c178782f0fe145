package imgstrip

import (
	"strings"

	"golang.org/x/net/html"
)

// TokenKind identifies the class of a Token.
type TokenKind int

const (
	StartTagToken TokenKind = iota
	EndTagToken
	CharRefToken
	EntityRefToken
	TextToken
	CommentToken
	ProcessingInstructionToken
	DeclarationToken
)

var kindNames = [...]string{
	StartTagToken:              "StartTag",
	EndTagToken:                "EndTag",
	CharRefToken:               "CharRef",
	EntityRefToken:             "EntityRef",
	TextToken:                  "Text",
	CommentToken:               "Comment",
	ProcessingInstructionToken: "ProcessingInstruction",
	DeclarationToken:           "Declaration",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Invalid"
	}
	return kindNames[k]
}

// Token is one unit of markup handed to the Processor.
//
// Name holds the lower-cased tag name for tags and the reference name
// for entity references. Data holds the literal content of text,
// comment, processing instruction and declaration tokens, and the code
// of a character reference ("169" or "xA9").
type Token struct {
	Kind        TokenKind
	Name        string
	Attr        []html.Attribute
	Data        string
	SelfClosing bool
}

// String returns the reconstructed markup for t.
func (t Token) String() string {
	var sb strings.Builder
	writeToken(&sb, t)
	return sb.String()
}

// Get returns the value of the first attribute named key.
func (t Token) Get(key string) (string, bool) {
	for _, a := range t.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;")

func writeToken(sb *strings.Builder, t Token) {
	switch t.Kind {
	case StartTagToken:
		sb.WriteByte('<')
		sb.WriteString(t.Name)
		for _, a := range t.Attr {
			sb.WriteByte(' ')
			sb.WriteString(a.Key)
			sb.WriteString(`="`)
			attrEscaper.WriteString(sb, a.Val)
			sb.WriteByte('"')
		}
		if t.SelfClosing {
			sb.WriteByte('/')
		}
		sb.WriteByte('>')
	case EndTagToken:
		sb.WriteString("</")
		sb.WriteString(t.Name)
		sb.WriteByte('>')
	case CharRefToken:
		sb.WriteString("&#")
		sb.WriteString(t.Data)
		sb.WriteByte(';')
	case EntityRefToken:
		sb.WriteByte('&')
		sb.WriteString(t.Name)
		if knownEntity(t.Name) {
			sb.WriteByte(';')
		}
	case TextToken:
		sb.WriteString(t.Data)
	case CommentToken:
		sb.WriteString("<!--")
		sb.WriteString(t.Data)
		sb.WriteString("-->")
	case ProcessingInstructionToken:
		sb.WriteString("<?")
		sb.WriteString(t.Data)
		sb.WriteByte('>')
	case DeclarationToken:
		sb.WriteString("<!")
		sb.WriteString(t.Data)
		sb.WriteByte('>')
	}
}

// knownEntity reports whether name is a standard HTML entity name.
func knownEntity(name string) bool {
	ref := "&" + name + ";"
	s := html.UnescapeString(ref)
	if s == ref {
		return false
	}
	// Legacy names also match as a prefix: "&copyx;" decodes to "©x;".
	return !strings.HasSuffix(s, ";") || name == "semi"
}

// splitRefs breaks a run of source text into text, character reference
// and entity reference tokens.
func splitRefs(s string, fn func(Token)) {
	start := 0
	for i := 0; i < len(s); {
		if s[i] != '&' {
			i++
			continue
		}
		tok, n := scanRef(s[i:])
		if n == 0 {
			i++
			continue
		}
		if start < i {
			fn(Token{Kind: TextToken, Data: s[start:i]})
		}
		fn(tok)
		i += n
		start = i
	}
	if start < len(s) {
		fn(Token{Kind: TextToken, Data: s[start:]})
	}
}

// scanRef reads a reference at the start of s, which begins with '&'.
// It returns the token and the number of bytes consumed, or 0 when s
// does not start with a reference. A trailing ';' is consumed.
func scanRef(s string) (Token, int) {
	if len(s) < 2 {
		return Token{}, 0
	}
	if s[1] == '#' {
		i := 2
		isDigit := isDecimal
		if i < len(s) && (s[i] == 'x' || s[i] == 'X') {
			i++
			isDigit = isHex
		}
		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j == i {
			return Token{}, 0
		}
		tok := Token{Kind: CharRefToken, Data: s[2:j]}
		if j < len(s) && s[j] == ';' {
			j++
		}
		return tok, j
	}
	if !isLetter(s[1]) {
		return Token{}, 0
	}
	j := 2
	for j < len(s) && isNameByte(s[j]) {
		j++
	}
	tok := Token{Kind: EntityRefToken, Name: s[1:j]}
	if j < len(s) && s[j] == ';' {
		j++
	}
	return tok, j
}

func isLetter(c byte) bool  { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }
func isDecimal(c byte) bool { return '0' <= c && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isNameByte(c byte) bool {
	return isLetter(c) || isDecimal(c) || c == '-' || c == '.'
}
