package imgstrip

import (
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// TagHandler replaces the default reconstruction of a start or end tag.
// It may emit through p or emit nothing at all.
type TagHandler func(p *Processor, tok Token)

// Option configures a Processor, Stripper or Plugin.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for debug diagnostics. The default
// discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// rawTextTags hold code that is copied without splitting out
// references. The content of every other element, noscript and
// textarea included, is tokenized as markup so images inside it are
// seen.
var rawTextTags = map[string]bool{
	"script": true,
	"style":  true,
}

// Processor turns HTML into equivalent HTML, one token at a time.
// Start and end tags can be overridden per tag name; every other token
// is reconstructed by Emit.
type Processor struct {
	buf    strings.Builder
	starts map[string]TagHandler
	ends   map[string]TagHandler
	logger *zap.Logger
}

// NewProcessor returns a Processor with no overrides.
func NewProcessor(opts ...Option) *Processor {
	o := buildOptions(opts)
	return &Processor{
		starts: make(map[string]TagHandler),
		ends:   make(map[string]TagHandler),
		logger: o.logger,
	}
}

// HandleStart registers h for start tags named tag (lower case).
func (p *Processor) HandleStart(tag string, h TagHandler) { p.starts[tag] = h }

// HandleEnd registers h for end tags named tag (lower case).
func (p *Processor) HandleEnd(tag string, h TagHandler) { p.ends[tag] = h }

// Reset discards any buffered output.
func (p *Processor) Reset() { p.buf.Reset() }

// Emit appends the default reconstruction of tok.
func (p *Processor) Emit(tok Token) { writeToken(&p.buf, tok) }

// WriteString appends s to the output unchanged.
func (p *Processor) WriteString(s string) { p.buf.WriteString(s) }

// Output returns everything emitted since the last Reset.
func (p *Processor) Output() string { return p.buf.String() }

// Feed tokenizes input and dispatches every token in source order.
// Malformed markup never stops the pass: whatever cannot be classified
// is copied through verbatim.
func (p *Processor) Feed(input string) {
	z := html.NewTokenizer(strings.NewReader(input))
	rawText := false
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				p.logger.Debug("tokenizer stopped", zap.Error(err))
			}
			// A tag cut off by the end of input is left unread.
			if raw := z.Raw(); len(raw) > 0 {
				p.malformed(string(raw))
			}
			return

		case html.TextToken:
			raw := string(z.Raw())
			if rawText {
				p.dispatch(Token{Kind: TextToken, Data: raw})
			} else {
				splitRefs(raw, p.dispatch)
			}
			rawText = false
			continue

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := readTag(z, StartTagToken)
			tok.SelfClosing = tt == html.SelfClosingTagToken
			p.dispatch(tok)
			// A self-closing <script/> has no body to protect.
			rawText = rawTextTags[tok.Name] && !tok.SelfClosing
			if !rawText {
				z.NextIsNotRawText()
			}
			continue

		case html.EndTagToken:
			p.dispatch(readTag(z, EndTagToken))

		case html.CommentToken:
			p.comment(string(z.Raw()))

		case html.DoctypeToken:
			p.comment(string(z.Raw()))
		}
		rawText = false
	}
}

// comment classifies the tokenizer's comment-like tokens by their
// source text: real comments, processing instructions, declarations and
// bogus markup.
func (p *Processor) comment(raw string) {
	switch {
	case strings.HasPrefix(raw, "<!--"):
		if len(raw) >= len("<!---->") && strings.HasSuffix(raw, "-->") {
			p.dispatch(Token{Kind: CommentToken, Data: raw[4 : len(raw)-3]})
			return
		}
	case strings.HasPrefix(raw, "<?"):
		if strings.HasSuffix(raw, ">") {
			p.dispatch(Token{Kind: ProcessingInstructionToken, Data: raw[2 : len(raw)-1]})
			return
		}
	case strings.HasPrefix(raw, "<!"):
		if len(raw) >= len("<!>") && strings.HasSuffix(raw, ">") {
			p.dispatch(Token{Kind: DeclarationToken, Data: raw[2 : len(raw)-1]})
			return
		}
	}
	p.malformed(raw)
}

func (p *Processor) malformed(raw string) {
	p.logger.Debug("copying malformed markup",
		zap.Error(ErrMalformedMarkup),
		zap.String("raw", raw))
	p.dispatch(Token{Kind: TextToken, Data: raw})
}

func (p *Processor) dispatch(tok Token) {
	switch tok.Kind {
	case StartTagToken:
		if h, ok := p.starts[tok.Name]; ok {
			h(p, tok)
			return
		}
	case EndTagToken:
		if h, ok := p.ends[tok.Name]; ok {
			h(p, tok)
			return
		}
	}
	p.Emit(tok)
}

func readTag(z *html.Tokenizer, kind TokenKind) Token {
	name, more := z.TagName()
	tok := Token{Kind: kind, Name: string(name)}
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		if kind == EndTagToken {
			continue
		}
		tok.Attr = append(tok.Attr, html.Attribute{Key: string(key), Val: string(val)})
	}
	return tok
}

// Reconstruct re-emits input with no tag overrides.
func Reconstruct(input string) string {
	p := NewProcessor()
	p.Feed(input)
	return p.Output()
}
