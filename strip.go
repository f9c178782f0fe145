package imgstrip

import (
	"go.uber.org/zap"
)

const imgButton = `<a class="imgbutton" href="`

// Stripper replaces <img> elements in HTML fragments. Its state covers
// a single fragment and is reset by every call to Rewrite.
//
// Only the most recently opened anchor is tracked: an <a> opened inside
// another restarts tracking, and the outer anchor's end tag is treated
// like any other.
type Stripper struct {
	mode   StripMode
	proc   *Processor
	logger *zap.Logger

	insideAnchor  bool
	imageStripped bool // an image closed the current anchor early
}

// NewStripper returns a Stripper for mode.
func NewStripper(mode StripMode, opts ...Option) *Stripper {
	o := buildOptions(opts)
	s := &Stripper{
		mode:   mode,
		proc:   NewProcessor(opts...),
		logger: o.logger,
	}
	s.proc.HandleStart("a", s.startAnchor)
	s.proc.HandleEnd("a", s.endAnchor)
	s.proc.HandleStart("img", s.image)
	return s
}

// Mode returns the mode s was built with.
func (s *Stripper) Mode() StripMode { return s.mode }

// Rewrite returns html with every image replaced.
func (s *Stripper) Rewrite(html string) string {
	s.insideAnchor = false
	s.imageStripped = false
	s.proc.Reset()
	s.proc.Feed(html)
	return s.proc.Output()
}

func (s *Stripper) startAnchor(p *Processor, tok Token) {
	p.Emit(tok)
	s.insideAnchor = true
	s.imageStripped = false
}

func (s *Stripper) endAnchor(p *Processor, tok Token) {
	if !s.imageStripped {
		p.Emit(tok)
	}
	s.insideAnchor = false
	s.imageStripped = false
}

func (s *Stripper) image(p *Processor, tok Token) {
	if s.mode == StripNone {
		return
	}
	src, ok := tok.Get("src")
	if !ok {
		s.logger.Debug("dropping image",
			zap.Error(ErrMissingAttribute),
			zap.String("attribute", "src"),
			zap.String("tag", tok.String()))
		return
	}
	if s.insideAnchor {
		// Close the anchor around the image; its own end tag is dropped.
		p.WriteString("a</a>")
		s.imageStripped = true
		s.insideAnchor = false
	}
	p.WriteString(imgButton)
	attrEscaper.WriteString(&p.buf, src)
	p.WriteString(`">IMG</a>`)
}

// Rewrite replaces every image in html according to mode.
func Rewrite(html string, mode StripMode) string {
	return NewStripper(mode).Rewrite(html)
}
