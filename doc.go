// Package imgstrip rewrites article HTML so that it no longer loads
// images.
//
// # Overview
//
// imgstrip reads a fragment of HTML, possibly malformed, with the
// golang.org/x/net/html tokenizer and re-emits equivalent HTML token by
// token. Every <img> element is replaced according to a [StripMode]:
//   - [StripLink] replaces the image with a small text link to its
//     source: <a class="imgbutton" href="SRC">IMG</a>
//   - [StripNone] removes the image without a trace
//
// When the image sits inside an anchor, the anchor is closed early with
// the text "a" so that it never wraps the replacement link:
//
//	<a href="http://apache.org/"><img src="http://apache.org/pb.gif"></a>
//
// becomes
//
//	<a href="http://apache.org/">a</a><a class="imgbutton" href="http://apache.org/pb.gif">IMG</a>
//
// # Reconstruction
//
// The underlying [Processor] is tolerant: unknown tags, unbalanced end
// tags, comments, processing instructions, declarations and
// character/entity references all pass through. Attribute values are
// always re-quoted with double quotes, so the output is equivalent to
// the input rather than byte-identical. [Reconstruct] runs the
// processor with no overrides.
//
// # Hooks
//
// [Plugin] exposes the two entry points an aggregator calls: a
// clean_html hook that rewrites an article body in place and a
// config_option hook that selects the mode from an "imgstrip link" or
// "imgstrip none" configuration line.
//
// # Thread Safety
//
// [Rewrite] and [Reconstruct] are safe for concurrent use. A [Stripper]
// or [Processor] holds per-fragment state and must not be shared
// between goroutines.
//
// # Example
//
//	out := imgstrip.Rewrite(article, imgstrip.StripLink)
package imgstrip
