package imgstrip

import (
	"go.uber.org/zap"
)

// OptionName is the configuration option Plugin responds to.
const OptionName = "imgstrip"

// Plugin adapts image stripping to an aggregator's hook calls:
// CleanHTML for every article body and ConfigOption for every
// configuration line. The mode defaults to StripLink.
//
// Reconfiguring a Plugin while CleanHTML runs on another goroutine is
// not supported.
type Plugin struct {
	mode   StripMode
	opts   []Option
	logger *zap.Logger
}

// NewPlugin returns a Plugin in StripLink mode.
func NewPlugin(opts ...Option) *Plugin {
	o := buildOptions(opts)
	return &Plugin{mode: StripLink, opts: opts, logger: o.logger}
}

// Mode returns the currently configured mode.
func (p *Plugin) Mode() StripMode { return p.mode }

// CleanHTML replaces *html with its rewritten form. baseURL and inline
// are part of the hook signature and are not used.
func (p *Plugin) CleanHTML(html *string, baseURL string, inline bool) {
	*html = NewStripper(p.mode, p.opts...).Rewrite(*html)
}

// ConfigOption handles one configuration option. It returns false when
// the option was consumed and no other handler should see it.
func (p *Plugin) ConfigOption(name, value string) (bool, error) {
	if name != OptionName {
		return true, nil
	}
	mode, err := ParseStripMode(value)
	if err != nil {
		return false, err
	}
	p.mode = mode
	p.logger.Debug("image strip mode set", zap.Stringer("mode", mode))
	return false, nil
}
