package imgstrip

// StripMode selects what replaces an <img>.
type StripMode int

const (
	// StripLink replaces the image with a text link to its source.
	StripLink StripMode = iota
	// StripNone removes the image entirely.
	StripNone
)

func (m StripMode) String() string {
	switch m {
	case StripLink:
		return "link"
	case StripNone:
		return "none"
	}
	return "unknown"
}

// ParseStripMode parses "link" or "none". Any other value yields a
// *ConfigError.
func ParseStripMode(s string) (StripMode, error) {
	switch s {
	case "link":
		return StripLink, nil
	case "none":
		return StripNone, nil
	}
	return StripLink, &ConfigError{Option: OptionName, Value: s}
}
