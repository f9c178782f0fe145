// Package hooks dispatches aggregator events to attached plugins.
package hooks

// CleanHTMLFunc rewrites an article body in place.
type CleanHTMLFunc func(html *string, baseURL string, inline bool)

// ConfigOptionFunc handles one configuration option. Returning false
// consumes the option so later hooks do not see it.
type ConfigOptionFunc func(name, value string) (bool, error)

// Registry holds hooks in attachment order. The zero value is ready to
// use.
type Registry struct {
	cleanHTML    []CleanHTMLFunc
	configOption []ConfigOptionFunc
}

// AttachCleanHTML appends fn to the clean_html hooks.
func (r *Registry) AttachCleanHTML(fn CleanHTMLFunc) {
	r.cleanHTML = append(r.cleanHTML, fn)
}

// AttachConfigOption appends fn to the config_option hooks.
func (r *Registry) AttachConfigOption(fn ConfigOptionFunc) {
	r.configOption = append(r.configOption, fn)
}

// CleanHTML runs every clean_html hook over *html.
func (r *Registry) CleanHTML(html *string, baseURL string, inline bool) {
	for _, fn := range r.cleanHTML {
		fn(html, baseURL, inline)
	}
}

// ConfigOption offers the option to each config_option hook until one
// consumes it or fails. It reports true when no hook consumed it.
func (r *Registry) ConfigOption(name, value string) (bool, error) {
	for _, fn := range r.configOption {
		cont, err := fn(name, value)
		if err != nil {
			return false, err
		}
		if !cont {
			return false, nil
		}
	}
	return true, nil
}
