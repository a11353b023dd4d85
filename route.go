package zdchat

import "fmt"

// DefaultEndpoint is the chat endpoint used when a tag has no route.
const DefaultEndpoint = "/chat"

// Routes maps module tags to backend endpoint paths. The entry under the
// empty tag, when present, serves any tag without its own route.
type Routes map[ModuleTag]string

// RoutesFor builds a routing table from module definitions. Modules with an
// empty Endpoint are skipped; the default route is DefaultEndpoint.
func RoutesFor(modules ...Module) Routes {
	r := Routes{"": DefaultEndpoint}
	for _, m := range modules {
		if m.Endpoint != "" {
			r[m.Tag] = m.Endpoint
		}
	}
	return r
}

// Endpoint returns the endpoint path for tag.
func (r Routes) Endpoint(tag ModuleTag) (string, error) {
	if ep, ok := r[tag]; ok && ep != "" {
		return ep, nil
	}
	if ep, ok := r[""]; ok && ep != "" {
		return ep, nil
	}
	return "", fmt.Errorf("%q: %w", tag, ErrNoRoute)
}
