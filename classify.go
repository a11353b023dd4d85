package zdchat

import "strings"

// Module describes one classification target: its tag, the backend endpoint
// serving it, and the keywords that vote for it.
type Module struct {
	Tag      ModuleTag
	Endpoint string
	Keywords []string
}

// DefaultModules returns the built-in order and fleet (afaqy) modules.
func DefaultModules() []Module {
	return []Module{
		{
			Tag:      ModuleOrder,
			Endpoint: "/chat_order",
			Keywords: []string{
				"order", "purchase", "invoice", "delivery", "shipment",
				"tracking", "package", "shipping", "delivery date",
				"order status", "order number", "PO",
			},
		},
		{
			Tag:      ModuleAfaqy,
			Endpoint: "/chat",
			Keywords: []string{
				"truck", "vehicle", "driver", "route", "location",
				"fleet", "maintenance", "schedule", "GPS", "tracking",
			},
		},
	}
}

// Classifier assigns a ModuleTag to free text by keyword overlap.
//
// Classification is best-effort: each module scores the number of its
// keywords found as substrings of the lower-cased text, and the module with
// the strictly greatest score wins. Any tie for the top score, including no
// matches at all, resolves to the fallback tag.
type Classifier struct {
	rules    []rule
	fallback ModuleTag
}

type rule struct {
	tag      ModuleTag
	keywords []string
}

// NewClassifier creates a Classifier over modules in declaration order.
// Keywords are normalized to lower case; empty keywords are dropped.
func NewClassifier(fallback ModuleTag, modules ...Module) *Classifier {
	c := &Classifier{fallback: fallback}
	for _, m := range modules {
		r := rule{tag: m.Tag}
		for _, kw := range m.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				r.keywords = append(r.keywords, kw)
			}
		}
		c.rules = append(c.rules, r)
	}
	return c
}

// Classify returns the tag for text. The result is always a member of Tags.
func (c *Classifier) Classify(text string) ModuleTag {
	normalized := strings.ToLower(text)

	best := c.fallback
	bestScore := 0
	tied := false
	for _, r := range c.rules {
		score := 0
		for _, kw := range r.keywords {
			if strings.Contains(normalized, kw) {
				score++
			}
		}
		switch {
		case score > bestScore:
			best, bestScore, tied = r.tag, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}
	if bestScore == 0 || tied {
		return c.fallback
	}
	return best
}

// Tags returns the closed set of tags Classify can produce: the fallback
// followed by each declared module tag not already listed.
func (c *Classifier) Tags() []ModuleTag {
	tags := []ModuleTag{c.fallback}
	seen := map[ModuleTag]bool{c.fallback: true}
	for _, r := range c.rules {
		if !seen[r.tag] {
			seen[r.tag] = true
			tags = append(tags, r.tag)
		}
	}
	return tags
}

// Fallback returns the tag used when no module wins outright.
func (c *Classifier) Fallback() ModuleTag { return c.fallback }
