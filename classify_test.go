package zdchat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zdco/zdchat"
)

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()
	c := zdchat.NewClassifier(zdchat.ModuleAfaqy, zdchat.DefaultModules()...)

	tests := []struct {
		name string
		text string
		want zdchat.ModuleTag
	}{
		{"order keyword", "Where is my order?", zdchat.ModuleOrder},
		{"fleet keyword", "Where is truck 42?", zdchat.ModuleAfaqy},
		{"no keywords falls back", "hello there", zdchat.ModuleAfaqy},
		{"empty text falls back", "", zdchat.ModuleAfaqy},
		{"case insensitive", "ORDER STATUS please", zdchat.ModuleOrder},
		{"multi-word keyword counts", "what is the delivery date", zdchat.ModuleOrder},
		{"shared keyword ties", "tracking", zdchat.ModuleAfaqy},
		{"higher score wins", "order tracking", zdchat.ModuleOrder},
		{"fleet outscores order", "driver route schedule for the shipment", zdchat.ModuleAfaqy},
		{"substring match", "reorders", zdchat.ModuleOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}

func TestClassifier_TieResolvesToFallback(t *testing.T) {
	t.Parallel()
	c := zdchat.NewClassifier(zdchat.ModuleOrder, zdchat.DefaultModules()...)

	// One order keyword and one fleet keyword.
	assert.Equal(t, zdchat.ModuleOrder, c.Classify("truck invoice"))
	// No keywords at all.
	assert.Equal(t, zdchat.ModuleOrder, c.Classify("good morning"))
	// Fleet still wins outright.
	assert.Equal(t, zdchat.ModuleAfaqy, c.Classify("truck driver"))
}

func TestClassifier_Tags(t *testing.T) {
	t.Parallel()
	c := zdchat.NewClassifier(zdchat.ModuleAfaqy, zdchat.DefaultModules()...)
	assert.Equal(t, []zdchat.ModuleTag{zdchat.ModuleAfaqy, zdchat.ModuleOrder}, c.Tags())
	assert.Equal(t, zdchat.ModuleAfaqy, c.Fallback())

	c = zdchat.NewClassifier("general", zdchat.DefaultModules()...)
	assert.Equal(t, []zdchat.ModuleTag{"general", zdchat.ModuleOrder, zdchat.ModuleAfaqy}, c.Tags())
}

func TestClassifier_ResultAlwaysInTags(t *testing.T) {
	t.Parallel()
	c := zdchat.NewClassifier("general", zdchat.DefaultModules()...)
	for _, text := range []string{"", "order", "truck", "order truck", "PO 7781", "weather"} {
		assert.Contains(t, c.Tags(), c.Classify(text), text)
	}
}

func TestClassifier_BlankKeywordsIgnored(t *testing.T) {
	t.Parallel()
	c := zdchat.NewClassifier(zdchat.ModuleAfaqy,
		zdchat.Module{Tag: "billing", Keywords: []string{"", "   ", " Invoice "}},
	)
	assert.Equal(t, zdchat.ModuleAfaqy, c.Classify("anything at all"))
	assert.Equal(t, zdchat.ModuleTag("billing"), c.Classify("my invoice is wrong"))
}
