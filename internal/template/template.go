package template

import "sort"

// Basic is the name of the front/back layout.
const Basic = "Basic"

// DefaultName is reported for lookups that miss the registry.
const DefaultName = "Default Template"

// Format is one card template of a layout.
type Format struct {
	Name     string
	Question string
	Answer   string
}

// Descriptor is a named card layout.
type Descriptor struct {
	Name    string
	Formats []Format
}

var frontBack = Format{
	Name:     "Card 1",
	Question: "{{Front}}",
	Answer:   "{{FrontSide}}<hr id=answer>{{Back}}",
}

var registry = map[string]Descriptor{
	Basic: {Name: Basic, Formats: []Format{frontBack}},
}

// Resolve returns the layout registered under name, or the default
// layout when name is unknown.
func Resolve(name string) Descriptor {
	d, ok := registry[name]
	if !ok {
		d = Descriptor{Name: DefaultName, Formats: []Format{frontBack}}
	}
	// Callers get their own slice.
	d.Formats = append([]Format(nil), d.Formats...)
	return d
}

// Names lists the registered layout names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
