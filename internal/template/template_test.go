package template

import "testing"

func TestResolve(t *testing.T) {
	testCases := []struct {
		name         string
		lookup       string
		expectedName string
	}{
		{name: "Registered layout", lookup: "Basic", expectedName: "Basic"},
		{name: "Unknown layout", lookup: "Cloze", expectedName: DefaultName},
		{name: "Empty name", lookup: "", expectedName: DefaultName},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Resolve(tc.lookup)
			if d.Name != tc.expectedName {
				t.Errorf("Expected name '%s', but got '%s'", tc.expectedName, d.Name)
			}
			if len(d.Formats) != 1 {
				t.Fatalf("Expected 1 format, but got %d", len(d.Formats))
			}
			f := d.Formats[0]
			if f.Question != "{{Front}}" {
				t.Errorf("Unexpected question format '%s'", f.Question)
			}
			if f.Answer != "{{FrontSide}}<hr id=answer>{{Back}}" {
				t.Errorf("Unexpected answer format '%s'", f.Answer)
			}
		})
	}
}

func TestResolveReturnsCopy(t *testing.T) {
	d := Resolve(Basic)
	d.Formats[0].Question = "changed"

	if Resolve(Basic).Formats[0].Question != "{{Front}}" {
		t.Error("Expected registry to be unaffected by caller mutation")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 1 || names[0] != Basic {
		t.Errorf("Expected [Basic], but got %v", names)
	}
}
