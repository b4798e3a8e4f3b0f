package model

import (
	"github.com/conorfennell/knolpack/internal/domain"
	"github.com/conorfennell/knolpack/internal/template"
)

// Name is the display name of the exported note type.
const Name = "Basic Model"

// CSS styles every card of the model.
const CSS = ".card { font-family: arial; font-size: 20px; text-align: center; color: black; background: white; }"

// Field ids are fixed values the importer is known to accept; they are
// never regenerated.
const (
	frontFieldID int64 = 2323801605438783780
	backFieldID  int64 = -5665546453123341833
)

// Build returns the two-field note type used for every export. The
// template list comes from desc, one template per format.
func Build(modelID, deckID, now int64, desc template.Descriptor) domain.Model {
	tmpls := make([]domain.CardTemplate, 0, len(desc.Formats))
	for i, f := range desc.Formats {
		tmpls = append(tmpls, domain.CardTemplate{
			Name:           f.Name,
			Ord:            i,
			QuestionFormat: f.Question,
			AnswerFormat:   f.Answer,
		})
	}

	return domain.Model{
		ID:   modelID,
		Name: Name,
		Fields: []domain.Field{
			field("Front", 0, frontFieldID),
			field("Back", 1, backFieldID),
		},
		Templates: tmpls,
		CSS:       CSS,
	}
}

func field(name string, ord int, id int64) domain.Field {
	return domain.Field{
		Name: name,
		Ord:  ord,
		Font: "Arial",
		Size: 20,
		ID:   id,
	}
}

// Requirements returns the req entry of the model registry: for each
// template, the field ordinals that must be non-empty to produce a card.
func Requirements(m domain.Model) []any {
	ords := make([]int, 0, len(m.Fields))
	for _, f := range m.Fields {
		ords = append(ords, f.Ord)
	}
	req := make([]any, 0, len(m.Templates))
	for _, t := range m.Templates {
		req = append(req, []any{t.Ord, "all", ords})
	}
	return req
}
