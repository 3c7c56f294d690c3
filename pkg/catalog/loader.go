package catalog

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Title      string     `json:"title" yaml:"title"`
	Completion Completion `json:"completion" yaml:"completion"`
	Steps      []stepFile `json:"steps" yaml:"steps"`
}

type stepFile struct {
	CategoryLabel string         `json:"categoryLabel" yaml:"categoryLabel"`
	CategoryName  string         `json:"categoryName" yaml:"categoryName"`
	HelperText    string         `json:"helperText" yaml:"helperText"`
	Questions     []questionFile `json:"questions" yaml:"questions"`
}

type questionFile struct {
	ID             any          `json:"id" yaml:"id"`
	Title          string       `json:"title" yaml:"title"`
	Type           any          `json:"type" yaml:"type"`
	TypeOfQuestion any          `json:"typeOfQuestion" yaml:"typeOfQuestion"`
	Choices        []choiceFile `json:"choices" yaml:"choices"`
	Answers        []choiceFile `json:"answers" yaml:"answers"`
}

type choiceFile struct {
	Label       string `json:"label" yaml:"label"`
	Answer      string `json:"answer" yaml:"answer"`
	Order       *int   `json:"order" yaml:"order"`
	NumberOrder *int   `json:"numberOrder" yaml:"numberOrder"`
}

// Parse decodes a catalog document. JSON is tried first, then YAML; both a
// bare list of steps and an object with a "steps" key are accepted.
func Parse(data []byte, source string) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog: document %s is empty", source)
	}

	doc, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}

	steps, issues := convertSteps(doc.Steps)
	if len(issues) > 0 {
		reported := make(map[string]struct{}, len(issues))
		for _, issue := range issues {
			reported[issue.Path] = struct{}{}
		}
		for _, issue := range validate(normaliseSteps(steps)) {
			if _, dup := reported[issue.Path]; !dup {
				issues = append(issues, issue)
			}
		}
		return nil, &Error{Source: source, Issues: issues}
	}

	return build(source, steps, WithTitle(doc.Title), WithCompletion(doc.Completion))
}

// LoadFile reads and parses a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads and parses a catalog document from fsys.
func LoadFS(fsys fs.FS, name string) (*Catalog, error) {
	if fsys == nil {
		return nil, fmt.Errorf("catalog: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", name, err)
	}
	return Parse(data, name)
}

func parseDocument(data []byte, source string) (documentFile, error) {
	trimmed := bytes.TrimSpace(data)

	if trimmed[0] == '[' {
		var steps []stepFile
		if err := json.Unmarshal(trimmed, &steps); err == nil {
			return documentFile{Steps: steps}, nil
		}
	} else {
		var doc documentFile
		if err := json.Unmarshal(trimmed, &doc); err == nil {
			return doc, nil
		}
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return documentFile{}, fmt.Errorf("catalog: parse %s: invalid JSON or YAML", source)
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var steps []stepFile
		if err := node.Decode(&steps); err != nil {
			return documentFile{}, fmt.Errorf("catalog: parse %s: %w", source, err)
		}
		return documentFile{Steps: steps}, nil
	}

	var doc documentFile
	if err := node.Decode(&doc); err != nil {
		return documentFile{}, fmt.Errorf("catalog: parse %s: %w", source, err)
	}
	return doc, nil
}

func convertSteps(raw []stepFile) ([]Step, []Issue) {
	var issues []Issue
	steps := make([]Step, len(raw))
	for si, rs := range raw {
		label := rs.CategoryLabel
		if label == "" {
			label = rs.CategoryName
		}
		step := Step{
			CategoryLabel: label,
			HelperText:    rs.HelperText,
			Questions:     make([]Question, len(rs.Questions)),
		}
		for qi, rq := range rs.Questions {
			legacy := rq.Type == nil && rq.TypeOfQuestion != nil
			typeValue := rq.Type
			if legacy {
				typeValue = rq.TypeOfQuestion
			}
			answerType, err := parseAnswerType(typeValue)
			if err != nil {
				issues = append(issues, Issue{
					Path:    fmt.Sprintf("steps[%d].questions[%d].type", si, qi),
					Message: err.Error(),
				})
			}
			id := stringifyID(rq.ID)
			if legacy && id == legacyPhoneID && !answerType.HasChoices() {
				answerType = AnswerPhone
			}

			choices := rq.Choices
			if len(choices) == 0 {
				choices = rq.Answers
			}
			step.Questions[qi] = Question{
				ID:      id,
				Title:   rq.Title,
				Type:    answerType,
				Choices: convertChoices(choices),
			}
		}
		steps[si] = step
	}
	return steps, issues
}

func convertChoices(raw []choiceFile) []Choice {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Choice, len(raw))
	for i, rc := range raw {
		label := rc.Label
		if label == "" {
			label = rc.Answer
		}
		order := i + 1
		switch {
		case rc.Order != nil:
			order = *rc.Order
		case rc.NumberOrder != nil:
			order = *rc.NumberOrder
		}
		out[i] = Choice{Label: label, Order: order}
	}
	return out
}
