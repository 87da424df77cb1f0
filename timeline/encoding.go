package timeline

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// document is the serialized form of a Transcript. word_segments and text are
// written for consumers and ignored on decode.
type document struct {
	Language     string    `json:"language" yaml:"language"`
	Segments     []Segment `json:"segments" yaml:"segments"`
	WordSegments []Word    `json:"word_segments" yaml:"word_segments"`
	Text         string    `json:"text" yaml:"text"`
}

func (t Transcript) document() document {
	segments := make([]Segment, len(t.Segments))
	for i, s := range t.Segments {
		if s.Words == nil {
			s.Words = []Word{}
		}
		segments[i] = s
	}
	return document{
		Language:     t.Language,
		Segments:     segments,
		WordSegments: t.Words(),
		Text:         t.Text(),
	}
}

func (t *Transcript) fromDocument(d document) {
	t.Language = d.Language
	t.Segments = d.Segments
	if t.Segments == nil {
		t.Segments = []Segment{}
	}
}

// MarshalJSON writes language, segments, word_segments and text.
func (t Transcript) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.document())
}

// UnmarshalJSON reads language and segments; derived fields are recomputed.
func (t *Transcript) UnmarshalJSON(data []byte) error {
	var d document
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	t.fromDocument(d)
	return nil
}

// MarshalYAML writes the same document shape as MarshalJSON.
func (t Transcript) MarshalYAML() (interface{}, error) {
	return t.document(), nil
}

// UnmarshalYAML reads language and segments; derived fields are recomputed.
func (t *Transcript) UnmarshalYAML(value *yaml.Node) error {
	var d document
	if err := value.Decode(&d); err != nil {
		return err
	}
	t.fromDocument(d)
	return nil
}
