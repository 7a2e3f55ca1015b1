package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/shedtally/internal/model"
)

// Document is a stored session as read back from storage or a cache file.
// Besides the current session fields it carries the tally fields older
// versions of the app wrote, so every historical shape can be aggregated.
type Document struct {
	ID string `json:"-"`
	model.Session
	Tallies        []FlatTally    `json:"tallies,omitempty"`
	Shearers       []Shearer      `json:"shearers,omitempty"`
	ShearerTallies OrderedTallies `json:"shearerTallies,omitempty"`
}

// NewDocument wraps a current-format session.
func NewDocument(id string, sess model.Session) Document {
	return Document{ID: id, Session: sess}
}

// Records normalizes the document into per-shearer tally records.
func (d Document) Records() []model.TallyRecord {
	return Detect(d).Records()
}

// FlatTally is one entry of the flat "tallies" list.
type FlatTally struct {
	ShearerName string
	SheepType   string
	Date        string
	Count       model.Tally
}

// UnmarshalJSON accepts the name under "shearerName", "shearer" or "name",
// and the count under "count" or "total".
func (f *FlatTally) UnmarshalJSON(data []byte) error {
	var raw struct {
		ShearerName string      `json:"shearerName"`
		Shearer     string      `json:"shearer"`
		Name        string      `json:"name"`
		SheepType   string      `json:"sheepType"`
		Date        string      `json:"date"`
		Count       model.Tally `json:"count"`
		Total       model.Tally `json:"total"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = FlatTally{
		ShearerName: firstNonBlank(raw.ShearerName, raw.Shearer, raw.Name),
		SheepType:   raw.SheepType,
		Date:        raw.Date,
		Count:       raw.Count,
	}
	if f.Count.IsEmpty() {
		f.Count = raw.Total
	}
	return nil
}

// MarshalJSON writes the canonical keys.
func (f FlatTally) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ShearerName string      `json:"shearerName"`
		SheepType   string      `json:"sheepType,omitempty"`
		Date        string      `json:"date,omitempty"`
		Count       model.Tally `json:"count"`
	}{f.ShearerName, f.SheepType, f.Date, f.Count})
}

// Run is one run of a legacy shearer record: a bare count or {count, sheepType}.
type Run struct {
	SheepType string
	Count     model.Tally
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Run) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		var raw struct {
			SheepType string      `json:"sheepType"`
			Count     model.Tally `json:"count"`
			Total     model.Tally `json:"total"`
		}
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		r.SheepType = raw.SheepType
		r.Count = raw.Count
		if r.Count.IsEmpty() {
			r.Count = raw.Total
		}
		return nil
	}
	*r = Run{}
	return json.Unmarshal(data, &r.Count)
}

// MarshalJSON implements json.Marshaler.
func (r Run) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		SheepType string      `json:"sheepType,omitempty"`
		Count     model.Tally `json:"count"`
	}{r.SheepType, r.Count})
}

// Shearer is an entry of the legacy "shearers" list, carrying either runs or a total.
type Shearer struct {
	Name      string
	SheepType string
	Total     model.Tally
	Runs      []Run
	hasRuns   bool
}

// HasRuns reports whether the record carried a "runs" array.
func (s Shearer) HasRuns() bool {
	return s.hasRuns
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Shearer) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name      string          `json:"name"`
		SheepType string          `json:"sheepType"`
		Total     model.Tally     `json:"total"`
		Runs      json.RawMessage `json:"runs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Shearer{Name: raw.Name, SheepType: raw.SheepType, Total: raw.Total}

	runs := bytes.TrimSpace(raw.Runs)
	if len(runs) > 0 && runs[0] == '[' {
		s.hasRuns = true
		return json.Unmarshal(runs, &s.Runs)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Shearer) MarshalJSON() ([]byte, error) {
	out := map[string]any{"name": s.Name}
	if s.SheepType != "" {
		out["sheepType"] = s.SheepType
	}
	if s.hasRuns || len(s.Runs) > 0 {
		runs := s.Runs
		if runs == nil {
			runs = []Run{}
		}
		out["runs"] = runs
	} else {
		out["total"] = s.Total
	}
	return json.Marshal(out)
}

// NamedRuns is one key of the legacy "shearerTallies" object.
type NamedRuns struct {
	Name string
	Runs []Run
}

// OrderedTallies is the legacy {name: [counts]} object, decoded in key order so
// that leaderboard ties still break by first appearance.
type OrderedTallies []NamedRuns

// UnmarshalJSON implements json.Unmarshaler.
func (o *OrderedTallies) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("shearerTallies: expected object, got %v", tok)
	}

	var out OrderedTallies
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}

		var runs []Run
		if trimmed := bytes.TrimSpace(value); len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &runs); err != nil {
				return err
			}
		} else {
			var single Run
			if err := json.Unmarshal(value, &single); err != nil {
				return err
			}
			runs = []Run{single}
		}
		out = append(out, NamedRuns{Name: name, Runs: runs})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*o = out
	return nil
}

// MarshalJSON writes the object back in key order.
func (o OrderedTallies) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, nr := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(nr.Name)
		if err != nil {
			return nil, err
		}
		runs := nr.Runs
		if runs == nil {
			runs = []Run{}
		}
		value, err := json.Marshal(runs)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeDocument parses one stored document. Anything unparseable yields false
// and an empty document; it is never an error.
func DecodeDocument(data []byte) (Document, bool) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Debug("discarding unparseable session document", "error", err)
		return Document{}, false
	}
	return doc, true
}

// DecodeDocuments parses a JSON array of documents, or a single document.
// Unparseable elements are skipped and an unparseable payload yields nil.
func DecodeDocuments(data []byte) []Document {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '{' {
		if doc, ok := DecodeDocument(trimmed); ok {
			return []Document{doc}
		}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		slog.Debug("discarding unparseable session list", "error", err)
		return nil
	}
	docs := make([]Document, 0, len(raw))
	for _, r := range raw {
		if doc, ok := DecodeDocument(r); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
