package payload

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Reason strings recorded for payloads classified as FieldMissing.
const (
	ReasonEmptyPayload  = "empty payload"
	ReasonFieldNotFound = "target field not found"
)

// Result describes the transformation of a single payload cell.
type Result struct {
	Text     string  // cell text to write back to the row
	Outcome  Outcome // classification of this cell
	Original string  // value before replacement, set only for OutcomeModified
	New      string  // value after replacement, set only for OutcomeModified
	Reason   string  // detail for OutcomeFieldMissing
	ParseErr string  // parser message for OutcomeMalformed
}

// Transformer applies a single field replacement rule to payload cells.
type Transformer struct {
	field   string
	search  string
	replace string
}

// NewTransformer creates a Transformer that rewrites the value of the first
// entry named field, replacing every occurrence of search with replace.
func NewTransformer(field, search, replace string) *Transformer {
	return &Transformer{field: field, search: search, replace: replace}
}

// Transform classifies and rewrites one payload cell. The returned Result
// always carries the text to write back: the canonical re-encoding when the
// payload parsed, the original text untouched when it did not.
func (t *Transformer) Transform(ctx context.Context, text string, row int) Result {
	logger := zerolog.Ctx(ctx)

	if strings.TrimSpace(text) == "" {
		logger.Debug().Int("row", row).Msg("payload cell is empty")
		return Result{Text: text, Outcome: OutcomeFieldMissing, Reason: ReasonEmptyPayload}
	}

	doc, err := parseDocument(text)
	if err != nil {
		logger.Warn().Int("row", row).Err(err).Msg("payload is not valid JSON")
		return Result{Text: text, Outcome: OutcomeMalformed, ParseErr: err.Error()}
	}

	result := Result{Outcome: OutcomeFieldMissing, Reason: ReasonFieldNotFound}
	for _, el := range doc {
		if el.entry == nil {
			continue
		}
		name, ok := el.entry.Name()
		if !ok || name != t.field {
			continue
		}

		// The first entry carrying the target name decides the outcome,
		// even when later entries share the name.
		value, _ := el.entry.Value()
		if t.search != "" && strings.Contains(value, t.search) {
			updated := strings.ReplaceAll(value, t.search, t.replace)
			el.entry.SetValue(updated)
			result = Result{Outcome: OutcomeModified, Original: value, New: updated}
			logger.Debug().Int("row", row).Str("from", value).Str("to", updated).Msg("field value replaced")
		} else {
			result = Result{Outcome: OutcomeUnchanged}
		}
		break
	}

	result.Text = encodeDocument(doc)
	return result
}

// element is one member of the decoded payload sequence: a parsed Entry when
// the member is a JSON object, raw bytes passed through verbatim otherwise.
type element struct {
	entry *Entry
	raw   json.RawMessage
}

// parseDocument decodes a payload cell into its element sequence. A bare
// object, or any other single JSON value, is treated as a sequence of one.
func parseDocument(text string) ([]element, error) {
	trimmed := strings.TrimSpace(text)

	var raws []json.RawMessage
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &raws); err != nil {
			return nil, errors.Errorf("parsing payload array: %w", err)
		}
	} else {
		var raw json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
			return nil, errors.Errorf("parsing payload: %w", err)
		}
		raws = []json.RawMessage{raw}
	}

	doc := make([]element, 0, len(raws))
	for i, raw := range raws {
		if len(raw) > 0 && raw[0] == '{' {
			entry := &Entry{}
			if err := json.Unmarshal(raw, entry); err != nil {
				return nil, errors.Errorf("parsing payload entry %d: %w", i, err)
			}
			doc = append(doc, element{entry: entry})
			continue
		}
		doc = append(doc, element{raw: raw})
	}
	return doc, nil
}

// encodeDocument renders the element sequence back to text. The result is
// always a JSON array, even when the source was a bare object.
func encodeDocument(doc []element) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, el := range doc {
		if i > 0 {
			buf.WriteByte(',')
		}
		if el.entry != nil {
			el.entry.appendTo(&buf)
			continue
		}
		buf.Write(el.raw)
	}
	buf.WriteByte(']')
	return buf.String()
}
