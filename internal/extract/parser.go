package extract

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// StripFences removes markdown code fences the model sometimes wraps its
// output in despite instructions.
func StripFences(raw string) string {
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```", "")
	return strings.TrimSpace(raw)
}

// ParseDelimited converts blank-line-separated key:value blocks into records.
// Only the first ':' on a line splits key from value, so values may contain
// the separator. A line without a separator continues the previous key's
// value, joined with a single space. Blocks missing topicId are dropped, not
// fatal; the second return value counts them.
func ParseDelimited(raw string) ([]VerseRecord, int) {
	raw = StripFences(raw)

	var records []VerseRecord
	dropped := 0
	for _, block := range strings.Split(raw, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		fields := make(map[string]string)
		lastKey := ""
		for _, line := range strings.Split(block, "\n") {
			if key, value, ok := strings.Cut(line, ":"); ok {
				key = strings.TrimSpace(key)
				fields[key] = strings.TrimSpace(value)
				lastKey = key
				continue
			}
			// Continuation of the previous value, e.g. a multi-line meaning.
			if lastKey != "" && strings.TrimSpace(line) != "" {
				fields[lastKey] += " " + strings.TrimSpace(line)
			}
		}

		if fields["topicId"] == "" {
			slog.Warn("dropping block without topicId", "block", truncate(block, 80))
			dropped++
			continue
		}

		records = append(records, recordFromFields(fields))
	}

	return records, dropped
}

func recordFromFields(fields map[string]string) VerseRecord {
	return VerseRecord{
		TopicID:       fields["topicId"],
		TopicName:     fields["topicName"],
		VerseRef:      fields["verse"],
		ScriptureText: fields["scriptureText"],
		Religion:      fields["religion"],
		Qualities:     fields["qualities"],
		Meaning:       fields["meaning"],
		Book:          fields["book"],
		Chapter:       fields["chapter"],
		Tags:          fields["tags"],
	}
}

// jsonEnvelope is the structured-JSON response shape.
type jsonEnvelope struct {
	Verses           []jsonVerse `json:"verses"`
	CarryOverContext string      `json:"carry_over_context"`
}

type jsonVerse struct {
	Verse         flexString `json:"verse"`
	TopicName     string     `json:"topicName"`
	ScriptureText string     `json:"scriptureText"`
	Meaning       string     `json:"meaning"`
	Qualities     commaList  `json:"qualities"`
	Tags          commaList  `json:"tags"`
}

// ParseJSON decodes a structured-JSON response. A response that fails to
// decode yields an empty record set and empty carry-over so the run
// continues; a missing carry_over_context key defaults to an empty string.
func ParseJSON(raw string) ([]VerseRecord, string) {
	raw = StripFences(raw)

	var env jsonEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		slog.Warn("discarding undecodable model response", "error", err)
		return nil, ""
	}

	records := make([]VerseRecord, 0, len(env.Verses))
	for _, v := range env.Verses {
		records = append(records, VerseRecord{
			TopicName:     v.TopicName,
			VerseRef:      string(v.Verse),
			ScriptureText: v.ScriptureText,
			Meaning:       v.Meaning,
			Qualities:     string(v.Qualities),
			Tags:          string(v.Tags),
		})
	}
	return records, env.CarryOverContext
}

// flexString decodes a JSON string or number into a string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	// Tolerate anything else as empty rather than failing the envelope.
	*f = ""
	return nil
}

// commaList decodes a JSON string or array of strings into one comma-joined
// string, the storage form for qualities and tags.
type commaList string

func (c *commaList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = commaList(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*c = commaList(strings.Join(list, ", "))
		return nil
	}
	*c = ""
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
