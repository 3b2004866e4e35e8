package extract

// VerseRecord is the canonical structured output unit, one document per verse.
type VerseRecord struct {
	TopicID       string `json:"topicId"`
	TopicName     string `json:"topicName"`
	VerseRef      string `json:"verse"` // display reference, e.g. "Genesis 1:1"
	ScriptureText string `json:"scriptureText"`
	Religion      string `json:"religion"`
	Qualities     string `json:"qualities"` // comma-joined
	Meaning       string `json:"meaning"`
	Book          string `json:"book"`
	Chapter       string `json:"chapter"`
	Tags          string `json:"tags"` // comma-joined
}
