package extract

// Format is the response shape a schema asks the model for.
type Format int

const (
	// FormatDelimited expects blank-line-separated key:value blocks.
	FormatDelimited Format = iota
	// FormatJSON expects a JSON object with a "verses" list and an
	// optional "carry_over_context" string.
	FormatJSON
)

// Field is one output field in a schema: either an instruction hint the model
// fills in, or a pinned literal value.
type Field struct {
	Name    string
	Hint    string
	Literal string
}

// Schema describes the record format requested from the model for one source.
type Schema struct {
	SourceName string // e.g. "Bible", used in the analyzer role line
	Format     Format
	Fields     []Field
}

// BibleSchema is the delimited schema for the JSON Bible source.
func BibleSchema() Schema {
	return Schema{
		SourceName: "Bible",
		Format:     FormatDelimited,
		Fields: []Field{
			{Name: "topicId", Hint: "<BookName_ChapterNumber_VerseNumber>"},
			{Name: "topicName", Hint: "<A short, descriptive topic name for the verse>"},
			{Name: "verse", Hint: "<BookName Chapter:VerseNumber>"},
			{Name: "scriptureText", Hint: "<The actual verse text>"},
			{Name: "religion", Literal: "Christianity"},
			{Name: "qualities", Hint: "<Comma-separated qualities or virtues found in the verse>"},
			{Name: "meaning", Hint: "<A single descriptive paragraph explaining the verse's meaning. Must be a plain string.>"},
			{Name: "book", Hint: "<Book Name>"},
			{Name: "chapter", Hint: "<Chapter Number>"},
			{Name: "tags", Hint: "<Comma-separated tags relevant to the verse content>"},
		},
	}
}

// QuranSchema is the delimited schema for the Quran PDF source.
func QuranSchema() Schema {
	return Schema{
		SourceName: "Quran",
		Format:     FormatDelimited,
		Fields: []Field{
			{Name: "topicId", Hint: "<chapter_verse>"},
			{Name: "topicName", Hint: "<short topic name>"},
			{Name: "verse", Hint: "<chapter:verse>"},
			{Name: "scriptureText", Hint: "<the actual verse text>"},
			{Name: "religion", Literal: "Islam"},
			{Name: "qualities", Hint: "<comma-separated qualities>"},
			{Name: "meaning", Hint: "<single descriptive paragraph, plain string>"},
			{Name: "book", Literal: "Quran"},
			{Name: "chapter", Hint: "<chapter number>"},
			{Name: "tags", Hint: "<comma-separated tags>"},
		},
	}
}

// GitaSchema is the JSON schema for the Bhagavad Gita PDF source. Verse
// numbers follow the "TEXT <n>" section headings in the print edition.
func GitaSchema() Schema {
	return Schema{
		SourceName: "Bhagavad Gita",
		Format:     FormatJSON,
		Fields: []Field{
			{Name: "verse", Hint: "the number directly after the word TEXT (for \"TEXT 36\" the verse is 36)"},
			{Name: "topicName", Hint: "a descriptive topic name, never blank or \"None\""},
			{Name: "scriptureText", Hint: "the verse text"},
			{Name: "meaning", Hint: "a single descriptive paragraph explaining the verse"},
			{Name: "qualities", Hint: "qualities or virtues found in the verse"},
			{Name: "tags", Hint: "tags relevant to the verse content"},
		},
	}
}
