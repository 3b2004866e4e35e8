package ask

// lookupPrompt asks the model for the most relevant stored verse identifiers
// in the canonical keying scheme. Relevance filtering of off-topic questions
// lives in the prompt rules, not in code.
const lookupPrompt = `You are an assistant that finds relevant verses from the %[1]s.
The verse IDs are formatted like this: %[2]s.
IMPORTANT RULES:
1. If the user's question is NOT about the teachings, stories, or concepts within the %[1]s, you MUST return an empty array.
2. If the question is about a modern celebrity, politics, sports, or a topic from a different religion, it is irrelevant and gets an empty array.

User question: "%[3]s"

Return ONLY a JSON object with key "verses" and an array of the top 3-5 most relevant verse IDs. If the question is irrelevant, the array should be empty.
Do not include any explanation or extra text.
Example:
{
  "verses": %[4]s
}
`

// answerPrompt produces the plain-text explanation grounded in the fetched
// verses.
const answerPrompt = `You are an assistant that explains teachings from the %[1]s.

FORMATTING RULES:
1. Your entire response MUST be plain text. Do not use any markdown like asterisks for bolding or emphasis.
2. The main title and the title of each numbered point must be enclosed in double quotes.
3. The summary must be a numbered list.

CONTENT RULES (follow in this order):
1. If the user's question is nonsensical gibberish or an irrelevant topic, say that the question does not seem to be related to the %[1]s.
2. If the question is a single, meaningful keyword (e.g. 'life', 'karma'), expand it into a full topic first.
3. If the question is a full, relevant question, provide a comprehensive answer.

User question: "%[2]s"

Relevant verses:
%[3]s

Provide a comprehensive explanation based on the question and the verses, strictly following all rules provided above.
`

// comparativePrompt produces the multi-religion JSON comparison.
const comparativePrompt = `CRITICAL RULE: Your primary task is to determine if the user's question, "%[1]s", is directly related to the teachings, stories, or concepts within the religious texts of Hinduism (Bhagavad Gita), Islam (Quran), or Christianity (Bible).

If the question is about a modern political figure, a celebrity, sports, or any other topic NOT found in these scriptures, you MUST IGNORE all other instructions and respond ONLY with the following JSON object:
{
  "error": "This question does not seem to be related to the holy books."
}

If the question IS relevant, generate a detailed JSON response with the following structure:
- "topic": a short title for the user's question.
- "commonGround": a list of 5 single-word universal themes.
- "results": an array with one object per religion (Hinduism, Islam, Christianity), each containing "religion", "overallSummary", "perspectives" (with "perspectiveName", "summary", "adherencePercentage"), and "sharedConcepts".

BHAGAVAD GITA DATA:
%[2]s

QURAN DATA:
%[3]s

BIBLE DATA:
%[4]s

Respond with ONLY the raw JSON object, without any markdown or extra text.
`
