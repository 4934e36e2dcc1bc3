package service

import "regexp"

// Keyword tables used by the lexical scorer and the pretrained classifier.
// Entries are lower-case and matched as substrings of the normalized text.

// QuestionWords are interrogative words checked at the start of and anywhere in a message
var QuestionWords = []string{
	"what", "when", "where", "who", "whom", "whose", "which", "why", "how",
	"can", "could", "would", "should", "will", "do", "does", "did", "is", "are",
	"was", "were", "have", "has", "had", "may", "might", "must",
}

// ComplaintWords indicate dissatisfaction; the first match is cited in reasons
var ComplaintWords = []string{
	"terrible", "awful", "horrible", "worst", "bad", "broken", "useless",
	"disappointed", "disappointing", "frustrating", "frustrated", "angry",
	"upset", "unacceptable", "poor", "failed", "failure", "never works",
	"doesn't work", "not working", "issue", "problem", "bug", "error",
	"hate", "ridiculous", "pathetic", "disgusted", "waste", "wrong",
	"crash", "crashing", "waiting", "hours", "refund", "unhappy", "quality",
	"worse", "service", "support", "fix", "constantly", "stop",
}

// NegativePhrases each add a fixed bonus to the complaint score
var NegativePhrases = []string{
	"not working", "doesn't work", "won't work", "can't use",
	"not satisfied", "very disappointed", "extremely frustrated",
	"keeps crashing", "waiting for", "want a refund", "never works",
}

// PositiveWords indicate feedback or praise
var PositiveWords = []string{
	"great", "good", "excellent", "amazing", "wonderful", "fantastic",
	"awesome", "love", "like", "enjoy", "enjoyed", "helpful", "useful",
	"appreciate", "appreciated", "thanks", "thank you", "perfect",
	"impressed", "happy", "pleased", "nice", "beautiful", "brilliant",
}

// personalComplaintPattern matches "I am/was/have been [word] <negative emotion>"
var personalComplaintPattern = regexp.MustCompile(
	`\bi(\s+(am|was|have been)|'m|'ve been)\s+(\w+\s+)?(disappointed|frustrated|upset|angry|unhappy)\b`,
)

// opinionPatterns mark first-person declarative statements
var opinionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bi think\b`),
	regexp.MustCompile(`\bi believe\b`),
	regexp.MustCompile(`\bin my opinion\b`),
	regexp.MustCompile(`\bi feel\b`),
	regexp.MustCompile(`\bi would say\b`),
	regexp.MustCompile(`\bjust wanted to\b`),
}

// ModelQuestionWords short-circuit the model path when a message starts with one of them
var ModelQuestionWords = []string{
	"what", "when", "where", "who", "whom", "whose", "which",
	"why", "how", "can", "could", "would", "should", "will",
	"do", "does", "did", "is", "are", "was", "were",
}

// ModelComplaintIndicators raise confidence for negative-sentiment predictions
var ModelComplaintIndicators = []string{
	"problem", "issue", "broken", "doesn't work", "not working",
	"terrible", "awful", "bad", "worst", "frustrated", "disappointed",
	"hate", "horrible", "useless", "never works", "keeps crashing",
	"want a refund", "unacceptable", "angry", "upset",
}

// ModelPositiveIndicators raise confidence for positive-sentiment predictions
var ModelPositiveIndicators = []string{
	"great", "good", "love", "excellent", "amazing", "thanks",
	"appreciate", "awesome", "fantastic", "wonderful",
}
