package train

// stopwords contains English function words and high-frequency auxiliaries
// that carry no discriminative value for text classification.
var stopwords = map[string]struct{}{
	// Articles and determiners
	"a": {}, "an": {}, "the": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "some": {}, "any": {}, "each": {}, "every": {}, "all": {},
	"both": {}, "few": {}, "more": {}, "most": {}, "other": {}, "such": {},
	// Pronouns
	"i": {}, "me": {}, "my": {}, "mine": {}, "myself": {},
	"we": {}, "us": {}, "our": {}, "ours": {}, "ourselves": {},
	"you": {}, "your": {}, "yours": {}, "yourself": {},
	"he": {}, "him": {}, "his": {}, "himself": {},
	"she": {}, "her": {}, "hers": {}, "herself": {},
	"it": {}, "its": {}, "itself": {},
	"they": {}, "them": {}, "their": {}, "theirs": {}, "themselves": {},
	"who": {}, "whom": {}, "whose": {}, "which": {}, "what": {},
	// Auxiliaries and copulas
	"am": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"been": {}, "being": {}, "have": {}, "has": {}, "had": {}, "having": {},
	"do": {}, "does": {}, "did": {}, "doing": {}, "will": {}, "would": {},
	"shall": {}, "should": {}, "can": {}, "could": {}, "may": {},
	"might": {}, "must": {},
	// Conjunctions
	"and": {}, "but": {}, "or": {}, "nor": {}, "so": {}, "yet": {},
	"because": {}, "although": {}, "while": {}, "if": {}, "then": {},
	"than": {}, "as": {}, "whether": {},
	// Prepositions
	"of": {}, "in": {}, "on": {}, "at": {}, "by": {}, "for": {}, "with": {},
	"about": {}, "against": {}, "between": {}, "into": {}, "through": {},
	"during": {}, "before": {}, "after": {}, "above": {}, "below": {},
	"to": {}, "from": {}, "up": {}, "down": {}, "out": {}, "off": {},
	"over": {}, "under": {}, "again": {}, "further": {},
	// Adverbs and fillers
	"here": {}, "there": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"just": {}, "only": {}, "also": {}, "too": {}, "now": {},
	"own": {}, "same": {},
}

func isStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}
