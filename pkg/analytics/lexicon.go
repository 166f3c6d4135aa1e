package analytics

// Static valence lexicon for sentiment scoring. Values follow the usual
// VADER convention of roughly [-4, 4] before normalization. The table is
// read-only after process start and safely shared across concurrent
// analyses.
var valenceLexicon = map[string]float64{
	// Positive
	"good": 1.9, "great": 3.1, "excellent": 2.7, "amazing": 2.8, "wonderful": 2.7,
	"fantastic": 2.6, "awesome": 3.1, "brilliant": 2.8, "perfect": 2.7, "outstanding": 3.1,
	"love": 3.2, "like": 1.5, "enjoy": 2.0, "happy": 2.7, "pleased": 1.9,
	"satisfied": 1.7, "delighted": 2.9, "thrilled": 3.0, "excited": 2.2, "glad": 2.0,
	"thank": 1.9, "thanks": 1.9, "appreciate": 1.8, "appreciated": 1.8, "grateful": 2.3,
	"help": 1.7, "helpful": 1.8, "helped": 1.7, "please": 1.3, "welcome": 1.6,
	"resolved": 1.6, "solved": 1.6, "fixed": 1.4, "working": 1.1, "works": 1.1,
	"easy": 1.5, "fast": 1.3, "quick": 1.2, "nice": 1.8, "best": 3.2,
	"yes": 1.1, "sure": 1.3, "absolutely": 1.6, "certainly": 1.4, "fine": 1.0,
	"success": 2.3, "successful": 2.4, "smooth": 1.4, "reliable": 1.9,

	// Negative
	"bad": -2.5, "terrible": -2.9, "awful": -3.0, "horrible": -3.0, "disgusting": -2.9,
	"hate": -2.7, "dislike": -1.6, "angry": -2.2, "mad": -2.2, "furious": -3.1,
	"sad": -2.1, "upset": -2.0, "disappointed": -2.1, "disappointing": -2.2, "frustrated": -2.3,
	"frustrating": -2.4, "annoyed": -1.9, "annoying": -2.0, "unhappy": -1.9, "dissatisfied": -2.0,
	"broken": -1.9, "fail": -2.3, "failed": -2.3, "failure": -2.4, "useless": -2.2,
	"worst": -3.1, "wrong": -2.1, "problem": -1.7, "problems": -1.7, "issue": -1.2,
	"issues": -1.2, "trouble": -1.8, "slow": -1.3, "outage": -1.6, "down": -1.2,
	"complaint": -1.6, "complain": -1.5, "unacceptable": -2.6, "ridiculous": -2.2,
	"scam": -2.8, "cheated": -2.5, "lied": -2.6, "ignored": -2.0, "rude": -2.4,
	"waiting": -0.9, "waited": -0.9, "cancel": -1.2, "cancelled": -1.3, "canceled": -1.3,
	"sorry": -0.6, "apologize": -0.4, "unfortunately": -1.1, "impossible": -1.7,
	"never": -1.1, "nothing": -1.0, "lost": -1.6, "stuck": -1.4, "confused": -1.3,
	"overcharged": -2.2, "expensive": -1.4, "costly": -1.2, "late": -1.1,
}

// Intensifiers scale the magnitude of a following sentiment word.
var intensifierLexicon = map[string]float64{
	"very": 1.3, "extremely": 1.5, "really": 1.2, "quite": 1.1, "rather": 1.1,
	"absolutely": 1.4, "completely": 1.4, "totally": 1.4, "incredibly": 1.5,
	"so": 1.2, "super": 1.3, "highly": 1.25, "remarkably": 1.3, "especially": 1.25,
	"slightly": 0.8, "somewhat": 0.85, "kind": 0.9, "kinda": 0.9, "barely": 0.75,
}

// Negators flip and dampen the valence of a following sentiment word.
var negatorLexicon = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nor": {}, "nobody": {},
	"none": {}, "nothing": {}, "nowhere": {}, "without": {}, "hardly": {},
	"isn't": {}, "aren't": {}, "wasn't": {}, "weren't": {}, "don't": {},
	"doesn't": {}, "didn't": {}, "won't": {}, "wouldn't": {}, "can't": {},
	"cannot": {}, "couldn't": {}, "shouldn't": {}, "haven't": {}, "hasn't": {},
	"hadn't": {}, "ain't": {},
}

// Stop words excluded from key phrase candidates.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {}, "will": {},
	"would": {}, "could": {}, "should": {}, "may": {}, "might": {}, "can": {},
	"must": {}, "shall": {}, "i": {}, "you": {}, "he": {}, "she": {}, "it": {},
	"we": {}, "they": {}, "me": {}, "him": {}, "her": {}, "us": {}, "them": {},
	"my": {}, "your": {}, "his": {}, "its": {}, "our": {}, "their": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "what": {}, "which": {},
	"who": {}, "where": {}, "when": {}, "why": {}, "how": {}, "there": {},
	"here": {}, "am": {}, "im": {}, "i'm": {}, "so": {}, "just": {}, "very": {},
	"now": {}, "then": {}, "if": {}, "as": {}, "about": {}, "into": {}, "out": {},
	"up": {}, "okay": {}, "ok": {}, "yeah": {}, "yes": {}, "no": {}, "hello": {},
	"hi": {}, "thanks": {}, "thank": {}, "please": {},
}
