package session

import "strings"

// Phrases whose presence anywhere in the message signals the user is done.
// Matched as substrings of the lower-cased message.
var endingPhrases = []string{
	"goodbye",
	"bye",
	"thank",
	"thanks",
	"that's all",
	"that is all",
	"have a good",
	"talk later",
	"talk to you later",
	"ttyl",
	"appreciate",
	"until next time",
	"see you",
	"adios",
	"au revoir",
	"take care",
	"got what i needed",
	"all set",
	"good night",
	"good day",
}

const shortThanksWordLimit = 5

// IsConversationEnding reports whether the latest user message looks like a
// goodbye. A message matches when it contains one of the ending phrases, or
// when it is at most five words and contains a thank-you. The short-thanks
// branch exists to catch terse replies like "thanks!" independently of the
// phrase list.
func IsConversationEnding(message string) bool {
	lowered := strings.ToLower(message)
	for _, phrase := range endingPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	words := strings.Fields(lowered)
	if len(words) <= shortThanksWordLimit &&
		(strings.Contains(lowered, "thank") || strings.Contains(lowered, "thanks")) {
		return true
	}
	return false
}
