package core

import (
	"fmt"
	"unicode/utf8"
)

// ChatRule is one content check applied to an outgoing message body.
// Check returning true means the body VIOLATES the rule. Rules are pure and
// stateless; a town holds them in an ordered slice and evaluation order is
// part of the contract: the first violated rule's FailureMessage is what the
// sender sees.
type ChatRule struct {
	Name           string
	Check          func(body string) bool
	FailureMessage string
}

// DefaultMaxMessageLength is the message length limit applied when no other
// limit is configured.
const DefaultMaxMessageLength = 140

// DefaultBannedWords is the starter banned-term list.
var DefaultBannedWords = []string{"dang"}

// MaxLengthRule rejects bodies longer than limit characters. The limit is
// counted in runes, not bytes, so multi-byte text is not over-penalized.
func MaxLengthRule(limit int) ChatRule {
	return ChatRule{
		Name:           "isMessageOverMaxLength",
		Check:          func(body string) bool { return utf8.RuneCountInString(body) > limit },
		FailureMessage: fmt.Sprintf("Message is over %d characters.", limit),
	}
}

// BannedWordsRule rejects a body that is literally equal to one of the banned
// terms. This is whole-body equality, not substring containment: "dang" is
// rejected while "dang it" passes.
func BannedWordsRule(words []string) ChatRule {
	banned := make(map[string]struct{}, len(words))
	for _, w := range words {
		banned[w] = struct{}{}
	}
	return ChatRule{
		Name: "isMessageProfane",
		Check: func(body string) bool {
			_, hit := banned[body]
			return hit
		},
		FailureMessage: "Message contains bad words.",
	}
}

// DefaultChatRules returns the starter rule sequence in evaluation order.
func DefaultChatRules(maxLength int, bannedWords []string) []ChatRule {
	if maxLength <= 0 {
		maxLength = DefaultMaxMessageLength
	}
	if bannedWords == nil {
		bannedWords = DefaultBannedWords
	}
	return []ChatRule{
		MaxLengthRule(maxLength),
		BannedWordsRule(bannedWords),
	}
}
