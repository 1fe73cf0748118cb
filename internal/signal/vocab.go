package signal

// FrustrationPhrases trigger an explicit_frustration classification when any
// of them appears anywhere in a lower-cased student message.
var FrustrationPhrases = []string{
	"stupid", "hate", "don't get", "dont get", "confused", "hard", "difficult",
	"impossible", "idk", "i don't know", "i dont know", "give up", "too hard",
	"can't", "cant", "whatever", "ugh", "help", "lost", "???",
}

// DisengagementWords trigger a disengagement classification when a short
// student message consists of exactly one of them.
var DisengagementWords = []string{
	"k", "ok", "okay", "sure", "yeah", "no", "nope", "...", "lol", "haha", "bye", "what", "huh",
}

// CorrectPhrases mark a tutor reply as confirming a correct answer.
var CorrectPhrases = []string{
	"correct", "right", "exactly", "perfect", "well done", "great job", "yes!",
	"that's it", "you got it", "nailed it", "awesome", "amazing", "brilliant", "🎉",
}

// WrongPhrases mark a tutor reply as rejecting the student's answer.
var WrongPhrases = []string{
	"not quite", "try again", "almost", "incorrect", "actually", "let me help",
	"not exactly", "close but", "oops", "hmm, not", "almost!",
}

// disengagementMaxLen is the exclusive upper bound on the trimmed message
// length for the disengagement rule.
const disengagementMaxLen = 8

// questionMinLen is the exclusive lower bound on a line's length for it to
// count as a tutor question.
const questionMinLen = 20
