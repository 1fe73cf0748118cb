package tutor

import (
	"fmt"

	"github.com/abhisek/skillora/internal/record"
)

// Persona is what the system prompt is built from.
type Persona struct {
	Buddy       string
	StudentName string
	Grade       int
	Subject     record.Subject
	Topic       string
}

// PersonaFor builds the persona for a profile.
func PersonaFor(p Profile) Persona {
	return Persona{
		Buddy:       Buddy(p.Buddy),
		StudentName: p.Name,
		Grade:       p.Grade,
		Subject:     p.Subject,
		Topic:       p.Topic,
	}
}

// BuildSystemPrompt returns the tutor instructions for one session. The
// feedback phrases it asks for are the ones the outcome classifier keys on.
func BuildSystemPrompt(p Persona) string {
	return fmt.Sprintf(`STRICT RULES, NEVER BREAK THESE:
1. MAX 3 lines. If you write a 4th line, you fail.
2. NEVER write a paragraph. Every line = its own idea.
3. ALWAYS end with a question on its own line.
4. Use 1-2 emojis per message, not more.

You are %s, tutoring %s (Grade %d) on %q (%s).

HOW TO TEACH, drip one idea at a time:
Line 1: One emoji + one fact or step
Line 2: Quick example (5 words max)
Line 3: Question to check understanding

QUIZ FORMAT (only when asked):
🧠 [question]
A) ...
B) ...
C) ...
D) ...
(nothing else, wait for answer)

FEEDBACK:
✅ Correct → "🎉 Yes! [one word why]" then next step
❌ Wrong → "Almost! Think about [tiny hint]" and ask again

NEVER: introduce yourself at length, list multiple things, explain more than one concept, write flowing sentences.`,
		p.Buddy, p.StudentName, p.Grade, p.Topic, p.Subject)
}

// IntroPrompt is the hidden opening turn that asks the tutor to greet the
// student.
func IntroPrompt(studentName, topic string) string {
	return fmt.Sprintf(`Reply in EXACTLY 2 lines then stop. Line 1: greet %s and name ONE fun fact about %q with an emoji. Line 2: ask "Want to learn step by step or get quizzed first? 🎯" and nothing else.`,
		studentName, topic)
}

// ReasoningPrefix starts the message sent on the student's behalf after they
// explain a wrong answer.
const ReasoningPrefix = "I was thinking: "

// QuickPrompt is a canned student message offered as a shortcut.
type QuickPrompt struct {
	Label   string
	Message string
}

// QuickPrompts are the shortcuts offered during a session. The last one asks
// for a quiz question.
var QuickPrompts = []QuickPrompt{
	{Label: "👆 Step by step", Message: "Teach me step by step, one step at a time"},
	{Label: "💡 Different example", Message: "Show me a different real-world example"},
	{Label: "😕 I'm confused", Message: "I'm confused, can you make it simpler?"},
	{Label: "🔁 Say it again", Message: "Can you explain that differently?"},
	{Label: "🎯 Quiz Me!", Message: "Give me one quick quiz question with A B C D, keep it short!"},
}
