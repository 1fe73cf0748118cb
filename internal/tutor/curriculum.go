package tutor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/skillora/internal/record"
)

// MinGrade and MaxGrade bound the supported grade levels.
const (
	MinGrade = 1
	MaxGrade = 12
)

// gradeTopics lists the topics offered per grade and subject.
var gradeTopics = map[int]map[record.Subject][]string{
	1: {
		record.SubjectMath:    {"Addition within 20", "Subtraction within 20", "Counting & Place Value", "Basic Shapes", "Comparing Numbers"},
		record.SubjectReading: {"Phonics & Decoding", "Sight Words", "Story Comprehension", "Vocabulary", "Sequencing"},
	},
	2: {
		record.SubjectMath:    {"Addition within 100", "Subtraction within 100", "Place Value", "Telling Time", "Multiplication Intro"},
		record.SubjectReading: {"Reading Comprehension", "Vocabulary & Context Clues", "Characters & Setting", "Cause & Effect", "Author's Purpose"},
	},
	3: {
		record.SubjectMath:    {"Multiplication ×1–×10", "Division Basics", "Fractions", "Area & Perimeter", "Rounding Numbers"},
		record.SubjectReading: {"Story Elements", "Vocabulary Building", "Inference & Prediction", "Non-fiction Comprehension", "Point of View"},
	},
	4: {
		record.SubjectMath:    {"Multi-digit Multiplication", "Long Division", "Equivalent Fractions", "Decimal Intro", "Factors & Multiples"},
		record.SubjectReading: {"Figurative Language", "Author's Craft", "Summarizing", "Compare & Contrast", "Informational Text"},
	},
	5: {
		record.SubjectMath:    {"Fraction Operations", "Decimal Operations", "Volume", "Coordinate Plane", "Order of Operations"},
		record.SubjectReading: {"Literary Analysis", "Theme & Moral", "Author's Purpose", "Text Structure", "Drawing Conclusions"},
	},
	6: {
		record.SubjectMath:    {"Ratios & Proportions", "Percent", "Integer Operations", "Expressions & Equations", "Statistics"},
		record.SubjectReading: {"Poetry & Figurative Language", "Novel Comprehension", "Argumentative Text", "Analyzing Characters", "Research Skills"},
	},
	7: {
		record.SubjectMath:    {"Proportional Relationships", "Negative Numbers", "Linear Equations", "Inequalities", "Probability"},
		record.SubjectReading: {"Rhetoric & Persuasion", "Literary Devices", "Comparing Texts", "Tone & Mood", "Informational Analysis"},
	},
	8: {
		record.SubjectMath:    {"Systems of Equations", "Pythagorean Theorem", "Functions & Graphs", "Scientific Notation", "Transformations"},
		record.SubjectReading: {"Advanced Literary Analysis", "Argumentative Reading", "Historical Text", "Satire & Irony", "Theme Analysis"},
	},
	9: {
		record.SubjectMath:    {"Linear Equations", "Quadratic Equations", "Polynomials", "Factoring", "Radical Expressions"},
		record.SubjectReading: {"Classical Literature", "Critical Reading", "Symbolism & Allegory", "Author's Bias", "Essay Comprehension"},
	},
	10: {
		record.SubjectMath:    {"Geometry Proofs", "Trigonometry", "Circles & Theorems", "Coordinate Geometry", "Similarity & Congruence"},
		record.SubjectReading: {"Shakespearean Language", "Modernist Literature", "Rhetorical Analysis", "Comparative Literature", "SAT-Level Vocabulary"},
	},
	11: {
		record.SubjectMath:    {"Quadratic Functions", "Polynomial Functions", "Exponential & Logs", "Sequences & Series", "Statistics & Normal Distribution"},
		record.SubjectReading: {"AP-Level Comprehension", "Advanced Rhetoric", "World Literature", "Critical Analysis", "Research & Citations"},
	},
	12: {
		record.SubjectMath:    {"Limits & Pre-Calculus", "Derivatives", "Integration", "Vectors & Matrices", "Combinatorics & Probability"},
		record.SubjectReading: {"College-Level Reading", "Philosophical Texts", "Advanced Argumentation", "Synthesis of Sources", "Literary Criticism"},
	},
}

// Buddies are the tutor avatars a student can pick from.
var Buddies = []string{"🦁", "🐼", "🦊", "🐨", "🐸", "🦄", "🐯", "🐺"}

var gradeIcons = map[int]string{
	1: "⭐", 2: "🌟", 3: "💫", 4: "✨", 5: "🔥", 6: "⚡",
	7: "🚀", 8: "🌙", 9: "💎", 10: "🏆", 11: "🎓", 12: "👑",
}

// Subjects lists the supported subjects in display order.
var Subjects = []record.Subject{record.SubjectMath, record.SubjectReading}

// Topics returns the topics for a grade and subject, or nil if either is
// unsupported.
func Topics(grade int, subject record.Subject) []string {
	topics := gradeTopics[grade][subject]
	if topics == nil {
		return nil
	}
	out := make([]string, len(topics))
	copy(out, topics)
	return out
}

// GradeIcon returns the badge shown next to a grade.
func GradeIcon(grade int) string {
	return gradeIcons[grade]
}

// Buddy returns the avatar at index i, wrapping around the list.
func Buddy(i int) string {
	n := len(Buddies)
	return Buddies[((i%n)+n)%n]
}

// SubjectLabel returns the display label for a subject.
func SubjectLabel(s record.Subject) string {
	switch s {
	case record.SubjectMath:
		return "🔢 Math"
	case record.SubjectReading:
		return "📖 Reading"
	}
	return string(s)
}

// Profile is everything needed to start a tutoring session.
type Profile struct {
	StudentID string
	Name      string
	Grade     int
	Subject   record.Subject
	Topic     string
	// Buddy indexes Buddies.
	Buddy int
}

var (
	ErrMissingName  = errors.New("student name is required")
	ErrInvalidGrade = fmt.Errorf("grade must be between %d and %d", MinGrade, MaxGrade)
	ErrInvalidTopic = errors.New("topic is required")
)

// ValidateProfile checks that p describes a session that can start.
// Topics outside the curriculum table are allowed so long as they are not
// blank.
func ValidateProfile(p Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	if p.Grade < MinGrade || p.Grade > MaxGrade {
		return ErrInvalidGrade
	}
	if !p.Subject.Valid() {
		return fmt.Errorf("unsupported subject %q", p.Subject)
	}
	if strings.TrimSpace(p.Topic) == "" {
		return ErrInvalidTopic
	}
	return nil
}
