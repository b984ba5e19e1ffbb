package seed

import (
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"
)

var answerStarters = []string{
	"I think that",
	"In my opinion,",
	"From what I've learned,",
	"Based on my experience,",
	"I believe",
	"It seems to me that",
	"I would say that",
	"One thing I've noticed is",
	"Personally, I feel",
	"I've found that",
}

var answerBodies = []string{
	"the key is to consider multiple perspectives and stay open-minded.",
	"we need to balance theory with practical application.",
	"collaboration and communication are essential for success.",
	"it helps to break things down into smaller, manageable steps.",
	"understanding the fundamentals makes everything else easier.",
	"there's often more than one right approach to a problem.",
	"feedback and iteration lead to better outcomes.",
	"context matters a lot—what works in one situation may not in another.",
	"we should question assumptions and look for evidence.",
	"connecting ideas across different areas can lead to new insights.",
	"practice and repetition build confidence over time.",
	"asking questions is just as important as having answers.",
	"diversity of thought strengthens the overall result.",
	"we need to be mindful of unintended consequences.",
	"simplicity often beats complexity when possible.",
}

// Empty closers keep some answers from sounding formulaic.
var answerClosers = []string{
	"That's my take on it.",
	"Would love to hear others' thoughts.",
	"Curious what the rest of the class thinks.",
	"Hope this adds to the discussion.",
	"",
	"",
	"",
}

var questionRefs = []string{
	"Regarding this, ",
	"On this topic, ",
	"For this question, ",
}

const questionRefChance = 0.3

// Synthesizer composes free-text answers from reusable phrase fragments.
type Synthesizer struct {
	rng *rand.Rand
}

// NewSynthesizer returns a synthesizer drawing from rng.
func NewSynthesizer(rng *rand.Rand) *Synthesizer {
	return &Synthesizer{rng: rng}
}

// Synthesize builds a plausible answer: one starter, one body, one (possibly
// empty) closer, joined with single spaces. A non-empty question occasionally
// gains a referential lead-in; the question's content is never analyzed.
func (s *Synthesizer) Synthesize(question string) string {
	parts := []string{
		answerStarters[s.rng.IntN(len(answerStarters))],
		answerBodies[s.rng.IntN(len(answerBodies))],
		answerClosers[s.rng.IntN(len(answerClosers))],
	}

	kept := parts[:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	answer := strings.Join(kept, " ")

	if question != "" && s.rng.Float64() < questionRefChance {
		ref := questionRefs[s.rng.IntN(len(questionRefs))]
		first, size := utf8.DecodeRuneInString(answer)
		answer = ref + string(unicode.ToLower(first)) + answer[size:]
	}
	return answer
}
