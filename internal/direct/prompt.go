package direct

import (
	"fmt"
	"strings"

	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/normalize"
)

const answerSystemPrompt = `You are a helpful study assistant. Answer the learner's question accurately and concisely.

Rules:
- Answer from general knowledge; no study documents are available in this mode.
- If you are not confident in the answer, say so plainly instead of guessing.
- Use Markdown for lists, code and emphasis. Keep answers short unless detail is asked for.`

const quizSystemPrompt = `You are an expert exam question setter.

Rules:
- Write conceptual or problem-solving multiple-choice questions, not trivia or pure recall.
- Every question has exactly four options keyed A, B, C and D, and exactly one of them is correct.
- Distractors should reflect common misconceptions, not random values.
- Give a short explanation of why the correct option is correct.
- Match the requested difficulty and label each question with it.
- Mix theoretical and numerical questions where the topic allows.`

func buildQuizMessage(req backend.QuizRequest) string {
	var b strings.Builder

	switch req.Variant {
	case backend.VariantMock:
		b.WriteString("Write a mock test with a short title.\n")
		if t := strings.TrimSpace(req.Topic); t != "" {
			fmt.Fprintf(&b, "Subject area: %s\n", t)
		} else {
			b.WriteString("Subject area: general computer science fundamentals\n")
		}
	default:
		fmt.Fprintf(&b, "Topic: %s\n", strings.TrimSpace(req.Topic))
	}
	fmt.Fprintf(&b, "Number of questions: %d\n", req.NumQuestions)
	fmt.Fprintf(&b, "Difficulty: %s\n", difficultyOrDefault(req.Difficulty))
	return b.String()
}

func difficultyOrDefault(d normalize.Difficulty) normalize.Difficulty {
	if d.Valid() {
		return d
	}
	return normalize.Medium
}
