package direct

import "github.com/abhisek/studybuddy/internal/llm"

// AnswerSchema is the response shape for a study question.
var AnswerSchema = &llm.Schema{
	Name:        "study-answer",
	Description: "An answer to a learner's study question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer": map[string]any{
				"type":        "string",
				"description": "A clear, concise answer in Markdown",
			},
		},
		"required":             []any{"answer"},
		"additionalProperties": false,
	},
}

func questionDefinition() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":        "string",
				"description": "The question stem",
			},
			"options": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"A": map[string]any{"type": "string"},
					"B": map[string]any{"type": "string"},
					"C": map[string]any{"type": "string"},
					"D": map[string]any{"type": "string"},
				},
				"required":             []any{"A", "B", "C", "D"},
				"additionalProperties": false,
				"description":          "Exactly four options keyed A to D",
			},
			"correct_answer": map[string]any{
				"type": "string",
				"enum": []any{"A", "B", "C", "D"},
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the correct option is correct",
			},
			"difficulty": map[string]any{
				"type": "string",
				"enum": []any{"Easy", "Medium", "Hard"},
			},
		},
		"required":             []any{"question_text", "options", "correct_answer", "explanation", "difficulty"},
		"additionalProperties": false,
	}
}

// QuizSchema is the response shape for a topic quiz.
var QuizSchema = &llm.Schema{
	Name:        "study-quiz",
	Description: "A set of multiple-choice questions on a topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": questionDefinition(),
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// MockTestSchema is the response shape for a titled mock test.
var MockTestSchema = &llm.Schema{
	Name:        "study-mock-test",
	Description: "A titled mock test of multiple-choice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"test_title": map[string]any{
				"type":        "string",
				"description": "A short title for the test",
			},
			"questions": map[string]any{
				"type":  "array",
				"items": questionDefinition(),
			},
		},
		"required":             []any{"test_title", "questions"},
		"additionalProperties": false,
	},
}
