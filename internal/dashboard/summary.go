package dashboard

import (
	"fmt"

	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/normalize"
	"github.com/abhisek/studybuddy/internal/status"
)

func statusSummary(s status.Snapshot) string {
	if s.API == status.Offline {
		return "offline"
	}
	if s.TempStore.Active {
		name := "unnamed"
		if s.TempStore.DocumentName != nil {
			name = *s.TempStore.DocumentName
		}
		return fmt.Sprintf("online, %d docs, temp %s (%d chunks)", s.PermanentDocCount, name, s.TempStore.ChunkCount)
	}
	return fmt.Sprintf("online, %d docs", s.PermanentDocCount)
}

func uploadSummary(r normalize.UploadResult) string {
	kind := "permanent"
	if r.Temporary {
		kind = "temporary"
	}
	return fmt.Sprintf("%s (%s)", r.Filename, kind)
}

func quizSummary(req backend.QuizRequest, n int) string {
	if req.Topic == "" {
		return fmt.Sprintf("%s quiz, %d questions", req.Variant, n)
	}
	return fmt.Sprintf("%s quiz on %q, %d questions", req.Variant, req.Topic, n)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
