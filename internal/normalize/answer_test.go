package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Answer
	}{
		{
			name: "temporary store answer",
			raw:  `{"answer":"[Answer from notes.pdf (TEMP)]: Chlorophyll absorbs light."}`,
			want: Answer{Text: "Chlorophyll absorbs light.", Source: Source{Kind: SourceTemp, Document: "notes.pdf"}},
		},
		{
			name: "main library answer",
			raw:  `{"query":"q","answer":"[Answer from Main DB]: It is a process."}`,
			want: Answer{Text: "It is a process.", Source: Source{Kind: SourceMain}},
		},
		{
			name: "unprefixed answer",
			raw:  `{"answer":"Plain text."}`,
			want: Answer{Text: "Plain text.", Source: Source{Kind: SourceUnknown}},
		},
		{
			name: "response field fallback",
			raw:  `{"answer":null,"response":"From response."}`,
			want: Answer{Text: "From response.", Source: Source{Kind: SourceUnknown}},
		},
		{
			name: "bare JSON string",
			raw:  `"[Answer from Main DB]: Bare."`,
			want: Answer{Text: "Bare.", Source: Source{Kind: SourceMain}},
		},
		{
			name: "plain text body",
			raw:  "not json at all",
			want: Answer{Text: "not json at all", Source: Source{Kind: SourceUnknown}},
		},
		{
			name: "unknown origin",
			raw:  `{"answer":"[Answer from Web]: Elsewhere."}`,
			want: Answer{Text: "Elsewhere.", Source: Source{Kind: SourceUnknown, Document: "Web"}},
		},
		{
			name: "multiline answer keeps newlines",
			raw:  `{"answer":"[Answer from Main DB]: line one\nline two"}`,
			want: Answer{Text: "line one\nline two", Source: Source{Kind: SourceMain}},
		},
		{
			name: "no usable field",
			raw:  `{"detail":"nothing"}`,
			want: Answer{Source: Source{Kind: SourceUnknown}},
		},
		{
			name: "empty body",
			raw:  ``,
			want: Answer{Source: Source{Kind: SourceUnknown}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAnswer([]byte(tt.raw)))
		})
	}
}

func TestSourceLabel(t *testing.T) {
	assert.Equal(t, "notes.pdf (temporary)", Source{Kind: SourceTemp, Document: "notes.pdf"}.Label())
	assert.Equal(t, "main library", Source{Kind: SourceMain}.Label())
	assert.Equal(t, "", Source{Kind: SourceUnknown}.Label())
}

func TestNormalizeUpload(t *testing.T) {
	temp := NormalizeUpload([]byte(`{"status":"Indexed Temporarily","chunks_indexed":"12","filename":"notes.pdf"}`))
	assert.True(t, temp.Temporary)
	assert.Equal(t, 12, temp.ChunksIndexed)
	assert.Equal(t, "notes.pdf", temp.Filename)

	perm := NormalizeUpload([]byte(`{"status":"Saved Permanently","chunks_indexed":40,"documents_indexed":1}`))
	assert.False(t, perm.Temporary)
	assert.Equal(t, 40, perm.ChunksIndexed)
	assert.Equal(t, 1, perm.DocumentsIndexed)

	assert.Equal(t, UploadResult{}, NormalizeUpload([]byte(`not json`)))
	assert.Equal(t, 0, NormalizeUpload([]byte(`{"chunks_indexed":-3}`)).ChunksIndexed)
}

func TestParseDifficulty(t *testing.T) {
	cases := map[string]Difficulty{
		"easy":    Easy,
		"EASY":    Easy,
		" Hard ":  Hard,
		"medium":  Medium,
		"2":       Easy,
		"3":       Medium,
		"4":       Hard,
		"4.5":     Hard,
		"0":       Medium,
		"9":       Medium,
		"extreme": Medium,
		"":        Medium,
	}
	for in, want := range cases {
		if got := ParseDifficulty(in); got != want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", in, got, want)
		}
	}
	if !Hard.Valid() || Difficulty("Impossible").Valid() {
		t.Error("Valid() misreports known levels")
	}
}
