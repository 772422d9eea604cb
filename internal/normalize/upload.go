package normalize

import (
	"bytes"
	"strings"

	"github.com/tidwall/gjson"
)

// UploadResult is a decoded document-indexing response.
type UploadResult struct {
	Status           string `json:"status" yaml:"status"`
	Temporary        bool   `json:"temporary" yaml:"temporary"`
	Filename         string `json:"filename,omitempty" yaml:"filename,omitempty"`
	ChunksIndexed    int    `json:"chunks_indexed" yaml:"chunks_indexed"`
	DocumentsIndexed int    `json:"documents_indexed" yaml:"documents_indexed"`
	Message          string `json:"message,omitempty" yaml:"message,omitempty"`
}

// NormalizeUpload decodes an upload response. A status mentioning
// "Temporarily" marks the document as held in the temporary store.
func NormalizeUpload(raw []byte) UploadResult {
	trimmed := bytes.TrimSpace(raw)
	if !gjson.ValidBytes(trimmed) {
		return UploadResult{}
	}
	root := gjson.ParseBytes(trimmed)
	if !root.IsObject() {
		return UploadResult{}
	}
	res := UploadResult{
		ChunksIndexed:    Count(root.Get("chunks_indexed")),
		DocumentsIndexed: Count(root.Get("documents_indexed")),
	}
	res.Status, _ = FirstScalar(root, "status")
	res.Filename, _ = FirstScalar(root, "filename", "document_name")
	res.Message, _ = FirstScalar(root, "message")
	res.Temporary = strings.Contains(res.Status, "Temporarily")
	return res
}
