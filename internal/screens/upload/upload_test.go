package upload

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/studybuddy/internal/actions"
	"github.com/abhisek/studybuddy/internal/dashboard"
	"github.com/abhisek/studybuddy/internal/ragclient"
)

// newTestService serves the endpoints the upload screen touches.
func newTestService(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rag/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("save_permanent") == "true" {
			w.Write([]byte(`{"status":"Saved Permanently","chunks_indexed":7}`))
			return
		}
		w.Write([]byte(`{"status":"Indexed Temporarily","chunks_indexed":3}`))
	})
	mux.HandleFunc("/rag/clear_temp", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","message":"Temporary store cleared"}`))
	})
	mux.HandleFunc("/info/status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","documents_loaded":4}`))
	})
	mux.HandleFunc("/rag/check_temp_status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"is_active":true,"chunk_count":3,"filename":"notes.txt"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestUpload(t *testing.T) (*UploadScreen, *dashboard.Controller) {
	t.Helper()
	client, err := ragclient.New(newTestService(t).URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctrl := dashboard.New(client, dashboard.Options{ProbeTempStore: true, Logger: zerolog.Nop()})
	return New(ctrl), ctrl
}

func writeNotes(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("The mitochondria is the powerhouse of the cell."), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTemporaryUpload(t *testing.T) {
	s, ctrl := newTestUpload(t)
	s.Init()
	s.path.SetValue(writeNotes(t))

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected upload command")
	}
	msg, ok := cmd().(actions.UploadDoneMsg)
	if !ok {
		t.Fatal("expected UploadDoneMsg")
	}
	s.Update(msg)

	if !s.ok || s.result != "notes.txt indexed temporarily (3 chunks)" {
		t.Errorf("result = %q (ok=%v)", s.result, s.ok)
	}
	if s.path.Value() != "" {
		t.Error("expected path to be cleared after a successful upload")
	}

	snap, known := ctrl.Status()
	if !known || !snap.TempStore.Active || snap.PermanentDocCount != 4 {
		t.Errorf("expected status refreshed after upload, got %+v (known=%v)", snap, known)
	}
	if !strings.Contains(s.View(100, 30), "notes.txt · 3 chunks") {
		t.Error("expected temp store in view")
	}
}

func TestPermanentToggle(t *testing.T) {
	s, _ := newTestUpload(t)
	s.Init()
	s.path.SetValue(writeNotes(t))

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.CapturesInput() {
		t.Fatal("expected the path input to be blurred")
	}
	s.Update(tea.KeyPressMsg{Code: ' '})
	if !s.permanent() {
		t.Fatal("expected permanent mode")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())
	if s.result != "notes.txt indexed permanently (7 chunks)" {
		t.Errorf("result = %q", s.result)
	}
}

func TestMissingFile(t *testing.T) {
	s, ctrl := newTestUpload(t)
	s.Init()
	s.path.SetValue(filepath.Join(t.TempDir(), "nope.pdf"))

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())

	if s.ok {
		t.Error("expected failure")
	}
	if ctrl.Banner() == "" || !strings.Contains(s.result, "nope.pdf") {
		t.Errorf("expected banner and result naming the file, got banner %q result %q", ctrl.Banner(), s.result)
	}
}

func TestClearTemp(t *testing.T) {
	s, ctrl := newTestUpload(t)
	s.Init()

	// "c" is typed into the path while it has focus.
	s.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	if s.path.Value() != "c" {
		t.Fatalf("expected c typed into the path, got %q", s.path.Value())
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	if cmd == nil {
		t.Fatal("expected clear command")
	}
	s.Update(cmd())

	if !s.ok || s.result != "Temporary store cleared" {
		t.Errorf("result = %q (ok=%v)", s.result, s.ok)
	}
	if _, known := ctrl.Status(); !known {
		t.Error("expected status refreshed after clear")
	}
}
