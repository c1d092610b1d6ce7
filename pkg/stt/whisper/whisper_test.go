package whisper_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/litemindhq/litemind/pkg/stt"
	"github.com/litemindhq/litemind/pkg/stt/whisper"
)

func TestWhisper(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Whisper Suite")
}

var _ = Describe("Transcriber", func() {
	var audioPath string

	BeforeEach(func() {
		tmpDir, err := os.MkdirTemp("", "whisper-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, tmpDir)

		audioPath = filepath.Join(tmpDir, "call.wav")
		Expect(os.WriteFile(audioPath, []byte("fake audio bytes"), 0o644)).To(Succeed())
	})

	It("should upload the audio file and return the recognized text", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/inference"))

			file, header, err := r.FormFile("file")
			Expect(err).NotTo(HaveOccurred())
			defer file.Close()

			Expect(header.Filename).To(Equal("call.wav"))
			content, err := io.ReadAll(file)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(content)).To(Equal("fake audio bytes"))

			json.NewEncoder(w).Encode(map[string]string{"text": "hello, I need help with my order"})
		}))
		defer server.Close()

		transcriber, err := whisper.NewTranscriber(whisper.Config{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		text, err := transcriber.Transcribe(context.Background(), audioPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("hello, I need help with my order"))
	})

	It("should wrap a missing audio file in ErrTranscription", func() {
		transcriber, err := whisper.NewTranscriber(whisper.Config{BaseURL: "http://localhost:8580"})
		Expect(err).NotTo(HaveOccurred())

		_, err = transcriber.Transcribe(context.Background(), "/nonexistent/call.wav")
		Expect(err).To(MatchError(stt.ErrTranscription))
	})

	It("should wrap server failures in ErrTranscription", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		transcriber, err := whisper.NewTranscriber(whisper.Config{BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		_, err = transcriber.Transcribe(context.Background(), audioPath)
		Expect(err).To(MatchError(stt.ErrTranscription))
	})

	It("should wrap connection failures in ErrTranscription", func() {
		transcriber, err := whisper.NewTranscriber(whisper.Config{BaseURL: "http://127.0.0.1:1"})
		Expect(err).NotTo(HaveOccurred())

		_, err = transcriber.Transcribe(context.Background(), audioPath)
		Expect(err).To(MatchError(stt.ErrTranscription))
	})
})
