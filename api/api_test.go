package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/litemindhq/litemind/pkg/ingest"
	"github.com/litemindhq/litemind/pkg/vector"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Suite")
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (f *fakeEmbedder) Close() error { return nil }

type fakeDriver struct {
	results []vector.Result
	stored  map[string]vector.Entry
	err     error
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{stored: map[string]vector.Entry{}}
}

func (f *fakeDriver) Upsert(_ context.Context, entries []vector.Entry) error {
	for _, entry := range entries {
		f.stored[entry.ID] = entry
	}
	return nil
}

func (f *fakeDriver) Query(context.Context, []float32, int) ([]vector.Result, error) {
	return f.results, f.err
}

func (f *fakeDriver) List(context.Context) ([]vector.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	entries := make([]vector.Entry, 0, len(f.stored))
	for _, entry := range f.stored {
		entries = append(entries, entry)
	}
	return entries, nil
}

func (f *fakeDriver) Count(context.Context) (int, error) { return len(f.stored), nil }
func (f *fakeDriver) Close() error                       { return nil }

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenerator) Close() error { return nil }

var _ = Describe("Server", func() {
	var (
		server    *Server
		embedder  *fakeEmbedder
		driver    *fakeDriver
		generator *fakeGenerator
	)

	BeforeEach(func() {
		embedder = &fakeEmbedder{}
		driver = newFakeDriver()
		generator = &fakeGenerator{response: "an answer"}

		server = NewServer(Config{
			ListenAddr:   ":0",
			Embedder:     embedder,
			VectorDriver: driver,
			Generator:    generator,
		}, zap.NewNop())
	})

	getJSON := func(url string, out any) *http.Response {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		Expect(err).NotTo(HaveOccurred())

		resp, err := server.app.Test(req)
		Expect(err).NotTo(HaveOccurred())

		if out != nil {
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(body, out)).To(Succeed())
		}
		return resp
	}

	postJSON := func(url string, in, out any) *http.Response {
		body, err := json.Marshal(in)
		Expect(err).NotTo(HaveOccurred())

		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", "application/json")

		resp, err := server.app.Test(req)
		Expect(err).NotTo(HaveOccurred())

		if out != nil {
			respBody, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(respBody, out)).To(Succeed())
		}
		return resp
	}

	Describe("GET /ping", func() {
		It("returns pong", func() {
			var body string
			resp := getJSON("/ping", &body)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(body).To(Equal("pong"))
		})
	})

	Describe("GET /v1/search", func() {
		It("returns 503 when retrieval is not configured", func() {
			bare := NewServer(Config{ListenAddr: ":0"}, zap.NewNop())
			req, err := http.NewRequest(http.MethodGet, "/v1/search?query=test", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := bare.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusServiceUnavailable))
		})

		It("returns 400 when query is missing", func() {
			resp := getJSON("/v1/search", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns 400 for an invalid top_k", func() {
			resp := getJSON("/v1/search?query=test&top_k=abc", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns retrieved chunks", func() {
			driver.results = []vector.Result{
				{Entry: vector.Entry{ID: "a.txt_0", Text: "near", Metadata: map[string]string{"source": "a.txt"}}, Distance: 0.1},
			}

			var body SearchResponse
			resp := getJSON("/v1/search?query=hello", &body)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(body.Query).To(Equal("hello"))
			Expect(body.Count).To(Equal(1))
			Expect(body.Results[0].ID).To(Equal("a.txt_0"))
			Expect(body.Results[0].Metadata).To(HaveKeyWithValue("source", "a.txt"))
		})

		It("returns 500 when retrieval fails", func() {
			driver.err = errors.New("index unavailable")
			resp := getJSON("/v1/search?query=hello", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
		})
	})

	Describe("POST /v1/ask", func() {
		It("returns 503 when generation is not configured", func() {
			bare := NewServer(Config{
				ListenAddr:   ":0",
				Embedder:     embedder,
				VectorDriver: driver,
			}, zap.NewNop())
			body, _ := json.Marshal(AskRequest{Query: "hello"})
			req, err := http.NewRequest(http.MethodPost, "/v1/ask", bytes.NewReader(body))
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Content-Type", "application/json")

			resp, err := bare.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusServiceUnavailable))
		})

		It("returns 400 when query is missing", func() {
			resp := postJSON("/v1/ask", AskRequest{}, nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("answers and returns a session id", func() {
			var body AskResponse
			resp := postJSON("/v1/ask", AskRequest{Query: "hello"}, &body)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(body.Answer).To(Equal("an answer"))
			Expect(body.SessionID).NotTo(BeEmpty())
		})

		It("carries history across requests in the same session", func() {
			var first AskResponse
			postJSON("/v1/ask", AskRequest{Query: "first question"}, &first)

			var second AskResponse
			postJSON("/v1/ask", AskRequest{Query: "second question", SessionID: first.SessionID}, &second)

			Expect(second.SessionID).To(Equal(first.SessionID))
			Expect(generator.prompts).To(HaveLen(2))
			Expect(generator.prompts[1]).To(ContainSubstring("User: first question"))
			Expect(generator.prompts[1]).To(ContainSubstring("Assistant: an answer"))
		})

		It("keeps separate sessions isolated", func() {
			var first AskResponse
			postJSON("/v1/ask", AskRequest{Query: "first question"}, &first)

			var other AskResponse
			postJSON("/v1/ask", AskRequest{Query: "other question"}, &other)

			Expect(other.SessionID).NotTo(Equal(first.SessionID))
			Expect(generator.prompts[1]).NotTo(ContainSubstring("first question"))
		})

		It("answers with an error turn when generation fails", func() {
			generator.err = errors.New("model offline")

			var body AskResponse
			resp := postJSON("/v1/ask", AskRequest{Query: "hello"}, &body)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(body.Answer).To(HavePrefix("[error]"))
		})
	})

	Describe("POST /v1/ingest", func() {
		var docsDir string

		BeforeEach(func() {
			var err error
			docsDir, err = os.MkdirTemp("", "api-ingest-test-*")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(os.RemoveAll, docsDir)

			ingestor, err := ingest.NewIngestor(embedder, driver, ingest.Config{
				ChunkSize:    100,
				ChunkOverlap: 10,
			}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())

			server = NewServer(Config{
				ListenAddr:   ":0",
				Embedder:     embedder,
				VectorDriver: driver,
				Generator:    generator,
				Ingestor:     ingestor,
			}, zap.NewNop())
		})

		It("returns 503 when no ingestor is configured", func() {
			bare := NewServer(Config{ListenAddr: ":0"}, zap.NewNop())
			body, _ := json.Marshal(IngestRequest{Dir: docsDir})
			req, err := http.NewRequest(http.MethodPost, "/v1/ingest", bytes.NewReader(body))
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Content-Type", "application/json")

			resp, err := bare.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusServiceUnavailable))
		})

		It("returns 400 when dir is missing", func() {
			resp := postJSON("/v1/ingest", IngestRequest{}, nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("ingests a directory and returns the report", func() {
			Expect(os.WriteFile(filepath.Join(docsDir, "guide.txt"), []byte("some document content"), 0o644)).To(Succeed())

			var report ingest.Report
			resp := postJSON("/v1/ingest", IngestRequest{Dir: docsDir}, &report)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(report.Processed).To(Equal(1))
			Expect(driver.stored).To(HaveKey("guide.txt_0"))
		})
	})

	Describe("GET /v1/entries", func() {
		It("returns the stored entries", func() {
			driver.stored["a.txt_0"] = vector.Entry{ID: "a.txt_0", Text: "hello"}

			var body EntriesResponse
			resp := getJSON("/v1/entries", &body)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(body.Count).To(Equal(1))
			Expect(body.Entries[0].ID).To(Equal("a.txt_0"))
		})
	})
})
