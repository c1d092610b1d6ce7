package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/litemindhq/litemind/pkg/llm"
	"github.com/litemindhq/litemind/pkg/llm/ollama"
)

func TestOllama(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ollama Generator Suite")
}

var _ = Describe("Generator", func() {
	var logger *zap.Logger

	BeforeEach(func() {
		logger = zap.NewNop()
	})

	Describe("Generate", func() {
		It("should send the model and prompt without streaming", func() {
			var received map[string]any
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/generate"))
				Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
				json.NewEncoder(w).Encode(map[string]string{"response": "an answer"})
			}))
			defer server.Close()

			generator, err := ollama.NewGenerator(ollama.GeneratorConfig{
				BaseURL: server.URL,
				Model:   "tinyllama",
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			response, err := generator.Generate(context.Background(), "a prompt")
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(Equal("an answer"))

			Expect(received["model"]).To(Equal("tinyllama"))
			Expect(received["prompt"]).To(Equal("a prompt"))
			Expect(received["stream"]).To(Equal(false))
		})

		It("should wrap failures in ErrGeneration", func() {
			generator, err := ollama.NewGenerator(ollama.GeneratorConfig{
				BaseURL: "http://127.0.0.1:1",
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			_, err = generator.Generate(context.Background(), "a prompt")
			Expect(err).To(MatchError(llm.ErrGeneration))
		})

		It("should retry after a server error", func() {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) == 1 {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				json.NewEncoder(w).Encode(map[string]string{"response": "recovered"})
			}))
			defer server.Close()

			generator, err := ollama.NewGenerator(ollama.GeneratorConfig{
				BaseURL:    server.URL,
				MaxRetries: 1,
				RetryDelay: time.Millisecond,
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			response, err := generator.Generate(context.Background(), "a prompt")
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(Equal("recovered"))
			Expect(calls.Load()).To(Equal(int32(2)))
		})

		It("should give up after exhausting retries", func() {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			generator, err := ollama.NewGenerator(ollama.GeneratorConfig{
				BaseURL:    server.URL,
				MaxRetries: 2,
				RetryDelay: time.Millisecond,
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			_, err = generator.Generate(context.Background(), "a prompt")
			Expect(err).To(MatchError(llm.ErrGeneration))
			Expect(calls.Load()).To(Equal(int32(3)))
		})

		It("should not retry a client error", func() {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			generator, err := ollama.NewGenerator(ollama.GeneratorConfig{
				BaseURL:    server.URL,
				MaxRetries: 3,
				RetryDelay: time.Millisecond,
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			_, err = generator.Generate(context.Background(), "a prompt")
			Expect(err).To(MatchError(llm.ErrGeneration))
			Expect(calls.Load()).To(Equal(int32(1)))
		})
	})

	Describe("Interface compliance", func() {
		It("should implement llm.Generator interface", func() {
			var _ llm.Generator = (*ollama.Generator)(nil)
		})
	})
})
