package chroma_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/litemindhq/litemind/pkg/vector"
	"github.com/litemindhq/litemind/pkg/vector/chroma"
)

func TestChroma(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Chroma Suite")
}

const collectionsPath = "/api/v2/tenants/default_tenant/databases/default_database/collections"

var _ = Describe("Driver", func() {
	var logger *zap.Logger

	BeforeEach(func() {
		logger = zap.NewNop()
	})

	// newTestServer serves a single existing collection named "docs" with
	// id "col-1" and dispatches sub-endpoint requests to handle.
	newTestServer := func(handle func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == "GET" && r.URL.Path == collectionsPath+"/docs" {
				json.NewEncoder(w).Encode(map[string]string{"id": "col-1", "name": "docs"})
				return
			}
			handle(w, r)
		}))
	}

	Describe("NewDriver", func() {
		It("should require a server URL", func() {
			_, err := chroma.NewDriver(chroma.Config{}, logger)
			Expect(err).To(HaveOccurred())
		})

		It("should resolve an existing collection", func() {
			server := newTestServer(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{
				URL:            server.URL,
				CollectionName: "docs",
			}, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(driver.Close()).To(Succeed())
		})

		It("should return ErrNotFound for a missing collection when not creating", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			_, err := chroma.NewDriver(chroma.Config{
				URL:            server.URL,
				CollectionName: "docs",
			}, logger)
			Expect(err).To(MatchError(vector.ErrNotFound))
		})

		It("should create a missing collection when asked to", func() {
			var created bool
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch {
				case r.Method == "GET":
					w.WriteHeader(http.StatusNotFound)
				case r.Method == "POST" && r.URL.Path == collectionsPath:
					var body map[string]string
					Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
					Expect(body["name"]).To(Equal("docs"))
					created = true
					json.NewEncoder(w).Encode(map[string]string{"id": "col-1", "name": "docs"})
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			}))
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{
				URL:             server.URL,
				CollectionName:  "docs",
				CreateIfMissing: true,
			}, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())
			Expect(driver.Close()).To(Succeed())
		})

		It("should return ErrConnection when the server is unreachable", func() {
			_, err := chroma.NewDriver(chroma.Config{
				URL:            "http://127.0.0.1:1",
				CollectionName: "docs",
			}, logger)
			Expect(err).To(MatchError(vector.ErrConnection))
		})
	})

	Describe("Upsert", func() {
		It("should send ids, embeddings, documents and metadata", func() {
			var received map[string]any
			server := newTestServer(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal(collectionsPath + "/col-1/upsert"))
				Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
				w.WriteHeader(http.StatusOK)
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{
				URL:            server.URL,
				CollectionName: "docs",
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			err = driver.Upsert(context.Background(), []vector.Entry{
				{
					ID:        "a.txt_0",
					Text:      "hello world",
					Embedding: []float32{0.1, 0.2},
					Metadata:  map[string]string{"source": "a.txt"},
				},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(received["ids"]).To(Equal([]any{"a.txt_0"}))
			Expect(received["documents"]).To(Equal([]any{"hello world"}))
			metadatas, ok := received["metadatas"].([]any)
			Expect(ok).To(BeTrue())
			Expect(metadatas[0]).To(HaveKeyWithValue("source", "a.txt"))
		})

		It("should not call the server for an empty batch", func() {
			var called bool
			server := newTestServer(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{
				URL:            server.URL,
				CollectionName: "docs",
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			Expect(driver.Upsert(context.Background(), nil)).To(Succeed())
			Expect(called).To(BeFalse())
		})
	})

	Describe("Query", func() {
		It("should map the grouped response into results", func() {
			server := newTestServer(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal(collectionsPath + "/col-1/query"))

				var body map[string]any
				Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
				Expect(body["n_results"]).To(BeNumerically("==", 2))

				json.NewEncoder(w).Encode(map[string]any{
					"ids":       [][]string{{"a.txt_0", "b.txt_1"}},
					"distances": [][]float32{{0.1, 0.4}},
					"documents": [][]string{{"first chunk", "second chunk"}},
					"metadatas": [][]map[string]any{{
						{"source": "a.txt"},
						{"source": "b.txt"},
					}},
				})
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{
				URL:            server.URL,
				CollectionName: "docs",
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			results, err := driver.Query(context.Background(), []float32{0.1, 0.2}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].ID).To(Equal("a.txt_0"))
			Expect(results[0].Text).To(Equal("first chunk"))
			Expect(results[0].Metadata).To(HaveKeyWithValue("source", "a.txt"))
			Expect(results[0].Distance).To(BeNumerically("~", 0.1, 1e-6))
			Expect(results[1].ID).To(Equal("b.txt_1"))
		})

		It("should return no results for an empty collection", func() {
			server := newTestServer(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"ids":       [][]string{{}},
					"distances": [][]float32{{}},
				})
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{
				URL:            server.URL,
				CollectionName: "docs",
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			results, err := driver.Query(context.Background(), []float32{0.1, 0.2}, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})
	})

	Describe("Count", func() {
		It("should decode the count endpoint response", func() {
			server := newTestServer(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal(collectionsPath + "/col-1/count"))
				w.Write([]byte("7"))
			})
			defer server.Close()

			driver, err := chroma.NewDriver(chroma.Config{
				URL:            server.URL,
				CollectionName: "docs",
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			count, err := driver.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(7))
		})
	})
})
