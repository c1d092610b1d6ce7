package extract_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/litemindhq/litemind/pkg/extract"
)

func TestExtract(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Extract Suite")
}

var _ = Describe("ForPath", func() {
	It("dispatches on the lowercased extension", func() {
		for _, name := range []string{"a.txt", "a.md", "a.pdf", "a.docx", "a.csv", "a.xlsx"} {
			_, err := extract.ForPath(name)
			Expect(err).NotTo(HaveOccurred(), "expected extractor for %s", name)
		}
	})

	It("treats legacy .xls as unsupported rather than failing extraction", func() {
		_, err := extract.ForPath("a.xls")
		Expect(err).To(MatchError(extract.ErrUnsupportedFormat))
	})

	It("is case-insensitive", func() {
		_, err := extract.ForPath("REPORT.PDF")
		Expect(err).NotTo(HaveOccurred())

		_, err = extract.ForPath("Notes.Md")
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects unknown extensions", func() {
		_, err := extract.ForPath("a.xyz")
		Expect(err).To(MatchError(extract.ErrUnsupportedFormat))
	})

	It("rejects files without an extension", func() {
		_, err := extract.ForPath("Makefile")
		Expect(err).To(MatchError(extract.ErrUnsupportedFormat))
	})
})

var _ = Describe("Extractors", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "extract-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("text", func() {
		It("returns file contents verbatim", func() {
			path := filepath.Join(tmpDir, "doc.txt")
			Expect(os.WriteFile(path, []byte("hello world"), 0o600)).To(Succeed())

			e, err := extract.ForPath(path)
			Expect(err).NotTo(HaveOccurred())

			text, err := e.Extract(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("hello world"))
		})

		It("wraps read failures in ErrExtraction", func() {
			e, err := extract.ForPath("missing.txt")
			Expect(err).NotTo(HaveOccurred())

			_, err = e.Extract(filepath.Join(tmpDir, "missing.txt"))
			Expect(err).To(MatchError(extract.ErrExtraction))
		})
	})

	Describe("csv", func() {
		It("flattens records into space-joined lines", func() {
			path := filepath.Join(tmpDir, "refunds.csv")
			Expect(os.WriteFile(path, []byte("order,status\n1001,refunded\n1002,pending\n"), 0o600)).To(Succeed())

			e, err := extract.ForPath(path)
			Expect(err).NotTo(HaveOccurred())

			text, err := e.Extract(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("order status\n1001 refunded\n1002 pending"))
		})

		It("wraps malformed csv in ErrExtraction", func() {
			path := filepath.Join(tmpDir, "bad.csv")
			Expect(os.WriteFile(path, []byte("a,\"b\nc"), 0o600)).To(Succeed())

			e, err := extract.ForPath(path)
			Expect(err).NotTo(HaveOccurred())

			_, err = e.Extract(path)
			Expect(err).To(MatchError(extract.ErrExtraction))
		})
	})

	Describe("pdf", func() {
		It("wraps parse failures in ErrExtraction", func() {
			path := filepath.Join(tmpDir, "broken.pdf")
			Expect(os.WriteFile(path, []byte("not a pdf"), 0o600)).To(Succeed())

			e, err := extract.ForPath(path)
			Expect(err).NotTo(HaveOccurred())

			_, err = e.Extract(path)
			Expect(err).To(MatchError(extract.ErrExtraction))
		})
	})

	Describe("docx", func() {
		It("wraps parse failures in ErrExtraction", func() {
			path := filepath.Join(tmpDir, "broken.docx")
			Expect(os.WriteFile(path, []byte("not a docx"), 0o600)).To(Succeed())

			e, err := extract.ForPath(path)
			Expect(err).NotTo(HaveOccurred())

			_, err = e.Extract(path)
			Expect(err).To(MatchError(extract.ErrExtraction))
		})
	})

	Describe("xlsx", func() {
		It("wraps parse failures in ErrExtraction", func() {
			path := filepath.Join(tmpDir, "broken.xlsx")
			Expect(os.WriteFile(path, []byte("not a spreadsheet"), 0o600)).To(Succeed())

			e, err := extract.ForPath(path)
			Expect(err).NotTo(HaveOccurred())

			_, err = e.Extract(path)
			Expect(err).To(MatchError(extract.ErrExtraction))
		})
	})
})
