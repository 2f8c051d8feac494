package invoice

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-scanner/internal/extraction"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	newSubmission := func(id string) *Submission {
		return &Submission{
			ID:       id,
			Filename: "invoice.pdf",
			Record: extraction.InvoiceRecord{
				InvoiceNumber: "123",
				Supplier:      "Acme Corp",
				TotalAmount:   500,
				Currency:      "USD",
			},
			SubmittedAt: time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC),
		}
	}

	Describe("SaveSubmission", func() {
		var err error

		JustBeforeEach(func() {
			err = db.SaveSubmission(newSubmission("test-id"))
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the submission to the database", func() {
				saved, getErr := db.GetSubmission("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.ID).To(Equal("test-id"))
				Expect(saved.Record.Supplier).To(Equal("Acme Corp"))
			})
		})

		When("saving the same ID twice", func() {
			It("overwrites the stored submission", func() {
				updated := newSubmission("test-id")
				updated.Filename = "second.pdf"
				Expect(db.SaveSubmission(updated)).To(Succeed())

				saved, getErr := db.GetSubmission("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Filename).To(Equal("second.pdf"))
			})
		})
	})

	Describe("GetSubmission", func() {
		When("the submission does not exist", func() {
			It("returns an error", func() {
				_, err := db.GetSubmission("missing")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("not found"))
			})
		})

		When("the submission exists", func() {
			BeforeEach(func() {
				Expect(db.SaveSubmission(newSubmission("test-id"))).To(Succeed())
			})

			It("returns the full record", func() {
				saved, err := db.GetSubmission("test-id")
				Expect(err).NotTo(HaveOccurred())
				Expect(saved.Record.InvoiceNumber).To(Equal("123"))
				Expect(saved.Record.TotalAmount).To(Equal(500.0))
				Expect(saved.SubmittedAt).To(Equal(time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)))
			})
		})
	})

	Describe("ListSubmissions", func() {
		When("the database is empty", func() {
			It("returns an empty list", func() {
				submissions, err := db.ListSubmissions()
				Expect(err).NotTo(HaveOccurred())
				Expect(submissions).To(BeEmpty())
			})
		})

		When("submissions exist", func() {
			BeforeEach(func() {
				Expect(db.SaveSubmission(newSubmission("id1"))).To(Succeed())
				Expect(db.SaveSubmission(newSubmission("id2"))).To(Succeed())
			})

			It("returns all of them", func() {
				submissions, err := db.ListSubmissions()
				Expect(err).NotTo(HaveOccurred())
				Expect(submissions).To(HaveLen(2))
			})
		})
	})

	Describe("DeleteSubmission", func() {
		BeforeEach(func() {
			Expect(db.SaveSubmission(newSubmission("test-id"))).To(Succeed())
		})

		It("removes the submission", func() {
			Expect(db.DeleteSubmission("test-id")).To(Succeed())
			_, err := db.GetSubmission("test-id")
			Expect(err).To(HaveOccurred())
		})

		It("is a no-op for an unknown ID", func() {
			Expect(db.DeleteSubmission("missing")).To(Succeed())
		})
	})

	Describe("persistence across reopen", func() {
		It("keeps submissions after closing and reopening", func() {
			Expect(db.SaveSubmission(newSubmission("test-id"))).To(Succeed())
			Expect(db.Close()).To(Succeed())

			reopened, err := NewBoltDB(dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer reopened.Close()

			saved, err := reopened.GetSubmission("test-id")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.Record.Currency).To(Equal("USD"))
			db = nil
		})
	})
})
