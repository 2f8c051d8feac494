package invoice

import (
	"errors"
	"net/http"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/zombor/invoice-scanner/internal/extraction"
)

var _ = Describe("SheetsSubmitter", func() {
	var (
		sheets    *ghttp.Server
		submitter *SheetsSubmitter
		record    *extraction.InvoiceRecord
	)

	BeforeEach(func() {
		sheets = ghttp.NewServer()
		var err error
		submitter, err = NewSheetsSubmitter(sheets.URL() + "/exec")
		Expect(err).NotTo(HaveOccurred())

		record = &extraction.InvoiceRecord{
			InvoiceNumber: "123",
			Supplier:      "Acme Corp",
			InvoiceDate:   "2024-01-15",
			DueDate:       "2024-02-15",
			TotalAmount:   500,
			Currency:      "USD",
			Description:   "Office supplies",
			PurchaseOrder: "PO-7",
			IGST:          "0",
			CGST:          "45",
			SGST:          "45",
		}
	})

	AfterEach(func() {
		sheets.Close()
	})

	Describe("NewSheetsSubmitter", func() {
		When("the endpoint is missing", func() {
			It("returns an error", func() {
				_, err := NewSheetsSubmitter("")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("SubmitRecord", func() {
		When("the remote store accepts the record", func() {
			BeforeEach(func() {
				sheets.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest("POST", "/exec"),
					ghttp.VerifyContentType("application/x-www-form-urlencoded"),
					ghttp.VerifyForm(url.Values{
						"invoice_number": {"123"},
						"supplier":       {"Acme Corp"},
						"invoice_date":   {"2024-01-15"},
						"due_date":       {"2024-02-15"},
						"total_amount":   {"500"},
						"currency":       {"USD"},
						"description":    {"Office supplies"},
						"po":             {"PO-7"},
						"IGST":           {"0"},
						"CGST":           {"45"},
						"SGST":           {"45"},
					}),
					ghttp.RespondWith(http.StatusOK, "ok"),
				))
			})

			It("succeeds", func() {
				Expect(submitter.SubmitRecord(record)).To(Succeed())
				Expect(sheets.ReceivedRequests()).To(HaveLen(1))
			})
		})

		When("the record is empty", func() {
			BeforeEach(func() {
				sheets.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyForm(url.Values{
						"invoice_number": {""},
						"total_amount":   {"0"},
					}),
					ghttp.RespondWith(http.StatusOK, "ok"),
				))
			})

			It("still sends every field", func() {
				Expect(submitter.SubmitRecord(&extraction.InvoiceRecord{})).To(Succeed())
			})
		})

		When("the remote store returns a server error", func() {
			BeforeEach(func() {
				sheets.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "boom"))
			})

			It("returns a submission error naming the status", func() {
				err := submitter.SubmitRecord(record)
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, ErrSubmission)).To(BeTrue())
				Expect(err.Error()).To(ContainSubstring("500"))
			})
		})

		When("the remote store is unreachable", func() {
			BeforeEach(func() {
				sheets.Close()
			})

			It("returns a submission error", func() {
				err := submitter.SubmitRecord(record)
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, ErrSubmission)).To(BeTrue())
			})
		})
	})
})
