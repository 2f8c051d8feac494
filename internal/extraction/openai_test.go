package extraction

import (
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("OpenAI", func() {
	var (
		apiServer *ghttp.Server
		completer *OpenAI
		err       error
	)

	BeforeEach(func() {
		apiServer = ghttp.NewServer()
		completer, err = NewOpenAI(apiServer.URL(), "test-key", "gpt-4o-mini")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		apiServer.Close()
	})

	Describe("NewOpenAI", func() {
		When("the API key is missing", func() {
			It("returns an error", func() {
				_, err := NewOpenAI("", "", "")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Complete", func() {
		When("the API returns a completion", func() {
			BeforeEach(func() {
				apiServer.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest("POST", "/v1/chat/completions"),
					ghttp.VerifyHeaderKV("Authorization", "Bearer test-key"),
					ghttp.VerifyJSONRepresenting(map[string]interface{}{
						"model": "gpt-4o-mini",
						"messages": []map[string]string{
							{"role": "user", "content": "extract this"},
						},
					}),
					ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]interface{}{
						"choices": []map[string]interface{}{
							{"message": map[string]string{"role": "assistant", "content": `{"invoice_number": "123"}`}},
						},
					}),
				))
			})

			It("returns the first choice's content", func() {
				reply, err := completer.Complete("extract this")
				Expect(err).NotTo(HaveOccurred())
				Expect(reply).To(Equal(`{"invoice_number": "123"}`))
			})
		})

		When("the API returns an empty choices array", func() {
			BeforeEach(func() {
				apiServer.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]interface{}{
					"choices": []interface{}{},
				}))
			})

			It("fails fast with a synthesis error", func() {
				_, err := completer.Complete("extract this")
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, ErrSynthesis)).To(BeTrue())
			})
		})

		When("the API returns an error payload", func() {
			BeforeEach(func() {
				apiServer.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusUnauthorized, map[string]interface{}{
					"error": map[string]string{"message": "Incorrect API key provided"},
				}))
			})

			It("surfaces the upstream error message", func() {
				_, err := completer.Complete("extract this")
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, ErrSynthesis)).To(BeTrue())
				Expect(err.Error()).To(ContainSubstring("Incorrect API key provided"))
			})
		})

		When("the API returns a non-JSON error body", func() {
			BeforeEach(func() {
				apiServer.AppendHandlers(ghttp.RespondWith(http.StatusBadGateway, "upstream timeout"))
			})

			It("includes the status and body in the error", func() {
				_, err := completer.Complete("extract this")
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, ErrSynthesis)).To(BeTrue())
				Expect(err.Error()).To(ContainSubstring("502"))
			})
		})

		When("the server is unreachable", func() {
			BeforeEach(func() {
				apiServer.Close()
			})

			It("returns a synthesis error", func() {
				_, err := completer.Complete("extract this")
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, ErrSynthesis)).To(BeTrue())
			})
		})
	})
})
