package extension_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"

	"github.com/dolittle/lambda-log-forwarder/pkg/extension"
	"github.com/dolittle/lambda-log-forwarder/pkg/logforwarder"
	"github.com/dolittle/lambda-log-forwarder/pkg/stream"
	mockStream "github.com/dolittle/lambda-log-forwarder/pkg/stream/mocks"
)

type notReadyForwarder struct{}

func (notReadyForwarder) Forward(ctx context.Context, batch logforwarder.Batch) error {
	return errors.New("should not be called")
}

func (notReadyForwarder) Ready() bool {
	return false
}

var _ = Describe("Listener", func() {
	var (
		logger   *logrus.Logger
		repo     *mockStream.Repo
		handler  http.Handler
		w        *httptest.ResponseRecorder
		delivery string
	)

	BeforeEach(func() {
		logger, _ = logrusTest.NewNullLogger()
		repo = &mockStream.Repo{}
		forwarder, err := logforwarder.NewForwarder(logger, "lambda-logs", repo)
		Expect(err).ToNot(HaveOccurred())

		handler = extension.NewListener(logger, forwarder, "127.0.0.1:0").Handler()
		w = httptest.NewRecorder()
		delivery = `[
			{"time": "2020-08-20T12:31:32.123Z", "type": "function", "record": "a"},
			{"time": "2020-08-20T12:31:32.124Z", "type": "function", "record": "b"}
		]`
	})

	post := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "http://sandbox.localdomain:9002/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	It("forwards a delivery and acknowledges it", func() {
		repo.On("PutRecords", mock.Anything, "lambda-logs", []stream.Record{
			{Data: []byte("a")},
			{Data: []byte("b")},
		}).Return(nil)

		handler.ServeHTTP(w, post(delivery))

		Expect(w.Code).To(Equal(http.StatusOK))
		repo.AssertExpectations(GinkgoT())
	})

	It("reports a failed write so the host can redeliver", func() {
		repo.On("PutRecords", mock.Anything, "lambda-logs", mock.Anything).Return(errors.New("throttled"))

		handler.ServeHTTP(w, post(delivery))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})

	It("acknowledges an empty delivery without writing", func() {
		handler.ServeHTTP(w, post(`[]`))

		Expect(w.Code).To(Equal(http.StatusOK))
		repo.AssertNotCalled(GinkgoT(), "PutRecords", mock.Anything, mock.Anything, mock.Anything)
	})

	It("rejects a body that is not a log batch", func() {
		handler.ServeHTTP(w, post(`not json`))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		repo.AssertNotCalled(GinkgoT(), "PutRecords", mock.Anything, mock.Anything, mock.Anything)
	})

	It("rejects other content types", func() {
		req := post(delivery)
		req.Header.Set("Content-Type", "text/plain")

		handler.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnsupportedMediaType))
	})

	It("only accepts POST", func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://sandbox.localdomain:9002/", nil))

		Expect(w.Code).To(Equal(http.StatusMethodNotAllowed))
	})

	It("refuses deliveries while the forwarder is not ready", func() {
		handler = extension.NewListener(logger, notReadyForwarder{}, "127.0.0.1:0").Handler()

		handler.ServeHTTP(w, post(delivery))

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})
})
