package logforwarder_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dolittle/lambda-log-forwarder/pkg/logforwarder"
)

var _ = Describe("ConvertEntry", func() {
	It("copies the payload of a function entry", func() {
		entry := logforwarder.FunctionEntry("hello world\n")

		record, ok, err := logforwarder.ConvertEntry(entry)

		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(record.Data).To(Equal([]byte("hello world\n")))

		entry.Payload[0] = 'H'
		Expect(record.Data).To(Equal([]byte("hello world\n")))
	})

	It("keeps an empty payload as an empty record", func() {
		record, ok, err := logforwarder.ConvertEntry(logforwarder.FunctionEntry(""))

		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(record.Data).To(BeEmpty())
	})

	It("skips entries outside the function category", func() {
		_, ok, err := logforwarder.ConvertEntry(logforwarder.LogEntry{
			Category: logforwarder.CategoryOther,
			Type:     "platform.start",
			Payload:  []byte(`{"requestId":"1"}`),
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("reports a function entry that could not be read", func() {
		_, ok, err := logforwarder.ConvertEntry(logforwarder.LogEntry{
			Category: logforwarder.CategoryFunction,
			Type:     "function",
			Time:     "2020-08-20T12:31:32.123Z",
			Err:      errors.New("record is not a string"),
		})

		Expect(ok).To(BeFalse())
		Expect(errors.Is(err, logforwarder.ErrMalformedEntry)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("record is not a string"))
	})

	It("reports an unknown category", func() {
		_, ok, err := logforwarder.ConvertEntry(logforwarder.LogEntry{Category: logforwarder.Category(42)})

		Expect(ok).To(BeFalse())
		Expect(errors.Is(err, logforwarder.ErrMalformedEntry)).To(BeTrue())
	})
})
