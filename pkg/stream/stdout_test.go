package stream_test

import (
	"bytes"
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dolittle/lambda-log-forwarder/pkg/stream"
)

var _ = Describe("Stdout repo", func() {
	It("writes one json line per record", func() {
		var out bytes.Buffer
		repo := stream.NewStdoutRepo(&out)

		err := repo.PutRecords(context.Background(), "logs", []stream.Record{
			{Data: []byte("a")},
			{Data: []byte("b")},
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(out.String()).To(Equal("{\"stream\":\"logs\",\"data\":\"YQ==\"}\n{\"stream\":\"logs\",\"data\":\"Yg==\"}\n"))
	})

	It("keeps bytes that are not valid utf-8", func() {
		var out bytes.Buffer
		repo := stream.NewStdoutRepo(&out)
		data := []byte{0xff, 0xfe, 'x', 0x00}

		err := repo.PutRecords(context.Background(), "logs", []stream.Record{{Data: data}})
		Expect(err).ToNot(HaveOccurred())

		var line struct {
			Stream string `json:"stream"`
			Data   []byte `json:"data"`
		}
		Expect(json.Unmarshal(out.Bytes(), &line)).To(Succeed())
		Expect(line.Data).To(Equal(data))
	})
})
