package stream

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/kinesis"
	"github.com/aws/aws-sdk-go/service/kinesis/kinesisiface"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type kinesisRepo struct {
	logContext    logrus.FieldLogger
	client        kinesisiface.KinesisAPI
	failOnPartial bool
}

// NewKinesisClient builds a client from the ambient AWS environment
// (credentials and region as provided to the Lambda sandbox).
func NewKinesisClient(region string, endpoint string) (kinesisiface.KinesisAPI, error) {
	cfg := aws.NewConfig()
	if region != "" {
		cfg = cfg.WithRegion(region)
	}
	if endpoint != "" {
		cfg = cfg.WithEndpoint(endpoint)
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "creating aws session")
	}
	return kinesis.New(sess), nil
}

func NewKinesisRepo(logContext logrus.FieldLogger, client kinesisiface.KinesisAPI, failOnPartial bool) Repo {
	return &kinesisRepo{
		logContext:    logContext,
		client:        client,
		failOnPartial: failOnPartial,
	}
}

// PutRecords writes the records with as few PutRecords requests as the
// request limits allow, usually one. The first failing request fails the
// whole write.
func (r *kinesisRepo) PutRecords(ctx context.Context, streamName string, records []Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	partial := &PartialFailureError{
		StreamName: streamName,
		Total:      len(records),
		Codes:      map[string]int{},
	}

	written := 0
	for _, chunk := range chunkRecords(records) {
		output, err := r.client.PutRecordsWithContext(ctx, &kinesis.PutRecordsInput{
			StreamName: aws.String(streamName),
			Records:    chunk,
		})
		if err != nil {
			return errors.Wrapf(err, "kinesis put records (%d of %d already written)", written, len(records))
		}
		written += len(chunk)

		if aws.Int64Value(output.FailedRecordCount) == 0 {
			continue
		}
		partial.Failed += int(aws.Int64Value(output.FailedRecordCount))
		for _, result := range output.Records {
			if result == nil || result.ErrorCode == nil {
				continue
			}
			partial.Codes[aws.StringValue(result.ErrorCode)]++
		}
	}

	if partial.Failed == 0 {
		return nil
	}

	r.logContext.WithFields(logrus.Fields{
		"stream_name": streamName,
		"failed":      partial.Failed,
		"total":       partial.Total,
		"codes":       partial.Codes,
	}).Warn("kinesis rejected some records")

	if r.failOnPartial {
		return partial
	}
	return nil
}

// chunkRecords keeps order. Each record gets a random partition key so the
// stream spreads them over its shards.
func chunkRecords(records []Record) [][]*kinesis.PutRecordsRequestEntry {
	var (
		chunks [][]*kinesis.PutRecordsRequestEntry
		chunk  []*kinesis.PutRecordsRequestEntry
		size   int
	)

	for _, record := range records {
		partitionKey := uuid.New().String()
		entrySize := len(record.Data) + len(partitionKey)

		if len(chunk) == MaxKinesisRecords || (len(chunk) > 0 && size+entrySize > MaxKinesisRequestBytes) {
			chunks = append(chunks, chunk)
			chunk = nil
			size = 0
		}

		chunk = append(chunk, &kinesis.PutRecordsRequestEntry{
			Data:         record.Data,
			PartitionKey: aws.String(partitionKey),
		})
		size += entrySize
	}
	return append(chunks, chunk)
}
