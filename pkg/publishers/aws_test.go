package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSPublisherSendsEventBody(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "queue", queueURL: "https://sqs.local/q", client: client, log: noopLogger{}}

	evt := NewEvent(EventLoginSucceeded, "picnic", "sess-1")
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if client.input == nil {
		t.Fatalf("expected SendMessage to be called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://sqs.local/q" {
		t.Fatalf("unexpected queue url %q", got)
	}

	var decoded Event
	if err := json.Unmarshal([]byte(aws.ToString(client.input.MessageBody)), &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded.Type != EventLoginSucceeded || decoded.Username != "picnic" || decoded.SessionID != "sess-1" {
		t.Fatalf("unexpected event %+v", decoded)
	}
	if got := aws.ToString(client.input.MessageAttributes["event_type"].StringValue); got != EventLoginSucceeded {
		t.Fatalf("unexpected event_type attribute %q", got)
	}
}

func TestSQSPublisherWrapsSendError(t *testing.T) {
	pub := &sqsPublisher{id: "queue", client: &fakeSQSClient{err: errors.New("throttled")}, log: noopLogger{}}
	if err := pub.Publish(context.Background(), Event{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSNSPublisherPublishesToTopic(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{id: "topic", topicARN: "arn:aws:sns:us-east-1:1:auth", client: client, log: noopLogger{}}

	evt := NewEvent(EventLoginFailed, "picnic", "").WithReason("invalid password")
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:us-east-1:1:auth" {
		t.Fatalf("unexpected topic %q", got)
	}

	var decoded Event
	if err := json.Unmarshal([]byte(aws.ToString(client.input.Message)), &decoded); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if decoded.Reason != "invalid password" {
		t.Fatalf("expected reason to be carried, got %+v", decoded)
	}
}

func TestSNSPublisherWrapsError(t *testing.T) {
	pub := &snsPublisher{id: "topic", client: &fakeSNSClient{err: errors.New("denied")}, log: noopLogger{}}
	if err := pub.Publish(context.Background(), Event{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewSQSPublisherWithStaticCredentials(t *testing.T) {
	pub, err := newSQSPublisher(context.Background(), PublisherConfig{
		ID:   "queue",
		Type: TypeSQS,
		SQS: &SQSPublisherConfig{
			AWSConfig: AWSConfig{
				Region:          "us-east-1",
				AccessKeyID:     "test",
				SecretAccessKey: "test",
				Endpoint:        "http://localhost:4566",
			},
			QueueURL: "http://localhost:4566/000000000000/auth",
		},
	}, nil)
	if err != nil {
		t.Fatalf("newSQSPublisher: %v", err)
	}
	if pub.ID() != "queue" || pub.Type() != TypeSQS {
		t.Fatalf("unexpected publisher identity %s/%s", pub.ID(), pub.Type())
	}
}
