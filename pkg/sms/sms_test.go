package sms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afyalink/pkg/logger"
)

func TestLogProvider_SendSMS(t *testing.T) {
	provider := NewLogProvider(logger.NewNop())

	first, err := provider.SendSMS(context.Background(), &SMSRequest{To: "+254712345678", Message: "hello"})
	require.NoError(t, err)
	second, err := provider.SendSMS(context.Background(), &SMSRequest{To: "+254712345678", Message: "again"})
	require.NoError(t, err)

	assert.Equal(t, "logged", first.Status)
	assert.NotEqual(t, first.MessageID, second.MessageID)
	assert.Equal(t, "log", provider.Name())
}

func TestLogProvider_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLogProvider(logger.NewNop()).SendSMS(ctx, &SMSRequest{To: "+254712345678"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAWSSNSProvider_MessageAttributes(t *testing.T) {
	provider := &AWSSNSProvider{senderID: "AfyaLink"}

	attrs := provider.messageAttributes(&SMSRequest{Type: TypeTransactional})
	assert.Equal(t, "Transactional", *attrs["AWS.SNS.SMS.SMSType"].StringValue)
	assert.Equal(t, "AfyaLink", *attrs["AWS.SNS.SMS.SenderID"].StringValue)

	attrs = (&AWSSNSProvider{}).messageAttributes(&SMSRequest{Type: TypePromotional})
	assert.Equal(t, "Promotional", *attrs["AWS.SNS.SMS.SMSType"].StringValue)
	assert.NotContains(t, attrs, "AWS.SNS.SMS.SenderID")
}

func TestTwilioProvider_FromNumberFallback(t *testing.T) {
	provider := NewTwilioProvider("AC000", "token", "+15550000000")

	assert.Equal(t, "+15550000000", provider.getFromNumber(""))
	assert.Equal(t, "+15551111111", provider.getFromNumber("+15551111111"))
	assert.Equal(t, "twilio", provider.Name())
}
