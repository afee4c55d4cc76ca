package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/shashiranjanraj/electrostore/config"
)

// SESMailer sends through Amazon SES. Static credentials come from S3_KEY and
// S3_SECRET when set, otherwise the default AWS credential chain is used.
type SESMailer struct {
	client *ses.Client
	from   string
}

func NewSESMailer(ctx context.Context) (*SESMailer, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.MailSESRegion()),
	}
	if key := config.StorageS3Key(); key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, config.StorageS3Secret(), ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail/ses: load aws config: %w", err)
	}

	from := config.MailFrom()
	if name := config.MailFromName(); name != "" {
		from = fmt.Sprintf("%s <%s>", name, from)
	}
	return &SESMailer{client: ses.NewFromConfig(cfg), from: from}, nil
}

func (s *SESMailer) Send(ctx context.Context, m Message) error {
	body := &types.Body{}
	if m.HTML != "" {
		body.Html = &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(m.HTML)}
	}
	if m.Text != "" {
		body.Text = &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(m.Text)}
	}

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(s.from),
		Destination: &types.Destination{ToAddresses: m.To},
		Message: &types.Message{
			Subject: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(m.Subject)},
			Body:    body,
		},
	})
	if err != nil {
		return fmt.Errorf("mail/ses: send: %w", err)
	}
	return nil
}
