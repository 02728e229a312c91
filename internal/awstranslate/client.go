// Package awstranslate adapts Amazon Translate to the translator.Service
// interface.
package awstranslate

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/translate"
)

// API is the subset of the Amazon Translate client used here.
type API interface {
	ListLanguages(ctx context.Context, params *translate.ListLanguagesInput, optFns ...func(*translate.Options)) (*translate.ListLanguagesOutput, error)
	TranslateText(ctx context.Context, params *translate.TranslateTextInput, optFns ...func(*translate.Options)) (*translate.TranslateTextOutput, error)
}

// Client calls Amazon Translate. It is safe for concurrent use.
type Client struct {
	api API
}

// New creates a Client from a resolved AWS configuration.
func New(cfg aws.Config) *Client {
	return NewFromAPI(translate.NewFromConfig(cfg))
}

// NewFromAPI wraps an existing API implementation.
func NewFromAPI(api API) *Client {
	return &Client{api: api}
}

// ListLanguages returns the code of every language Amazon Translate
// supports, including the "auto" detection code, following pagination.
func (c *Client) ListLanguages(ctx context.Context) ([]string, error) {
	var codes []string
	var next *string
	for {
		out, err := c.api.ListLanguages(ctx, &translate.ListLanguagesInput{NextToken: next})
		if err != nil {
			return nil, fmt.Errorf("failed to list languages: %w", err)
		}
		for _, lang := range out.Languages {
			if code := aws.ToString(lang.LanguageCode); code != "" {
				codes = append(codes, code)
			}
		}
		if aws.ToString(out.NextToken) == "" {
			return codes, nil
		}
		next = out.NextToken
	}
}

// TranslateText translates one text.
func (c *Client) TranslateText(ctx context.Context, source, target, text string) (string, error) {
	out, err := c.api.TranslateText(ctx, &translate.TranslateTextInput{
		SourceLanguageCode: aws.String(source),
		TargetLanguageCode: aws.String(target),
		Text:               aws.String(text),
	})
	if err != nil {
		return "", fmt.Errorf("failed to translate %s→%s: %w", source, target, err)
	}
	return aws.ToString(out.TranslatedText), nil
}
