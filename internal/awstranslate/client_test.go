package awstranslate

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/translate"
	"github.com/aws/aws-sdk-go-v2/service/translate/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	pages     [][]string
	listErr   error
	listCalls []*translate.ListLanguagesInput

	translateErr error
	lastInput    *translate.TranslateTextInput
}

func (f *fakeAPI) ListLanguages(ctx context.Context, params *translate.ListLanguagesInput, optFns ...func(*translate.Options)) (*translate.ListLanguagesOutput, error) {
	f.listCalls = append(f.listCalls, params)
	if f.listErr != nil {
		return nil, f.listErr
	}

	page := len(f.listCalls) - 1
	out := &translate.ListLanguagesOutput{}
	for _, code := range f.pages[page] {
		out.Languages = append(out.Languages, types.Language{LanguageCode: aws.String(code)})
	}
	if page < len(f.pages)-1 {
		out.NextToken = aws.String("page-token")
	}
	return out, nil
}

func (f *fakeAPI) TranslateText(ctx context.Context, params *translate.TranslateTextInput, optFns ...func(*translate.Options)) (*translate.TranslateTextOutput, error) {
	f.lastInput = params
	if f.translateErr != nil {
		return nil, f.translateErr
	}
	return &translate.TranslateTextOutput{
		TranslatedText: aws.String("bonjour"),
	}, nil
}

func TestListLanguages_FollowsPagination(t *testing.T) {
	api := &fakeAPI{pages: [][]string{{"auto", "en"}, {"fr"}, {"de"}}}

	codes, err := NewFromAPI(api).ListLanguages(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"auto", "en", "fr", "de"}, codes)
	require.Len(t, api.listCalls, 3)
	assert.Nil(t, api.listCalls[0].NextToken)
	assert.Equal(t, "page-token", aws.ToString(api.listCalls[1].NextToken))
}

func TestListLanguages_Error(t *testing.T) {
	api := &fakeAPI{listErr: &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "denied"}}

	_, err := NewFromAPI(api).ListLanguages(context.Background())
	require.Error(t, err)

	var apiErr smithy.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "AccessDeniedException", apiErr.ErrorCode())
}

func TestTranslateText(t *testing.T) {
	api := &fakeAPI{}

	got, err := NewFromAPI(api).TranslateText(context.Background(), "en", "fr", "hello")
	require.NoError(t, err)

	assert.Equal(t, "bonjour", got)
	assert.Equal(t, "en", aws.ToString(api.lastInput.SourceLanguageCode))
	assert.Equal(t, "fr", aws.ToString(api.lastInput.TargetLanguageCode))
	assert.Equal(t, "hello", aws.ToString(api.lastInput.Text))
}

func TestTranslateText_Error(t *testing.T) {
	api := &fakeAPI{translateErr: &smithy.GenericAPIError{Code: "ThrottlingException"}}

	_, err := NewFromAPI(api).TranslateText(context.Background(), "en", "fr", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "en→fr")
}
