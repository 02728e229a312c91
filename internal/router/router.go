// Package router translates text through the translator Lambda functions.
//
// Each translator Lambda serves one model: Romance languages to English,
// English to Romance languages, German to English and English to German.
// Pairs that do not involve English pivot through it, so a request may
// invoke two functions in sequence.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// DefaultFunctionPrefix prefixes every translator function name.
const DefaultFunctionPrefix = "pricofy-translator"

// Translator models, appended to the function prefix.
const (
	modelRomanceEn = "romance-en"
	modelEnRomance = "en-romance"
	modelDeEn      = "de-en"
	modelEnDe      = "en-de"
)

// romanceLanguages are served by the opus-mt ROMANCE models.
var romanceLanguages = map[string]bool{
	"es": true, "es_AR": true, "es_CL": true, "es_CO": true, "es_CR": true,
	"es_DO": true, "es_EC": true, "es_ES": true, "es_GT": true, "es_HN": true,
	"es_MX": true, "es_NI": true, "es_PA": true, "es_PE": true, "es_PR": true,
	"es_SV": true, "es_UY": true, "es_VE": true,
	"fr": true, "fr_BE": true, "fr_CA": true, "fr_FR": true,
	"wa": true, "frp": true, "oc": true,
	"it": true, "co": true, "nap": true, "scn": true, "vec": true,
	"pt": true, "pt_BR": true, "pt_PT": true, "gl": true, "mwl": true,
	"ca": true, "an": true, "lad": true,
	"ro": true,
	"la": true, "rm": true, "lld": true, "fur": true, "lij": true, "lmo": true, "sc": true,
}

// Invoker is the subset of the Lambda client used by Router.
type Invoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Router implements translator.Service on top of the translator Lambdas.
// It is safe for concurrent use.
type Router struct {
	lambdaClient Invoker
	prefix       string
}

// TranslatorRequest is the payload sent to a translator Lambda.
type TranslatorRequest struct {
	Chunks     [][]string `json:"chunks"`
	TargetLang string     `json:"target_lang,omitempty"` // only for en-romance
}

// TranslatorResponse is the payload returned by a translator Lambda.
type TranslatorResponse struct {
	Translations [][]string `json:"translations"`
	Error        string     `json:"error,omitempty"`
}

type step struct {
	model      string
	targetLang string
}

// New creates a Router from a resolved AWS configuration.
func New(cfg aws.Config, prefix string) *Router {
	return NewWithInvoker(lambda.NewFromConfig(cfg), prefix)
}

// NewWithInvoker creates a Router on top of an existing Lambda client.
func NewWithInvoker(inv Invoker, prefix string) *Router {
	if prefix == "" {
		prefix = DefaultFunctionPrefix
	}
	return &Router{lambdaClient: inv, prefix: prefix}
}

func isSupported(lang string) bool {
	return lang == "en" || lang == "de" || romanceLanguages[lang]
}

// IsValidPair reports whether source can be translated into target.
func IsValidPair(source, target string) bool {
	return isSupported(source) && isSupported(target) && source != target
}

// SupportedLanguages returns every supported language code, sorted.
func SupportedLanguages() []string {
	langs := []string{"de", "en"}
	for lang := range romanceLanguages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// ListLanguages returns the supported languages. The Lambdas have no
// language detection, so "auto" is never listed.
func (r *Router) ListLanguages(ctx context.Context) ([]string, error) {
	return SupportedLanguages(), nil
}

// route returns the models to run in order, or nil when the pair is not
// supported.
func route(source, target string) []step {
	if !IsValidPair(source, target) {
		return nil
	}
	var steps []step
	switch {
	case source == "de":
		steps = append(steps, step{model: modelDeEn})
	case romanceLanguages[source]:
		steps = append(steps, step{model: modelRomanceEn})
	}
	switch {
	case target == "de":
		steps = append(steps, step{model: modelEnDe})
	case romanceLanguages[target]:
		steps = append(steps, step{model: modelEnRomance, targetLang: target})
	}
	return steps
}

// TranslateText translates one text.
func (r *Router) TranslateText(ctx context.Context, source, target, text string) (string, error) {
	results, err := r.TranslateChunks(ctx, source, target, [][]string{{text}})
	if err != nil {
		return "", err
	}
	if len(results) != 1 || len(results[0]) != 1 {
		return "", fmt.Errorf("translator returned %d chunks for 1 text", len(results))
	}
	return results[0][0], nil
}

// TranslateChunks translates every chunk, chaining two functions for
// pairs that pivot through English.
func (r *Router) TranslateChunks(ctx context.Context, source, target string, chunks [][]string) ([][]string, error) {
	if len(chunks) == 0 {
		return [][]string{}, nil
	}

	steps := route(source, target)
	if steps == nil {
		return nil, fmt.Errorf("unsupported language pair: %s-%s", source, target)
	}

	current := chunks
	for i, s := range steps {
		name := r.prefix + "-" + s.model
		result, err := r.invokeLambda(ctx, name, s.targetLang, current)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s) failed: %w", i+1, name, err)
		}
		current = result
	}
	return current, nil
}

func (r *Router) invokeLambda(ctx context.Context, functionName, targetLang string, chunks [][]string) ([][]string, error) {
	payload, err := json.Marshal(TranslatorRequest{Chunks: chunks, TargetLang: targetLang})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := r.lambdaClient.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(functionName),
		Payload:      payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", functionName, err)
	}
	if result.FunctionError != nil {
		return nil, fmt.Errorf("lambda error: %s", aws.ToString(result.FunctionError))
	}

	var resp TranslatorResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("translator error: %s", resp.Error)
	}
	if len(resp.Translations) != len(chunks) {
		return nil, fmt.Errorf("translator returned %d chunks, want %d", len(resp.Translations), len(chunks))
	}
	return resp.Translations, nil
}
