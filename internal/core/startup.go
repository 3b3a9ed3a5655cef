package core

import (
	"fmt"
	"os"
	"strings"
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// MissingCredentialMessage is shown on the page-level error when the API key
// is absent.
const MissingCredentialMessage = "APIキーが設定されていません。.envファイルを確認してください。"

// Precondition is the outcome of the startup credential check.
type Precondition struct {
	OK       bool
	Variable string
	// Message is the user-facing error, ConsoleMessage names the variable.
	Message        string
	ConsoleMessage string
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// CredentialVariable returns the environment variable holding the API key for
// provider. Unknown providers resolve to the OpenAI key.
func CredentialVariable(provider string) string {
	if NormalizeProvider(provider) == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// NormalizeProvider lower-cases provider and maps empty to openai.
func NormalizeProvider(provider string) string {
	p := strings.ToLower(strings.TrimSpace(provider))
	if p == "" {
		return ProviderOpenAI
	}
	return p
}

// CheckCredential verifies the provider's API key is present and non-empty.
// It must run once before the server starts accepting requests.
func CheckCredential(provider string, lookup LookupFunc) Precondition {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	variable := CredentialVariable(provider)
	if v, ok := lookup(variable); ok && v != "" {
		return Precondition{OK: true, Variable: variable}
	}
	return Precondition{
		OK:             false,
		Variable:       variable,
		Message:        MissingCredentialMessage,
		ConsoleMessage: fmt.Sprintf("エラー: %sが設定されていません。.envファイルを確認してください。", variable),
	}
}
