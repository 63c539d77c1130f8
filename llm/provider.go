// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

// Package llm builds the chat models used to talk to LLM services.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mapchat/mapchat/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

const (
	defaultOpenAIModel = "gpt-3.5-turbo"
	defaultOllamaHost  = "http://localhost:11434"
	defaultOllamaModel = "llama3:8b"
)

var (
	// ErrEmptyResponse is returned when the model answers without content.
	ErrEmptyResponse = errors.New("llm returned an empty response")
	// ErrMissingAPIKey is returned when a hosted provider has no credentials.
	ErrMissingAPIKey = errors.New("llm api key is not set")
)

// NewModel returns the chat model configured in cfg. httpClient may be nil.
func NewModel(cfg config.LLMConfig, httpClient *http.Client) (llms.Model, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider: %w", ErrMissingAPIKey)
		}

		model := cfg.Model
		if model == "" {
			model = defaultOpenAIModel
		}

		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(model),
			openai.WithHTTPClient(httpClient),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
		}

		m, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("creating openai client: %w", err)
		}

		return m, nil

	case "ollama":
		host := cfg.BaseURL
		if host == "" {
			host = defaultOllamaHost
		}

		model := cfg.Model
		if model == "" {
			model = defaultOllamaModel
		}

		m, err := ollama.New(
			ollama.WithServerURL(host),
			ollama.WithModel(model),
			ollama.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("creating ollama client: %w", err)
		}

		return m, nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

// Chat sends a single system + user exchange and returns the reply text.
func Chat(ctx context.Context, model llms.Model, systemPrompt, userMessage string) (string, error) {
	resp, err := model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, userMessage),
	})
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Content, nil
}
