// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

// Package extraction asks a chat model for the place names mentioned in a
// piece of text.
package extraction

import (
	"context"
	"fmt"

	"github.com/mapchat/mapchat/llm"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const (
	// SystemPrompt instructs the model to act as a place extractor that only
	// answers with a JSON array.
	SystemPrompt = "你是一个地点提取助手。从用户输入中提取出所有地点名称，并以JSON数组形式返回。仅返回JSON数组，不要有其他文字。"

	userPromptFormat = "从以下文本中提取地点名称: '%s'"
)

// Extractor extracts place names using a chat model.
type Extractor struct {
	model  llms.Model
	logger *zap.SugaredLogger
}

// NewExtractor creates a new Extractor.
func NewExtractor(model llms.Model, logger *zap.SugaredLogger) *Extractor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Extractor{
		model:  model,
		logger: logger,
	}
}

// UserPrompt returns the user message sent for text.
func UserPrompt(text string) string {
	return fmt.Sprintf(userPromptFormat, text)
}

// Extract returns the place names found in text, in the order the model
// listed them.
func (e *Extractor) Extract(ctx context.Context, text string) ([]string, error) {
	content, err := llm.Chat(ctx, e.model, SystemPrompt, UserPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("extracting places: %w", err)
	}

	places := ParsePlaces(content)
	e.logger.Debugw("places extracted", "reply", content, "places", places)

	return places, nil
}
