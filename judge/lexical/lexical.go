//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

// Package lexical provides a deterministic judge that scores criteria by
// keyword overlap against the transcript. It is a cheap offline baseline
// for CI runs without model access, not a replacement for an LLM judge.
package lexical

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/neurosnap/sentences"
	sentencesdata "github.com/neurosnap/sentences/data"

	"github.com/convcheck/convcheck/conversation"
	"github.com/convcheck/convcheck/evaluator"
	"github.com/convcheck/convcheck/judge"
)

// defaultThreshold is the overlap fraction required for a pass verdict.
const defaultThreshold = 0.3

var (
	_ judge.Judge      = (*Judge)(nil)
	_ judge.Identifier = (*Judge)(nil)

	// englishTokenizerOnce ensures the Punkt model is loaded once.
	englishTokenizerOnce sync.Once
	englishTokenizer     *sentences.DefaultSentenceTokenizer
	englishTokenizerErr  error
)

// Judge renders pass verdicts when enough of a criterion's content words
// appear in the conversation. Verdicts are deterministic for a given
// conversation and criteria set.
type Judge struct {
	threshold float64
}

// New creates a lexical judge.
func New(opt ...Option) *Judge {
	opts := newOptions(opt...)
	return &Judge{threshold: opts.threshold}
}

// ModelID identifies the deterministic baseline.
func (j *Judge) ModelID() string {
	return "lexical-overlap"
}

// EvaluateObject implements judge.Judge. The criteria are recovered from
// the system instruction, since the adapter contract carries them only as
// instruction text.
func (j *Judge) EvaluateObject(ctx context.Context, req *judge.Request) (*judge.Response, error) {
	if req == nil {
		return nil, errors.New("request is nil")
	}
	criteria := evaluator.ParseInstruction(req.SystemPrompt)
	if len(criteria) == 0 {
		return nil, errors.New("system prompt lists no criteria")
	}
	transcriptTokens, err := transcriptTokenSet(req.Messages)
	if err != nil {
		return nil, fmt.Errorf("tokenize transcript: %w", err)
	}
	verdicts := make([]evaluator.CriterionResult, 0, len(criteria))
	for _, c := range criteria {
		verdicts = append(verdicts, evaluator.CriterionResult{
			ID:          c.ID,
			Description: c.Description,
			Passed:      j.overlap(transcriptTokens, c.Description) >= j.threshold,
		})
	}
	object, err := json.Marshal(struct {
		Criteria []evaluator.CriterionResult `json:"criteria"`
	}{Criteria: verdicts})
	if err != nil {
		return nil, fmt.Errorf("marshal verdict: %w", err)
	}
	return &judge.Response{Object: object}, nil
}

// overlap computes the fraction of the description's content words found
// in the transcript token set.
func (j *Judge) overlap(transcriptTokens map[string]struct{}, description string) float64 {
	words := contentWords(description)
	if len(words) == 0 {
		return 0
	}
	matched := 0
	for _, word := range words {
		if _, ok := transcriptTokens[word]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(words))
}

// transcriptTokenSet sentence-splits the rendered transcript and collects
// its lowercase word tokens.
func transcriptTokenSet(messages []conversation.Message) (map[string]struct{}, error) {
	tokenizer, err := loadEnglishTokenizer()
	if err != nil {
		return nil, err
	}
	tokens := make(map[string]struct{})
	for _, msg := range messages {
		for _, sentence := range tokenizer.Tokenize(msg.Render()) {
			for _, word := range splitWords(sentence.Text) {
				tokens[word] = struct{}{}
			}
		}
	}
	return tokens, nil
}

// loadEnglishTokenizer lazily loads the English Punkt training data.
func loadEnglishTokenizer() (*sentences.DefaultSentenceTokenizer, error) {
	englishTokenizerOnce.Do(func() {
		b, err := sentencesdata.Asset("data/english.json")
		if err != nil {
			englishTokenizerErr = fmt.Errorf("load english punkt data: %w", err)
			return
		}
		training, err := sentences.LoadTraining(b)
		if err != nil {
			englishTokenizerErr = fmt.Errorf("parse english punkt data: %w", err)
			return
		}
		englishTokenizer = sentences.NewSentenceTokenizer(training)
	})
	if englishTokenizerErr != nil {
		return nil, englishTokenizerErr
	}
	return englishTokenizer, nil
}

// splitWords lowercases and splits on non-letter, non-digit runes.
func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// contentWords filters short function words out of a description.
func contentWords(description string) []string {
	var words []string
	for _, word := range splitWords(description) {
		if len(word) <= 3 {
			continue
		}
		words = append(words, word)
	}
	return words
}
