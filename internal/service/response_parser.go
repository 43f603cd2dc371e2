package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rmontano/testbank/internal/model"
	"github.com/rs/zerolog/log"
)

// ResponseParser turns the model's free-form response text into validated
// candidate questions. The upstream service is non-deterministic and
// occasionally wraps the JSON in prose or markdown, truncates it, or mixes
// in objects with wrong types; the parser's job is to extract maximum
// signal, never to assume well-formed input.
type ResponseParser interface {
	ParseQuestions(raw string) ([]model.CandidateQuestion, error)
}

type responseParser struct{}

func NewResponseParser() ResponseParser {
	return &responseParser{}
}

const parseFailurePreviewLen = 500

func (p *responseParser) ParseQuestions(raw string) ([]model.CandidateQuestion, error) {
	text := stripCodeFences(strings.TrimSpace(raw))
	text = locateJSONPayload(text)

	objects, err := decodeQuestionObjects(text)
	if err != nil {
		// Degraded-confidence path: the strict decode failed, so scan for
		// brace-balanced substrings and validate each independently. One
		// malformed object must not discard an otherwise valid batch.
		salvaged := salvageObjects(text)
		if len(salvaged) > 0 {
			log.Warn().Int("recovered", len(salvaged)).Msg("Recovered questions from malformed AI response")
			objects = salvaged
		} else {
			return nil, &ParseFailureError{Preview: preview(text), Err: err}
		}
	}

	candidates := make([]model.CandidateQuestion, 0, len(objects))
	for i, obj := range objects {
		candidate, ok := validateCandidate(obj)
		if !ok {
			log.Debug().Int("index", i).Msg("Skipping question that failed validation")
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// stripCodeFences removes a ``` or ```json wrapper when the model ignores
// the no-markdown instruction.
func stripCodeFences(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
		return strings.TrimSpace(text)
	}
	return text
}

// locateJSONPayload trims leading/trailing prose around the first JSON
// array or object in the text.
func locateJSONPayload(text string) string {
	if strings.HasPrefix(text, "[") || strings.HasPrefix(text, "{") {
		return text
	}
	arrStart := strings.Index(text, "[")
	objStart := strings.Index(text, "{")
	start := arrStart
	closer := "]"
	if start < 0 || (objStart >= 0 && objStart < arrStart) {
		start = objStart
		closer = "}"
	}
	if start < 0 {
		return text
	}
	end := strings.LastIndex(text, closer)
	if end <= start {
		return text[start:]
	}
	return text[start : end+1]
}

// decodeQuestionObjects performs the strict parse. A bare array is the
// requested schema; a {"questions": [...]} wrapper is accepted as a common
// model deviation.
func decodeQuestionObjects(text string) ([]map[string]any, error) {
	if strings.HasPrefix(text, "{") {
		var wrapper struct {
			Questions []map[string]any `json:"questions"`
		}
		if err := json.Unmarshal([]byte(text), &wrapper); err != nil {
			return nil, fmt.Errorf("decoding response object: %w", err)
		}
		return wrapper.Questions, nil
	}
	var objects []map[string]any
	if err := json.Unmarshal([]byte(text), &objects); err != nil {
		return nil, fmt.Errorf("decoding response array: %w", err)
	}
	return objects, nil
}

// salvageObjects scans for brace-balanced substrings and parses each
// independently, keeping those that look like question objects. Objects
// that never close (a truncated tail) are dropped; objects nested inside a
// truncated wrapper are still recovered.
func salvageObjects(text string) []map[string]any {
	var objects []map[string]any
	var starts []int
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			starts = append(starts, i)
		case '}':
			if len(starts) == 0 {
				continue
			}
			start := starts[len(starts)-1]
			starts = starts[:len(starts)-1]
			var obj map[string]any
			if err := json.Unmarshal([]byte(text[start:i+1]), &obj); err != nil {
				continue
			}
			// Only question-shaped objects count; this skips nested helper
			// objects and a fully closed {"questions": ...} wrapper, whose
			// elements were already collected individually.
			if _, ok := obj["question"]; ok {
				objects = append(objects, obj)
			}
		}
	}
	return objects
}

// validateCandidate checks the minimum shape of one parsed object and
// applies defaults for absent optional fields. Re-validating an already
// valid candidate changes nothing.
func validateCandidate(obj map[string]any) (model.CandidateQuestion, bool) {
	c := model.CandidateQuestion{
		Type:        stringField(obj, "type"),
		Question:    stringField(obj, "question"),
		OptionA:     optionField(obj, "option_a", "a"),
		OptionB:     optionField(obj, "option_b", "b"),
		OptionC:     optionField(obj, "option_c", "c"),
		OptionD:     optionField(obj, "option_d", "d"),
		Answer:      stringField(obj, "answer", "correct_answer"),
		Explanation: stringField(obj, "explanation"),
		Difficulty:  stringField(obj, "difficulty"),
		Points:      intField(obj, "points"),
	}

	if c.Type == "" || strings.TrimSpace(c.Question) == "" {
		return model.CandidateQuestion{}, false
	}
	if c.Type == model.TypeMultipleChoice {
		for _, opt := range []string{c.OptionA, c.OptionB, c.OptionC, c.OptionD} {
			if strings.TrimSpace(opt) == "" {
				return model.CandidateQuestion{}, false
			}
		}
	}

	switch c.Difficulty {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		c.Difficulty = model.DifficultyMedium
	}
	if c.Points < 1 {
		c.Points = 1
	}
	return c, true
}

// stringField fetches the first present key, tolerating numeric and boolean
// values for fields the model sometimes mistypes.
func stringField(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := obj[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return t
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(t)
		}
	}
	return ""
}

// optionField reads a flat option_X key, falling back to a nested
// {"options": {"a": ...}} object when the model uses that shape.
func optionField(obj map[string]any, flatKey, letter string) string {
	if s := stringField(obj, flatKey); s != "" {
		return s
	}
	if opts, ok := obj["options"].(map[string]any); ok {
		return stringField(opts, letter)
	}
	return ""
}

func intField(obj map[string]any, key string) int {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}

func preview(text string) string {
	if len(text) > parseFailurePreviewLen {
		return text[:parseFailurePreviewLen]
	}
	return text
}
