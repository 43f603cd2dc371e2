package service

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ExtractionMode selects how the model is asked to treat the source text:
// copy questions that are already written there, or synthesize new ones.
// The set is closed; anything else is rejected by BuildPrompt.
type ExtractionMode int

const (
	ModeExtract ExtractionMode = iota
	ModeGenerate
)

func (m ExtractionMode) String() string {
	switch m {
	case ModeExtract:
		return "extract"
	case ModeGenerate:
		return "generate"
	}
	return fmt.Sprintf("ExtractionMode(%d)", int(m))
}

// ParseExtractionMode resolves the mode named in a request. Extraction is
// the default when the value is empty.
func ParseExtractionMode(s string) (ExtractionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "extract":
		return ModeExtract, nil
	case "generate":
		return ModeGenerate, nil
	}
	return ModeExtract, fmt.Errorf("unknown extraction mode %q", s)
}

// Temperature biases the model toward literal copying in extract mode and
// toward creative synthesis in generate mode.
func (m ExtractionMode) Temperature() float32 {
	if m == ModeGenerate {
		return 0.7
	}
	return 0.1
}

// maxPromptContent bounds how much source text is sent to the model so the
// prompt stays inside the context window. Truncation is silent.
const maxPromptContent = 30000

const truncationMarker = "\n... (content truncated)"

var extractTypeDescriptions = map[string]string{
	"multiple_choice": "Multiple Choice (has options A, B, C, D)",
	"true_false":      "True/False (answer is True or False)",
	"identification":  "Identification (short answer, one word or phrase)",
	"essay":           "Essay (requires a long written answer)",
	"fill_blank":      "Fill in the Blank (sentence with a blank to complete)",
	"matching":        "Matching Type (match items from two columns)",
}

var generateTypeDescriptions = map[string]string{
	"multiple_choice": "Multiple Choice (4 options A, B, C, D)",
	"true_false":      "True/False",
	"identification":  "Identification (short answer)",
	"essay":           "Essay (detailed answer)",
	"fill_blank":      "Fill in the Blank",
	"matching":        "Matching Type",
}

// PromptBuilder turns extracted document text into a mode-specific
// instruction string for the model.
type PromptBuilder interface {
	BuildPrompt(content string, typeNames []string, mode ExtractionMode) (string, error)
}

type promptBuilder struct{}

func NewPromptBuilder() PromptBuilder {
	return &promptBuilder{}
}

func (p *promptBuilder) BuildPrompt(content string, typeNames []string, mode ExtractionMode) (string, error) {
	if len(content) > maxPromptContent {
		// Cutting inside a multi-byte rune would make the prompt invalid
		// UTF-8, which the API transport rejects outright.
		cut := maxPromptContent
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut] + truncationMarker
	}

	switch mode {
	case ModeExtract:
		return p.buildExtractionPrompt(content, typeNames), nil
	case ModeGenerate:
		return p.buildGenerationPrompt(content, typeNames), nil
	}
	return "", fmt.Errorf("unknown extraction mode %q", mode)
}

func typeList(typeNames []string, descriptions map[string]string) string {
	var b strings.Builder
	for _, name := range typeNames {
		desc, ok := descriptions[name]
		if !ok {
			desc = name
		}
		b.WriteString("- ")
		b.WriteString(desc)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

const responseSchemaExample = `[
  {
    "type": "multiple_choice",
    "question": "What is the primary function of X?",
    "option_a": "First option",
    "option_b": "Second option",
    "option_c": "Third option",
    "option_d": "Fourth option",
    "answer": "a",
    "explanation": "Brief explanation why this is correct",
    "difficulty": "medium",
    "points": 1
  },
  {
    "type": "identification",
    "question": "What term describes a function that calls itself?",
    "answer": "Recursion",
    "explanation": "",
    "difficulty": "medium",
    "points": 1
  }
]`

// buildExtractionPrompt instructs the model to copy questions already
// present in the text verbatim. An empty array is a valid answer.
func (p *promptBuilder) buildExtractionPrompt(content string, typeNames []string) string {
	return fmt.Sprintf(`You are a question scanner. Your ONLY job is to find and copy questions that are ALREADY WRITTEN in the text below.

STRICT RULES - READ CAREFULLY:
- DO NOT create, generate, invent, or add any new questions whatsoever
- DO NOT rephrase, rewrite, or improve any question - copy the text EXACTLY word for word
- ONLY include questions that are literally present in the provided text
- If the text contains no questions, return an empty array []

QUESTION TYPES TO LOOK FOR:
%s

TEXT TO SCAN:
%s

FOR EACH QUESTION YOU FIND IN THE TEXT, return a JSON object with:
- "type": classify it as one of %v
- "question": copy the question text EXACTLY as it appears in the file
- "option_a", "option_b", "option_c", "option_d": copy the options exactly (multiple choice only, leave out for other types)
- "answer": copy the correct answer if it is shown in the text, otherwise use ""
- "explanation": copy any explanation if it is shown in the text, otherwise use ""
- "difficulty": estimate "easy", "medium", or "hard" based on the question
- "points": copy the point value if shown, otherwise use 1

Return ONLY a valid JSON array with no extra text, no markdown formatting, using this structure:
%s

If no questions are found in the text, return: []

JSON:`, typeList(typeNames, extractTypeDescriptions), content, typeNames, responseSchemaExample)
}

// buildGenerationPrompt instructs the model to synthesize new questions
// from the content, with per-type guidance.
func (p *promptBuilder) buildGenerationPrompt(content string, typeNames []string) string {
	return fmt.Sprintf(`You are an expert teacher. Based on the educational content below, generate high-quality exam questions.

QUESTION TYPES TO GENERATE:
%s

CONTENT TO BASE QUESTIONS ON:
%s

INSTRUCTIONS:
1. Generate questions that test understanding of the content
2. For each question provide:
   - "type": one of %v
   - "question": the question text
   - "option_a", "option_b", "option_c", "option_d": all 4 options (multiple choice only)
   - "answer": the correct answer (for multiple choice use lowercase a, b, c or d; for true/false use lowercase "true" or "false")
   - "explanation": brief explanation of why the answer is correct
   - "difficulty": "easy", "medium", or "hard"
   - "points": 1 for easy, 2 for medium, 3 for hard

3. Generate a good mix of difficulties
4. Return ONLY a valid JSON array, no extra text, using this structure:
%s

JSON:`, typeList(typeNames, generateTypeDescriptions), content, typeNames, responseSchemaExample)
}
