package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type TextAnalyzerToolInput struct {
	Text string `json:"text" jsonschema:"required,description=The text to analyze"`
}

// TextAnalyzerTool reports basic statistics about a piece of text.
type TextAnalyzerTool struct{}

func (t TextAnalyzerTool) Name() string {
	return "text_analyzer"
}

func (t TextAnalyzerTool) Description() string {
	return "Analyzes text and reports statistics: characters, words, sentences, paragraphs and most frequent words"
}

var sentenceSplitPattern = regexp.MustCompile(`[.!?]+`)

func (t TextAnalyzerTool) Call(ctx context.Context, input string) (string, error) {
	var params TextAnalyzerToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse text analyzer tool input: %v", err)
	}

	text := strings.TrimSpace(params.Text)
	if text == "" {
		return "", fmt.Errorf("no text provided to analyze")
	}

	charCount := len([]rune(text))
	charNoSpaces := len([]rune(strings.ReplaceAll(text, " ", "")))

	words := strings.Fields(text)
	wordCount := len(words)

	sentences := lo.Filter(sentenceSplitPattern.Split(text, -1), func(s string, _ int) bool {
		return strings.TrimSpace(s) != ""
	})
	sentenceCount := len(sentences)
	if sentenceCount == 0 {
		sentenceCount = 1
	}

	paragraphs := lo.Filter(strings.Split(text, "\n\n"), func(p string, _ int) bool {
		return strings.TrimSpace(p) != ""
	})

	longestWord := lo.MaxBy(words, func(a, b string) bool {
		return len([]rune(a)) > len([]rune(b))
	})

	totalWordLen := lo.SumBy(words, func(w string) int {
		return len([]rune(w))
	})
	avgWordLen := float64(totalWordLen) / float64(wordCount)

	result := fmt.Sprintf(`TEXT ANALYSIS:

Basic statistics:
   - Characters (with spaces): %d
   - Characters (without spaces): %d
   - Words: %d
   - Sentences: %d
   - Paragraphs: %d

Metrics:
   - Average word length: %.1f characters
   - Longest word: %q (%d characters)
   - Words per sentence: %.1f

Most frequent words:`,
		charCount, charNoSpaces, wordCount, sentenceCount, len(paragraphs),
		avgWordLen, longestWord, len([]rune(longestWord)),
		float64(wordCount)/float64(sentenceCount))

	for _, entry := range topWords(words, 5) {
		result += fmt.Sprintf("\n   - %q: %d times", entry.word, entry.count)
	}

	return result, nil
}

type wordFreq struct {
	word  string
	count int
}

func topWords(words []string, limit int) []wordFreq {
	counts := map[string]int{}
	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, `.,!?;:()[]"'`))
		if cleaned == "" {
			continue
		}
		counts[cleaned]++
	}

	frequencies := lo.MapToSlice(counts, func(word string, count int) wordFreq {
		return wordFreq{word: word, count: count}
	})
	sort.Slice(frequencies, func(i, j int) bool {
		if frequencies[i].count != frequencies[j].count {
			return frequencies[i].count > frequencies[j].count
		}
		return frequencies[i].word < frequencies[j].word
	})

	if len(frequencies) > limit {
		frequencies = frequencies[:limit]
	}
	return frequencies
}

func (t TextAnalyzerTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[TextAnalyzerToolInput]()
}

type TextTransformToolInput struct {
	Operation string `json:"operation" jsonschema:"required,description=One of: uppercase / lowercase / title / reverse / trim / count_vowels / count_words / count_chars / initials"`
	Text      string `json:"text" jsonschema:"required,description=The text to transform"`
}

// TextTransformTool applies a named transformation to a piece of text.
type TextTransformTool struct{}

func (t TextTransformTool) Name() string {
	return "text_transform"
}

func (t TextTransformTool) Description() string {
	return "Transforms text: case conversion, reversal, whitespace cleanup, counting and initials"
}

func (t TextTransformTool) Call(ctx context.Context, input string) (string, error) {
	var params TextTransformToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse text transform tool input: %v", err)
	}

	text := params.Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text provided to transform")
	}

	switch strings.ToLower(strings.TrimSpace(params.Operation)) {
	case "uppercase", "upper":
		return strings.ToUpper(text), nil
	case "lowercase", "lower":
		return strings.ToLower(text), nil
	case "title", "capitalize":
		return titleCase(text), nil
	case "reverse":
		runes := []rune(text)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes), nil
	case "trim", "strip":
		return strings.Join(strings.Fields(text), " "), nil
	case "count_vowels", "vowels":
		count := 0
		for _, r := range strings.ToLower(text) {
			if strings.ContainsRune("aeiou", r) {
				count++
			}
		}
		return fmt.Sprintf("The text has %d vowels", count), nil
	case "count_words", "words":
		return fmt.Sprintf("The text has %d words", len(strings.Fields(text))), nil
	case "count_chars", "chars":
		return fmt.Sprintf("The text has %d characters", len([]rune(text))), nil
	case "initials":
		initials := lo.FilterMap(strings.Fields(text), func(word string, _ int) (string, bool) {
			runes := []rune(word)
			if len(runes) == 0 {
				return "", false
			}
			return string(unicode.ToUpper(runes[0])), true
		})
		return fmt.Sprintf("Initials: %s", strings.Join(initials, "")), nil
	}

	return "", fmt.Errorf("unknown operation %q: use uppercase, lowercase, title, reverse, trim, count_vowels, count_words, count_chars or initials", params.Operation)
}

func titleCase(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func (t TextTransformTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[TextTransformToolInput]()
}

type RandomGeneratorToolInput struct {
	Request string `json:"request" jsonschema:"required,description=What to generate. Examples: number between 1 and 100 / password of 16 characters / uuid / choose: pizza or burger or salad / d20 / coin"`
}

// RandomGeneratorTool produces random values from a free-form request.
type RandomGeneratorTool struct{}

func (t RandomGeneratorTool) Name() string {
	return "random_generator"
}

func (t RandomGeneratorTool) Description() string {
	return "Generates random values: numbers in a range, passwords, UUIDs, coin flips, dice rolls and random picks from a list"
}

var (
	numberRangePattern = regexp.MustCompile(`number\s+between\s+(-?\d+)\s+and\s+(-?\d+)`)
	passwordPattern    = regexp.MustCompile(`password\s+(?:of\s+)?(\d+)`)
	dicePattern        = regexp.MustCompile(`\bd(\d+)\b`)
)

const passwordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

func (t RandomGeneratorTool) Call(ctx context.Context, input string) (string, error) {
	var params RandomGeneratorToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse random generator tool input: %v", err)
	}

	request := strings.ToLower(strings.TrimSpace(params.Request))

	if match := numberRangePattern.FindStringSubmatch(request); match != nil {
		low, _ := strconv.Atoi(match[1])
		high, _ := strconv.Atoi(match[2])
		if low > high {
			low, high = high, low
		}
		value := low + rand.IntN(high-low+1)
		return fmt.Sprintf("Random number between %d and %d: %d", low, high, value), nil
	}

	if strings.Contains(request, "password") {
		length := 12
		if match := passwordPattern.FindStringSubmatch(request); match != nil {
			length, _ = strconv.Atoi(match[1])
		}
		if length < 8 {
			length = 8
		}
		if length > 64 {
			length = 64
		}
		password := make([]byte, length)
		for i := range password {
			password[i] = passwordChars[rand.IntN(len(passwordChars))]
		}
		return fmt.Sprintf("Generated password (%d characters): %s", length, password), nil
	}

	if strings.Contains(request, "uuid") {
		return fmt.Sprintf("Generated UUID: %s", uuid.NewString()), nil
	}

	if rest, ok := strings.CutPrefix(request, "choose:"); ok {
		options := lo.FilterMap(strings.Split(rest, ","), func(option string, _ int) (string, bool) {
			trimmed := strings.TrimSpace(option)
			return trimmed, trimmed != ""
		})
		if len(options) == 0 {
			return "", fmt.Errorf("no options provided to choose from")
		}
		return fmt.Sprintf("Random pick: %s", options[rand.IntN(len(options))]), nil
	}

	if strings.Contains(request, "dice") || dicePattern.MatchString(request) {
		sides := 6
		if match := dicePattern.FindStringSubmatch(request); match != nil {
			sides, _ = strconv.Atoi(match[1])
		}
		if sides < 2 {
			sides = 6
		}
		return fmt.Sprintf("Dice roll (d%d): %d", sides, 1+rand.IntN(sides)), nil
	}

	if strings.Contains(request, "coin") || strings.Contains(request, "heads or tails") {
		sides := []string{"Heads", "Tails"}
		return fmt.Sprintf("Coin flip: %s", sides[rand.IntN(2)]), nil
	}

	return "", fmt.Errorf("unrecognized request %q: try 'number between X and Y', 'password of N characters', 'uuid', 'choose: a, b, c', 'd20' or 'coin'", params.Request)
}

func (t RandomGeneratorTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[RandomGeneratorToolInput]()
}
