package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
)

type DateTimeToolInput struct {
	Query string `json:"query" jsonschema:"required,description=A date or time question. Examples: current date / what day will it be in 30 days / is 2024 a leap year"`
}

// DateTimeTool answers calendar and clock questions from a small set of
// recognized query shapes.
type DateTimeTool struct {
	// now is overridable in tests; nil means time.Now.
	now func() time.Time
}

func (t DateTimeTool) Name() string {
	return "datetime"
}

func (t DateTimeTool) Description() string {
	return "Provides date and time information: current date or time, date arithmetic, leap years, week numbers and timestamps"
}

var (
	inDaysPattern   = regexp.MustCompile(`in (\d+) days?`)
	daysAgoPattern  = regexp.MustCompile(`(\d+) days? ago`)
	yearPattern     = regexp.MustCompile(`(\d{4})`)
	weekNumPattern  = regexp.MustCompile(`week (number|of the year)|current week`)
	dayOfYearQuery  = "day of the year"
	longDateLayout  = "Monday, 2 January 2006"
	clockLayout     = "15:04:05"
	shortDateLayout = "2006-01-02"
)

func (t DateTimeTool) Call(ctx context.Context, input string) (string, error) {
	var params DateTimeToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse datetime tool input: %v", err)
	}

	query := strings.ToLower(strings.TrimSpace(params.Query))
	now := time.Now()
	if t.now != nil {
		now = t.now()
	}

	if match := inDaysPattern.FindStringSubmatch(query); match != nil {
		days, _ := strconv.Atoi(match[1])
		future := now.AddDate(0, 0, days)
		return fmt.Sprintf("In %d days it will be: %s", days, future.Format(longDateLayout)), nil
	}

	if match := daysAgoPattern.FindStringSubmatch(query); match != nil {
		days, _ := strconv.Atoi(match[1])
		past := now.AddDate(0, 0, -days)
		return fmt.Sprintf("%d days ago it was: %s", days, past.Format(longDateLayout)), nil
	}

	if strings.Contains(query, "end of year") || strings.Contains(query, "new year") {
		endOfYear := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())
		daysLeft := int(endOfYear.Sub(now).Hours() / 24)
		return fmt.Sprintf("There are %d days left until the end of %d", daysLeft, now.Year()), nil
	}

	if strings.Contains(query, "leap") {
		year := now.Year()
		if match := yearPattern.FindStringSubmatch(query); match != nil {
			year, _ = strconv.Atoi(match[1])
		}
		if isLeapYear(year) {
			return fmt.Sprintf("%d IS a leap year (366 days)", year), nil
		}
		return fmt.Sprintf("%d is NOT a leap year (365 days)", year), nil
	}

	if weekNumPattern.MatchString(query) {
		_, week := now.ISOWeek()
		return fmt.Sprintf("We are in week %d of %d", week, now.Year()), nil
	}

	if strings.Contains(query, "timestamp") || strings.Contains(query, "unix") {
		return fmt.Sprintf("Current unix timestamp: %d", now.Unix()), nil
	}

	if strings.Contains(query, dayOfYearQuery) {
		return fmt.Sprintf("Today is day %d of %d", now.YearDay(), now.Year()), nil
	}

	switch {
	case strings.Contains(query, "date and time") || strings.Contains(query, "right now") || query == "now":
		return fmt.Sprintf("%s - %s", now.Format(longDateLayout), now.Format(clockLayout)), nil
	case strings.Contains(query, "time"):
		return fmt.Sprintf("%s (local time)", now.Format(clockLayout)), nil
	case strings.Contains(query, "date") || strings.Contains(query, "today"):
		return now.Format(longDateLayout), nil
	}

	return fmt.Sprintf("Date: %s | Time: %s", now.Format(shortDateLayout), now.Format(clockLayout)), nil
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func (t DateTimeTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[DateTimeToolInput]()
}
