package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/anthropics/anthropic-sdk-go"
)

type CalculatorToolInput struct {
	Expression string `json:"expression" jsonschema:"required,description=A mathematical expression to evaluate. Examples: 25 * 4 or sqrt(144) or 15/100 * 200"`
}

// CalculatorTool evaluates arithmetic expressions with a restricted grammar.
// Only numbers, operators, parentheses and a fixed set of functions and
// constants are accepted; anything else is rejected.
type CalculatorTool struct{}

func (c CalculatorTool) Name() string {
	return "calculator"
}

func (c CalculatorTool) Description() string {
	return "Performs mathematical calculations: arithmetic, percentages, powers, roots, trigonometry and logarithms"
}

func (c CalculatorTool) Call(ctx context.Context, input string) (string, error) {
	var params CalculatorToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse calculator tool input: %v", err)
	}

	result, err := evaluateExpression(params.Expression)
	if err != nil {
		return "", fmt.Errorf("failed to evaluate %q: %v", params.Expression, err)
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return "", fmt.Errorf("result of %q is not a finite number", params.Expression)
	}

	return formatCalcResult(result), nil
}

func (c CalculatorTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[CalculatorToolInput]()
}

// Integral results render without decimals, everything else with up to ten
// significant digits.
func formatCalcResult(value float64) string {
	if value == math.Trunc(value) && math.Abs(value) < 1e15 {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'g', 10, 64)
}

var calcConstants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
}

var calcFunctions = map[string]func(args []float64) (float64, error){
	"abs":   unaryFn(math.Abs),
	"sqrt":  positiveDomainFn("sqrt", math.Sqrt, 0),
	"cbrt":  unaryFn(math.Cbrt),
	"ceil":  unaryFn(math.Ceil),
	"floor": unaryFn(math.Floor),
	"round": unaryFn(math.Round),

	"sin":  unaryFn(math.Sin),
	"cos":  unaryFn(math.Cos),
	"tan":  unaryFn(math.Tan),
	"asin": unaryFn(math.Asin),
	"acos": unaryFn(math.Acos),
	"atan": unaryFn(math.Atan),
	"sinh": unaryFn(math.Sinh),
	"cosh": unaryFn(math.Cosh),
	"tanh": unaryFn(math.Tanh),

	"log":   positiveDomainFn("log", math.Log, math.SmallestNonzeroFloat64),
	"log10": positiveDomainFn("log10", math.Log10, math.SmallestNonzeroFloat64),
	"log2":  positiveDomainFn("log2", math.Log2, math.SmallestNonzeroFloat64),
	"exp":   unaryFn(math.Exp),

	"degrees": unaryFn(func(x float64) float64 { return x * 180 / math.Pi }),
	"radians": unaryFn(func(x float64) float64 { return x * math.Pi / 180 }),

	"pow": func(args []float64) (float64, error) {
		if len(args) != 2 {
			return 0, fmt.Errorf("pow expects 2 arguments, got %d", len(args))
		}
		return math.Pow(args[0], args[1]), nil
	},
	"min": func(args []float64) (float64, error) {
		if len(args) == 0 {
			return 0, fmt.Errorf("min expects at least 1 argument")
		}
		result := args[0]
		for _, arg := range args[1:] {
			result = math.Min(result, arg)
		}
		return result, nil
	},
	"max": func(args []float64) (float64, error) {
		if len(args) == 0 {
			return 0, fmt.Errorf("max expects at least 1 argument")
		}
		result := args[0]
		for _, arg := range args[1:] {
			result = math.Max(result, arg)
		}
		return result, nil
	},
	"gcd": func(args []float64) (float64, error) {
		if len(args) != 2 {
			return 0, fmt.Errorf("gcd expects 2 arguments, got %d", len(args))
		}
		a, b := args[0], args[1]
		if a != math.Trunc(a) || b != math.Trunc(b) {
			return 0, fmt.Errorf("gcd expects integer arguments")
		}
		x, y := int64(math.Abs(a)), int64(math.Abs(b))
		for y != 0 {
			x, y = y, x%y
		}
		return float64(x), nil
	},
	"factorial": func(args []float64) (float64, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("factorial expects 1 argument, got %d", len(args))
		}
		n := args[0]
		if n != math.Trunc(n) || n < 0 {
			return 0, fmt.Errorf("factorial expects a non-negative integer")
		}
		if n > 170 {
			return 0, fmt.Errorf("factorial argument too large")
		}
		result := 1.0
		for i := 2.0; i <= n; i++ {
			result *= i
		}
		return result, nil
	},
}

func unaryFn(fn func(float64) float64) func(args []float64) (float64, error) {
	return func(args []float64) (float64, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		return fn(args[0]), nil
	}
}

func positiveDomainFn(name string, fn func(float64) float64, min float64) func(args []float64) (float64, error) {
	return func(args []float64) (float64, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
		}
		if args[0] < min {
			return 0, fmt.Errorf("%s is undefined for %g", name, args[0])
		}
		return fn(args[0]), nil
	}
}

// evaluateExpression parses and evaluates a restricted arithmetic grammar:
//
//	expr   := term {('+'|'-') term}
//	term   := unary {('*'|'/'|'%') unary}
//	unary  := ('-'|'+') unary | power
//	power  := primary ['^' unary]
//	primary:= number | constant | function '(' expr {',' expr} ')' | '(' expr ')'
//
// The caret and '**' both denote exponentiation; unicode multiplication and
// division signs are normalized first.
func evaluateExpression(expression string) (float64, error) {
	normalized := strings.TrimSpace(expression)
	if normalized == "" {
		return 0, fmt.Errorf("empty expression")
	}

	normalized = strings.ReplaceAll(normalized, "**", "^")
	normalized = strings.ReplaceAll(normalized, "×", "*")
	normalized = strings.ReplaceAll(normalized, "÷", "/")

	p := &exprParser{input: []rune(normalized)}
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}

	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}

	return value, nil
}

type exprParser struct {
	input []rune
	pos   int
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *exprParser) peek() rune {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpaces()
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpaces()
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		case '%':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			left = math.Mod(left, right)
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	p.skipSpaces()
	switch p.peek() {
	case '-':
		p.pos++
		value, err := p.parseUnary()
		return -value, err
	case '+':
		p.pos++
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}

	p.skipSpaces()
	if p.peek() != '^' {
		return base, nil
	}
	p.pos++

	exponent, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exponent), nil
}

func (p *exprParser) parsePrimary() (float64, error) {
	p.skipSpaces()

	if p.pos >= len(p.input) {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	ch := p.input[p.pos]

	if ch == '(' {
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return value, nil
	}

	if unicode.IsDigit(ch) || ch == '.' {
		return p.parseNumber()
	}

	if unicode.IsLetter(ch) {
		return p.parseIdentifier()
	}

	return 0, fmt.Errorf("unexpected character %q at position %d", ch, p.pos)
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}

	literal := string(p.input[start:p.pos])
	value, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", literal)
	}
	return value, nil
}

func (p *exprParser) parseIdentifier() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsLetter(p.input[p.pos]) || unicode.IsDigit(p.input[p.pos])) {
		p.pos++
	}
	name := strings.ToLower(string(p.input[start:p.pos]))

	if value, ok := calcConstants[name]; ok {
		return value, nil
	}

	fn, ok := calcFunctions[name]
	if !ok {
		return 0, fmt.Errorf("unknown identifier %q", name)
	}

	p.skipSpaces()
	if p.peek() != '(' {
		return 0, fmt.Errorf("function %q must be called with parentheses", name)
	}
	p.pos++

	var args []float64
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		args = append(args, arg)

		p.skipSpaces()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}

	p.skipSpaces()
	if p.peek() != ')' {
		return 0, fmt.Errorf("missing closing parenthesis in call to %q", name)
	}
	p.pos++

	return fn(args)
}
