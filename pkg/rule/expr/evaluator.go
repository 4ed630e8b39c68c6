package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbar/pkg/rule"
)

// Evaluator is a small, dependency-free filter rule evaluator.
//
// Identifiers:
// - `%` is the value of the option under test, `%attr` one of its attributes
// - `$name` and `@name` read form values (dot paths traverse nested maps)
// - bare identifiers also read form values
//
// Operators: `==`, `!=`, `<`, `<=`, `>`, `>=`, `in`, `&&`/`and`, `||`/`or`,
// `!`/`not` and parentheses. Literals are strings, numbers, booleans, null and
// lists such as `['a', 'b']`.
type Evaluator struct{}

func New() *Evaluator { return &Evaluator{} }

var _ rule.Evaluator = (*Evaluator)(nil)

func (e *Evaluator) Eval(input string, ctx rule.Context) (bool, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return true, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return false, err
	}
	if len(tokens) == 0 {
		return true, nil
	}

	node, err := parseExpression(tokens)
	if err != nil {
		return false, err
	}
	return node.eval(ctx)
}

// Compile parses a rule once so it can be evaluated against many options.
func Compile(input string) (func(rule.Context) (bool, error), error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return func(rule.Context) (bool, error) { return true, nil }, nil
	}
	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	node, err := parseExpression(tokens)
	if err != nil {
		return nil, err
	}
	return node.eval, nil
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenIn
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenComma
)

type token struct {
	kind tokenKind
	raw  string
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '[', ']', ',', '!', '=', '<', '>', '&', '|':
		return true
	}
	return false
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	peek := func(offset int) byte {
		if i+offset >= len(input) {
			return 0
		}
		return input[i+offset]
	}

	for i < len(input) {
		ch := input[i]
		switch ch {
		case ' ', '\t', '\n', '\r':
			i++
		case '(':
			i++
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
		case ')':
			i++
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
		case '[':
			i++
			tokens = append(tokens, token{kind: tokenLBracket, raw: "["})
		case ']':
			i++
			tokens = append(tokens, token{kind: tokenRBracket, raw: "]"})
		case ',':
			i++
			tokens = append(tokens, token{kind: tokenComma, raw: ","})
		case '!':
			if peek(1) == '=' {
				i += 2
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
				continue
			}
			i++
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
		case '=':
			if peek(1) != '=' {
				return nil, fmt.Errorf("rule/expr: unexpected '=' at %d; use '=='", i)
			}
			i += 2
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
		case '<':
			if peek(1) == '=' {
				i += 2
				tokens = append(tokens, token{kind: tokenLte, raw: "<="})
				continue
			}
			i++
			tokens = append(tokens, token{kind: tokenLt, raw: "<"})
		case '>':
			if peek(1) == '=' {
				i += 2
				tokens = append(tokens, token{kind: tokenGte, raw: ">="})
				continue
			}
			i++
			tokens = append(tokens, token{kind: tokenGt, raw: ">"})
		case '&':
			if peek(1) != '&' {
				return nil, fmt.Errorf("rule/expr: unexpected '&' at %d; use '&&'", i)
			}
			i += 2
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
		case '|':
			if peek(1) != '|' {
				return nil, fmt.Errorf("rule/expr: unexpected '|' at %d; use '||'", i)
			}
			i += 2
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
		case '"', '\'':
			quote := ch
			i++
			var builder strings.Builder
			closed := false
			for i < len(input) {
				c := input[i]
				i++
				if c == '\\' && i < len(input) {
					builder.WriteByte(input[i])
					i++
					continue
				}
				if c == quote {
					closed = true
					break
				}
				builder.WriteByte(c)
			}
			if !closed {
				return nil, errors.New("rule/expr: unterminated string literal")
			}
			tokens = append(tokens, token{kind: tokenString, raw: builder.String()})
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			tokens = append(tokens, classifyWord(input[start:i]))
		}
	}

	return tokens, nil
}

func classifyWord(raw string) token {
	switch strings.ToLower(raw) {
	case "true", "false":
		return token{kind: tokenBool, raw: strings.ToLower(raw)}
	case "null", "nil", "none":
		return token{kind: tokenNull, raw: "null"}
	case "and":
		return token{kind: tokenAnd, raw: "and"}
	case "or":
		return token{kind: tokenOr, raw: "or"}
	case "not":
		return token{kind: tokenNot, raw: "not"}
	case "in":
		return token{kind: tokenIn, raw: "in"}
	}
	if looksLikeNumber(raw) {
		return token{kind: tokenNumber, raw: raw}
	}
	return token{kind: tokenIdentifier, raw: raw}
}

func looksLikeNumber(raw string) bool {
	if raw == "" {
		return false
	}
	_, err := strconv.ParseFloat(raw, 64)
	return err == nil
}

type exprNode interface {
	eval(ctx rule.Context) (bool, error)
}

type exprOr struct {
	left  exprNode
	right exprNode
}

func (n exprOr) eval(ctx rule.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return n.right.eval(ctx)
}

type exprAnd struct {
	left  exprNode
	right exprNode
}

func (n exprAnd) eval(ctx rule.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return n.right.eval(ctx)
}

type exprNot struct {
	inner exprNode
}

func (n exprNot) eval(ctx rule.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type literalKind int

const (
	litString literalKind = iota
	litNumber
	litBool
	litNull
	litList
)

// operand is either an identifier resolved at evaluation time or a literal.
type operand struct {
	identifier string
	literal    *literal
}

type literal struct {
	kind  literalKind
	raw   string
	items []literal
}

func (o operand) resolve(ctx rule.Context) any {
	if o.literal == nil {
		value, _ := lookup(ctx, o.identifier)
		return value
	}
	return o.literal.value()
}

func (l literal) value() any {
	switch l.kind {
	case litNull:
		return nil
	case litBool:
		return l.raw == "true"
	case litNumber:
		f, _ := strconv.ParseFloat(l.raw, 64)
		return f
	case litList:
		out := make([]any, 0, len(l.items))
		for _, item := range l.items {
			out = append(out, item.value())
		}
		return out
	default:
		return l.raw
	}
}

type exprCompare struct {
	left  operand
	op    tokenKind
	right operand
}

func (n exprCompare) eval(ctx rule.Context) (bool, error) {
	left := n.left.resolve(ctx)
	right := n.right.resolve(ctx)

	if n.op == tokenIn {
		return contains(right, left), nil
	}

	if n.right.literal != nil {
		switch n.right.literal.kind {
		case litNull:
			return compareNull(n.op, left == nil)
		case litBool:
			got, _ := coerceBool(left)
			return compareEquality(n.op, got == right.(bool))
		case litList:
			return false, fmt.Errorf("rule/expr: list literal only allowed with 'in'")
		}
	}

	if l, lok := coerceNumber(left); lok {
		if r, rok := coerceNumber(right); rok {
			return compareOrdered(n.op, compareFloat(l, r))
		}
	}
	return compareOrdered(n.op, strings.Compare(coerceString(left), coerceString(right)))
}

func compareNull(op tokenKind, isNull bool) (bool, error) {
	switch op {
	case tokenEq:
		return isNull, nil
	case tokenNeq:
		return !isNull, nil
	}
	return false, fmt.Errorf("rule/expr: unsupported operator %q for null literal", opString(op))
}

func compareEquality(op tokenKind, equal bool) (bool, error) {
	switch op {
	case tokenEq:
		return equal, nil
	case tokenNeq:
		return !equal, nil
	}
	return false, fmt.Errorf("rule/expr: unsupported operator %q for bool literal", opString(op))
}

func compareOrdered(op tokenKind, cmp int) (bool, error) {
	switch op {
	case tokenEq:
		return cmp == 0, nil
	case tokenNeq:
		return cmp != 0, nil
	case tokenLt:
		return cmp < 0, nil
	case tokenLte:
		return cmp <= 0, nil
	case tokenGt:
		return cmp > 0, nil
	case tokenGte:
		return cmp >= 0, nil
	}
	return false, fmt.Errorf("rule/expr: unsupported operator %q", opString(op))
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func opString(op tokenKind) string {
	switch op {
	case tokenEq:
		return "=="
	case tokenNeq:
		return "!="
	case tokenLt:
		return "<"
	case tokenLte:
		return "<="
	case tokenGt:
		return ">"
	case tokenGte:
		return ">="
	case tokenIn:
		return "in"
	default:
		return "?"
	}
}

type exprTruthy struct {
	operand operand
}

func (n exprTruthy) eval(ctx rule.Context) (bool, error) {
	return truthy(n.operand.resolve(ctx)), nil
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseExpression(tokens []token) (exprNode, error) {
	stream := &tokenStream{tokens: tokens}
	node, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("rule/expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return node, nil
}

func parseOr(stream *tokenStream) (exprNode, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = exprOr{left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (exprNode, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = exprAnd{left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return exprNot{inner: inner}, nil
	}
	return parsePrimary(stream)
}

var comparisonOps = []tokenKind{tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte, tokenIn}

func parsePrimary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("rule/expr: missing closing ')'")
		}
		return inner, nil
	}

	left, err := stream.consumeOperand(false)
	if err != nil {
		return nil, err
	}

	for _, op := range comparisonOps {
		if !stream.match(op) {
			continue
		}
		right, err := stream.consumeOperand(op == tokenIn)
		if err != nil {
			return nil, err
		}
		return exprCompare{left: left, op: op, right: right}, nil
	}

	return exprTruthy{operand: left}, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) {
		return false
	}
	if s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) consumeOperand(allowList bool) (operand, error) {
	if s.pos >= len(s.tokens) {
		return operand{}, errors.New("rule/expr: unexpected end of expression")
	}
	tok := s.tokens[s.pos]
	if tok.kind == tokenIdentifier {
		s.pos++
		return operand{identifier: tok.raw}, nil
	}
	if tok.kind == tokenLBracket && !allowList {
		return operand{}, errors.New("rule/expr: list literal only allowed after 'in'")
	}
	lit, err := s.consumeLiteral()
	if err != nil {
		return operand{}, err
	}
	return operand{literal: &lit}, nil
}

func (s *tokenStream) consumeLiteral() (literal, error) {
	if s.pos >= len(s.tokens) {
		return literal{}, errors.New("rule/expr: missing literal")
	}
	tok := s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenString:
		return literal{kind: litString, raw: tok.raw}, nil
	case tokenNumber:
		return literal{kind: litNumber, raw: tok.raw}, nil
	case tokenBool:
		return literal{kind: litBool, raw: tok.raw}, nil
	case tokenNull:
		return literal{kind: litNull, raw: "null"}, nil
	case tokenLBracket:
		list := literal{kind: litList}
		if s.match(tokenRBracket) {
			return list, nil
		}
		for {
			item, err := s.consumeLiteral()
			if err != nil {
				return literal{}, err
			}
			if item.kind == litList {
				return literal{}, errors.New("rule/expr: nested lists are not supported")
			}
			list.items = append(list.items, item)
			if s.match(tokenComma) {
				continue
			}
			if s.match(tokenRBracket) {
				return list, nil
			}
			return literal{}, errors.New("rule/expr: missing closing ']'")
		}
	default:
		return literal{}, fmt.Errorf("rule/expr: expected literal, got %q", tok.raw)
	}
}

func lookup(ctx rule.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}

	switch key[0] {
	case '%':
		attr := key[1:]
		if attr == "" {
			attr = "value"
		}
		return lookupMap(ctx.Option, attr)
	case '$', '@':
		return lookupMap(ctx.Values, key[1:])
	}
	return lookupMap(ctx.Values, key)
}

func lookupMap(values map[string]any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if len(values) == 0 || path == "" {
		return nil, false
	}

	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

func contains(collection, needle any) bool {
	want := coerceString(needle)
	switch typed := collection.(type) {
	case []any:
		for _, item := range typed {
			if coerceString(item) == want {
				return true
			}
		}
	case []string:
		for _, item := range typed {
			if item == want {
				return true
			}
		}
	case []int:
		for _, item := range typed {
			if strconv.Itoa(item) == want {
				return true
			}
		}
	case string:
		for _, item := range strings.Split(typed, ",") {
			if strings.TrimSpace(item) == want {
				return true
			}
		}
	}
	return false
}

func truthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func coerceBool(value any) (bool, bool) {
	if value == nil {
		return false, false
	}
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err == nil {
			return parsed, true
		}
		return strings.TrimSpace(v) != "", true
	default:
		return truthy(value), true
	}
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
