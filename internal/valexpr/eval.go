package valexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/juev/ledger-textual/internal/amount"
)

// symbolStop ends an unquoted commodity symbol inside an expression.
const symbolStop = " \t\r\n0123456789.,;:?!-+*/^&|=<>{}[]()@\""

// Env resolves identifiers such as "a" (the current posting's amount) or
// "t" (the running total of the owning entry).
type Env interface {
	Lookup(name string) (Value, bool)
}

// MapEnv is an Env backed by a map.
type MapEnv map[string]Value

func (m MapEnv) Lookup(name string) (Value, bool) {
	v, ok := m[name]
	return v, ok
}

// Evaluate parses and computes text. Amount literals are interned in reg.
func Evaluate(text string, env Env, reg *amount.Registry) (Value, error) {
	p := &exprParser{input: text, env: env, reg: reg}
	result, err := p.parseExpr(0)
	if err != nil {
		return Value{}, err
	}
	if !p.isAtEnd() {
		return Value{}, fmt.Errorf("unexpected %q at position %d in %q", p.input[p.pos:], p.pos, text)
	}
	return result, nil
}

type exprParser struct {
	input string
	pos   int
	env   Env
	reg   *amount.Registry
}

func (p *exprParser) skipWhitespace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) isAtEnd() bool {
	p.skipWhitespace()
	return p.pos >= len(p.input)
}

func (p *exprParser) peek() byte {
	p.skipWhitespace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) parseExpr(minPrec int) (Value, error) {
	left, err := p.parseUnary()
	if err != nil {
		return Value{}, err
	}

	for {
		op := p.peek()
		prec := precedence(op)
		if prec == 0 || prec < minPrec {
			break
		}
		p.pos++

		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return Value{}, err
		}

		left, err = apply(left, op, right)
		if err != nil {
			return Value{}, err
		}
	}

	return left, nil
}

func (p *exprParser) parseUnary() (Value, error) {
	if p.peek() == '-' {
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return Value{}, err
		}
		return negate(v), nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (Value, error) {
	ch := p.peek()
	switch {
	case ch == 0:
		return Value{}, fmt.Errorf("unexpected end of expression %q", p.input)
	case ch == '(':
		p.pos++
		v, err := p.parseExpr(0)
		if err != nil {
			return Value{}, err
		}
		if p.peek() != ')' {
			return Value{}, fmt.Errorf("expected ')' at position %d in %q", p.pos, p.input)
		}
		p.pos++
		return v, nil
	case ch == ')':
		return Value{}, fmt.Errorf("unexpected ')' at position %d in %q", p.pos, p.input)
	case isDigit(ch) || ch == '.':
		return p.parseNumber()
	case isIdentStart(ch):
		if v, ok, err := p.parseIdent(); ok || err != nil {
			return v, err
		}
		return p.parsePrefixAmount()
	default:
		return p.parsePrefixAmount()
	}
}

func (p *exprParser) parseNumber() (Value, error) {
	start := p.pos
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.' || p.input[p.pos] == ',') {
		p.pos++
	}
	number := p.input[start:p.pos]

	j := p.pos
	for j < len(p.input) && (p.input[j] == ' ' || p.input[j] == '\t') {
		j++
	}
	if j < len(p.input) && startsSymbol(p.input[j]) {
		p.pos = j
		if err := p.skipSymbol(); err != nil {
			return Value{}, err
		}
		return p.literal(p.input[start:p.pos])
	}

	if !strings.ContainsRune(number, '.') {
		n, err := strconv.ParseInt(strings.ReplaceAll(number, ",", ""), 10, 64)
		if err == nil {
			return IntValue(n), nil
		}
	}
	return p.literal(number)
}

func (p *exprParser) parsePrefixAmount() (Value, error) {
	start := p.pos
	if err := p.skipSymbol(); err != nil {
		return Value{}, err
	}
	p.skipWhitespace()
	if p.pos < len(p.input) && p.input[p.pos] == '-' {
		p.pos++
	}
	if p.pos >= len(p.input) || !(isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		return Value{}, fmt.Errorf("expected quantity after commodity in %q", p.input)
	}
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.' || p.input[p.pos] == ',') {
		p.pos++
	}
	return p.literal(p.input[start:p.pos])
}

func (p *exprParser) skipSymbol() error {
	if p.pos < len(p.input) && p.input[p.pos] == '"' {
		end := strings.IndexByte(p.input[p.pos+1:], '"')
		if end < 0 {
			return fmt.Errorf("quoted commodity lacks closing quote in %q", p.input)
		}
		p.pos += end + 2
		return nil
	}
	start := p.pos
	for p.pos < len(p.input) && !strings.ContainsRune(symbolStop, rune(p.input[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return fmt.Errorf("unexpected %q at position %d in %q", p.input[p.pos:], p.pos, p.input)
	}
	return nil
}

func (p *exprParser) parseIdent() (Value, bool, error) {
	start := p.pos
	end := start
	for end < len(p.input) && isIdentStart(p.input[end]) {
		end++
	}
	word := p.input[start:end]

	switch word {
	case "true", "false":
		p.pos = end
		return BoolValue(word == "true"), true, nil
	case "a", "amount", "t", "total":
		p.pos = end
		if p.env != nil {
			if v, ok := p.env.Lookup(word[:1]); ok {
				return v, true, nil
			}
		}
		return Value{}, true, fmt.Errorf("unknown identifier %q", word)
	}
	return Value{}, false, nil
}

func (p *exprParser) literal(text string) (Value, error) {
	if p.reg == nil {
		p.reg = amount.NewRegistry()
	}
	a, err := p.reg.Parse(text, 0)
	if err != nil {
		return Value{}, err
	}
	return AmountValue(a), nil
}

func precedence(op byte) int {
	switch op {
	case '+', '-':
		return 1
	case '*', '/':
		return 2
	default:
		return 0
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func startsSymbol(ch byte) bool {
	return ch == '"' || !strings.ContainsRune(symbolStop, rune(ch))
}

func negate(v Value) Value {
	switch v.Kind {
	case KindBoolean:
		return BoolValue(!v.Bool)
	case KindInteger:
		return IntValue(-v.Int)
	case KindAmount:
		return AmountValue(v.Amount.Neg())
	default:
		return Value{Kind: v.Kind, Balance: v.Balance.Scale(decimal.NewFromInt(-1))}
	}
}

func apply(left Value, op byte, right Value) (Value, error) {
	left, right = promoteBool(left), promoteBool(right)

	if left.Kind == KindInteger && right.Kind == KindInteger {
		switch op {
		case '+':
			return IntValue(left.Int + right.Int), nil
		case '-':
			return IntValue(left.Int - right.Int), nil
		case '*':
			return IntValue(left.Int * right.Int), nil
		case '/':
			if right.Int == 0 {
				return Value{}, fmt.Errorf("division by zero")
			}
			if left.Int%right.Int == 0 {
				return IntValue(left.Int / right.Int), nil
			}
		}
	}

	if left.Kind >= KindBalance || right.Kind >= KindBalance {
		return applyBalance(left, op, right)
	}

	l, _ := left.ToAmount()
	r, _ := right.ToAmount()
	commodity := l.Commodity
	if commodity == nil {
		commodity = r.Commodity
	}

	switch op {
	case '+', '-':
		if op == '-' {
			r = r.Neg()
		}
		if l.Commodity != nil && r.Commodity != nil && l.Commodity != r.Commodity {
			return BalanceValue(Balance{l}.Add(r)), nil
		}
		return AmountValue(amount.New(l.Quantity.Add(r.Quantity), commodity)), nil
	case '*':
		return AmountValue(amount.New(l.Quantity.Mul(r.Quantity), commodity)), nil
	case '/':
		if r.Quantity.IsZero() {
			return Value{}, fmt.Errorf("division by zero")
		}
		return AmountValue(amount.New(l.Quantity.Div(r.Quantity), commodity)), nil
	}
	return Value{}, fmt.Errorf("unknown operator %q", op)
}

func applyBalance(left Value, op byte, right Value) (Value, error) {
	switch op {
	case '+', '-':
		sign := decimal.NewFromInt(1)
		if op == '-' {
			sign = sign.Neg()
		}
		bal := asBalance(left)
		for _, a := range asBalance(right).Scale(sign) {
			bal = bal.Add(a)
		}
		return BalanceValue(bal), nil
	case '*', '/':
		if left.Kind >= KindBalance && right.Kind >= KindBalance {
			return Value{}, fmt.Errorf("cannot %s two balances", opName(op))
		}
		if right.Kind < KindBalance {
			f, _ := right.ToAmount()
			if op == '/' {
				if f.Quantity.IsZero() {
					return Value{}, fmt.Errorf("division by zero")
				}
				return BalanceValue(left.Balance.Scale(decimal.NewFromInt(1).Div(f.Quantity))), nil
			}
			return BalanceValue(left.Balance.Scale(f.Quantity)), nil
		}
		if op == '/' {
			return Value{}, fmt.Errorf("cannot divide by a balance")
		}
		f, _ := left.ToAmount()
		return BalanceValue(right.Balance.Scale(f.Quantity)), nil
	}
	return Value{}, fmt.Errorf("unknown operator %q", op)
}

func asBalance(v Value) Balance {
	if v.Kind >= KindBalance {
		return v.Balance
	}
	a, _ := v.ToAmount()
	return Balance{a}
}

func promoteBool(v Value) Value {
	if v.Kind != KindBoolean {
		return v
	}
	if v.Bool {
		return IntValue(1)
	}
	return IntValue(0)
}

func opName(op byte) string {
	if op == '*' {
		return "multiply"
	}
	return "divide"
}
