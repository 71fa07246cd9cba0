package interp

import (
	"strconv"
	"strings"
)

// priority orders the operators polishNotation shunts through its
// stack; '(' sits at priority 0 so that no operator pops past it while
// it is on the stack, and ')' is consumed by its own branch below.
var priority = map[byte]int{
	'(': 0, ')': 0,
	',': 1, '[': 1, ']': 1,
	'+': 2, '-': 2,
	'*': 3, '/': 3,
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// polishNotation rewrites an infix expression string into the
// reverse-Polish form the `prn` built-in returns, grounded on
// original_source/Interpreter/Callables.cpp's polish_notation:
// the postfix operators trail their operands, and a bracketed
// argument list closes with "@K " where K is the argument count.
func polishNotation(expr string) string {
	var result strings.Builder
	var stack []byte

	countArguments := 0
	flagArgs := false
	arg := false

	push := func(c byte) { stack = append(stack, c) }
	pop := func() byte {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return c
	}
	top := func() byte { return stack[len(stack)-1] }

	for i := 0; i < len(expr); i++ {
		ch := expr[i]

		if isAlnum(ch) {
			result.WriteByte(ch)
			arg = true
			continue
		}
		if arg {
			result.WriteByte(' ')
			arg = false
			if flagArgs && countArguments == 0 {
				countArguments = 1
			}
		}

		if ch == ' ' {
			continue
		}

		switch {
		case ch == '(':
			push(ch)
		case ch == '[':
			flagArgs = true
			push(ch)
		case ch == ')':
			for len(stack) > 0 && top() != '(' {
				result.WriteByte(pop())
			}
			if len(stack) > 0 && top() == '(' {
				pop()
			}
		case ch == ']':
			for len(stack) > 0 && top() != '[' {
				result.WriteByte(pop())
			}
			if len(stack) > 0 && top() == '[' {
				pop()
			}
			result.WriteByte('@')
			result.WriteString(strconv.Itoa(countArguments))
			result.WriteByte(' ')
			countArguments = 0
			flagArgs = false
		case ch == ',':
			countArguments++
			for len(stack) > 0 && top() != '[' {
				result.WriteByte(pop())
			}
		default:
			if _, known := priority[ch]; known {
				if len(stack) == 0 {
					push(ch)
					continue
				}
				for len(stack) > 0 && priority[ch] <= priority[top()] {
					result.WriteByte(pop())
				}
				push(ch)
			}
		}
	}

	for len(stack) > 0 {
		result.WriteByte(pop())
	}

	return result.String()
}
