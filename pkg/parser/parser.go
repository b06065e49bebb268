// Package parser turns AT&T-flavored assembly text into a flat instruction
// stream plus a label table. It never looks ahead across lines and never
// calls back into any later pipeline stage — see pkg/lifter for that.
package parser

import (
	"os"
	"strconv"
	"strings"
)

// Parse scans assembly source text and returns the instruction stream and
// label table, or the first parse error encountered.
func Parse(src string) (*Program, error) {
	p := &Program{Labels: make(Labels)}

	lines := strings.Split(src, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		if err := parseLine(p, raw, lineNo); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// ParseFile reads and parses an assembly source file.
func ParseFile(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(0, path, "unable to open file: %v", err)
	}
	return Parse(string(data))
}

func parseLine(p *Program, raw string, lineNo int) error {
	line := stripComment(raw)
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	fields := splitFields(line)
	if len(fields) == 0 {
		return nil
	}

	first := fields[0]
	if strings.HasSuffix(first, ":") && len(first) > 1 {
		return parseLabeledLine(p, first[:len(first)-1], fields[1:], lineNo)
	}

	return parseInstructionLine(p, fields, lineNo)
}

func parseLabeledLine(p *Program, name string, rest []string, lineNo int) error {
	if _, exists := p.Labels[name]; exists {
		return newError(lineNo, name, "duplicate label %q", name)
	}
	p.Labels[name] = len(p.Instructions)

	if len(rest) == 0 {
		p.Instructions = append(p.Instructions, Instruction{
			Opcode: LABEL,
			Label:  name,
			Line:   lineNo,
		})
		return nil
	}

	op, ok := lookupOpcode(rest[0])
	if !ok {
		return newError(lineNo, rest[0], "unknown opcode %q", rest[0])
	}

	operands, err := parseOperands(rest[1:], lineNo)
	if err != nil {
		return err
	}

	p.Instructions = append(p.Instructions, Instruction{
		Opcode:   op,
		Operands: operands,
		Label:    name,
		Line:     lineNo,
	})
	return nil
}

func parseInstructionLine(p *Program, fields []string, lineNo int) error {
	op, ok := lookupOpcode(fields[0])
	if !ok {
		return newError(lineNo, fields[0], "unknown opcode %q", fields[0])
	}

	operands, err := parseOperands(fields[1:], lineNo)
	if err != nil {
		return err
	}

	p.Instructions = append(p.Instructions, Instruction{
		Opcode:   op,
		Operands: operands,
		Line:     lineNo,
	})
	return nil
}

func lookupOpcode(tok string) (Opcode, bool) {
	op, ok := opcodeTable[strings.ToUpper(tok)]
	return op, ok
}

func parseOperands(fields []string, lineNo int) ([]Operand, error) {
	operands := make([]Operand, 0, len(fields))
	for _, f := range fields {
		tok := strings.Trim(f, ",")
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		operand, err := classifyOperand(tok, lineNo)
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	return operands, nil
}

// classifyOperand applies the classification rules of spec.md §4.1, in
// order: register, memory, immediate, else label.
func classifyOperand(tok string, lineNo int) (Operand, error) {
	switch {
	case strings.HasPrefix(tok, "%") && len(tok) >= 2:
		return Operand{Kind: REGISTER, Text: tok}, nil

	case strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")") && len(tok) >= 3:
		inner := tok[1 : len(tok)-1]
		return Operand{Kind: MEMORY, Text: tok, Inner: inner}, nil

	case isDigitsSignOnly(tok):
		if !validImmediate(tok) {
			return Operand{}, newError(lineNo, tok, "malformed immediate %q", tok)
		}
		return Operand{Kind: IMMEDIATE, Text: tok}, nil

	default:
		return Operand{Kind: OPLABEL, Text: tok}, nil
	}
}

// isDigitsSignOnly reports whether tok is made up only of digits, '+' and
// '-' — the classification test from spec.md §4.1, rule 3.
func isDigitsSignOnly(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r != '+' && r != '-' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// validImmediate additionally requires that the token actually parses as
// an integer (a lone sign, or a sign in the middle, is not one).
func validImmediate(tok string) bool {
	_, err := strconv.ParseInt(tok, 10, 64)
	return err == nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

// splitFields splits on whitespace; commas are handled by the caller via
// parseOperands, which trims them per-token. This matches the grammar's
// "whitespace-delimited... commas ignored" rule.
func splitFields(line string) []string {
	return strings.Fields(line)
}
