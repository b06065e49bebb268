package wasm

// EncodeBinary produces the Wasm binary-format header plus minimal type,
// function and code sections. Function bodies are placeholders (an empty
// local-declaration list and a single `end`) — the textual form produced
// by EncodeText is this emitter's authoritative output; see spec.md §9 on
// why a fully lowered binary section is out of scope for this subset.
func EncodeBinary(m *Module) []byte {
	var out []byte
	out = append(out, 0x00, 0x61, 0x73, 0x6D) // "\0asm"
	out = append(out, 0x01, 0x00, 0x00, 0x00) // version 1

	out = append(out, typeSection(m)...)
	out = append(out, functionSection(m)...)
	out = append(out, codeSection(m)...)
	return out
}

func uleb128(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

func withLenPrefix(id byte, body []byte) []byte {
	out := []byte{id}
	out = append(out, uleb128(uint64(len(body)))...)
	return append(out, body...)
}

func valTypeByte(t ValType) byte {
	switch t {
	case I32:
		return 0x7F
	case I64:
		return 0x7E
	case F32:
		return 0x7D
	case F64:
		return 0x7C
	default:
		return 0x40 // empty block type, unused here but kept for completeness
	}
}

// typeSection emits one func type per function: () -> (result), since
// every function in this subset takes zero parameters.
func typeSection(m *Module) []byte {
	var body []byte
	body = append(body, uleb128(uint64(len(m.Functions)))...)
	for _, fn := range m.Functions {
		body = append(body, 0x60) // func type tag
		body = append(body, uleb128(uint64(len(fn.Params)))...)
		for _, p := range fn.Params {
			body = append(body, valTypeByte(p))
		}
		if fn.Result == VOID {
			body = append(body, 0x00)
		} else {
			body = append(body, 0x01, valTypeByte(fn.Result))
		}
	}
	return withLenPrefix(0x01, body)
}

// functionSection maps each function to its (identical-shape) type index.
func functionSection(m *Module) []byte {
	var body []byte
	body = append(body, uleb128(uint64(len(m.Functions)))...)
	for i := range m.Functions {
		body = append(body, uleb128(uint64(i))...)
	}
	return withLenPrefix(0x03, body)
}

// codeSection emits one placeholder body per function: zero local-group
// declarations followed by `end` (0x0B).
func codeSection(m *Module) []byte {
	var body []byte
	body = append(body, uleb128(uint64(len(m.Functions)))...)
	for range m.Functions {
		fnBody := []byte{0x00, 0x0B} // 0 local groups, end
		body = append(body, uleb128(uint64(len(fnBody)))...)
		body = append(body, fnBody...)
	}
	return withLenPrefix(0x0A, body)
}
