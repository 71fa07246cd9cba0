package token

import (
	"sync"

	"zrv/internal/value"
)

// internTable caches STRING and NUMBER literal values by (kind,
// lexeme), so that identical literals appearing multiple times in one
// program share a single value.Value rather than allocating a fresh
// one per occurrence.
type internKey struct {
	kind   Kind
	lexeme string
}

var (
	internMx    sync.Mutex
	internTable = make(map[internKey]value.Value)
)

func internLiteral(kind Kind, lexeme string, literal value.Value) value.Value {
	if kind != STRING && kind != NUMBER {
		return literal
	}
	key := internKey{kind: kind, lexeme: lexeme}

	internMx.Lock()
	defer internMx.Unlock()

	if existing, ok := internTable[key]; ok {
		return existing
	}
	internTable[key] = literal
	return literal
}
