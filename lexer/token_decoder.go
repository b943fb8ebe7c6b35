package lexer

import "strings"

// TokenDecoder is a buffered cursor over a CharacterStream offering
// speculative, rollback-capable lookahead via nested Transactions
// (spec §4.3). Characters are pulled from the stream lazily and kept in
// an internal buffer so a rolled-back Transaction can simply rewind a
// position index rather than re-reading the stream.
type TokenDecoder struct {
	stream *CharacterStream
	buf    []Char
	pos    int
	err    error

	txStack []int // saved buffer positions, one per open transaction, LIFO
}

// NewTokenDecoder wraps stream.
func NewTokenDecoder(stream *CharacterStream) *TokenDecoder {
	return &TokenDecoder{stream: stream}
}

func (d *TokenDecoder) ensure(n int) error {
	for len(d.buf) <= n {
		if d.err != nil {
			return d.err
		}
		c, err := d.stream.Next()
		if err != nil {
			d.err = err
			return err
		}
		d.buf = append(d.buf, c)
		if c.IsEnd() {
			// Keep appending the same sentinel lazily is unnecessary: future
			// ensure() calls for n beyond this point reuse the last entry.
			break
		}
	}
	return nil
}

// Current returns the character the cursor is positioned on without
// advancing. Calling Current at end-of-data repeatedly returns the same
// EndOfData sentinel.
func (d *TokenDecoder) Current() (Char, error) {
	idx := d.pos
	if idx >= len(d.buf) {
		if err := d.ensure(idx); err != nil {
			return Char{}, err
		}
	}
	if idx >= len(d.buf) {
		idx = len(d.buf) - 1
	}
	return d.buf[idx], nil
}

// Advance returns the current character and moves the cursor forward by
// one, unless already at end-of-data.
func (d *TokenDecoder) Advance() (Char, error) {
	cur, err := d.Current()
	if err != nil {
		return Char{}, err
	}
	if !cur.IsEnd() {
		d.pos++
	}
	return cur, nil
}

// Position is the position of the character Current() would return.
func (d *TokenDecoder) Position() Position {
	c, err := d.Current()
	if err != nil {
		return Position{}
	}
	return c.Pos
}

// Digest forwards to the underlying CharacterStream's digest.
func (d *TokenDecoder) Digest() [32]byte {
	return d.stream.Digest()
}

// Transaction is a speculative scan scope opened by TokenDecoder.Begin.
// Transactions nest strictly LIFO: only the innermost open transaction may
// be committed or rolled back (spec §4.3, §5).
type Transaction struct {
	d        *TokenDecoder
	startPos int
	depth    int
	resolved bool
}

// Begin opens a new, innermost transaction at the current cursor position.
func (d *TokenDecoder) Begin() *Transaction {
	d.txStack = append(d.txStack, d.pos)
	return &Transaction{d: d, startPos: d.pos, depth: len(d.txStack)}
}

func (t *Transaction) checkInnermost() {
	if t.resolved {
		panic(Error{Category: Internal, Message: "transaction already committed or rolled back"})
	}
	if len(t.d.txStack) != t.depth {
		panic(Error{Category: Internal, Message: "transactions must be committed or rolled back in LIFO order"})
	}
}

// Commit accepts everything scanned since Begin and returns the decoded
// characters captured over that span. The enclosing transaction, if any,
// transparently adopts this text as part of its own captured range.
func (t *Transaction) Commit() string {
	t.checkInnermost()
	captured := t.d.capturedSince(t.startPos)
	t.d.txStack = t.d.txStack[:len(t.d.txStack)-1]
	t.resolved = true
	return captured
}

// Rollback restores the cursor to the position recorded at Begin, as if
// nothing had been scanned.
func (t *Transaction) Rollback() {
	t.checkInnermost()
	t.d.pos = t.startPos
	t.d.txStack = t.d.txStack[:len(t.d.txStack)-1]
	t.resolved = true
}

// RollbackIfOpen is a defer-friendly guard: it rolls back if the
// transaction was never explicitly committed or rolled back, and is a
// no-op otherwise. Use `defer tx.RollbackIfOpen()` immediately after
// Begin() so a speculative scan that returns early via an error always
// restores the cursor.
func (t *Transaction) RollbackIfOpen() {
	if t.resolved {
		return
	}
	t.Rollback()
}

func (d *TokenDecoder) capturedSince(from int) string {
	var b strings.Builder
	to := d.pos
	if to > len(d.buf) {
		to = len(d.buf)
	}
	for i := from; i < to; i++ {
		if !d.buf[i].IsEnd() {
			b.WriteRune(d.buf[i].Rune)
		}
	}
	return b.String()
}
