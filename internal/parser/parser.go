package parser

// parseState tracks whether the scanner is inside an escape sequence.
type parseState uint8

const (
	stateNormal parseState = iota
	stateEscape
)

// frame is the saved context for one nesting level, pushed on `(` and
// popped on `)`.
type frame struct {
	seq   []Node
	seqOr []Node
}

// repeatKind selects which postfix operator wraps the preceding operand.
type repeatKind uint8

const (
	repeatPlus repeatKind = iota
	repeatStar
	repeatQuestion
)

// parseEscape maps an escaped character to its literal node. Only the
// grammar's metacharacters may be escaped.
func parseEscape(pos int, c rune) (Node, error) {
	switch c {
	case '\\', '(', ')', '|', '.', '+', '*', '?':
		return &Char{R: c}, nil
	default:
		return nil, &ParseError{Kind: ErrInvalidEscape, Pos: pos, Char: c}
	}
}

// parseRepeat pops the last element of seq and wraps it in the requested
// repetition node. The operators are postfix, so an empty seq means there
// is no operand to repeat.
func parseRepeat(seq []Node, kind repeatKind, pos int) ([]Node, error) {
	if len(seq) == 0 {
		return nil, &ParseError{Kind: ErrNoPrev, Pos: pos}
	}
	prev := seq[len(seq)-1]
	var n Node
	switch kind {
	case repeatPlus:
		n = &Plus{Sub: prev}
	case repeatStar:
		n = &Star{Sub: prev}
	case repeatQuestion:
		n = &Question{Sub: prev}
	}
	return append(seq[:len(seq)-1], n), nil
}

// foldOr joins a list of alternatives into a single right-folded Or chain.
// Returns nil when the list is empty.
func foldOr(seqOr []Node) Node {
	if len(seqOr) == 0 {
		return nil
	}
	ast := seqOr[len(seqOr)-1]
	for i := len(seqOr) - 2; i >= 0; i-- {
		ast = &Or{Left: seqOr[i], Right: ast}
	}
	return ast
}

// Parse converts a pattern into its AST. It scans the pattern once, left
// to right, keeping the current sequence, the alternatives collected at
// the current nesting level, and a stack of saved contexts for groups.
func Parse(pattern string) (Node, error) {
	var (
		seq   []Node
		seqOr []Node
		stack []frame
		state = stateNormal
		// offset of the most recent unresolved `|`, for reporting a
		// missing final alternative
		lastBar int
	)

	for i, c := range []rune(pattern) {
		if state == stateEscape {
			n, err := parseEscape(i, c)
			if err != nil {
				return nil, err
			}
			seq = append(seq, n)
			state = stateNormal
			continue
		}

		switch c {
		case '+':
			var err error
			if seq, err = parseRepeat(seq, repeatPlus, i); err != nil {
				return nil, err
			}
		case '*':
			var err error
			if seq, err = parseRepeat(seq, repeatStar, i); err != nil {
				return nil, err
			}
		case '?':
			var err error
			if seq, err = parseRepeat(seq, repeatQuestion, i); err != nil {
				return nil, err
			}
		case '(':
			stack = append(stack, frame{seq: seq, seqOr: seqOr})
			seq = nil
			seqOr = nil
		case ')':
			if len(stack) == 0 {
				return nil, &ParseError{Kind: ErrInvalidRightParen, Pos: i}
			}
			prev := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(seq) > 0 {
				seqOr = append(seqOr, &Seq{Subs: seq})
			} else if len(seqOr) > 0 {
				// a bar with no final alternative, e.g. (a|)
				return nil, &ParseError{Kind: ErrNoPrev, Pos: lastBar}
			}
			// An empty group contributes nothing to the enclosing
			// sequence.
			if ast := foldOr(seqOr); ast != nil {
				prev.seq = append(prev.seq, ast)
			}
			seq = prev.seq
			seqOr = prev.seqOr
		case '|':
			if len(seq) == 0 {
				return nil, &ParseError{Kind: ErrNoPrev, Pos: i}
			}
			seqOr = append(seqOr, &Seq{Subs: seq})
			seq = nil
			lastBar = i
		case '\\':
			state = stateEscape
		case '.':
			seq = append(seq, &Dot{})
		default:
			seq = append(seq, &Char{R: c})
		}
	}

	if len(stack) > 0 {
		return nil, &ParseError{Kind: ErrNoRightParen, Pos: len([]rune(pattern))}
	}

	if len(seq) > 0 {
		seqOr = append(seqOr, &Seq{Subs: seq})
	} else if len(seqOr) > 0 {
		// trailing bar with no final alternative, e.g. a|
		return nil, &ParseError{Kind: ErrNoPrev, Pos: lastBar}
	}

	ast := foldOr(seqOr)
	if ast == nil {
		return nil, &ParseError{Kind: ErrEmpty, Pos: 0}
	}
	return ast, nil
}
