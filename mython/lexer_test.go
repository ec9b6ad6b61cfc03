package mython

import "testing"

func TestLexerIndentDedentBalanceAtEof(t *testing.T) {
	source := "if True:\n" +
		"  if True:\n" +
		"    print 1\n" +
		"  print 2\n" +
		"print 3\n"
	lex, err := NewLexer(source)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	balance := 0
	for tok := lex.Current(); ; tok = lex.Next() {
		switch tok.Type {
		case TokenIndent:
			balance++
		case TokenDedent:
			balance--
		}
		if tok.Type == TokenEof {
			break
		}
	}
	if balance != 0 {
		t.Fatalf("indent/dedent balance at eof = %d, want 0", balance)
	}
}

func TestLexerCommentsAndBlankLinesProduceNoTokens(t *testing.T) {
	source := "x = 1\n" +
		"\n" +
		"# a comment\n" +
		"y = 2\n"
	lex, err := NewLexer(source)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	var ids []string
	for tok := lex.Current(); tok.Type != TokenEof; tok = lex.Next() {
		if tok.Type == TokenId {
			ids = append(ids, tok.StrVal)
		}
	}
	if len(ids) != 2 || ids[0] != "x" || ids[1] != "y" {
		t.Fatalf("unexpected identifiers: %v", ids)
	}
}

func TestLexerNoEmptyLogicalLines(t *testing.T) {
	source := "x = 1\n\n\ny = 2\n"
	lex, err := NewLexer(source)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	prevWasNewline := false
	for tok := lex.Current(); ; tok = lex.Next() {
		if tok.Type == TokenNewline {
			if prevWasNewline {
				t.Fatalf("two consecutive Newline tokens with nothing structural between them")
			}
			prevWasNewline = true
		} else if tok.Type != TokenIndent && tok.Type != TokenDedent {
			prevWasNewline = false
		}
		if tok.Type == TokenEof {
			break
		}
	}
}

func TestLexerNextStickyAtEof(t *testing.T) {
	lex, err := NewLexer("x = 1\n")
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	for lex.Current().Type != TokenEof {
		lex.Next()
	}
	first := lex.Next()
	second := lex.Next()
	if first.Type != TokenEof || second.Type != TokenEof {
		t.Fatalf("Next past Eof did not stay at Eof: %v, %v", first.Type, second.Type)
	}
}

func TestLexerOddIndentationIsAnError(t *testing.T) {
	_, err := NewLexer("if True:\n   print 1\n")
	if err == nil {
		t.Fatalf("expected an error for odd indentation")
	}
}

func TestLexerMarkResetRewindsCursor(t *testing.T) {
	lex, err := NewLexer("a b c\n")
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	mark := lex.Mark()
	lex.Next()
	lex.Next()
	lex.Reset(mark)
	if lex.Current().StrVal != "a" {
		t.Fatalf("expected cursor rewound to 'a', got %q", lex.Current().StrVal)
	}
}
