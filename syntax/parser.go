// Copyright (C) 2025 The phan authors. All Rights Reserved.

package syntax

import (
	"bytes"
	"fmt"
	"io"

	"github.com/sanmai/phan"
)

// Parse parses src into a concrete syntax tree. Parse always returns a tree:
// problems in the input are reported as diagnostics, and the parser recovers
// by synthesizing Missing placeholders or skipping to a statement boundary.
// Skipped tokens are kept in the tree, so for well-formed input the tree
// retains every scanned token in document order.
func Parse(src []byte) (*Node, []phan.Diagnostic) {
	p := &parser{sc: phan.NewScanner(bytes.NewReader(src))}
	root := &Node{kind: SourceFile}
	p.advance(root)
	for !p.eof {
		switch p.tok() {
		case phan.InlineHTML, phan.OpenTag, phan.CloseTag:
			p.take(root)
		case phan.Function:
			root.append(p.parseFuncDecl())
		case phan.Class:
			root.append(p.parseClassDecl())
		case phan.RBrace:
			p.errorf("unexpected %v", phan.RBrace)
			p.take(root)
		default:
			root.append(p.parseStmt())
		}
	}
	// The file node spans the entire input, trivia included.
	root.pos, root.end = 0, len(src)
	number(root)
	return root, p.diags
}

// parser is a recursive descent parser with one token of lookahead.
// Consuming a token appends it to the node under construction, so the
// finished tree accounts for every token the scanner produced.
type parser struct {
	sc    *phan.Scanner
	cur   *Token
	eof   bool
	diags []phan.Diagnostic
}

func (p *parser) tok() phan.Token {
	if p.eof {
		return phan.Invalid
	}
	return p.cur.kind
}

// advance fetches the next token from the scanner. Comment tokens are
// attached to owner as they are seen; scanner errors become diagnostics and
// scanning continues past them.
func (p *parser) advance(owner *Node) {
	for {
		err := p.sc.Next()
		if err == io.EOF {
			p.eof, p.cur = true, nil
			return
		} else if err != nil {
			p.diags = append(p.diags, phan.Diagnostic{
				Severity: phan.Error,
				Message:  err.Error(),
				Location: p.sc.Location(),
			})
			continue
		}
		t := &Token{kind: p.sc.Token(), text: p.sc.Copy(), loc: p.sc.Location()}
		if t.kind == phan.LineComment || t.kind == phan.BlockComment {
			owner.append(t)
			continue
		}
		p.cur = t
		return
	}
}

// take consumes the current token into owner and advances.
func (p *parser) take(owner *Node) {
	owner.append(p.cur)
	p.advance(owner)
}

// expect consumes a token of kind k into owner, or records a diagnostic and
// leaves the current token in place.
func (p *parser) expect(owner *Node, k phan.Token) {
	if p.tok() == k {
		p.take(owner)
		return
	}
	p.errorf("expected %v, got %v", k, p.got())
}

func (p *parser) got() string {
	if p.eof {
		return "end of input"
	}
	return p.cur.kind.String()
}

func (p *parser) errorf(msg string, args ...any) {
	loc := p.sc.Location()
	if !p.eof {
		loc = p.cur.loc
	}
	p.diags = append(p.diags, phan.Diagnostic{
		Severity: phan.Error,
		Message:  fmt.Sprintf(msg, args...),
		Location: loc,
	})
}

// missing synthesizes a zero-width placeholder node at the current position.
func (p *parser) missing() *Node {
	pos := p.pos()
	return &Node{kind: Missing, pos: pos, end: pos}
}

func (p *parser) pos() int {
	if p.eof {
		return p.sc.Span().End
	}
	return p.cur.loc.Pos
}

// sync skips forward through the next statement boundary, keeping the
// skipped tokens as children of n. Tokens that can open a new construct are
// left for the caller.
func (p *parser) sync(n *Node) {
	for !p.eof {
		switch p.tok() {
		case phan.Semi:
			p.take(n)
			return
		case phan.RBrace, phan.LBrace, phan.CloseTag, phan.Function, phan.Class:
			return
		}
		p.take(n)
	}
}

// closeStmt consumes the terminating semicolon of a statement, recovering to
// the next boundary when it is absent.
func (p *parser) closeStmt(n *Node) {
	if p.tok() == phan.Semi {
		p.take(n)
		return
	}
	p.errorf("expected %v, got %v", phan.Semi, p.got())
	p.sync(n)
}

func (p *parser) parseStmt() *Node {
	switch p.tok() {
	case phan.Echo:
		return p.parseEcho()
	case phan.Return:
		return p.parseReturn()
	case phan.LBrace:
		return p.parseBlock()
	default:
		n := &Node{kind: ExprStmt}
		n.append(p.parseExpr())
		p.closeStmt(n)
		return n
	}
}

func (p *parser) parseEcho() *Node {
	n := &Node{kind: EchoStmt}
	p.take(n) // "echo"
	n.append(p.parseExpr())
	for p.tok() == phan.Comma {
		p.take(n)
		n.append(p.parseExpr())
	}
	p.closeStmt(n)
	return n
}

func (p *parser) parseReturn() *Node {
	n := &Node{kind: ReturnStmt}
	p.take(n) // "return"
	switch p.tok() {
	case phan.Semi, phan.RBrace, phan.CloseTag, phan.Invalid:
		// no return value
	default:
		n.append(p.parseExpr())
	}
	p.closeStmt(n)
	return n
}

func (p *parser) parseBlock() *Node {
	n := &Node{kind: Block}
	p.take(n) // "{"
	for !p.eof && p.tok() != phan.RBrace && p.tok() != phan.CloseTag {
		switch p.tok() {
		case phan.Function:
			n.append(p.parseFuncDecl())
		case phan.Class:
			n.append(p.parseClassDecl())
		default:
			n.append(p.parseStmt())
		}
	}
	p.expect(n, phan.RBrace)
	return n
}

func (p *parser) parseFuncDecl() *Node {
	n := &Node{kind: FuncDecl}
	p.take(n) // "function"
	if p.tok() == phan.Name {
		p.take(n)
	} else {
		p.errorf("expected function name, got %v", p.got())
	}
	n.append(p.parseParams())
	if p.tok() != phan.LBrace {
		p.errorf("expected %v, got %v", phan.LBrace, p.got())
		p.sync(n)
	}
	if p.tok() == phan.LBrace {
		n.append(p.parseBlock())
	}
	return n
}

func (p *parser) parseParams() *Node {
	n := &Node{kind: ParamList}
	p.expect(n, phan.LParen)
	for p.tok() == phan.Variable {
		pm := &Node{kind: Param}
		p.take(pm)
		n.append(pm)
		if p.tok() != phan.Comma {
			break
		}
		p.take(n)
	}
	p.expect(n, phan.RParen)
	return n
}

func (p *parser) parseClassDecl() *Node {
	n := &Node{kind: ClassDecl}
	p.take(n) // "class"
	if p.tok() == phan.Name {
		p.take(n)
	} else {
		p.errorf("expected class name, got %v", p.got())
	}
	if p.tok() != phan.LBrace {
		p.errorf("expected %v, got %v", phan.LBrace, p.got())
		p.sync(n)
	}
	if p.tok() != phan.LBrace {
		return n
	}
	p.take(n) // "{"
	for !p.eof && p.tok() != phan.RBrace && p.tok() != phan.CloseTag {
		switch p.tok() {
		case phan.Function:
			n.append(p.parseFuncDecl())
		default:
			n.append(p.parseStmt())
		}
	}
	p.expect(n, phan.RBrace)
	return n
}

func (p *parser) parseExpr() *Node { return p.parseAssign() }

func (p *parser) parseAssign() *Node {
	left := p.parseBinary(1)
	if p.tok() != phan.Assign {
		return left
	}
	n := &Node{kind: AssignExpr}
	n.append(left)
	p.take(n) // "="
	n.append(p.parseAssign())
	return n
}

// binaryPrec reports the precedence of a binary operator token, or 0 for
// tokens that are not binary operators.
func binaryPrec(t phan.Token) int {
	switch t {
	case phan.Plus, phan.Minus, phan.Dot:
		return 1
	case phan.Star, phan.Slash:
		return 2
	}
	return 0
}

func (p *parser) parseBinary(min int) *Node {
	left := p.parsePostfix()
	for {
		prec := binaryPrec(p.tok())
		if prec < min {
			return left
		}
		n := &Node{kind: BinaryExpr}
		n.append(left)
		p.take(n)
		n.append(p.parseBinary(prec + 1))
		left = n
	}
}

func (p *parser) parsePostfix() *Node {
	e := p.parsePrimary()
	for {
		switch p.tok() {
		case phan.Arrow:
			n := &Node{kind: PropAccess}
			n.append(e)
			p.take(n) // "->"
			p.member(n)
			e = n
		case phan.ColonColon:
			n := &Node{kind: StaticAccess}
			n.append(e)
			p.take(n) // "::"
			p.member(n)
			e = n
		case phan.LParen:
			n := &Node{kind: CallExpr}
			n.append(e)
			p.parseArgs(n)
			e = n
		case phan.LBracket:
			n := &Node{kind: IndexExpr}
			n.append(e)
			p.take(n) // "["
			if p.tok() != phan.RBracket {
				n.append(p.parseExpr())
			}
			p.expect(n, phan.RBracket)
			e = n
		default:
			return e
		}
	}
}

// member consumes the name or variable following "->" or "::".
func (p *parser) member(n *Node) {
	switch p.tok() {
	case phan.Name, phan.Variable:
		p.take(n)
	default:
		p.errorf("expected name or variable, got %v", p.got())
		n.append(p.missing())
	}
}

// parseArgs consumes a parenthesized, comma-separated argument list into n.
func (p *parser) parseArgs(n *Node) {
	p.expect(n, phan.LParen)
	for p.tok() != phan.RParen && !p.eof {
		n.append(p.parseExpr())
		if p.tok() != phan.Comma {
			break
		}
		p.take(n)
	}
	p.expect(n, phan.RParen)
}

func (p *parser) parsePrimary() *Node {
	switch p.tok() {
	case phan.Variable:
		n := &Node{kind: VarRef}
		p.take(n)
		return n
	case phan.Name:
		n := &Node{kind: NameRef}
		p.take(n)
		return n
	case phan.Integer, phan.Float, phan.String:
		n := &Node{kind: Literal}
		p.take(n)
		return n
	case phan.LParen:
		n := &Node{kind: ParenExpr}
		p.take(n) // "("
		n.append(p.parseExpr())
		p.expect(n, phan.RParen)
		return n
	case phan.New:
		n := &Node{kind: NewExpr}
		p.take(n) // "new"
		switch p.tok() {
		case phan.Name:
			cn := &Node{kind: NameRef}
			p.take(cn)
			n.append(cn)
		case phan.Variable:
			cn := &Node{kind: VarRef}
			p.take(cn)
			n.append(cn)
		default:
			p.errorf("expected class name, got %v", p.got())
			n.append(p.missing())
		}
		if p.tok() == phan.LParen {
			p.parseArgs(n)
		}
		return n
	default:
		p.errorf("expected expression, got %v", p.got())
		return p.missing()
	}
}
