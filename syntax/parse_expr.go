package syntax

import (
	"quartz/ast"
	"quartz/report"
)

// binaryOps maps binary operator tokens to their AST operator and precedence.
// Higher precedences bind more tightly.
var binaryOps = map[int]struct {
	op, prec int
}{
	TOK_PLUS:  {ast.OpAdd, 0},
	TOK_MINUS: {ast.OpSub, 0},
	TOK_STAR:  {ast.OpMul, 1},
	TOK_DIV:   {ast.OpDiv, 1},
}

// parseRequiredExpr parses an expression and fails if there is none.
func (p *Parser) parseRequiredExpr() (ast.ExprRef, error) {
	expr, err := p.parseExpr(0)
	if err != nil {
		return ast.ExprRef{}, err
	}

	if !expr.Valid() {
		return ast.ExprRef{}, p.reject("expression")
	}

	return expr, nil
}

// expr := term {bin_op expr} ;
// bin_op := '+' | '-' | '*' | '/' ;
//
// Operators are folded by precedence climbing: only operators binding at
// least as tightly as minPrec are consumed at this level, and right operands
// are parsed one level tighter so that operators of equal precedence associate
// to the left.  If there is no term at the current token, the zero reference is
// returned and no tokens are consumed.
func (p *Parser) parseExpr(minPrec int) (ast.ExprRef, error) {
	lhs, err := p.parseTerm()
	if err != nil || !lhs.Valid() {
		return lhs, err
	}

	for {
		binOp, ok := binaryOps[p.tok.Kind]
		if !ok || binOp.prec < minPrec {
			break
		}

		p.next()

		rhs, err := p.parseExpr(binOp.prec + 1)
		if err != nil {
			return ast.ExprRef{}, err
		}

		if !rhs.Valid() {
			return ast.ExprRef{}, p.reject("expression")
		}

		lhs, err = p.tree.NewBinary(binOp.op, lhs, rhs)
		if err != nil {
			return ast.ExprRef{}, p.allocError(err)
		}
	}

	return lhs, nil
}

// term := INT_LIT | IDENT | '(' expr ')' ;
func (p *Parser) parseTerm() (ast.ExprRef, error) {
	var (
		expr ast.ExprRef
		err  error
	)

	switch p.tok.Kind {
	case TOK_INTLIT:
		p.next()
		expr, err = p.tree.NewIntLit(p.lookbehind.Value, p.lookbehind.Span())
	case TOK_IDENT:
		p.next()
		expr, err = p.tree.NewIdent(p.lookbehind.Value, p.lookbehind.Span())
	case TOK_LPAREN:
		{
			p.next()
			start := p.lookbehind

			inner, perr := p.parseRequiredExpr()
			if perr != nil {
				return ast.ExprRef{}, perr
			}

			end, perr := p.want(TOK_RPAREN)
			if perr != nil {
				return ast.ExprRef{}, perr
			}

			expr, err = p.tree.NewParen(inner, report.NewSpanOver(start.Span(), end.Span()))
		}
	default:
		return ast.ExprRef{}, nil
	}

	if err != nil {
		return ast.ExprRef{}, p.allocError(err)
	}

	return expr, nil
}
