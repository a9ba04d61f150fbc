package syntax

import (
	"quartz/ast"
	"quartz/report"
)

// stmt := exit_stmt | var_decl | scope | if_stmt ;
//
// If the current token cannot begin a statement, the empty statement is
// returned and no tokens are consumed.
func (p *Parser) parseStmt() (ast.StmtRef, error) {
	switch p.tok.Kind {
	case TOK_EXIT:
		return p.parseExitStmt()
	case TOK_VAR:
		return p.parseVarDecl()
	case TOK_LBRACE:
		return p.parseScope()
	case TOK_IF:
		return p.parseIfStmt()
	default:
		return ast.StmtRef{}, nil
	}
}

// exit_stmt := 'exit' '(' expr ')' ';' ;
func (p *Parser) parseExitStmt() (ast.StmtRef, error) {
	start, err := p.want(TOK_EXIT)
	if err != nil {
		return ast.StmtRef{}, err
	}

	if _, err := p.want(TOK_LPAREN); err != nil {
		return ast.StmtRef{}, err
	}

	expr, err := p.parseRequiredExpr()
	if err != nil {
		return ast.StmtRef{}, err
	}

	if _, err := p.want(TOK_RPAREN); err != nil {
		return ast.StmtRef{}, err
	}

	end, err := p.want(TOK_SEMI)
	if err != nil {
		return ast.StmtRef{}, err
	}

	stmt, err := p.tree.NewExit(expr, report.NewSpanOver(start.Span(), end.Span()))
	if err != nil {
		return ast.StmtRef{}, p.allocError(err)
	}

	return stmt, nil
}

// var_decl := 'var' IDENT ':' 'int' '=' expr ';' ;
func (p *Parser) parseVarDecl() (ast.StmtRef, error) {
	start, err := p.want(TOK_VAR)
	if err != nil {
		return ast.StmtRef{}, err
	}

	name, err := p.want(TOK_IDENT)
	if err != nil {
		return ast.StmtRef{}, err
	}

	if _, err := p.want(TOK_COLON); err != nil {
		return ast.StmtRef{}, err
	}

	typ, err := p.want(TOK_INT)
	if err != nil {
		return ast.StmtRef{}, err
	}

	if _, err := p.want(TOK_ASSIGN); err != nil {
		return ast.StmtRef{}, err
	}

	init, err := p.parseRequiredExpr()
	if err != nil {
		return ast.StmtRef{}, err
	}

	end, err := p.want(TOK_SEMI)
	if err != nil {
		return ast.StmtRef{}, err
	}

	stmt, err := p.tree.NewVarDecl(
		name.Value,
		typ.Text(),
		init,
		report.NewSpanOver(start.Span(), end.Span()),
	)
	if err != nil {
		return ast.StmtRef{}, p.allocError(err)
	}

	return stmt, nil
}

// scope := '{' {stmt} '}' ;
func (p *Parser) parseScope() (ast.StmtRef, error) {
	start, err := p.want(TOK_LBRACE)
	if err != nil {
		return ast.StmtRef{}, err
	}

	var stmts []ast.StmtRef
	for {
		stmt, err := p.parseStmt()
		if err != nil {
			return ast.StmtRef{}, err
		}

		if stmt.Empty() {
			break
		}

		stmts = append(stmts, stmt)
	}

	end, err := p.want(TOK_RBRACE)
	if err != nil {
		return ast.StmtRef{}, err
	}

	stmt, err := p.tree.NewScope(stmts, report.NewSpanOver(start.Span(), end.Span()))
	if err != nil {
		return ast.StmtRef{}, p.allocError(err)
	}

	return stmt, nil
}

// if_stmt := 'if' '(' expr ')' stmt ;
func (p *Parser) parseIfStmt() (ast.StmtRef, error) {
	start, err := p.want(TOK_IF)
	if err != nil {
		return ast.StmtRef{}, err
	}

	if _, err := p.want(TOK_LPAREN); err != nil {
		return ast.StmtRef{}, err
	}

	cond, err := p.parseRequiredExpr()
	if err != nil {
		return ast.StmtRef{}, err
	}

	if _, err := p.want(TOK_RPAREN); err != nil {
		return ast.StmtRef{}, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return ast.StmtRef{}, err
	}

	if body.Empty() {
		return ast.StmtRef{}, p.reject("statement")
	}

	stmt, err := p.tree.NewIf(cond, body, report.NewSpanOver(start.Span(), p.tree.StmtSpan(body)))
	if err != nil {
		return ast.StmtRef{}, p.allocError(err)
	}

	return stmt, nil
}
