package parser

import (
	"brook/internal/ast"
	"brook/internal/diag"
	"brook/internal/lexer"
	"brook/internal/source"
	"brook/internal/token"
)

// Parser: состояние парсера на один файл.
// Backtracking is done by saving a lexer.Cursor and rewinding the lexer to it;
// tokens are never buffered beyond the single lookahead.
type Parser struct {
	lx     *lexer.Lexer // поток токенов (Peek/Next/Save/Goto)
	arenas *ast.Builder // построитель аренных узлов
	file   ast.FileID   // текущий FileID (в AST)
	src    *source.File
}

// ParseFile: входная точка для разбора одного файла.
// The first error aborts the parse; no partial tree is returned.
func ParseFile(lx *lexer.Lexer, arenas *ast.Builder) (ast.FileID, error) {
	p := Parser{
		lx:     lx,
		arenas: arenas,
		file:   arenas.NewFile(lx.EmptySpan()),
		src:    lx.File(),
	}
	if err := p.parseProgram(); err != nil {
		return ast.NoFileID, err
	}
	return p.file, nil
}

// parseProgram: основной цикл верхнего уровня: пока не EOF: parseStmt.
func (p *Parser) parseProgram() error {
	first, err := p.peek()
	if err != nil {
		return err
	}
	if first.Kind == token.EOF {
		return p.errAt(diag.SynExpectStatement, first.Span, "expected statement")
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			f := p.arenas.Files.Get(p.file)
			f.Span = first.Span.Cover(tok.Span)
			return nil
		}
		stmtID, err := p.parseStmt()
		if err != nil {
			return err
		}
		p.arenas.PushStmt(p.file, stmtID)
	}
}
