package driver

import (
	"brook/internal/diag"
	"brook/internal/lexer"
	"brook/internal/source"
	"brook/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token // without the trailing EOF
	Bag     *diag.Bag
}

// Tokenize lexes the file at path. Lexing resumes after errors, so every
// malformed token lands in Bag and the listing stays complete.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return TokenizeFile(fs, fs.Get(id), maxDiagnostics), nil
}

// TokenizeFile lexes an already loaded file.
func TokenizeFile(fs *source.FileSet, file *source.File, maxDiagnostics int) *TokenizeResult {
	res := &TokenizeResult{FileSet: fs, File: file, Bag: diag.NewBag(maxDiagnostics)}
	rep := diag.BagReporter{Bag: res.Bag}
	lx := lexer.New(file)
	for {
		from := lx.Save()
		tok, err := lx.Next()
		if err != nil {
			diag.ReportError(rep, file.Path, err)
			res.Tokens = append(res.Tokens, tok)
			if lx.Save().Off == from.Off {
				// ошибка без продвижения: дальше читать нечего
				break
			}
			continue
		}
		if tok.Kind == token.EOF {
			break
		}
		res.Tokens = append(res.Tokens, tok)
	}
	return res
}
