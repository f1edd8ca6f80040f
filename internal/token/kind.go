package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal (decimal, 0x hex or 0b binary).
	IntLit

	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwLoop represents the 'loop' keyword.
	KwLoop // loop
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwLet represents the 'let' keyword.
	KwLet // let

	LBrace    // {
	RBrace    // }
	LParen    // (
	RParen    // )
	Semicolon // ;
	Colon     // :
	Comma     // ,
	Assign    // =
	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	EqEq      // ==
	BangEq    // !=
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	Shl       // <<
	Shr       // >>
)

var kindNames = [...]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	Ident:      "Ident",
	IntLit:     "IntLit",
	KwIf:       "KwIf",
	KwElse:     "KwElse",
	KwWhile:    "KwWhile",
	KwLoop:     "KwLoop",
	KwReturn:   "KwReturn",
	KwBreak:    "KwBreak",
	KwContinue: "KwContinue",
	KwLet:      "KwLet",
	LBrace:     "LBrace",
	RBrace:     "RBrace",
	LParen:     "LParen",
	RParen:     "RParen",
	Semicolon:  "Semicolon",
	Colon:      "Colon",
	Comma:      "Comma",
	Assign:     "Assign",
	Plus:       "Plus",
	Minus:      "Minus",
	Star:       "Star",
	Slash:      "Slash",
	EqEq:       "EqEq",
	BangEq:     "BangEq",
	Lt:         "Lt",
	LtEq:       "LtEq",
	Gt:         "Gt",
	GtEq:       "GtEq",
	Shl:        "Shl",
	Shr:        "Shr",
}

var kindSpellings = map[Kind]string{
	EOF: "end of input", Ident: "identifier", IntLit: "integer literal",
	KwIf: "if", KwElse: "else", KwWhile: "while", KwLoop: "loop",
	KwReturn: "return", KwBreak: "break", KwContinue: "continue", KwLet: "let",
	LBrace: "{", RBrace: "}", LParen: "(", RParen: ")", Semicolon: ";",
	Colon: ":", Comma: ",", Assign: "=", Plus: "+", Minus: "-", Star: "*",
	Slash: "/", EqEq: "==", BangEq: "!=", Lt: "<", LtEq: "<=", Gt: ">",
	GtEq: ">=", Shl: "<<", Shr: ">>",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Spelling returns the text a user would write for k, for diagnostics.
func (k Kind) Spelling() string {
	if s, ok := kindSpellings[k]; ok {
		return s
	}
	return k.String()
}
