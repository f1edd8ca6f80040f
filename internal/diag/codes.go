package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexBadToken                 Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexBadNumber                Code = 1003

	// Парсерные
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynExpected        Code = 2002
	SynExpectStatement Code = 2003
	SynExpectSemicolon Code = 2004

	// Семантические
	SemaInfo               Code = 3000
	SemaUndeclaredVariable Code = 3001
	SemaRedeclaredVariable Code = 3002
	SemaUnknownFunction    Code = 3003
	SemaArgCount           Code = 3004
	SemaNoValue            Code = 3005
	SemaNotInLoop          Code = 3006
	SemaUnknownType        Code = 3007

	// Контейнер IR
	ObjInfo               Code = 4000
	ObjBadMagic           Code = 4001
	ObjUnsupportedVersion Code = 4002
	ObjUnknownOpcode      Code = 4003
	ObjTruncated          Code = 4004
	ObjMalformed          Code = 4005

	// Ввод-вывод и проект
	IOLoadFileError Code = 5001
	ProjManifest    Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexInfo:                     "Lexical information",
	LexBadToken:                 "Bad token",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Cannot parse integer literal",

	SynInfo:            "Syntax information",
	SynUnexpectedToken: "Unexpected token",
	SynExpected:        "Expected construct",
	SynExpectStatement: "Expected statement",
	SynExpectSemicolon: "Expected semicolon",

	SemaInfo:               "Semantic information",
	SemaUndeclaredVariable: "Undeclared variable",
	SemaRedeclaredVariable: "Redeclared variable",
	SemaUnknownFunction:    "Unknown function",
	SemaArgCount:           "Wrong number of arguments",
	SemaNoValue:            "Expression has no value",
	SemaNotInLoop:          "Loop control outside of loop",
	SemaUnknownType:        "Unknown type",

	ObjInfo:               "Object information",
	ObjBadMagic:           "Bad magic",
	ObjUnsupportedVersion: "Unsupported version",
	ObjUnknownOpcode:      "Unknown opcode",
	ObjTruncated:          "Truncated stream",
	ObjMalformed:          "Malformed object",

	IOLoadFileError: "I/O load file error",
	ProjManifest:    "Project manifest error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("OBJ%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
