package lexer

import (
	"unicode"
)

// ===== Классификаторы =====

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// комбинирующие знаки допустимы после первой буквы: "e\u0301" == "é" после NFC
func isIdentContinueRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc)
}

func isDec(r rune) bool { return r >= '0' && r <= '9' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

func isASCIIAlnum(r rune) bool {
	return isDec(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
