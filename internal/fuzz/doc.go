// Package fuzztests houses Go fuzz harnesses over the brook pipeline
// (source -> lexer -> parser -> irgen -> irfile). They guard against panics,
// hangs and round-trip mismatches on arbitrary inputs.
//
// Не делает: генерацию корпусов и запись файлов.
package fuzztests
