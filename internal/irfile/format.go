// Package irfile reads and writes the brook IR container (.bkc).
//
// Layout, all integers little-endian:
//
//	0   magic "BKIR"
//	4   version major, minor, patch (1 byte each)
//	7   u32 extern count, u32 extern table offset
//	15  u32 block count,  u32 block table offset
//	23  extern table: u16 name length, name, u8 arity, u8 returns
//	    block table, 16 bytes per block:
//	      u32 instr count, u32 arg count, u32 arg sizes offset, u32 instr offset
//	    data: arg sizes (1 byte each) and instruction streams
//
// An instruction is 25 bytes: u8 opcode and three u64 operands, unused ones zero.
package irfile

import (
	"errors"
)

const Magic = "BKIR"

// Version of the container written by this package.
var Version = [3]byte{1, 0, 0}

const (
	headerSize     = 23
	blockEntrySize = 16
	instrSize      = 25
	maxNameLen     = 1<<16 - 1
)

var (
	ErrBadMagic           = errors.New("irfile: bad magic")
	ErrUnsupportedVersion = errors.New("irfile: unsupported version")
	ErrUnknownOpcode      = errors.New("irfile: unknown opcode")
	ErrTruncated          = errors.New("irfile: truncated stream")
	ErrMalformed          = errors.New("irfile: malformed object")
)
