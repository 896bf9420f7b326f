// Package encoding implements the string charset policy of ROSE asset files.
//
// The game shipped with EUC-KR text and later patches mixed in UTF-8, so a
// narrow string is decoded as strict UTF-8 first and re-decoded as EUC-KR
// when that fails. Wide strings are UTF-16LE. Decoding never fails: bytes
// with no valid interpretation become replacement characters.
package encoding

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode converts narrow string bytes to a UTF-8 string. Valid UTF-8 passes
// through untouched; anything else is treated as EUC-KR with replacement
// characters for undecodable sequences.
func Decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	decoder := korean.EUCKR.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		// The x/text decoder substitutes rather than fails; this is a
		// final net for transform-level errors on pathological input.
		return string(data)
	}
	return string(result)
}

// DecodeWide converts UTF-16LE bytes to a UTF-8 string. Trailing replacement
// characters (from zero padding or odd tails) are stripped.
func DecodeWide(data []byte) string {
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return strings.TrimRight(string(result), "�")
}
