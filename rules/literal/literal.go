// Package literal implements the low-level scanners for the rule grammar's
// primitive literals (spec §4.2): strings, regexes, numbers, booleans,
// null, and ranges. Each scanner consumes from a fixed position in an
// already-read source buffer and reports how many bytes it consumed, so
// callers (rules/parser) retain full control of position tracking.
package literal

import (
	"fmt"
	"strconv"
)

// ErrNotMatched is returned by a scanner when src[pos] does not begin a
// literal of its kind, letting the parser fall through to try another
// production.
var ErrNotMatched = fmt.Errorf("literal: no match at position")

// ScanString recognizes a single- or double-quoted string starting at
// src[pos]. Per spec §4.2, `\` followed by the same quote character escapes
// to that quote; no other escape sequences are interpreted.
func ScanString(src []byte, pos int) (value string, end int, err error) {
	if pos >= len(src) || (src[pos] != '\'' && src[pos] != '"') {
		return "", pos, ErrNotMatched
	}
	quote := src[pos]
	start := pos
	i := pos + 1
	var b []byte
	for {
		if i >= len(src) {
			return "", start, fmt.Errorf("unterminated string starting at byte %d", start)
		}
		c := src[i]
		if c == '\\' && i+1 < len(src) && src[i+1] == quote {
			b = append(b, quote)
			i += 2
			continue
		}
		if c == quote {
			i++
			break
		}
		b = append(b, c)
		i++
	}
	return string(b), i, nil
}

// ScanRegex recognizes a `/.../` delimited regular expression. `\/` escapes
// the delimiter; all other characters are literal (spec §4.2).
func ScanRegex(src []byte, pos int) (pattern string, end int, err error) {
	if pos >= len(src) || src[pos] != '/' {
		return "", pos, ErrNotMatched
	}
	start := pos
	i := pos + 1
	var b []byte
	for {
		if i >= len(src) {
			return "", start, fmt.Errorf("unterminated regex starting at byte %d", start)
		}
		c := src[i]
		if c == '\\' && i+1 < len(src) && src[i+1] == '/' {
			b = append(b, '/')
			i += 2
			continue
		}
		if c == '/' {
			i++
			break
		}
		b = append(b, c)
		i++
	}
	return string(b), i, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// ScanNumber recognizes an optionally-signed run of digits, and reports
// whether it is a Float (contains `.` or an exponent) or an Int. Per spec
// §4.2, the int scanner declines (isFloat=true, intErr=ErrNotMatched-like
// signal) when a `.` or exponent follows, so the caller's float scanner can
// take over; this function folds both into one pass since the boundary is
// unambiguous once the full digit run is known.
func ScanNumber(src []byte, pos int) (text string, isFloat bool, end int, err error) {
	start := pos
	i := pos
	if i < len(src) && (src[i] == '+' || src[i] == '-') {
		i++
	}
	digitsStart := i
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	if i == digitsStart {
		return "", false, start, ErrNotMatched
	}
	if i < len(src) && src[i] == '.' && i+1 < len(src) && isDigit(src[i+1]) {
		isFloat = true
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			isFloat = true
			i = j
			for i < len(src) && isDigit(src[i]) {
				i++
			}
		}
	}
	return string(src[start:i]), isFloat, i, nil
}

// ParseInt converts the text ScanNumber reported as an Int.
func ParseInt(text string) (int64, error) { return strconv.ParseInt(text, 10, 64) }

// ParseFloat converts the text ScanNumber reported as a Float.
func ParseFloat(text string) (float64, error) { return strconv.ParseFloat(text, 64) }

// boolWords maps every accepted spelling of true/false (spec §4.2) to its
// value.
var boolWords = map[string]bool{
	"true": true, "True": true, "TRUE": true, "T": true,
	"false": false, "False": false, "FALSE": false, "F": false,
}

// MatchBool reports whether word is one of the accepted boolean spellings.
func MatchBool(word string) (value bool, ok bool) {
	v, ok := boolWords[word]
	return v, ok
}

// MatchNull reports whether word is one of the accepted null spellings.
func MatchNull(word string) bool {
	return word == "null" || word == "NULL"
}
