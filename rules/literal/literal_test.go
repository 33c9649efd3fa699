package literal

import "testing"

func TestScanStringEscapesOwnQuote(t *testing.T) {
	s, end, err := ScanString([]byte(`'it\'s ok' rest`), 0)
	if err != nil {
		t.Fatalf("ScanString: %v", err)
	}
	if s != "it's ok" {
		t.Errorf("value = %q, want %q", s, "it's ok")
	}
	if end != len(`'it\'s ok'`) {
		t.Errorf("end = %d, want %d", end, len(`'it\'s ok'`))
	}
}

func TestScanStringUnterminated(t *testing.T) {
	if _, _, err := ScanString([]byte(`'unterminated`), 0); err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
}

func TestScanRegexEscapesDelimiter(t *testing.T) {
	pat, end, err := ScanRegex([]byte(`/a\/b/ rest`), 0)
	if err != nil {
		t.Fatalf("ScanRegex: %v", err)
	}
	if pat != `a/b` {
		t.Errorf("pattern = %q, want %q", pat, `a/b`)
	}
	if end != len(`/a\/b/`) {
		t.Errorf("end = %d, want %d", end, len(`/a\/b/`))
	}
}

func TestScanNumberDeclinesToFloatOnDecimalPoint(t *testing.T) {
	text, isFloat, end, err := ScanNumber([]byte("10"), 0)
	if err != nil || isFloat || text != "10" || end != 2 {
		t.Fatalf("ScanNumber(10) = %q, %v, %d, %v", text, isFloat, end, err)
	}

	text, isFloat, end, err = ScanNumber([]byte("10.5"), 0)
	if err != nil || !isFloat || text != "10.5" || end != 4 {
		t.Fatalf("ScanNumber(10.5) = %q, %v, %d, %v", text, isFloat, end, err)
	}
}

func TestScanNumberExponent(t *testing.T) {
	text, isFloat, end, err := ScanNumber([]byte("1e10"), 0)
	if err != nil || !isFloat || text != "1e10" || end != 4 {
		t.Fatalf("ScanNumber(1e10) = %q, %v, %d, %v", text, isFloat, end, err)
	}
}

func TestScanNumberSigned(t *testing.T) {
	text, isFloat, _, err := ScanNumber([]byte("-42"), 0)
	if err != nil || isFloat || text != "-42" {
		t.Fatalf("ScanNumber(-42) = %q, %v, %v", text, isFloat, err)
	}
	n, err := ParseInt(text)
	if err != nil || n != -42 {
		t.Fatalf("ParseInt(-42) = %d, %v", n, err)
	}
}

func TestMatchBool(t *testing.T) {
	for _, word := range []string{"true", "True", "TRUE", "T"} {
		if v, ok := MatchBool(word); !ok || !v {
			t.Errorf("MatchBool(%q) = %v, %v, want true, true", word, v, ok)
		}
	}
	for _, word := range []string{"false", "False", "FALSE", "F"} {
		if v, ok := MatchBool(word); !ok || v {
			t.Errorf("MatchBool(%q) = %v, %v, want false, true", word, v, ok)
		}
	}
	if _, ok := MatchBool("yes"); ok {
		t.Error(`MatchBool("yes") should not match`)
	}
}

func TestMatchNull(t *testing.T) {
	if !MatchNull("null") || !MatchNull("NULL") {
		t.Error("MatchNull should accept null and NULL")
	}
	if MatchNull("nil") {
		t.Error("MatchNull should not accept nil")
	}
}
