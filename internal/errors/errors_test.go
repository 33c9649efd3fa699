package errors

import (
	"strings"
	"testing"

	"github.com/confrule/confrule/internal/token"
)

func TestKindString(t *testing.T) {
	cases := []struct {
		k    Kind
		want string
	}{
		{Parse, "parse error"},
		{Data, "data error"},
		{Unexpected, "internal error"},
		{Computation, "computation error"},
		{IO, "i/o error"},
	}
	for _, tc := range cases {
		if got := tc.k.String(); got != tc.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tc.k, got, tc.want)
		}
	}
}

func TestNewfCarriesKindAndPosition(t *testing.T) {
	pos := token.Position{Filename: "r.rules", Line: 3, Column: 5}
	err := Newf(Parse, pos, "unexpected %q", "}")
	if err.Kind() != Parse {
		t.Errorf("Kind() = %v, want Parse", err.Kind())
	}
	if err.Position() != pos {
		t.Errorf("Position() = %v, want %v", err.Position(), pos)
	}
	if err.Error() != `unexpected "}"` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrapfFoldsCauseIntoMessage(t *testing.T) {
	cause := Newf(IO, token.NoPos, "disk full")
	err := Wrapf(Data, token.NoPos, cause, "loading %s failed", "data.yaml")
	want := "loading data.yaml failed: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapfNilCauseOmitsSuffix(t *testing.T) {
	err := Wrapf(Data, token.NoPos, nil, "loading %s failed", "data.yaml")
	if err.Error() != "loading data.yaml failed" {
		t.Errorf("Error() = %q, want no trailing cause", err.Error())
	}
}

func TestListAddIgnoresNil(t *testing.T) {
	var l List
	l.Add(nil)
	if len(l) != 0 {
		t.Fatalf("len(l) = %d, want 0 after adding nil", len(l))
	}
}

func TestListErrReturnsNilWhenEmpty(t *testing.T) {
	var l List
	if err := l.Err(); err != nil {
		t.Errorf("Err() = %v, want nil for an empty list", err)
	}
}

func TestListErrorSummarizesCount(t *testing.T) {
	var l List
	l.AddNewf(Parse, token.Position{Filename: "a", Line: 1, Column: 1}, "first")
	l.AddNewf(Parse, token.Position{Filename: "a", Line: 2, Column: 1}, "second")
	l.AddNewf(Parse, token.Position{Filename: "a", Line: 3, Column: 1}, "third")
	want := "first (and 2 more errors)"
	if got := l.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestListSortOrdersByPosition(t *testing.T) {
	var l List
	l.AddNewf(Parse, token.Position{Filename: "a", Line: 5, Column: 1}, "later")
	l.AddNewf(Parse, token.Position{Filename: "a", Line: 1, Column: 1}, "earlier")
	l.AddNewf(Parse, token.Position{Filename: "a", Line: 3, Column: 9}, "middle")
	l.Sort()
	got := []string{l[0].Error(), l[1].Error(), l[2].Error()}
	want := []string{"earlier", "middle", "later"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("l[%d] = %q, want %q (sort by position)", i, got[i], want[i])
		}
	}
}

func TestPrintOneLinePerError(t *testing.T) {
	var l List
	l.AddNewf(Parse, token.Position{Filename: "r.rules", Line: 2, Column: 3}, "bad token")
	l.AddNewf(Data, token.Position{Filename: "d.yaml", Line: 1, Column: 1}, "bad int")
	got := Details(l)
	if !strings.Contains(got, "r.rules:2:3: bad token") {
		t.Errorf("Details() = %q, missing first line", got)
	}
	if !strings.Contains(got, "d.yaml:1:1: bad int") {
		t.Errorf("Details() = %q, missing second line", got)
	}
	if strings.Count(got, "\n") != 2 {
		t.Errorf("Details() has %d lines, want one per error", strings.Count(got, "\n"))
	}
}
