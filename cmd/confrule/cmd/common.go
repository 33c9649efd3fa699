package cmd

import (
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/confrule/confrule/internal/errors"
	"github.com/confrule/confrule/internal/token"
	"github.com/confrule/confrule/loader"
	"github.com/confrule/confrule/rules/ast"
	"github.com/confrule/confrule/rules/parser"
	"github.com/confrule/confrule/value"
)

// getLang mirrors cmd/cue/cmd's own locale detection for its x/text
// localizer: LC_ALL falls back to LANG, and any encoding suffix is dropped.
func getLang() language.Tag {
	loc := os.Getenv("LC_ALL")
	if loc == "" {
		loc = os.Getenv("LANG")
	}
	loc = strings.Split(loc, ".")[0]
	return language.Make(loc)
}

// isParseFailure reports whether err carries at least one errors.Parse kind
// error, which spec §6 calls out for a distinguished exit code.
func isParseFailure(err error) bool {
	if e, ok := err.(errors.Error); ok {
		return e.Kind() == errors.Parse
	}
	list, ok := err.(errors.List)
	if !ok {
		return false
	}
	for _, e := range list {
		if e.Kind() == errors.Parse {
			return true
		}
	}
	return false
}

// loadRulesFile parses the rules document at path, returning its File AST.
func loadRulesFile(path string) (*ast.File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf(errors.IO, token.Position{Filename: path}, "%v", err)
	}
	f, errs := parser.ParseFile(path, src)
	if len(errs) > 0 {
		return nil, errs.Err()
	}
	return f, nil
}

// dataDoc is one loaded data document paired with the file path it came
// from, so Reporter events and CLI output can attribute failures per file.
type dataDoc struct {
	Path  string
	Value value.Value
}

// loadDataFiles loads each path as a Value document (spec §4.7: YAML
// preferred, JSON fallback), returning only the last document per file per
// spec §4.7's single-document API.
func loadDataFiles(paths []string) ([]dataDoc, error) {
	docs := make([]dataDoc, 0, len(paths))
	for _, p := range paths {
		src, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.Newf(errors.IO, token.Position{Filename: p}, "%v", err)
		}
		v, err := loader.DecodeOne(p, src)
		if err != nil {
			return nil, errors.Newf(errors.Parse, token.Position{Filename: p}, "%v", err)
		}
		docs = append(docs, dataDoc{Path: p, Value: v})
	}
	return docs, nil
}
