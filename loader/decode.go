// Package loader decodes a YAML or JSON byte stream into the uniform,
// location-tagged value.Value tree (spec §4.7). The decoder wraps a
// gopkg.in/yaml.v3 Decoder and walks its yaml.Node tree directly, the way
// the teacher's own internal/encoding/yaml decoder wraps the same package
// to build cue/ast nodes instead.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/confrule/confrule/internal/token"
	"github.com/confrule/confrule/value"
)

const (
	nullTag  = "!!null"
	boolTag  = "!!bool"
	strTag   = "!!str"
	intTag   = "!!int"
	floatTag = "!!float"
)

type decoder struct {
	filename string
	tracker  *token.Tracker
	src      []byte
}

// Decode parses every document in src and returns one Value per document,
// trying YAML first and falling back to JSON if no YAML document can be
// decoded at all (spec §4.7: "attempts YAML, falling back to JSON on
// failure"). JSON is a YAML subset so this fallback only matters for
// inputs yaml.v3 rejects outright.
func Decode(filename string, src []byte) ([]value.Value, error) {
	d := &decoder{filename: filename, tracker: token.NewTracker(filename), src: src}
	docs, err := d.decodeYAML()
	if err == nil {
		return docs, nil
	}
	if v, jerr := d.decodeJSON(); jerr == nil {
		return []value.Value{v}, nil
	}
	return nil, err
}

// DecodeOne parses src and returns only the last document, per spec §4.7's
// "only the last is returned by default when a single-document API is
// called".
func DecodeOne(filename string, src []byte) (value.Value, error) {
	docs, err := Decode(filename, src)
	if err != nil {
		return value.Value{}, err
	}
	if len(docs) == 0 {
		return value.Null(token.Position{Filename: filename}), nil
	}
	return docs[len(docs)-1], nil
}

func (d *decoder) decodeYAML() ([]value.Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(d.src))
	var docs []value.Value
	for {
		var yn yaml.Node
		if err := dec.Decode(&yn); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("%s: %v", d.filename, err)
		}
		v, err := d.document(&yn)
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
	return docs, nil
}

func (d *decoder) decodeJSON() (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(d.src))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return value.Value{}, err
	}
	return d.fromJSON(raw, token.Position{Filename: d.filename}), nil
}

func (d *decoder) fromJSON(raw interface{}, pos token.Position) value.Value {
	switch x := raw.(type) {
	case nil:
		return value.Null(pos)
	case bool:
		return value.Bool(pos, x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return value.Int(pos, n)
		}
		f, _ := x.Float64()
		return value.Float(pos, f)
	case string:
		return value.String(pos, x)
	case []interface{}:
		elems := make([]value.Value, len(x))
		for i, el := range x {
			elems[i] = d.fromJSON(el, pos)
		}
		return value.List(pos, elems)
	case map[string]interface{}:
		m := value.NewOrderedMap()
		for k, v := range x {
			m.Set(k, d.fromJSON(v, pos))
		}
		return value.Map(pos, m)
	default:
		return value.BadValue(pos, fmt.Sprintf("%v", x))
	}
}

func (d *decoder) pos(yn *yaml.Node) token.Position {
	return token.Position{Filename: d.filename, Line: yn.Line, Column: yn.Column}
}

func (d *decoder) document(yn *yaml.Node) (value.Value, error) {
	if len(yn.Content) != 1 {
		return value.Value{}, fmt.Errorf("%s:%d: yaml document node has %d children, want 1", d.filename, yn.Line, len(yn.Content))
	}
	return d.extract(yn.Content[0])
}

func (d *decoder) extract(yn *yaml.Node) (value.Value, error) {
	switch yn.Kind {
	case yaml.SequenceNode:
		return d.sequence(yn)
	case yaml.MappingNode:
		return d.mapping(yn)
	case yaml.ScalarNode:
		return d.scalar(yn)
	case yaml.AliasNode:
		return d.extract(yn.Alias)
	default:
		return value.Value{}, fmt.Errorf("%s:%d: unsupported yaml node kind %d", d.filename, yn.Line, yn.Kind)
	}
}

func (d *decoder) sequence(yn *yaml.Node) (value.Value, error) {
	pos := d.pos(yn)
	if name, ok := shortFormSequenceTag(yn.Tag); ok {
		inner, err := d.plainSequence(yn)
		if err != nil {
			return value.Value{}, err
		}
		return wrapSingleEntry(pos, name, inner), nil
	}
	return d.plainSequence(yn)
}

func (d *decoder) plainSequence(yn *yaml.Node) (value.Value, error) {
	pos := d.pos(yn)
	elems := make([]value.Value, len(yn.Content))
	for i, c := range yn.Content {
		v, err := d.extract(c)
		if err != nil {
			return value.Value{}, err
		}
		elems[i] = v
	}
	return value.List(pos, elems), nil
}

func (d *decoder) mapping(yn *yaml.Node) (value.Value, error) {
	pos := d.pos(yn)
	m := value.NewOrderedMap()
	for i := 0; i+1 < len(yn.Content); i += 2 {
		yk, yv := yn.Content[i], yn.Content[i+1]
		v, err := d.extract(yv)
		if err != nil {
			return value.Value{}, err
		}
		m.Set(yk.Value, v) // last-wins-in-place, spec §4.7
	}
	return value.Map(pos, m), nil
}

func (d *decoder) scalar(yn *yaml.Node) (value.Value, error) {
	pos := d.pos(yn)

	if name, ok := shortFormScalarTag(yn.Tag); ok {
		return wrapSingleEntry(pos, name, value.String(pos, yn.Value)), nil
	}

	tag := yn.ShortTag()
	switch tag {
	case strTag:
		return value.String(pos, yn.Value), nil
	case boolTag:
		switch yn.Value {
		case "true", "True", "TRUE":
			return value.Bool(pos, true), nil
		case "false", "False", "FALSE":
			return value.Bool(pos, false), nil
		default:
			return value.BadValue(pos, yn.Value), nil
		}
	case intTag:
		n, err := strconv.ParseInt(yn.Value, 0, 64)
		if err != nil {
			return value.BadValue(pos, yn.Value), nil
		}
		return value.Int(pos, n), nil
	case floatTag:
		f, err := strconv.ParseFloat(yn.Value, 64)
		if err != nil {
			return value.BadValue(pos, yn.Value), nil
		}
		return value.Float(pos, f), nil
	case nullTag:
		return value.Null(pos), nil
	default:
		// Any other tagged scalar (spec §4.7: "all other tagged scalars are
		// preserved as strings").
		return value.String(pos, yn.Value), nil
	}
}

// shortFormScalarTag reports the canonical Fn::-form key for a short-form
// scalar tag, per spec §4.7.
func shortFormScalarTag(tag string) (string, bool) {
	switch tag {
	case "!Ref":
		return "Ref", true
	case "!Condition":
		return "Condition", true
	case "!Base64":
		return "Fn::Base64", true
	case "!Sub":
		return "Fn::Sub", true
	case "!GetAZs":
		return "Fn::GetAZs", true
	case "!ImportValue":
		return "Fn::ImportValue", true
	case "!GetAtt":
		return "Fn::GetAtt", true
	case "!RefAll":
		return "Fn::RefAll", true
	default:
		return "", false
	}
}

// shortFormSequenceTag reports the canonical Fn::-form key for a short-form
// sequence tag, per spec §4.7.
func shortFormSequenceTag(tag string) (string, bool) {
	switch tag {
	case "!GetAtt":
		return "Fn::GetAtt", true
	case "!Sub":
		return "Fn::Sub", true
	case "!Select":
		return "Fn::Select", true
	case "!Split":
		return "Fn::Split", true
	case "!Join":
		return "Fn::Join", true
	case "!FindInMap":
		return "Fn::FindInMap", true
	case "!And":
		return "Fn::And", true
	case "!Equals":
		return "Fn::Equals", true
	case "!Contains":
		return "Fn::Contains", true
	case "!EachMemberIn":
		return "Fn::EachMemberIn", true
	case "!EachMemberEquals":
		return "Fn::EachMemberEquals", true
	case "!ValueOf":
		return "Fn::ValueOf", true
	case "!If":
		return "Fn::If", true
	case "!Not":
		return "Fn::Not", true
	case "!Or":
		return "Fn::Or", true
	default:
		return "", false
	}
}

func wrapSingleEntry(pos token.Position, key string, v value.Value) value.Value {
	m := value.NewOrderedMap()
	m.Set(key, v)
	return value.Map(pos, m)
}
