package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueObject
	ValueList
)

// optionTextFields is the lookup order used when an option arrives as an object.
var optionTextFields = []string{"text", "label", "value", "answer", "_id"}

// AnswerValue holds a submitted answer or an option payload in whatever
// shape the client sent it: a scalar, an option object or a list.
type AnswerValue struct {
	Kind   ValueKind
	Str    string
	Num    float64
	Bool   bool
	Fields map[string]AnswerValue
	Items  []AnswerValue
}

func StringValue(s string) AnswerValue  { return AnswerValue{Kind: ValueString, Str: s} }
func NumberValue(n float64) AnswerValue { return AnswerValue{Kind: ValueNumber, Num: n} }
func BoolValue(b bool) AnswerValue      { return AnswerValue{Kind: ValueBool, Bool: b} }

func ListValue(items ...AnswerValue) AnswerValue {
	return AnswerValue{Kind: ValueList, Items: items}
}

func StringListValue(items ...string) AnswerValue {
	out := make([]AnswerValue, 0, len(items))
	for _, s := range items {
		out = append(out, StringValue(s))
	}
	return ListValue(out...)
}

func ObjectValue(fields map[string]AnswerValue) AnswerValue {
	return AnswerValue{Kind: ValueObject, Fields: fields}
}

// IsEmpty reports whether the value counts as "no answer".
func (v AnswerValue) IsEmpty() bool {
	switch v.Kind {
	case ValueNull:
		return true
	case ValueString:
		return strings.TrimSpace(v.Str) == ""
	case ValueList:
		return len(v.Items) == 0
	case ValueObject:
		return len(v.Fields) == 0
	default:
		return false
	}
}

// Text normalizes the value into the canonical string used for comparison
// and display.
func (v AnswerValue) Text() string {
	switch v.Kind {
	case ValueNull:
		return ""
	case ValueString:
		return v.Str
	case ValueNumber:
		return formatNumber(v.Num)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueObject:
		for _, name := range optionTextFields {
			if f, ok := v.Fields[name]; ok && !f.IsEmpty() {
				return f.Text()
			}
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	case ValueList:
		parts := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			parts = append(parts, item.Text())
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// TextSet returns the trimmed, de-duplicated and sorted texts of the value.
// A scalar yields a one-element set.
func (v AnswerValue) TextSet() []string {
	var raw []string
	if v.Kind == ValueList {
		for _, item := range v.Items {
			raw = append(raw, item.Text())
		}
	} else {
		raw = []string{v.Text()}
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Field returns a named field of an object value.
func (v AnswerValue) Field(name string) (AnswerValue, bool) {
	if v.Kind != ValueObject {
		return AnswerValue{}, false
	}
	f, ok := v.Fields[name]
	return f, ok
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := valueFromInterface(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.toInterface())
}

func (v AnswerValue) toInterface() interface{} {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueNumber:
		return v.Num
	case ValueBool:
		return v.Bool
	case ValueObject:
		m := make(map[string]interface{}, len(v.Fields))
		for k, f := range v.Fields {
			m[k] = f.toInterface()
		}
		return m
	case ValueList:
		items := make([]interface{}, 0, len(v.Items))
		for _, item := range v.Items {
			items = append(items, item.toInterface())
		}
		return items
	}
	return nil
}

func valueFromInterface(raw interface{}) (AnswerValue, error) {
	switch t := raw.(type) {
	case nil:
		return AnswerValue{}, nil
	case string:
		return StringValue(t), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return AnswerValue{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return NumberValue(n), nil
	case float64:
		return NumberValue(t), nil
	case bool:
		return BoolValue(t), nil
	case map[string]interface{}:
		fields := make(map[string]AnswerValue, len(t))
		for k, e := range t {
			f, err := valueFromInterface(e)
			if err != nil {
				return AnswerValue{}, err
			}
			fields[k] = f
		}
		return ObjectValue(fields), nil
	case []interface{}:
		items := make([]AnswerValue, 0, len(t))
		for _, e := range t {
			item, err := valueFromInterface(e)
			if err != nil {
				return AnswerValue{}, err
			}
			items = append(items, item)
		}
		return ListValue(items...), nil
	default:
		return AnswerValue{}, fmt.Errorf("unsupported answer value of type %T", raw)
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
