package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type KeyKind int

const (
	KeyNone KeyKind = iota
	KeyText
	KeyNumber
	KeyList
)

// AnswerKey is a question's correctAnswer. Its shape depends on the question
// type: option text for single-choice, a list of option texts for
// multi-choice and a number for integer-answer.
type AnswerKey struct {
	Kind   KeyKind
	Text   string
	Number float64
	List   []string
}

func TextKey(s string) AnswerKey        { return AnswerKey{Kind: KeyText, Text: s} }
func NumberKey(n float64) AnswerKey     { return AnswerKey{Kind: KeyNumber, Number: n} }
func ListKey(items ...string) AnswerKey { return AnswerKey{Kind: KeyList, List: items} }

func (k AnswerKey) IsZero() bool {
	switch k.Kind {
	case KeyText:
		return strings.TrimSpace(k.Text) == ""
	case KeyList:
		return len(k.List) == 0
	case KeyNumber:
		return false
	}
	return true
}

// String renders the key the way it is compared against submitted text.
func (k AnswerKey) String() string {
	switch k.Kind {
	case KeyText:
		return k.Text
	case KeyNumber:
		return formatNumber(k.Number)
	case KeyList:
		return strings.Join(k.List, ", ")
	}
	return ""
}

// Float parses the key as a number.
func (k AnswerKey) Float() (float64, bool) {
	switch k.Kind {
	case KeyNumber:
		return k.Number, true
	case KeyText:
		n, err := strconv.ParseFloat(strings.TrimSpace(k.Text), 64)
		return n, err == nil
	}
	return 0, false
}

func (k *AnswerKey) UnmarshalJSON(data []byte) error {
	var v AnswerValue
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*k = keyFromValue(v)
	return nil
}

func (k AnswerKey) MarshalJSON() ([]byte, error) {
	switch k.Kind {
	case KeyText:
		return json.Marshal(k.Text)
	case KeyNumber:
		return json.Marshal(k.Number)
	case KeyList:
		return json.Marshal(k.List)
	}
	return []byte("null"), nil
}

func (k AnswerKey) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch k.Kind {
	case KeyText:
		return bson.MarshalValue(k.Text)
	case KeyNumber:
		return bson.MarshalValue(k.Number)
	case KeyList:
		return bson.MarshalValue(k.List)
	}
	return bsontype.Null, nil, nil
}

func (k *AnswerKey) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*k = AnswerKey{}
	case bsontype.String:
		*k = TextKey(raw.StringValue())
	case bsontype.Double, bsontype.Int32, bsontype.Int64:
		var n float64
		if err := raw.Unmarshal(&n); err != nil {
			return err
		}
		*k = NumberKey(n)
	case bsontype.Array:
		var items []interface{}
		if err := raw.Unmarshal(&items); err != nil {
			return err
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			list = append(list, fmt.Sprint(item))
		}
		*k = ListKey(list...)
	default:
		return fmt.Errorf("unsupported correctAnswer bson type %s", t)
	}
	return nil
}

func keyFromValue(v AnswerValue) AnswerKey {
	switch v.Kind {
	case ValueNull:
		return AnswerKey{}
	case ValueNumber:
		return NumberKey(v.Num)
	case ValueList:
		list := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			list = append(list, item.Text())
		}
		return ListKey(list...)
	default:
		return TextKey(v.Text())
	}
}
