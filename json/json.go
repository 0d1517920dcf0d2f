package json

import (
	"io"
	"reflect"

	"github.com/creasty/defaults"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// applyDefaults fills `default` tags when v is a pointer to a struct.
// Maps, slices and values pass through untouched.
func applyDefaults(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil
	}
	return defaults.Set(v)
}

type Encoder struct {
	*jsoniter.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{Encoder: json.NewEncoder(w)}
}

// Encode 在编码前补齐默认值
func (e *Encoder) Encode(v any) error {
	if err := applyDefaults(v); err != nil {
		return err
	}
	return e.Encoder.Encode(v)
}

func Marshal(v any) ([]byte, error) {
	if err := applyDefaults(v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	if err := applyDefaults(v); err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
