package stdlib

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/pyerr"
)

// NewYamlModule builds the native yaml module: parse(text) and
// dump(value).
func NewYamlModule() (*object.Module, error) {
	mod := object.NewModule("yaml")
	mod.SetAttr("__name__", &object.String{Value: "yaml"})

	mod.SetAttr("parse", &object.Builtin{Name: "parse", Fn: func(args ...object.Object) (object.Object, error) {
		if len(args) != 1 {
			return nil, pyerr.Raise("TypeError", "parse() takes exactly one argument (%d given)", len(args))
		}
		s, ok := args[0].(*object.String)
		if !ok {
			return nil, pyerr.Raise("TypeError", "parse() argument must be a string")
		}
		var data interface{}
		if err := yaml.Unmarshal([]byte(s.Value), &data); err != nil {
			return nil, pyerr.Raise("ValueError", "invalid yaml: %s", err)
		}
		return yamlToObject(data)
	}})

	mod.SetAttr("dump", &object.Builtin{Name: "dump", Fn: func(args ...object.Object) (object.Object, error) {
		if len(args) != 1 {
			return nil, pyerr.Raise("TypeError", "dump() takes exactly one argument (%d given)", len(args))
		}
		data, err := objectToYaml(args[0])
		if err != nil {
			return nil, err
		}
		out, err := yaml.Marshal(data)
		if err != nil {
			return nil, pyerr.Raise("ValueError", "cannot dump value: %s", err)
		}
		return &object.String{Value: string(out)}, nil
	}})

	return mod, nil
}

// yaml.v3 decodes mappings as map[string]interface{} and integers as int.
func yamlToObject(data interface{}) (object.Object, error) {
	switch v := data.(type) {
	case nil:
		return object.None, nil
	case bool:
		return object.FromBool(v), nil
	case int:
		return &object.Integer{Value: int64(v)}, nil
	case int64:
		return &object.Integer{Value: v}, nil
	case string:
		return &object.String{Value: v}, nil
	case float64:
		// No float type in the object model; keep the textual form.
		return &object.String{Value: strings.TrimRight(fmt.Sprintf("%f", v), "0")}, nil
	case []interface{}:
		list := &object.List{}
		for _, el := range v {
			obj, err := yamlToObject(el)
			if err != nil {
				return nil, err
			}
			list.Elements = append(list.Elements, obj)
		}
		return list, nil
	case map[string]interface{}:
		dict := object.NewDict()
		for key, val := range v {
			obj, err := yamlToObject(val)
			if err != nil {
				return nil, err
			}
			dict.Set(key, obj)
		}
		return dict, nil
	}
	return nil, pyerr.Raise("ValueError", "unsupported yaml value %T", data)
}

func objectToYaml(obj object.Object) (interface{}, error) {
	switch v := obj.(type) {
	case *object.NoneValue:
		return nil, nil
	case *object.Boolean:
		return v.Value, nil
	case *object.Integer:
		return v.Value, nil
	case *object.String:
		return v.Value, nil
	case *object.List:
		out := make([]interface{}, 0, len(v.Elements))
		for _, el := range v.Elements {
			conv, err := objectToYaml(el)
			if err != nil {
				return nil, err
			}
			out = append(out, conv)
		}
		return out, nil
	case *object.Dict:
		out := make(map[string]interface{}, v.Len())
		for _, key := range v.Keys() {
			val, _ := v.Get(key)
			conv, err := objectToYaml(val)
			if err != nil {
				return nil, err
			}
			out[key] = conv
		}
		return out, nil
	}
	return nil, pyerr.Raise("TypeError", "cannot dump '%s' object to yaml", obj.Type())
}
