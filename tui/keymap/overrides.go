package keymap

import (
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/grovetools/richedit/config"
)

var bindingType = reflect.TypeOf(key.Binding{})

// boundField is a settable key.Binding field and its config name.
type boundField struct {
	configKey string
	value     reflect.Value
}

// bindingFields lists the exported key.Binding fields of v, descending
// into embedded structs. v must be an addressable struct for the returned
// values to be settable.
func bindingFields(v reflect.Value) []boundField {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	var out []boundField
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		switch {
		case f.Anonymous && f.Type.Kind() == reflect.Struct:
			out = append(out, bindingFields(v.Field(i))...)
		case f.Type == bindingType:
			out = append(out, boundField{configKey: ConfigKey(f.Name), value: v.Field(i)})
		}
	}
	return out
}

// ApplyOverrides replaces the keys of every binding in km named by
// overrides, keeping its help text. km must be a pointer to a struct;
// anything else is left untouched. Override names that match no binding
// are returned sorted.
func ApplyOverrides(km any, overrides config.KeybindingSectionConfig) []string {
	if len(overrides) == 0 {
		return nil
	}
	v := reflect.ValueOf(km)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return nil
	}
	seen := make(map[string]bool, len(overrides))
	for _, f := range bindingFields(v) {
		keys, ok := overrides[f.configKey]
		if !ok {
			continue
		}
		seen[f.configKey] = true
		if len(keys) == 0 || !f.value.CanSet() {
			continue
		}
		old := f.value.Interface().(key.Binding)
		f.value.Set(reflect.ValueOf(key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(keys[0], old.Help().Desc),
		)))
	}
	var unknown []string
	for name := range overrides {
		if !seen[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// ConfigKey maps a binding field name to its key under `keybindings:`.
// Runs of capitals are kept together: MenuUp is menu_up, HTMLExport is
// html_export.
func ConfigKey(field string) string {
	rs := []rune(field)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(rs[i-1]) || unicode.IsDigit(rs[i-1]) ||
				(i+1 < len(rs) && unicode.IsLower(rs[i+1]) && unicode.IsUpper(rs[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
