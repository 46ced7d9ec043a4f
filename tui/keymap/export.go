package keymap

import (
	"reflect"

	"github.com/charmbracelet/bubbles/key"
)

// TUIInfo is the serializable keymap printed by `richedit keymap`.
type TUIInfo struct {
	Name        string        `json:"name"`
	Package     string        `json:"package"`
	Description string        `json:"description"`
	Sections    []SectionInfo `json:"sections"`
}

// SectionInfo is one help section in a TUIInfo.
type SectionInfo struct {
	Name     string        `json:"name"`
	Bindings []BindingInfo `json:"bindings"`
}

// BindingInfo is one binding in a TUIInfo.
type BindingInfo struct {
	Keys        []string `json:"keys"`
	Description string   `json:"description"`
	Enabled     bool     `json:"enabled"`
	ConfigKey   string   `json:"config_key,omitempty"`
}

// MakeTUIInfo describes km. Each binding is paired with the config key of
// the struct field holding it, so the output tells users what to override.
func MakeTUIInfo(name, pkg, description string, km Sectioned) TUIInfo {
	byDesc := make(map[string]string)
	for _, f := range bindingFields(reflect.ValueOf(km)) {
		if d := f.value.Interface().(key.Binding).Help().Desc; d != "" {
			byDesc[d] = f.configKey
		}
	}

	info := TUIInfo{Name: name, Package: pkg, Description: description}
	for _, s := range km.Sections() {
		si := SectionInfo{Name: s.Name, Bindings: make([]BindingInfo, 0, len(s.Bindings))}
		for _, b := range s.Bindings {
			si.Bindings = append(si.Bindings, BindingInfo{
				Keys:        b.Keys(),
				Description: b.Help().Desc,
				Enabled:     b.Enabled(),
				ConfigKey:   byDesc[b.Help().Desc],
			})
		}
		info.Sections = append(info.Sections, si)
	}
	return info
}
