//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "sort"

// Setting is a system-wide configuration value.
type Setting struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// SettingValue is the per-key payload returned by the settings endpoint.
type SettingValue struct {
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// SettingsFromMap converts the keyed settings payload into a slice sorted by key.
func SettingsFromMap(m map[string]SettingValue) []Setting {
	out := make([]Setting, 0, len(m))
	for k, v := range m {
		out = append(out, Setting{Key: k, Value: v.Value, Description: v.Description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
