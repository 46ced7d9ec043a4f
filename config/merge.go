package config

// mergeConfigs merges override configuration into base
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}

	result.Editor = mergeEditor(result.Editor, override.Editor, override.editorKeys)

	if override.Theme.Name != "" {
		result.Theme.Name = override.Theme.Name
	}
	if override.Theme.Icons != "" {
		result.Theme.Icons = override.Theme.Icons
	}
	if override.Bridge.Addr != "" {
		result.Bridge.Addr = override.Bridge.Addr
	}

	if len(override.Keybindings) > 0 {
		merged := make(KeybindingSectionConfig, len(result.Keybindings)+len(override.Keybindings))
		for action, keys := range result.Keybindings {
			merged[action] = keys
		}
		for action, keys := range override.Keybindings {
			merged[action] = keys
		}
		result.Keybindings = merged
	}

	// Merge extensions
	if override.Extensions != nil {
		merged := make(map[string]interface{}, len(result.Extensions))
		for key, value := range result.Extensions {
			merged[key] = value
		}
		for key, value := range override.Extensions {
			// If both base and override have the same extension key, merge them
			if baseMap, ok := merged[key].(map[string]interface{}); ok {
				if overrideMap, ok := value.(map[string]interface{}); ok {
					mergedMap := make(map[string]interface{}, len(baseMap)+len(overrideMap))
					for k, v := range baseMap {
						mergedMap[k] = v
					}
					for k, v := range overrideMap {
						mergedMap[k] = v
					}
					merged[key] = mergedMap
					continue
				}
			}
			merged[key] = value
		}
		result.Extensions = merged
	}

	return &result
}

// mergeEditor applies the override's non-zero values and any value the
// override file sets explicitly, so a project can reset a field to zero.
func mergeEditor(base, override EditorConfig, set map[string]bool) EditorConfig {
	if set["settle_delay"] || override.SettleDelay != 0 {
		base.SettleDelay = override.SettleDelay
	}
	if set["key_deferral"] || override.KeyDeferral != 0 {
		base.KeyDeferral = override.KeyDeferral
	}
	if set["menu_offset"] || override.MenuOffset != 0 {
		base.MenuOffset = override.MenuOffset
	}
	if set["toolbar_offset"] || override.ToolbarOffset != 0 {
		base.ToolbarOffset = override.ToolbarOffset
	}
	if set["toolbar_width"] || override.ToolbarWidth != 0 {
		base.ToolbarWidth = override.ToolbarWidth
	}
	if set["toolbar_height"] || override.ToolbarHeight != 0 {
		base.ToolbarHeight = override.ToolbarHeight
	}
	if set["viewport.width"] || override.Viewport.Width != 0 {
		base.Viewport.Width = override.Viewport.Width
	}
	if set["viewport.height"] || override.Viewport.Height != 0 {
		base.Viewport.Height = override.Viewport.Height
	}
	return base
}
