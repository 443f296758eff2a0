package config

const (
	defaultCatalogDB    = "~/.local/share/companionforge/catalog.db"
	defaultOutputDir    = "~/.local/share/companionforge/out"
	defaultLogDir       = "~/.local/share/companionforge/logs"
	defaultPluginName   = "CompanionGemini.esp"
	defaultPluginAuthor = "companionforge"
	defaultMastersOrder = MastersLoadOrder
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultFormIDFirst  = 0x800
	defaultWriteScripts = true
	envCatalogPath      = "COMPANIONFORGE_CATALOG"
	envOutputDir        = "COMPANIONFORGE_OUTPUT_DIR"
	defaultConfigPath   = "~/.config/companionforge/config.toml"
	projectConfigFile   = "companionforge.toml"
)

// Masters ordering policies accepted by plugin.masters_order.
const (
	MastersLoadOrder    = "load_order"
	MastersAlphabetical = "alphabetical"
)

// Default returns a Config populated with repository defaults. Catalog and
// output paths stay empty so normalize can apply environment fallbacks.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Plugin: Plugin{
			Name:              defaultPluginName,
			Author:            defaultPluginAuthor,
			MastersOrder:      defaultMastersOrder,
			FirstFormID:       defaultFormIDFirst,
			WriteScriptSource: defaultWriteScripts,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
