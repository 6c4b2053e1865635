package config

const (
	defaultColor       = 1
	defaultResize      = -1
	defaultLabelWidth  = 1
	defaultNSplit      = 1
	defaultPart        = 0
	defaultQuality     = 100
	defaultEncoding    = ".jpg"
	defaultInterMethod = 9
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultConfigPath  = "~/.config/im2rec/config.toml"
	projectConfigName  = "im2rec.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Pack: Pack{
			Color:       defaultColor,
			Resize:      defaultResize,
			LabelWidth:  defaultLabelWidth,
			NSplit:      defaultNSplit,
			Part:        defaultPart,
			Quality:     defaultQuality,
			Encoding:    defaultEncoding,
			InterMethod: defaultInterMethod,
			Index:       true,
			Progress:    true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
