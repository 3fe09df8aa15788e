package config

// Config is the root application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Journal JournalConfig `yaml:"journal"`
	Chat    ChatConfig    `yaml:"chat"`
	Log     LogConfig     `yaml:"log"`
}

// DataConfig locates the live FAQ document and its backups.
type DataConfig struct {
	LivePath        string `yaml:"live_path"        env:"FAQ_DATA_PATH"        env-default:"data.json"`
	BackupDir       string `yaml:"backup_dir"       env:"FAQ_BACKUP_DIR"       env-default:"data_backups"`
	BackupRetention int    `yaml:"backup_retention" env:"FAQ_BACKUP_RETENTION" env-default:"5"`
	MaxDepth        int    `yaml:"max_depth"        env:"FAQ_MAX_DEPTH"        env-default:"32"`
	Watch           bool   `yaml:"watch"            env:"FAQ_WATCH"            env-default:"false"`
}

// JournalConfig holds the update journal settings. An empty path disables it.
type JournalConfig struct {
	Path string `yaml:"path" env:"FAQ_JOURNAL_PATH"`
}

// ChatConfig holds the MCP chat surface settings.
type ChatConfig struct {
	Name         string `yaml:"name"          env:"FAQ_CHAT_NAME"          env-default:"faqtree"`
	AllowUpdates bool   `yaml:"allow_updates" env:"FAQ_CHAT_ALLOW_UPDATES" env-default:"false"`
	BackLabel    string `yaml:"back_label"    env:"FAQ_BACK_LABEL"         env-default:"⬅️ Назад"`
	HomeLabel    string `yaml:"home_label"    env:"FAQ_HOME_LABEL"         env-default:"⏺️ Главная"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
