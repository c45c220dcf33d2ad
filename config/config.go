package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type SmtpConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
}

type AppConfig struct {
	System   SysConfig  `yaml:"system" json:"system"`
	Web      WebConfig  `yaml:"web" json:"web"`
	Database DBConfig   `yaml:"database" json:"database"`
	Logger   LogConfig  `yaml:"logger" json:"logger"`
	Smtp     SmtpConfig `yaml:"smtp" json:"smtp"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "toughstore",
		Location: "Asia/Shanghai",
		Workdir:  "/var/toughstore",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-0001-1203-xxtx-0f568ac9da37",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "toughstore",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/toughstore/toughstore.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

// LoadConfig loads the yaml configuration file and applies
// TOUGHSTORE_* environment overrides on top of it.
func LoadConfig(cfile string) *AppConfig {
	if cfile == "" {
		cfile = "toughstore.yml"
	}
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if data, err := os.ReadFile(cfile); err == nil {
		if err = yaml.Unmarshal(data, cfg); err != nil {
			panic(err)
		}
	}

	setEnvValue("TOUGHSTORE_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("TOUGHSTORE_SYSTEM_LOCATION", func(v string) { cfg.System.Location = v })
	setEnvBoolValue("TOUGHSTORE_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })

	setEnvValue("TOUGHSTORE_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("TOUGHSTORE_WEB_SECRET", func(v string) { cfg.Web.Secret = v })

	setEnvValue("TOUGHSTORE_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("TOUGHSTORE_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("TOUGHSTORE_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("TOUGHSTORE_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("TOUGHSTORE_DB_PWD", func(v string) { cfg.Database.Passwd = v })

	setEnvValue("TOUGHSTORE_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })

	setEnvValue("TOUGHSTORE_SMTP_HOST", func(v string) { cfg.Smtp.Host = v })
	setEnvValue("TOUGHSTORE_SMTP_USERNAME", func(v string) { cfg.Smtp.Username = v })
	setEnvValue("TOUGHSTORE_SMTP_PASSWORD", func(v string) { cfg.Smtp.Password = v })

	return cfg
}

// InitDirs ensures the working directory layout exists.
func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "backup"), 0755)
}
