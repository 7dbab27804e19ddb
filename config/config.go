package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config configuração da aplicação
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Email    EmailConfig    `mapstructure:"email"`
}

// ServerConfig configuração do servidor
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig configuração do banco de dados (Postgres)
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

// JWTConfig configuração do JWT
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// AuthConfig credencial inicial do estúdio (semeada no primeiro boot)
type AuthConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// EmailConfig configuração de e-mail (lembretes de agendamento)
type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	From         string `mapstructure:"from"`
	To           string `mapstructure:"to"`            // destinatário dos lembretes (o estúdio)
	ReminderCron string `mapstructure:"reminder_cron"` // expressão cron do job diário
}

var (
	// GlobalConfig instância global da configuração
	GlobalConfig *Config
)

// LoadConfig carrega a configuração
// Prioridade: arquivo externo > configuração embutida
// configPath: caminho opcional de um arquivo de configuração externo
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. Carrega primeiro a configuração padrão embutida
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("falha ao ler configuração embutida: %w", err)
	}

	// 2. Tenta carregar um arquivo externo (opcional, sobrescreve o padrão)
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("aviso: não foi possível ler o arquivo de configuração %s: %v", configPath, err)
		} else {
			log.Printf("configuração externa aplicada: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/estudio")
		externalViper.AddConfigPath("$HOME/.estudio")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("aviso: falha ao mesclar configuração externa: %v", err)
			} else {
				log.Printf("configuração externa aplicada: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. Variáveis de ambiente (ESTUDIO_SERVER_PORT etc.)
	v.SetEnvPrefix("ESTUDIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("falha ao interpretar configuração: %w", err)
	}

	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	GlobalConfig = &cfg

	return &cfg, nil
}

// MustLoadConfig carrega a configuração ou entra em pânico
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("falha ao carregar configuração: %v", err))
	}
	return cfg
}

// GetConfig devolve a configuração global
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("configuração não inicializada, chame LoadConfig primeiro")
	}
	return GlobalConfig
}

// PrintConfig imprime a configuração atual (sem dados sensíveis)
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("configuração atual:")
	log.Printf("  servidor: %s (modo: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	log.Printf("  banco: %s@%s:%s/%s",
		GlobalConfig.Database.Username,
		GlobalConfig.Database.Host,
		GlobalConfig.Database.Port,
		GlobalConfig.Database.DBName)
	log.Printf("  lembretes por e-mail: %v", GlobalConfig.Email.Enabled)
}
