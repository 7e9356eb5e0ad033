package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/jhoicas/trade-ledger/pkg/numeric"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	HTTP   HTTPConfig
	Ledger LedgerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // postgres | memory (desarrollo, sin persistencia)
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int32
	Migrate     bool // crear el esquema al arrancar
}

// Drivers de almacenamiento soportados.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LedgerConfig parámetros del núcleo contable de inventario.
type LedgerConfig struct {
	RebuildTimeout time.Duration // timeout extendido de la transacción de reconstrucción
	QuantityPlaces int32         // decimales de cantidades/costos unitarios almacenados
	CurrencyPlaces int32         // decimales de totales de moneda
}

// Precision precisión de redondeo en los bordes de almacenamiento y presentación.
func (c LedgerConfig) Precision() numeric.Precision {
	return numeric.Precision{QuantityPlaces: c.QuantityPlaces, CurrencyPlaces: c.CurrencyPlaces}
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, LEDGER_REBUILD_TIMEOUT, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			Name:     v.GetString("APP_NAME"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(v.GetString("DB_DRIVER")),
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			Migrate:     v.GetBool("DB_MIGRATE"),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		Ledger: LedgerConfig{
			RebuildTimeout: v.GetDuration("LEDGER_REBUILD_TIMEOUT"),
			QuantityPlaces: v.GetInt32("LEDGER_QUANTITY_PLACES"),
			CurrencyPlaces: v.GetInt32("LEDGER_CURRENCY_PLACES"),
		},
	}

	if cfg.Ledger.QuantityPlaces < 0 || cfg.Ledger.CurrencyPlaces < 0 {
		return nil, fmt.Errorf("config: precisión negativa (LEDGER_QUANTITY_PLACES=%d, LEDGER_CURRENCY_PLACES=%d)",
			cfg.Ledger.QuantityPlaces, cfg.Ledger.CurrencyPlaces)
	}
	if cfg.DB.Driver != DriverPostgres && cfg.DB.Driver != DriverMemory {
		return nil, fmt.Errorf("config: DB_DRIVER desconocido %q", cfg.DB.Driver)
	}
	if cfg.Ledger.RebuildTimeout <= 0 {
		return nil, fmt.Errorf("config: LEDGER_REBUILD_TIMEOUT debe ser positivo")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "trade-ledger")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "trade_ledger")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIGRATE", false)
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("LEDGER_REBUILD_TIMEOUT", "5m")
	v.SetDefault("LEDGER_QUANTITY_PLACES", 5)
	v.SetDefault("LEDGER_CURRENCY_PLACES", 2)
}
