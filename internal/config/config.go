package config

import (
	"fmt"
	"os"
)

type BankDetails struct {
	BankName      string
	AccountHolder string
	IBAN          string
	BIC           string
}

type Config struct {
	Port        string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool
	GinMode     string

	StripeSecretKey string
	PayPalClientID  string
	PayPalSecret    string
	PayPalLive      bool

	Bank BankDetails

	AdminEmail    string
	AdminName     string
	AdminPassword string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "hijra"),
		DBPassword:  getEnv("DB_PASSWORD", "hijra_secret"),
		DBName:      getEnv("DB_NAME", "hijra"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnv("AUTO_MIGRATE", "false") == "true",
		GinMode:     getEnv("GIN_MODE", "debug"),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		PayPalClientID:  getEnv("PAYPAL_CLIENT_ID", ""),
		PayPalSecret:    getEnv("PAYPAL_SECRET", ""),
		PayPalLive:      getEnv("PAYPAL_LIVE", "false") == "true",

		Bank: BankDetails{
			BankName:      getEnv("BANK_NAME", "Banque Européenne"),
			AccountHolder: getEnv("BANK_ACCOUNT_HOLDER", "Hijra.fr SARL"),
			IBAN:          getEnv("BANK_IBAN", "FR76 1234 5678 9012 3456 7890 123"),
			BIC:           getEnv("BANK_BIC", "BEFRPP2X"),
		},

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@hijra.fr"),
		AdminName:     getEnv("ADMIN_NAME", "Administrateur"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
