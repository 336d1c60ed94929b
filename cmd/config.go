package cmd

import "fmt"

// Config carries everything the process needs from the environment.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaHost            string
	KafkaLoadEventsTopic string

	ComplianceServiceURL  string
	PositioningServiceURL string
	BillingServiceURL     string
}

// PostgresDSN renders the lib/pq connection string.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
