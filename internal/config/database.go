// internal/config/database.go
package config

import (
	"fmt"
	"net/url"
	"time"
)

// DSN returns the connection string understood by both the gorm postgres
// driver and lib/pq. DATABASE_URL wins when set.
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// Target names the database for log lines without leaking the password.
func (d *DatabaseConfig) Target() string {
	if d.URL != "" {
		if u, err := url.Parse(d.URL); err == nil {
			return u.Host + u.Path
		}
		return "DATABASE_URL"
	}
	return fmt.Sprintf("%s:%s/%s", d.Host, d.Port, d.Database)
}

func (d *DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(d.MaxLifetime) * time.Second
}
