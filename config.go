package mailship

import "time"

// Config represents the main config
type Config struct {
	DB struct {
		Type string // "postgres" or "bolt"
		DSN  string // postgres connection string
		Path string // bolt database file
	}

	HTTP struct {
		Addr    string
		BaseURL string // public base URL embedded in confirmation links
	}

	Email struct {
		Provider string // "postmark" or "smtp"
		From     string
		BaseURL  string // message-sending endpoint for the postmark provider
		Timeout  time.Duration
	}

	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
	}

	Newsletter struct {
		Product struct {
			Name string
		}
	}

	Sentry struct {
		DSN string
	}

	AMQP struct {
		URL   string
		Topic string
	}
}
