package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(`
[database]
dbname = "booking"
`)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Booking.Timezone)
	assert.Equal(t, 365, cfg.Booking.CreditValidityDays)
	assert.Equal(t, 30, cfg.Booking.AdvanceBookingDays)
	assert.Equal(t, time.Second, cfg.Outbox.PollInterval())
	assert.Equal(t, 200*time.Millisecond, cfg.Outbox.RetryBaseDelay())
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Location().String())
}

func TestParse_Values(t *testing.T) {
	cfg, err := Parse(`
[server]
http_port = 9090

[database]
driver = "pgx"
host = "db"
user = "svc"
password = "p@ss word"
dbname = "booking"
sslmode = "require"

[kafka]
enabled = true
brokers = ["kafka-1:9092", "kafka-2:9092"]
topic = "bookings"

[rate_limit]
enabled = true
rps = 5.5
burst = 10
`)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "bookings", cfg.Kafka.Topic)
	assert.Equal(t, 5.5, cfg.RateLimit.RPS)
	assert.Equal(t, "postgres://svc:p%40ss%20word@db:5432/booking?sslmode=require", cfg.Database.DSN())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"no dbname", `[server]
http_port = 8080`},
		{"bad driver", `[database]
dbname = "x"
driver = "mysql"`},
		{"bad port", `[server]
http_port = 70000
[database]
dbname = "x"`},
		{"bad timezone", `[database]
dbname = "x"
[booking]
timezone = "Mars/Olympus"`},
		{"kafka without brokers", `[database]
dbname = "x"
[kafka]
enabled = true`},
		{"idle above open", `[database]
dbname = "x"
max_open_conns = 2
max_idle_conns = 3`},
		{"not toml", `[database`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.toml)
			assert.Error(t, err)
		})
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("BOOKING_DB_PASSWORD", "s3cret")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
dbname = "booking"
password = "${BOOKING_DB_PASSWORD}"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
