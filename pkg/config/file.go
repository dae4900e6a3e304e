package config

import (
	"bytes"
	"text/template"
)

var configFileTmpl = template.Must(template.New("config").Parse(`# revshare server configuration

# The name of the server.
name: "{{ .Name }}"

# Logging configuration.
log:
  # Log format to use. Valid values are "json", "logfmt", and "text".
  format: "{{ .Log.Format }}"
  # Time format for the log "timestamp" field.
  # Should be described in Golang's time format.
  time_format: "{{ .Log.TimeFormat }}"
  # Path to the log file. Leave empty to write to stderr.
  #path: "{{ .Log.Path }}"

# The HTTP API configuration.
http:
  # The address on which the HTTP server will listen.
  listen_addr: "{{ .HTTP.ListenAddr }}"

  # The public URL of the HTTP server.
  public_url: "{{ .HTTP.PublicURL }}"

  # Seconds allowed to read the request headers.
  read_header_timeout: {{ .HTTP.ReadHeaderTimeout }}

# The stats server configuration.
stats:
  # The address on which the stats server will listen.
  listen_addr: "{{ .Stats.ListenAddr }}"

# The database configuration.
db:
  # The database driver to use.
  # Valid values are "sqlite" and "postgres".
  driver: "{{ .DB.Driver }}"
  # The database data source name.
  # This is driver specific and can be a file path or connection string.
  # Make sure foreign key support is enabled when using SQLite.
  data_source: "{{ .DB.DataSource }}"

# Cron job configuration.
jobs:
  # Cron spec of the analytics refresh job. Leave empty to disable it.
  analytics_refresh: "{{ .Jobs.AnalyticsRefresh }}"
  # Trailing window recomputed by the analytics refresh job.
  analytics_window: "{{ .Jobs.AnalyticsWindow }}"

# HTTP API authentication.
auth:
  # HS256 secret used to verify bearer tokens. Leave empty to disable
  # authentication.
  jwt_secret: "{{ .Auth.JWTSecret }}"
  # Expected token issuer.
  issuer: "{{ .Auth.Issuer }}"

# Split engine defaults.
split:
  # What to do with tiers nobody occupies when a tiered configuration does
  # not say. Valid values are "reject" and "redistribute".
  empty_tier_policy: "{{ .Split.EmptyTierPolicy }}"
  # Number of split configurations cached in memory.
  cache_size: {{ .Split.CacheSize }}
`))

func newConfigFile(cfg *Config) string {
	var b bytes.Buffer
	configFileTmpl.Execute(&b, cfg) // nolint: errcheck
	return b.String()
}
