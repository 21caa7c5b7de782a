package config

// DefaultConfigYAML is the embedded default configuration. Every value can
// be overridden by an external config.yaml or FINANCE_* env vars.
var DefaultConfigYAML = []byte(`server:
  port: ":8080"
  mode: "debug"
  base_url: "http://localhost:8080"

database:
  host: "127.0.0.1"
  port: "3306"
  username: "root"
  password: ""
  dbname: "saldoplus"
  charset: "utf8mb4"

jwt:
  secret: "change-me-in-production"
  expire_hours: 24

email:
  enabled: false
  host: "smtp.example.com"
  port: 587
  username: ""
  password: ""
  from: "Saldo+"

admin:
  username: "admin"
  password: "admin123"
  email: ""
`)
