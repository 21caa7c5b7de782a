package main

import (
	"flag"
	"log"
	"strings"

	"saldoplus/config"
	"saldoplus/database"
	"saldoplus/middleware"
	"saldoplus/router"
)

// @title Saldo+ API
// @version 1.0
// @description API de finanças pessoais: transações com mês de competência, lançamentos recorrentes, categorias, resumo financeiro e backup.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "external config file path (optional)")
	flag.StringVar(&configFile, "c", "", "external config file path (shorthand)")
	flag.StringVar(&port, "port", "", "listen port, e.g. 8080 or :8080")
	flag.StringVar(&port, "p", "", "listen port (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&showVersion, "v", false, "print version (shorthand)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("Saldo+ v1.0.0")
		return
	}

	// embedded defaults, optionally overridden by an external file
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// command line wins over config
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("port set from command line: %s", port)
	}

	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	middleware.InitJWT(cfg)

	r := router.SetupRouter(cfg)

	log.Printf("==========================================")
	log.Printf("  💰 Saldo+ started")
	log.Printf("==========================================")
	log.Printf("  Swagger: http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API:     http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
