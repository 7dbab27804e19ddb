package main

import (
	"flag"
	"log"
	"strings"

	"estudio/config"
	"estudio/database"
	"estudio/middleware"
	"estudio/router"
	"estudio/service"
)

// @title Estúdio API
// @version 1.0
// @description API de gestão de estúdio fotográfico: clientes, catálogo de serviços, agendamentos, caixa e painel
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
	flag.StringVar(&configFile, "config", "", "caminho do arquivo de configuração externo (opcional)")
	flag.StringVar(&configFile, "c", "", "caminho do arquivo de configuração (abreviado)")
	flag.StringVar(&port, "port", "", "porta de escuta, ex: 8080 ou :8080")
	flag.StringVar(&port, "p", "", "porta de escuta (abreviado)")
	flag.BoolVar(&showVersion, "version", false, "mostra a versão")
	flag.BoolVar(&showVersion, "v", false, "mostra a versão (abreviado)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("estudio v1.0.0")
		return
	}

	// Configuração embutida + arquivo externo opcional + variáveis ESTUDIO_
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("falha ao carregar a configuração: %v", err)
	}

	// A linha de comando tem precedência sobre a porta configurada
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("porta definida pela linha de comando: %s", port)
	}

	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		log.Fatalf("falha ao inicializar o banco: %v", err)
	}

	middleware.InitJWT(cfg)

	// Lembretes diários por e-mail (opcional)
	if cfg.Email.Enabled {
		scheduler := service.NewReminderScheduler(cfg)
		if err := scheduler.Start(); err != nil {
			log.Fatalf("falha ao agendar os lembretes: %v", err)
		}
		defer scheduler.Stop()
	}

	r := router.SetupRouter(cfg)

	log.Printf("==========================================")
	log.Printf("  📷 Estúdio em execução")
	log.Printf("==========================================")
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API:      http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("falha ao iniciar o servidor: %v", err)
	}
}
