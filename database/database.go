package database

import (
	"fmt"
	"log"

	"estudio/config"
	"estudio/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init inicializa a conexão com o banco
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Database.Host,
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		cfg.Database.TimeZone,
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("falha ao conectar no banco: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// Parâmetros do pool de conexões
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	// Migração automática das tabelas
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Category{},
		&models.Service{},
		&models.Transaction{},
		&models.Appointment{},
		&models.AppointmentService{},
	); err != nil {
		return err
	}

	if err := seedCategories(); err != nil {
		return err
	}
	if err := seedUser(cfg); err != nil {
		return err
	}

	log.Println("banco de dados inicializado")
	return nil
}

// seedCategories insere as categorias padrão (apenas com a tabela vazia)
func seedCategories() error {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		return nil
	}

	defaults := []models.Category{
		{Name: "Ensaios", Type: models.TypeIncome, Color: "#10b981", Description: "Ensaios fotográficos"},
		{Name: "Eventos", Type: models.TypeIncome, Color: "#3b82f6", Description: "Cobertura de eventos"},
		{Name: "Produtos", Type: models.TypeIncome, Color: "#a855f7", Description: "Álbuns, quadros e impressões"},
		{Name: "Equipamento", Type: models.TypeExpense, Color: "#ef4444", Description: "Câmeras, lentes e acessórios"},
		{Name: "Transporte", Type: models.TypeExpense, Color: "#f59e0b", Description: "Deslocamento até locações"},
		{Name: "Marketing", Type: models.TypeExpense, Color: "#ec4899", Description: "Divulgação e redes sociais"},
		{Name: "Outros", Type: models.TypeExpense, Color: "#64748b", Description: ""},
	}
	return DB.Create(&defaults).Error
}

// seedUser cria a credencial única do estúdio (apenas com a tabela vazia)
func seedUser(cfg *config.Config) error {
	var count int64
	DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		return nil
	}
	if cfg.Auth.Username == "" || cfg.Auth.Password == "" {
		log.Println("aviso: auth.username/auth.password vazios, nenhum usuário semeado")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("falha ao criptografar a senha inicial: %w", err)
	}
	return DB.Create(&models.User{
		Username: cfg.Auth.Username,
		Password: string(hash),
	}).Error
}

// GetDB devolve a conexão com o banco
func GetDB() *gorm.DB {
	return DB
}
