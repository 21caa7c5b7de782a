package database

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"saldoplus/config"
	"saldoplus/models"
)

var DB *gorm.DB

// Init opens the database connection, migrates the schema and seeds the
// bootstrap admin account.
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.Category{},
		&models.AuditLog{},
		&models.PasswordReset{},
	); err != nil {
		return err
	}

	// legacy rows created before the status column existed must stay usable
	_ = DB.Model(&models.User{}).
		Where("status IS NULL OR status = ''").
		Update("status", models.UserStatusActive).Error

	if err := seedAdmin(cfg); err != nil {
		return err
	}

	log.Println("database initialized")
	return nil
}

// seedAdmin creates the administrator account on first start. Existing
// installations are left untouched, even if the configured credentials
// change later.
func seedAdmin(cfg *config.Config) error {
	var count int64
	if err := DB.Model(&models.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Username: cfg.Admin.Username,
		Password: string(hashed),
		Email:    cfg.Admin.Email,
		IsAdmin:  true,
		Status:   models.UserStatusActive,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	log.Printf("seeded admin account %q", cfg.Admin.Username)
	return nil
}

// GetDB returns the database handle
func GetDB() *gorm.DB {
	return DB
}
