package database

import (
	"errors"
	"fmt"
	"log"

	"exam_platform_backend/internal/config"
	"exam_platform_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the relational store holding users and graded results.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	logMode := logger.Info
	if cfg.IsRelease() {
		logMode = logger.Warn
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release builds only migrate when asked to
	if !cfg.IsRelease() || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	if err := SeedSuperAdmin(db, cfg.SuperAdmin); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.ExamResult{},
	)
}

// SeedSuperAdmin creates the configured super admin once. Nothing happens
// when no email is configured or the account already exists.
func SeedSuperAdmin(db *gorm.DB, sa config.SuperAdminConfig) error {
	if sa.Email == "" || sa.Password == "" {
		return nil
	}

	var existing model.User
	err := db.Where("email = ?", sa.Email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(sa.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	name := sa.Name
	if name == "" {
		name = "Super Admin"
	}
	if err := db.Create(&model.User{
		Name:     name,
		Email:    sa.Email,
		Password: string(hashed),
		Role:     model.SuperAdmin,
	}).Error; err != nil {
		return err
	}

	log.Printf("Super admin %s created", sa.Email)
	return nil
}
