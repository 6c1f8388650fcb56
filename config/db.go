package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"needy/domain"
)

var db *gorm.DB

// GetDatabaseURL builds the database connection string.
func GetDatabaseURL() string {
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_DATABASE"), sslmode)
	return dsn
}

// BootDB initializes the database connection and runs migrations.
func BootDB(log *logrus.Logger) (*gorm.DB, error) {
	url := GetDatabaseURL()
	var err error

	db, err = gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return db, err
	}

	if err := EnsureDefaultAdmin(db, log); err != nil {
		return db, err
	}

	log.Info("DB initialized")
	return db, nil
}

// foreignKeys are added by hand because the entities keep plain id fields
// instead of gorm associations.
var foreignKeys = []struct {
	name, table, column, refTable, refColumn string
}{
	{"fk_admin_created_by", "admin", "created_by", "admin", "admin_id"},
	{"fk_register_created_by", "register", "created_by", "admin", "admin_id"},
	{"fk_register_under_which_admin", "register", "under_which_admin", "admin", "admin_id"},
	{"fk_register_under_second_admin", "register", "under_second_admin_id", "admin", "admin_id"},
	{"fk_children_register", "children_of_register", "register_id", "register", "register_id"},
	{"fk_good_register", "good", "given_to_whome", "register", "register_id"},
	{"fk_good_admin", "good", "given_by", "admin", "admin_id"},
	{"fk_message_admin", "message", "created_by", "admin", "admin_id"},
	{"fk_message_register", "message", "given_to_whome", "register", "register_id"},
}

// AutoMigrate creates the tables. Foreign keys are only installed on
// Postgres.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Admin{},
		&domain.Register{},
	); err != nil {
		return fmt.Errorf("failed to migrate base tables: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.ChildrenOfRegister{},
		&domain.Good{},
		&domain.Message{},
	); err != nil {
		return fmt.Errorf("failed to migrate relational tables: %w", err)
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	for _, fk := range foreignKeys {
		stmt := fmt.Sprintf(`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
			ALTER TABLE %q ADD CONSTRAINT %s FOREIGN KEY (%q) REFERENCES %q (%q);
		END IF;
	END $$`, fk.name, fk.table, fk.name, fk.column, fk.refTable, fk.refColumn)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create constraint %s: %w", fk.name, err)
		}
	}

	return nil
}

// EnsureDefaultAdmin creates the bootstrap admin when the admin table is empty.
func EnsureDefaultAdmin(db *gorm.DB, log *logrus.Logger) error {
	var count int64
	if err := db.Model(&domain.Admin{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("DEFAULT_ADMIN_PASSWORD")
	if password == "" {
		log.Warn("DEFAULT_ADMIN_PASSWORD not set, skipping default admin")
		return nil
	}

	log.Info("Creating default admin account....")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash password: %v", err)
	}

	firstName := envOr("DEFAULT_ADMIN_FIRST_NAME", "System")
	lastName := envOr("DEFAULT_ADMIN_LAST_NAME", "Admin")
	admin := domain.Admin{
		FirstName: firstName,
		LastName:  lastName,
		UserRole:  domain.RoleAdmin,
		Password:  string(hashedPassword),
	}
	if phone := os.Getenv("DEFAULT_ADMIN_PHONE"); phone != "" {
		admin.Phone = &phone
	}
	if email := os.Getenv("DEFAULT_ADMIN_EMAIL"); email != "" {
		admin.Email = &email
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Info("Admin account created")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
