package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/friendserp/custom-clearance/internal/domain/clearance"
	"github.com/friendserp/custom-clearance/internal/domain/identity"
	"github.com/friendserp/custom-clearance/internal/domain/shared"
	"github.com/friendserp/custom-clearance/internal/infrastructure/config"
	"github.com/friendserp/custom-clearance/internal/infrastructure/logger"
	"github.com/friendserp/custom-clearance/internal/infrastructure/persistence"
	"github.com/friendserp/custom-clearance/internal/infrastructure/persistence/models"
)

func main() {
	var (
		logLevel      string
		adminEmail    string
		adminPassword string
	)
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&adminEmail, "admin-email", "", "Email for the seeded admin account (seed command)")
	flag.StringVar(&adminPassword, "admin-password", "", "Password for the seeded admin account (seed command)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	ctx := context.Background()

	switch command {
	case "up":
		if err := migrateSchema(db); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		log.Info("Schema migrated successfully")

	case "seed":
		if err := migrateSchema(db); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		if err := seedTemplates(ctx, db, log); err != nil {
			log.Fatal("Template seeding failed", zap.Error(err))
		}
		if adminEmail != "" {
			if err := seedAdmin(ctx, db, log, adminEmail, adminPassword); err != nil {
				log.Fatal("Admin seeding failed", zap.Error(err))
			}
		}
		log.Info("Seeding completed successfully")

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up     Apply the database schema")
	fmt.Println("  seed   Apply the schema and insert default checklist templates")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

func migrateSchema(db *persistence.Database) error {
	return db.DB.AutoMigrate(
		&models.UserModel{},
		&models.CustomerModel{},
		&models.TemplateModel{},
		&models.TemplateDocumentModel{},
		&models.ClearanceModel{},
		&models.DocumentRequirementModel{},
		&models.PaymentEntryModel{},
		&models.InvoiceModel{},
		&models.InvoiceItemModel{},
		&models.CommentModel{},
		&models.TodoModel{},
		&models.NotificationLogModel{},
	)
}

// seedTemplates inserts the default Sea and Air checklist templates.
// Existing templates for a shipping type are left untouched.
func seedTemplates(ctx context.Context, db *persistence.Database, log *zap.Logger) error {
	templateRepo := persistence.NewGormTemplateRepository(db.DB)

	seaDocuments := []clearance.TemplateDocument{
		{DocumentName: "Commercial Invoice", IsRequired: true},
		{DocumentName: "Packing List", IsRequired: true},
		{DocumentName: "Bill of Lading", IsRequired: true},
		{DocumentName: "Certificate of Origin", IsRequired: true},
		{DocumentName: "Bank Permit", IsRequired: true},
		{DocumentName: "Payment Receipt / Invoice", IsRequired: true},
		{DocumentName: "License", IsRequired: true},
		{DocumentName: "Agreement", IsRequired: true},
		{DocumentName: "Settlement of Freight", IsRequired: true, HasSubItems: true, SubItems: "Inland, Other cost, External"},
		{DocumentName: "Analysis Certificate", IsRequired: true},
		{DocumentName: "Health Certificate", IsRequired: true},
		{DocumentName: "Insurance", IsRequired: true, HasSubItems: true, SubItems: "Marine Insurance, Insurance Receipt"},
	}

	airDocuments := []clearance.TemplateDocument{
		{DocumentName: "Commercial Invoice", IsRequired: true},
		{DocumentName: "Packing List", IsRequired: true},
		{DocumentName: "Air Waybill", IsRequired: true},
		{DocumentName: "Certificate of Origin", IsRequired: true},
		{DocumentName: "Bank Permit", IsRequired: true},
		{DocumentName: "Payment Receipt / Invoice", IsRequired: true},
		{DocumentName: "License", IsRequired: true},
		{DocumentName: "Agreement", IsRequired: true},
		{DocumentName: "Analysis Certificate", IsRequired: true},
		{DocumentName: "Health Certificate", IsRequired: true},
		{DocumentName: "Insurance", IsRequired: true, HasSubItems: true, SubItems: "Marine Insurance, Insurance Receipt"},
	}

	seeds := []struct {
		name         string
		shippingType clearance.ShippingType
		description  string
		documents    []clearance.TemplateDocument
	}{
		{
			name:         "Sea Shipping Template",
			shippingType: clearance.ShippingTypeSea,
			description:  "Default template for sea shipping imports with all required documents",
			documents:    seaDocuments,
		},
		{
			name:         "Air Shipping Template",
			shippingType: clearance.ShippingTypeAir,
			description:  "Default template for air shipping imports with all required documents",
			documents:    airDocuments,
		},
	}

	for _, seed := range seeds {
		_, err := templateRepo.FindByShippingType(ctx, seed.shippingType)
		if err == nil {
			log.Info("Template already exists, skipping",
				zap.String("shipping_type", string(seed.shippingType)))
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		template, err := clearance.NewTemplate(seed.name, seed.shippingType, seed.description, seed.documents)
		if err != nil {
			return err
		}
		if err := templateRepo.Save(ctx, template); err != nil {
			return err
		}
		log.Info("Template created",
			zap.String("name", seed.name),
			zap.Int("documents", len(seed.documents)))
	}
	return nil
}

// seedAdmin creates a System Manager account if the email is not taken.
func seedAdmin(ctx context.Context, db *persistence.Database, log *zap.Logger, email, password string) error {
	if password == "" {
		return fmt.Errorf("admin-password is required when admin-email is set")
	}

	userRepo := persistence.NewGormUserRepository(db.DB)
	existing, err := userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if existing != nil {
		log.Info("Admin account already exists, skipping", zap.String("email", email))
		return nil
	}

	admin, err := identity.NewUser(email, "Administrator", password, []identity.Role{identity.RoleSystemManager})
	if err != nil {
		return err
	}
	if err := userRepo.Save(ctx, admin); err != nil {
		return err
	}
	log.Info("Admin account created", zap.String("email", email))
	return nil
}
