package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/andy/invoicer/internal/archive"
	"github.com/andy/invoicer/internal/config"
	"github.com/andy/invoicer/internal/crypto"
	"github.com/andy/invoicer/internal/db"
	"github.com/andy/invoicer/internal/render"
	"github.com/andy/invoicer/internal/repository"
	"github.com/andy/invoicer/internal/service"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	DB     *db.DB
	Logger *log.Logger

	// Repositories
	CustomerRepo repository.CustomerRepository
	ProductRepo  repository.ProductRepository
	InvoiceRepo  repository.InvoiceRepository

	// Services
	Customers      *service.CustomerRegistry
	Products       *service.ProductRegistry
	InvoiceService service.InvoiceService
	ReportService  service.ReportService
	Renderer       *render.Renderer
	Archive        *archive.Archive

	logCloser io.Closer
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading .env files and config
// 2. Getting encryption key from keyring
// 3. Opening database
// 4. Running migrations
// 5. Creating repositories
// 6. Creating services
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	keyring := crypto.NewKeyring(filepath.Join(config.DefaultConfigDir(), ".env"))
	password, err := keyring.GetKey()
	if err != nil {
		// No key exists, prompt user to set one
		fmt.Println("Setting up database encryption for the first time...")
		password, err = promptForPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}

		if err := keyring.SetKey(password); err != nil {
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}
	}

	return NewWithConfig(ctx, cfg, password)
}

// NewWithConfig creates an App with a provided config and database key (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config, password string) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, logCloser, err := NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations to ensure schema is up to date
	if err := database.RunMigrations(); err != nil {
		database.Close()
		logCloser.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	customerRepo := repository.NewCustomerRepo(database)
	productRepo := repository.NewProductRepo(database)
	invoiceRepo := repository.NewInvoiceRepo(database)

	renderer := render.NewRenderer(render.Options{
		Dir:    cfg.Invoice.ArchiveDir,
		Title:  cfg.Invoice.Title,
		Footer: cfg.Invoice.Footer,
		Logger: logger.WithPrefix("render"),
	})

	logger.Debug("application started", "db", cfg.Database.Path, "archive", cfg.Invoice.ArchiveDir)

	return &App{
		Config:         cfg,
		DB:             database,
		Logger:         logger,
		CustomerRepo:   customerRepo,
		ProductRepo:    productRepo,
		InvoiceRepo:    invoiceRepo,
		Customers:      service.NewCustomerRegistry(customerRepo, logger.WithPrefix("customers")),
		Products:       service.NewProductRegistry(productRepo, logger.WithPrefix("products")),
		InvoiceService: service.NewInvoiceService(invoiceRepo, renderer, logger.WithPrefix("invoice")),
		ReportService:  service.NewReportService(invoiceRepo),
		Renderer:       renderer,
		Archive:        archive.New(cfg.Invoice.ArchiveDir, nil, logger.WithPrefix("archive")),
		logCloser:      logCloser,
	}, nil
}

// NewBuilder returns an empty invoice builder wired to the stores
func (a *App) NewBuilder() *service.InvoiceBuilder {
	return service.NewInvoiceBuilder(a.ProductRepo, a.CustomerRepo)
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.logCloser != nil {
		errs = append(errs, a.logCloser.Close())
	}
	return errors.Join(errs...)
}

// promptForPassword prompts user for a new database password (first run)
// This should be called when keyring has no stored key
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your customer and product data will be encrypted with a password.")
	fmt.Println("This password will be stored in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	// Read password securely (no echo)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
