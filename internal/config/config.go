package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/flexprice/invoicedoc/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Logging    LoggingConfig    `mapstructure:"logging" validate:"required"`
	Issuer     IssuerConfig     `mapstructure:"issuer" validate:"required"`
	Payment    PaymentConfig    `mapstructure:"payment"`
	Invoice    InvoiceConfig    `mapstructure:"invoice" validate:"required"`
	Preview    PreviewConfig    `mapstructure:"preview" validate:"required"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
	// TrustedProxies may set the client address through forwarding headers.
	// Empty trusts none and uses the connection address.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

// IssuerConfig is the staffing company printed in the "From" column
// whenever the record does not carry its own company fields.
type IssuerConfig struct {
	Name         string `mapstructure:"name" validate:"required"`
	Address      string `mapstructure:"address"`
	City         string `mapstructure:"city"`
	Email        string `mapstructure:"email"`
	Phone        string `mapstructure:"phone"`
	TaxID        string `mapstructure:"tax_id"`
	Website      string `mapstructure:"website"`
	SupportEmail string `mapstructure:"support_email"`
}

type PaymentConfig struct {
	BankName      string `mapstructure:"bank_name"`
	AccountName   string `mapstructure:"account_name"`
	AccountNumber string `mapstructure:"account_number"`
	RoutingNumber string `mapstructure:"routing_number"`
	SwiftCode     string `mapstructure:"swift_code"`
	Method        string `mapstructure:"method"`
}

type InvoiceConfig struct {
	NumberPrefix string   `mapstructure:"number_prefix" validate:"required"`
	PaymentTerms string   `mapstructure:"payment_terms"`
	DueDays      int      `mapstructure:"due_days" validate:"gte=0"`
	Currency     string   `mapstructure:"currency" validate:"required"`
	TaxExempt    bool     `mapstructure:"tax_exempt"`
	TaxRate      float64  `mapstructure:"tax_rate" validate:"gte=0,lte=100"`
	TaxNote      string   `mapstructure:"tax_note"`
	ClosingNote  []string `mapstructure:"closing_note"`
	BillToName   string   `mapstructure:"bill_to_name"`
	BillToAttn   string   `mapstructure:"bill_to_attn"`
	ProjectName  string   `mapstructure:"project_name"`
	Description  string   `mapstructure:"description"`
}

type PreviewConfig struct {
	TTL             time.Duration `mapstructure:"ttl" validate:"required"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" validate:"required"`
}

type ArchiveConfig struct {
	Mode     types.ArchiveMode `mapstructure:"mode"`
	LocalDir string            `mapstructure:"local_dir"`
	S3       S3Config          `mapstructure:"s3"`
}

type S3Config struct {
	Region                string `mapstructure:"region"`
	Bucket                string `mapstructure:"bucket"`
	KeyPrefix             string `mapstructure:"key_prefix"`
	PresignExpiryDuration string `mapstructure:"presign_expiry_duration"`
}

// RateLimitConfig budgets renders per tenant and per client address. The
// client budget spans every tenant header the client sends.
type RateLimitConfig struct {
	RequestsPerSecond       float64 `mapstructure:"requests_per_second"`
	Burst                   int     `mapstructure:"burst"`
	ClientRequestsPerSecond float64 `mapstructure:"client_requests_per_second"`
	ClientBurst             int     `mapstructure:"client_burst"`
}

func NewConfig() (*Configuration, error) {
	// a missing .env is fine, the process env and config.yaml still apply
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/invoicedoc")

	v.SetEnvPrefix("INVOICEDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "No config file found, using defaults: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("deployment.mode", d.Deployment.Mode)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("logging.level", d.Logging.Level)

	v.SetDefault("issuer.name", d.Issuer.Name)
	v.SetDefault("issuer.address", d.Issuer.Address)
	v.SetDefault("issuer.city", d.Issuer.City)
	v.SetDefault("issuer.email", d.Issuer.Email)
	v.SetDefault("issuer.phone", d.Issuer.Phone)
	v.SetDefault("issuer.tax_id", d.Issuer.TaxID)
	v.SetDefault("issuer.website", d.Issuer.Website)
	v.SetDefault("issuer.support_email", d.Issuer.SupportEmail)

	v.SetDefault("payment.bank_name", d.Payment.BankName)
	v.SetDefault("payment.account_name", d.Payment.AccountName)
	v.SetDefault("payment.account_number", d.Payment.AccountNumber)
	v.SetDefault("payment.routing_number", d.Payment.RoutingNumber)
	v.SetDefault("payment.swift_code", d.Payment.SwiftCode)
	v.SetDefault("payment.method", d.Payment.Method)

	v.SetDefault("invoice.number_prefix", d.Invoice.NumberPrefix)
	v.SetDefault("invoice.payment_terms", d.Invoice.PaymentTerms)
	v.SetDefault("invoice.due_days", d.Invoice.DueDays)
	v.SetDefault("invoice.currency", d.Invoice.Currency)
	v.SetDefault("invoice.tax_exempt", d.Invoice.TaxExempt)
	v.SetDefault("invoice.tax_rate", d.Invoice.TaxRate)
	v.SetDefault("invoice.tax_note", d.Invoice.TaxNote)
	v.SetDefault("invoice.closing_note", d.Invoice.ClosingNote)
	v.SetDefault("invoice.bill_to_name", d.Invoice.BillToName)
	v.SetDefault("invoice.bill_to_attn", d.Invoice.BillToAttn)
	v.SetDefault("invoice.project_name", d.Invoice.ProjectName)
	v.SetDefault("invoice.description", d.Invoice.Description)

	v.SetDefault("preview.ttl", d.Preview.TTL)
	v.SetDefault("preview.cleanup_interval", d.Preview.CleanupInterval)

	v.SetDefault("archive.mode", d.Archive.Mode)
	v.SetDefault("archive.local_dir", d.Archive.LocalDir)
	v.SetDefault("archive.s3.presign_expiry_duration", d.Archive.S3.PresignExpiryDuration)

	v.SetDefault("ratelimit.requests_per_second", d.RateLimit.RequestsPerSecond)
	v.SetDefault("ratelimit.burst", d.RateLimit.Burst)
	v.SetDefault("ratelimit.client_requests_per_second", d.RateLimit.ClientRequestsPerSecond)
	v.SetDefault("ratelimit.client_burst", d.RateLimit.ClientBurst)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running the CLI, scripts and tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Issuer: IssuerConfig{
			Name:         "Selsoft Inc.",
			Address:      "123 Business Street, Suite 100",
			City:         "Dallas, TX 75201",
			Email:        "billing@selsoft.com",
			Phone:        "(214) 555-0100",
			TaxID:        "XX-XXXXXXX",
			Website:      "www.selsoft.com",
			SupportEmail: "support@selsoftinc.com",
		},
		Payment: PaymentConfig{
			BankName:      "Chase Bank",
			AccountName:   "Selsoft Inc.",
			AccountNumber: "XXXX1234",
			RoutingNumber: "XXXXXXXX",
			SwiftCode:     "CHASUS33",
			Method:        "ACH / Wire Transfer",
		},
		Invoice: InvoiceConfig{
			NumberPrefix: "INV",
			PaymentTerms: "Net 15",
			DueDays:      15,
			Currency:     "usd",
			TaxExempt:    true,
			TaxRate:      0,
			TaxNote:      "Exempt (Professional Services)",
			ClosingNote: []string{
				"We appreciate your continued partnership and trust in our services.",
				"Kindly quote this invoice number in all future correspondence for faster reference.",
			},
			BillToName:  "Acme Corporation",
			BillToAttn:  "Accounts Payable",
			ProjectName: "Contract Staffing",
			Description: "Professional Services",
		},
		Preview: PreviewConfig{
			TTL:             10 * time.Minute,
			CleanupInterval: time.Minute,
		},
		Archive: ArchiveConfig{
			Mode:     types.ArchiveModeNone,
			LocalDir: "invoices",
			S3:       S3Config{PresignExpiryDuration: "30m"},
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond:       5,
			Burst:                   10,
			ClientRequestsPerSecond: 10,
			ClientBurst:             20,
		},
	}
}
