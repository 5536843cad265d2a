package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"minter/internal/retry"

	"github.com/ethereum/go-ethereum/common"
)

type Config struct {
	// EVM JSON-RPC endpoint ( Celo Alfajores by default )
	RPCURL string

	// Expected chain id, checked against the node at startup
	ChainID int64

	// Address of the deployed ERC-721 minter contract
	ContractAddress string

	// Signing key: either a hex private key or a BIP39 mnemonic
	PrivateKey         string
	Mnemonic           string
	MnemonicPassphrase string
	DerivationPath     string

	// IPFS HTTP API and public gateway used to build locators
	IPFSAPIURL        string
	IPFSGatewayURL    string
	IPFSProjectID     string
	IPFSProjectSecret string
	IPFSPin           bool

	// Postgres audit log ( optional )
	DatabaseURL string

	// HTTP API port
	APIPort int

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	// Per-call timeouts
	CallTimeout   time.Duration
	UploadTimeout time.Duration
	FetchTimeout  time.Duration
	MineTimeout   time.Duration

	// Concurrent per-token fetches during enumeration
	EnumerateWorkers int

	// Native currency symbol shown next to balances
	CurrencySymbol string

	// Startup connection retries
	Retry retry.Config
}

// Load reads the configuration from the environment.
// Call godotenv.Load first to pick up a .env file.
func Load() *Config {
	return &Config{
		RPCURL:          getEnv("RPC_URL", "https://alfajores-forno.celo-testnet.org"),
		ChainID:         int64(getEnvAsInt("CHAIN_ID", 44787)),
		ContractAddress: getEnv("CONTRACT_ADDRESS", ""),

		PrivateKey:         strings.TrimPrefix(getEnv("PRIVATE_KEY", ""), "0x"),
		Mnemonic:           strings.ReplaceAll(getEnv("MNEMONIC", ""), `\n`, "\n"),
		MnemonicPassphrase: getEnv("MNEMONIC_PASSPHRASE", ""),
		DerivationPath:     getEnv("DERIVATION_PATH", "m/44'/60'/0'/0/0"),

		IPFSAPIURL:        getEnv("IPFS_API_URL", "https://ipfs.infura.io:5001"),
		IPFSGatewayURL:    strings.TrimSuffix(getEnv("IPFS_GATEWAY_URL", "https://ipfs.infura.io"), "/"),
		IPFSProjectID:     getEnv("IPFS_PROJECT_ID", ""),
		IPFSProjectSecret: getEnv("IPFS_PROJECT_SECRET", ""),
		IPFSPin:           getEnvAsBool("IPFS_PIN", true),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		APIPort: getEnvAsInt("API_PORT", 8080),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		LogFile:   getEnv("LOG_FILE", ""),

		CallTimeout:   getEnvAsDuration("CALL_TIMEOUT", 15*time.Second),
		UploadTimeout: getEnvAsDuration("UPLOAD_TIMEOUT", 60*time.Second),
		FetchTimeout:  getEnvAsDuration("FETCH_TIMEOUT", 20*time.Second),
		MineTimeout:   getEnvAsDuration("MINE_TIMEOUT", 2*time.Minute),

		EnumerateWorkers: getEnvAsInt("ENUMERATE_WORKERS", 8),

		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "CELO"),

		Retry: retry.LoadConfig(),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("RPC_URL is required")
	}
	if c.ChainID <= 0 {
		return fmt.Errorf("CHAIN_ID must be positive")
	}
	if !common.IsHexAddress(c.ContractAddress) {
		return fmt.Errorf("CONTRACT_ADDRESS is required and must be a hex address, got %q", c.ContractAddress)
	}
	if c.IPFSAPIURL == "" {
		return fmt.Errorf("IPFS_API_URL is required")
	}
	if c.IPFSGatewayURL == "" {
		return fmt.Errorf("IPFS_GATEWAY_URL is required")
	}
	if c.EnumerateWorkers <= 0 {
		return fmt.Errorf("ENUMERATE_WORKERS must be positive")
	}
	for name, d := range map[string]time.Duration{
		"CALL_TIMEOUT":   c.CallTimeout,
		"UPLOAD_TIMEOUT": c.UploadTimeout,
		"FETCH_TIMEOUT":  c.FetchTimeout,
		"MINE_TIMEOUT":   c.MineTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

// HasSigner reports whether a signing key is configured
func (c *Config) HasSigner() bool {
	return c.PrivateKey != "" || c.Mnemonic != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultVal int) int {
	val, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return val
}

func getEnvAsBool(key string, defaultVal bool) bool {
	val, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return val
}

// getEnvAsDuration accepts Go durations ("30s") or plain seconds ("30")
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(valStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}
