package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
	"github.com/stellar/go/network"
	"github.com/stellar/go/strkey"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

// Network ledger network the client talks to.
type Network string

const (
	NetworkPublic  Network = "public"
	NetworkTestnet Network = "testnet"
)

// Passphrase returns the network passphrase transactions are signed for.
func (n Network) Passphrase() string {
	if n == NetworkTestnet {
		return network.TestNetworkPassphrase
	}
	return network.PublicNetworkPassphrase
}

// DefaultHorizonURL returns the public Horizon endpoint of the network.
func (n Network) DefaultHorizonURL() string {
	if n == NetworkTestnet {
		return "https://horizon-testnet.stellar.org"
	}
	return "https://horizon.stellar.org"
}

// SubmissionMode selects who submits signed staking transactions to the ledger.
type SubmissionMode string

const (
	// SubmitLedger the client submits, then records the result with the backend.
	SubmitLedger SubmissionMode = "ledger"
	// SubmitBackend the client hands the signed envelope to the backend, which submits.
	SubmitBackend SubmissionMode = "backend"
)

const (
	defaultListenAddr      = "127.0.0.1:8090"
	defaultBaseFee         = 100
	defaultMinDeposit      = "0.01"
	defaultMaxFee          = "0.014"
	defaultTrustLimit      = "1000000000"
	defaultEpoch           = 7 * 24 * time.Hour
	defaultCooldown        = 7 * 24 * time.Hour
	defaultUnbondingEpochs = 5
	defaultDeployedAt      = 1708214181
	defaultWALDir          = "./wal"
	defaultStateDir        = "./wal/session"

	defaultAquaCode   = "AQUA"
	defaultAquaIssuer = "GBNZILSTVQZ4R7IKQDGHYGY2QXL5QOFJYQMXPKWRRM5PAV7Y4M67AQUA"
	defaultBlubCode   = "WHLAQUA"
	defaultBlubIssuer = "GCX6LOZ6ZEXBHLTPOPP2THN74K33LMT4HKSPDTWSLVCF4EWRGXOS7D3V"
)

// Assets assets and counterparties of the staking program.
type Assets struct {
	// Aqua the staked token.
	Aqua domain.Asset
	// Blub the reward token received for locked AQUA; lockers must trust it.
	Blub domain.Asset
	// StakingSigner destination of lock payments.
	StakingSigner string
	// LPSigner destination of liquidity provision payments.
	LPSigner string
	// TrustLimit limit used when establishing the reward trust line.
	TrustLimit decimal.Decimal
}

// Config process-wide settings; read-only after Load.
type Config struct {
	Network           Network
	NetworkPassphrase string
	HorizonURL        string
	BackendAPI        string
	ListenAddr        string
	WalletID          domain.WalletID
	KeyfilePath       string
	ConfirmSigning    bool
	Submission        SubmissionMode
	// BaseFee per operation, in stroops.
	BaseFee    int64
	MinDeposit decimal.Decimal
	// MaxFee upper bound of the total fee of one transaction, in XLM.
	MaxFee   decimal.Decimal
	Staking  Staking
	Assets   Assets
	WALDir   string
	StateDir string
}

// ConfigTmp raw YAML/environment representation of Config.
type ConfigTmp struct {
	Network        string `yaml:"network,omitempty" env:"WHALEHUB_NETWORK"`
	HorizonURL     string `yaml:"horizon_url,omitempty" env:"WHALEHUB_HORIZON_URL"`
	BackendAPI     string `yaml:"backend_api" env:"WHALEHUB_BACKEND_API"`
	ListenAddr     string `yaml:"listen_addr,omitempty" env:"WHALEHUB_LISTEN_ADDR"`
	Wallet         string `yaml:"wallet,omitempty" env:"WHALEHUB_WALLET"`
	KeyfilePath    string `yaml:"keyfile,omitempty" env:"WHALEHUB_KEYFILE"`
	ConfirmSigning bool   `yaml:"confirm_signing,omitempty" env:"WHALEHUB_CONFIRM_SIGNING"`
	Submission     string `yaml:"submission,omitempty" env:"WHALEHUB_SUBMISSION"`
	BaseFeeStr     string `yaml:"base_fee,omitempty" env:"WHALEHUB_BASE_FEE"`
	MinDepositStr  string `yaml:"min_deposit,omitempty" env:"WHALEHUB_MIN_DEPOSIT"`
	MaxFeeStr      string `yaml:"max_fee,omitempty" env:"WHALEHUB_MAX_FEE"`

	Epoch           time.Duration `yaml:"epoch,omitempty"`
	Cooldown        time.Duration `yaml:"cooldown,omitempty"`
	UnbondingEpochs string        `yaml:"unbonding_epochs,omitempty"`
	DeployedAt      int64         `yaml:"deployed_at,omitempty"`

	AquaCode      string `yaml:"aqua_code,omitempty"`
	AquaIssuer    string `yaml:"aqua_issuer,omitempty"`
	BlubCode      string `yaml:"blub_code,omitempty"`
	BlubIssuer    string `yaml:"blub_issuer,omitempty"`
	StakingSigner string `yaml:"staking_signer" env:"WHALEHUB_STAKING_SIGNER"`
	LPSigner      string `yaml:"lp_signer" env:"WHALEHUB_LP_SIGNER"`
	TrustLimitStr string `yaml:"trust_limit,omitempty"`

	WALDir   string `yaml:"wal_dir,omitempty" env:"WHALEHUB_WAL_DIR"`
	StateDir string `yaml:"state_dir,omitempty" env:"WHALEHUB_STATE_DIR"`
}

// Get loads the configuration from the -config flag path, or from the environment alone.
func Get() (Config, error) {
	return Load(ParseFlags().ConfigPath)
}

// Load reads the YAML file at path (optional), applies WHALEHUB_* environment overrides
// and validates the result.
func Load(path string) (Config, error) {
	var tmp ConfigTmp
	if path != "" {
		f, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(f, &tmp); err != nil {
			return Config{}, fmt.Errorf("failed to parse yaml config %s: %w", path, err)
		}
	}

	if err := env.Parse(&tmp); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	return tmp.toConfig()
}

func (c ConfigTmp) toConfig() (Config, error) {
	conf := Config{
		HorizonURL:     c.HorizonURL,
		BackendAPI:     strings.TrimRight(c.BackendAPI, "/"),
		ListenAddr:     c.ListenAddr,
		KeyfilePath:    c.KeyfilePath,
		ConfirmSigning: c.ConfirmSigning,
		WALDir:         c.WALDir,
		StateDir:       c.StateDir,
	}

	switch Network(strings.ToLower(c.Network)) {
	case "", NetworkPublic:
		conf.Network = NetworkPublic
	case NetworkTestnet:
		conf.Network = NetworkTestnet
	default:
		return Config{}, fmt.Errorf("incorrect 'network' param in config: %s (expected public or testnet)", c.Network)
	}
	conf.NetworkPassphrase = conf.Network.Passphrase()
	if conf.HorizonURL == "" {
		conf.HorizonURL = conf.Network.DefaultHorizonURL()
	}

	if conf.BackendAPI == "" {
		return Config{}, fmt.Errorf("'backend_api' param is required")
	}
	if conf.ListenAddr == "" {
		conf.ListenAddr = defaultListenAddr
	}
	if conf.WALDir == "" {
		conf.WALDir = defaultWALDir
	}
	if conf.StateDir == "" {
		conf.StateDir = defaultStateDir
	}

	conf.WalletID = domain.WalletSecret
	if c.Wallet != "" {
		conf.WalletID = domain.WalletID(strings.ToLower(c.Wallet))
	}
	if !conf.WalletID.IsValid() {
		return Config{}, fmt.Errorf("incorrect 'wallet' param in config: %s", c.Wallet)
	}
	if conf.WalletID == domain.WalletKeyfile && conf.KeyfilePath == "" {
		return Config{}, fmt.Errorf("'keyfile' param is required for keyfile wallet")
	}

	switch SubmissionMode(strings.ToLower(c.Submission)) {
	case "", SubmitLedger:
		conf.Submission = SubmitLedger
	case SubmitBackend:
		conf.Submission = SubmitBackend
	default:
		return Config{}, fmt.Errorf("incorrect 'submission' param in config: %s (expected ledger or backend)", c.Submission)
	}

	if c.BaseFeeStr == "" {
		conf.BaseFee = defaultBaseFee
	} else {
		fee, err := strconv.ParseInt(c.BaseFeeStr, 10, 64)
		if err != nil || fee < defaultBaseFee {
			return Config{}, fmt.Errorf("incorrect 'base_fee' param in config (integer stroops >= %d): %s", defaultBaseFee, c.BaseFeeStr)
		}
		conf.BaseFee = fee
	}

	var err error
	if conf.MinDeposit, err = decimalOrDefault(c.MinDepositStr, defaultMinDeposit); err != nil {
		return Config{}, fmt.Errorf("incorrect 'min_deposit' param in config, error: %w", err)
	}
	if conf.MaxFee, err = decimalOrDefault(c.MaxFeeStr, defaultMaxFee); err != nil {
		return Config{}, fmt.Errorf("incorrect 'max_fee' param in config, error: %w", err)
	}

	if conf.Staking, err = c.staking(); err != nil {
		return Config{}, err
	}
	if conf.Assets, err = c.assets(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

func (c ConfigTmp) staking() (Staking, error) {
	s := Staking{
		Epoch:           durationOrDefault(c.Epoch, defaultEpoch),
		Cooldown:        durationOrDefault(c.Cooldown, defaultCooldown),
		UnbondingEpochs: defaultUnbondingEpochs,
		DeployedAt:      time.Unix(defaultDeployedAt, 0).UTC(),
	}
	if c.UnbondingEpochs != "" {
		n, err := strconv.Atoi(c.UnbondingEpochs)
		if err != nil || n < 0 {
			return Staking{}, fmt.Errorf("incorrect 'unbonding_epochs' param in config (must be a non-negative integer): %s", c.UnbondingEpochs)
		}
		s.UnbondingEpochs = n
	}
	if c.DeployedAt > 0 {
		s.DeployedAt = time.Unix(c.DeployedAt, 0).UTC()
	}
	return s, nil
}

func (c ConfigTmp) assets() (Assets, error) {
	a := Assets{
		Aqua:          domain.NewAsset(stringOrDefault(c.AquaCode, defaultAquaCode), stringOrDefault(c.AquaIssuer, defaultAquaIssuer)),
		Blub:          domain.NewAsset(stringOrDefault(c.BlubCode, defaultBlubCode), stringOrDefault(c.BlubIssuer, defaultBlubIssuer)),
		StakingSigner: c.StakingSigner,
		LPSigner:      c.LPSigner,
	}

	for name, key := range map[string]string{
		"aqua_issuer":    a.Aqua.Issuer,
		"blub_issuer":    a.Blub.Issuer,
		"staking_signer": a.StakingSigner,
		"lp_signer":      a.LPSigner,
	} {
		if !strkey.IsValidEd25519PublicKey(key) {
			return Assets{}, fmt.Errorf("incorrect '%s' param in config (must be a public key): %q", name, key)
		}
	}

	limit, err := decimalOrDefault(c.TrustLimitStr, defaultTrustLimit)
	if err != nil || !limit.IsPositive() {
		return Assets{}, fmt.Errorf("incorrect 'trust_limit' param in config: %s", c.TrustLimitStr)
	}
	a.TrustLimit = limit

	return a, nil
}

func decimalOrDefault(value, def string) (decimal.Decimal, error) {
	if value == "" {
		value = def
	}
	return decimal.NewFromString(value)
}

func durationOrDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func stringOrDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
