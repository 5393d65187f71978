package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/strkey"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/whalehub/config"
	"github.com/vadiminshakov/whalehub/internal/domain"
	"github.com/vadiminshakov/whalehub/internal/wallet"
)

// ConfigFile name of the generated configuration file.
const ConfigFile = "config.gen.yaml"

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// Answers everything the wizard asks for.
type Answers struct {
	Network       string
	BackendAPI    string
	StakingSigner string
	LPSigner      string
	Submission    string
	MinDeposit    string
	MaxFee        string
	Wallet        string
	KeyfilePath   string
	// Seed and Passphrase are only used to write the keyfile; they never reach the YAML.
	Seed       string
	Passphrase string
	Confirm    bool
}

func defaultAnswers() Answers {
	return Answers{
		Network:     string(config.NetworkPublic),
		Submission:  string(config.SubmitLedger),
		MinDeposit:  "0.01",
		MaxFee:      "0.014",
		Wallet:      string(domain.WalletSecret),
		KeyfilePath: "whalehub.key",
		Confirm:     true,
	}
}

func step(title string) {
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("WHALEHUB CONFIG WIZARD"))
	fmt.Println(stepStyle.Render(title))
}

// RunTUI launches the terminal configuration wizard and writes the result into dir.
// It returns the path of the generated configuration.
func RunTUI(dir string) (string, error) {
	a := defaultAnswers()

	step("STEP 1: NETWORK")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Stake AQUA, provide liquidity, collect rewards.\n"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Ledger network").
				Options(
					huh.NewOption("Public", string(config.NetworkPublic)),
					huh.NewOption("Testnet", string(config.NetworkTestnet)),
				).
				Value(&a.Network),
			huh.NewInput().
				Title("Backend API URL").
				Description("Base URL of the staking backend (e.g. https://api.example.com)").
				Value(&a.BackendAPI).
				Validate(nonEmpty("backend API URL")),
		),
	).Run()
	if err != nil {
		return "", err
	}

	step("STEP 2: PROGRAM ACCOUNTS")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Staking signer").
				Description("Destination of lock payments").
				Value(&a.StakingSigner).
				Validate(validateAddress),
			huh.NewInput().
				Title("Liquidity signer").
				Description("Destination of liquidity deposits").
				Value(&a.LPSigner).
				Validate(validateAddress),
			huh.NewSelect[string]().
				Title("Who submits staking transactions?").
				Options(
					huh.NewOption("This client, then the backend records it", string(config.SubmitLedger)),
					huh.NewOption("The backend", string(config.SubmitBackend)),
				).
				Value(&a.Submission),
		),
	).Run()
	if err != nil {
		return "", err
	}

	step("STEP 3: LIMITS")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Minimum deposit (AQUA)").
				Value(&a.MinDeposit).
				Validate(validatePositive),
			huh.NewInput().
				Title("Maximum fee per transaction (XLM)").
				Value(&a.MaxFee).
				Validate(validatePositive),
		),
	).Run()
	if err != nil {
		return "", err
	}

	step("STEP 4: WALLET")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Signing wallet").
				Options(
					huh.NewOption("Secret seed from "+wallet.SecretSeedEnv, string(domain.WalletSecret)),
					huh.NewOption("Encrypted keyfile", string(domain.WalletKeyfile)),
				).
				Value(&a.Wallet),
		),
	).Run()
	if err != nil {
		return "", err
	}

	if a.Wallet == string(domain.WalletKeyfile) {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Keyfile path").
					Value(&a.KeyfilePath).
					Validate(nonEmpty("keyfile path")),
				huh.NewInput().
					Title("Secret seed").
					Description("Leave empty to keep an existing keyfile").
					Value(&a.Seed).
					EchoMode(huh.EchoModePassword).
					Validate(validateSeed),
				huh.NewInput().
					Title("Keyfile passphrase").
					Value(&a.Passphrase).
					EchoMode(huh.EchoModePassword),
			),
		).Run()
		if err != nil {
			return "", err
		}
	}

	step("FINAL CONFIRMATION")
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(a.summary()))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&a.Confirm),
		),
	).Run()
	if err != nil {
		return "", err
	}
	if !a.Confirm {
		return "", errors.New("setup cancelled by user")
	}

	path, err := Save(a, dir)
	if err != nil {
		return "", err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s\nStarting...", path)))
	time.Sleep(1500 * time.Millisecond)
	return path, nil
}

func (a Answers) summary() string {
	s := fmt.Sprintf("Network: %s\nBackend: %s\nSubmission: %s\nMin deposit: %s AQUA\nMax fee: %s XLM\nWallet: %s\n",
		a.Network, a.BackendAPI, a.Submission, a.MinDeposit, a.MaxFee, a.Wallet)
	if a.Wallet == string(domain.WalletKeyfile) {
		s += "Keyfile: " + a.KeyfilePath + "\n"
	}
	return s
}

func (a Answers) configTmp() config.ConfigTmp {
	tmp := config.ConfigTmp{
		Network:       a.Network,
		BackendAPI:    a.BackendAPI,
		Wallet:        a.Wallet,
		Submission:    a.Submission,
		MinDepositStr: a.MinDeposit,
		MaxFeeStr:     a.MaxFee,
		StakingSigner: a.StakingSigner,
		LPSigner:      a.LPSigner,
	}
	if a.Wallet == string(domain.WalletKeyfile) {
		tmp.KeyfilePath = a.KeyfilePath
	}
	return tmp
}

// Save writes the configuration (and the keyfile when a seed was given) into dir and
// validates the result by loading it back.
func Save(a Answers, dir string) (string, error) {
	if a.Wallet == string(domain.WalletKeyfile) {
		if !filepath.IsAbs(a.KeyfilePath) {
			a.KeyfilePath = filepath.Join(dir, a.KeyfilePath)
		}
		if a.Seed != "" {
			if err := wallet.WriteKeyfile(a.KeyfilePath, a.Seed, a.Passphrase); err != nil {
				return "", errors.Wrap(err, "failed to write keyfile")
			}
		}
	}

	data, err := yaml.Marshal(a.configTmp())
	if err != nil {
		return "", errors.Wrap(err, "failed to generate yaml")
	}

	path := filepath.Join(dir, ConfigFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", errors.Wrap(err, "failed to save config file")
	}

	if _, err := config.Load(path); err != nil {
		return "", errors.Wrap(err, "generated configuration is invalid")
	}
	return path, nil
}

func nonEmpty(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func validateAddress(s string) error {
	if !strkey.IsValidEd25519PublicKey(s) {
		return errors.New("must be a valid account address (G...)")
	}
	return nil
}

func validateSeed(s string) error {
	if s == "" {
		return nil
	}
	if _, err := keypair.ParseFull(s); err != nil {
		return errors.New("must be a valid secret seed (S...)")
	}
	return nil
}

func validatePositive(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return errors.New("must be a valid number")
	}
	if !d.IsPositive() {
		return errors.New("must be greater than 0")
	}
	return nil
}
