package corpus

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]`)

// RawSpec carries the caller-supplied configuration before validation.
// Enum fields are open strings here; NewSpec closes them.
type RawSpec struct {
	ID                 string   `json:"id,omitempty"`
	Date               string   `json:"date,omitempty"`
	ProjectName        string   `json:"project_name"`
	VulnerabilityType  string   `json:"vulnerability_type"`
	LossAmountUSD      float64  `json:"loss_amount_usd,omitempty"`
	Network            string   `json:"network"`
	BlockNumber        int64    `json:"block_number,omitempty"`
	ContractPath       string   `json:"contract_path,omitempty"`
	TestCommand        string   `json:"test_command,omitempty"`
	ReferenceLinks     []string `json:"reference_links,omitempty"`
	AttackerAddress    string   `json:"attacker_address,omitempty"`
	VulnerableContract string   `json:"vulnerable_contract,omitempty"`
	TransactionHash    string   `json:"transaction_hash,omitempty"`
	Difficulty         string   `json:"difficulty,omitempty"`
}

// NewSpec validates a raw spec and fills derived fields. Required fields are
// project_name, vulnerability_type and network; everything else has a
// corpus-convention default.
func NewSpec(raw RawSpec, now func() time.Time) (VulnerabilitySpec, error) {
	if now == nil {
		now = time.Now
	}

	if strings.TrimSpace(raw.ProjectName) == "" {
		return VulnerabilitySpec{}, &InvalidSpecError{Field: "project_name", Reason: "required"}
	}

	vulnType, err := ParseVulnerabilityType(raw.VulnerabilityType)
	if err != nil {
		return VulnerabilitySpec{}, err
	}

	network, err := ParseNetwork(raw.Network)
	if err != nil {
		return VulnerabilitySpec{}, err
	}

	if raw.LossAmountUSD < 0 {
		return VulnerabilitySpec{}, &InvalidSpecError{Field: "loss_amount_usd", Reason: "must be >= 0"}
	}

	date := now()
	if raw.Date != "" {
		parsed, parseErr := parseDate(raw.Date)
		if parseErr != nil {
			return VulnerabilitySpec{}, &InvalidSpecError{Field: "date", Reason: parseErr.Error()}
		}
		date = parsed
	}

	spec := VulnerabilitySpec{
		ID:                 raw.ID,
		Date:               date,
		ProjectName:        raw.ProjectName,
		VulnerabilityType:  vulnType,
		LossAmountUSD:      raw.LossAmountUSD,
		Network:            network,
		BlockNumber:        raw.BlockNumber,
		ContractPath:       raw.ContractPath,
		TestCommand:        raw.TestCommand,
		ReferenceLinks:     raw.ReferenceLinks,
		AttackerAddress:    raw.AttackerAddress,
		VulnerableContract: raw.VulnerableContract,
		TransactionHash:    raw.TransactionHash,
	}

	if spec.ID == "" {
		spec.ID = fmt.Sprintf("%s_%s", strings.ToLower(ContractName(spec.ProjectName)), date.Format("20060102"))
	}
	if spec.ContractPath == "" {
		spec.ContractPath = DeriveContractPath(spec)
	}
	if spec.TestCommand == "" {
		spec.TestCommand = DeriveTestCommand(spec.ContractPath)
	}

	return spec, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}

// DeriveContractPath computes the conventional DeFiHackLabs location of the
// exploit test: src/test/<year-month>/<Project>_exp.sol.
func DeriveContractPath(spec VulnerabilitySpec) string {
	return fmt.Sprintf("src/test/%s/%s_exp.sol", spec.Date.Format("2006-01"), ContractName(spec.ProjectName))
}

// DeriveTestCommand computes the conventional forge invocation for a
// contract path.
func DeriveTestCommand(contractPath string) string {
	return fmt.Sprintf("forge test --contracts ./%s -vvv", contractPath)
}

// ContractName strips the project name down to a Solidity identifier.
func ContractName(projectName string) string {
	return nonAlnum.ReplaceAllString(projectName, "")
}

// SampleSpec returns a fixed reentrancy vulnerability used by tests and the
// CLI dry-run.
func SampleSpec() VulnerabilitySpec {
	spec, err := NewSpec(RawSpec{
		ID:                "sample_reentrancy_2024",
		Date:              "2024-01-15",
		ProjectName:       "SampleProtocol",
		VulnerabilityType: string(Reentrancy),
		LossAmountUSD:     150000.0,
		Network:           string(Mainnet),
		BlockNumber:       19000000,
		ReferenceLinks:    []string{"https://example.com/post-mortem"},
	}, nil)
	if err != nil {
		panic(err)
	}
	return spec
}
