// Package corpus models real-world DeFi vulnerabilities and provides access
// to the local DeFiHackLabs checkout used for exploit validation.
package corpus

import (
	"fmt"
	"time"
)

// VulnerabilityType classifies the root cause of a DeFi exploit.
type VulnerabilityType string

const (
	Reentrancy         VulnerabilityType = "reentrancy"
	FlashLoan          VulnerabilityType = "flash_loan"
	OracleManipulation VulnerabilityType = "oracle_manipulation"
	PriceManipulation  VulnerabilityType = "price_manipulation"
	AccessControl      VulnerabilityType = "access_control"
	LogicError         VulnerabilityType = "logic_error"
	InputValidation    VulnerabilityType = "input_validation"
	RewardManipulation VulnerabilityType = "reward_manipulation"
	Arithmetic         VulnerabilityType = "arithmetic"
	Frontrunning       VulnerabilityType = "frontrunning"
	Governance         VulnerabilityType = "governance"
	OtherVulnerability VulnerabilityType = "other"
)

// VulnerabilityTypes lists every supported vulnerability classification.
func VulnerabilityTypes() []VulnerabilityType {
	return []VulnerabilityType{
		Reentrancy, FlashLoan, OracleManipulation, PriceManipulation,
		AccessControl, LogicError, InputValidation, RewardManipulation,
		Arithmetic, Frontrunning, Governance, OtherVulnerability,
	}
}

// ParseVulnerabilityType validates a raw string against the closed vocabulary.
func ParseVulnerabilityType(s string) (VulnerabilityType, error) {
	for _, v := range VulnerabilityTypes() {
		if string(v) == s {
			return v, nil
		}
	}
	return "", &InvalidSpecError{Field: "vulnerability_type", Reason: fmt.Sprintf("unknown value %q, must be one of %v", s, VulnerabilityTypes())}
}

// Network identifies the chain a vulnerability was exploited on.
type Network string

const (
	Mainnet   Network = "mainnet"
	Arbitrum  Network = "arbitrum"
	Optimism  Network = "optimism"
	Polygon   Network = "polygon"
	BSC       Network = "bsc"
	Base      Network = "base"
	Avalanche Network = "avalanche"
	Fantom    Network = "fantom"
	Gnosis    Network = "gnosis"
	Blast     Network = "blast"
	Mantle    Network = "mantle"
	Linea     Network = "linea"
	Scroll    Network = "scroll"
	ZkSync    Network = "zksync"
)

// Networks lists every supported chain.
func Networks() []Network {
	return []Network{
		Mainnet, Arbitrum, Optimism, Polygon, BSC, Base, Avalanche,
		Fantom, Gnosis, Blast, Mantle, Linea, Scroll, ZkSync,
	}
}

// ParseNetwork validates a raw string against the closed vocabulary.
func ParseNetwork(s string) (Network, error) {
	for _, n := range Networks() {
		if string(n) == s {
			return n, nil
		}
	}
	return "", &InvalidSpecError{Field: "network", Reason: fmt.Sprintf("unknown value %q, must be one of %v", s, Networks())}
}

// Difficulty controls how much identifying information a task discloses.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the supported tiers.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParseDifficulty validates a raw string, defaulting to easy when empty.
func ParseDifficulty(s string) (Difficulty, error) {
	if s == "" {
		return Easy, nil
	}
	for _, d := range Difficulties() {
		if string(d) == s {
			return d, nil
		}
	}
	return "", &InvalidSpecError{Field: "difficulty", Reason: fmt.Sprintf("unknown value %q, must be one of %v", s, Difficulties())}
}

// InvalidSpecError reports a malformed or missing vulnerability spec field.
// It is surfaced to callers before any task is generated.
type InvalidSpecError struct {
	Field  string
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid vulnerability spec: %s: %s", e.Field, e.Reason)
}

// VulnerabilitySpec describes one real-world exploit from the corpus.
// Immutable once constructed through NewSpec.
type VulnerabilitySpec struct {
	ID                 string            `json:"id"`
	Date               time.Time         `json:"date"`
	ProjectName        string            `json:"project_name"`
	VulnerabilityType  VulnerabilityType `json:"vulnerability_type"`
	LossAmountUSD      float64           `json:"loss_amount_usd"`
	Network            Network           `json:"network"`
	BlockNumber        int64             `json:"block_number,omitempty"`
	ContractPath       string            `json:"contract_path"`
	TestCommand        string            `json:"test_command"`
	ReferenceLinks     []string          `json:"reference_links,omitempty"`
	AttackerAddress    string            `json:"attacker_address,omitempty"`
	VulnerableContract string            `json:"vulnerable_contract,omitempty"`
	TransactionHash    string            `json:"transaction_hash,omitempty"`
}
