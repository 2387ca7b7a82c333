package corpus

import (
	"errors"
	"testing"
	"time"
)

func fixedNow() func() time.Time {
	return func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}
}

func TestNewSpecDerivesFields(t *testing.T) {
	spec, err := NewSpec(RawSpec{
		ProjectName:       "Euler Finance",
		VulnerabilityType: "flash_loan",
		Network:           "mainnet",
		LossAmountUSD:     197000000,
		Date:              "2023-03-13",
	}, fixedNow())
	if err != nil {
		t.Fatalf("NewSpec: %v", err)
	}

	if spec.ID != "eulerfinance_20230313" {
		t.Errorf("derived id %q", spec.ID)
	}
	if spec.ContractPath != "src/test/2023-03/EulerFinance_exp.sol" {
		t.Errorf("derived contract path %q", spec.ContractPath)
	}
	if spec.TestCommand != "forge test --contracts ./src/test/2023-03/EulerFinance_exp.sol -vvv" {
		t.Errorf("derived test command %q", spec.TestCommand)
	}
	if spec.VulnerabilityType != FlashLoan || spec.Network != Mainnet {
		t.Errorf("enum fields not closed: %v %v", spec.VulnerabilityType, spec.Network)
	}
}

func TestNewSpecKeepsExplicitFields(t *testing.T) {
	spec, err := NewSpec(RawSpec{
		ID:                "custom_id",
		ProjectName:       "SampleProtocol",
		VulnerabilityType: "reentrancy",
		Network:           "bsc",
		ContractPath:      "src/test/2024-02/Custom_exp.sol",
		TestCommand:       "forge test --match-path src/test/2024-02/Custom_exp.sol -vvv",
	}, fixedNow())
	if err != nil {
		t.Fatalf("NewSpec: %v", err)
	}

	if spec.ID != "custom_id" {
		t.Errorf("explicit id overwritten: %q", spec.ID)
	}
	if spec.ContractPath != "src/test/2024-02/Custom_exp.sol" {
		t.Errorf("explicit contract path overwritten: %q", spec.ContractPath)
	}
	if spec.TestCommand != "forge test --match-path src/test/2024-02/Custom_exp.sol -vvv" {
		t.Errorf("explicit test command overwritten: %q", spec.TestCommand)
	}
}

func TestNewSpecDateFormats(t *testing.T) {
	for _, date := range []string{"2024-01-15", "2024-01-15T10:30:00", "2024-01-15T10:30:00Z"} {
		spec, err := NewSpec(RawSpec{
			ProjectName:       "SampleProtocol",
			VulnerabilityType: "reentrancy",
			Network:           "mainnet",
			Date:              date,
		}, fixedNow())
		if err != nil {
			t.Errorf("date %q rejected: %v", date, err)
			continue
		}
		if spec.Date.Year() != 2024 || spec.Date.Month() != time.January {
			t.Errorf("date %q parsed as %v", date, spec.Date)
		}
	}
}

func TestNewSpecRejections(t *testing.T) {
	cases := []struct {
		name  string
		raw   RawSpec
		field string
	}{
		{
			name:  "missing project name",
			raw:   RawSpec{VulnerabilityType: "reentrancy", Network: "mainnet"},
			field: "project_name",
		},
		{
			name:  "unknown vulnerability type",
			raw:   RawSpec{ProjectName: "X", VulnerabilityType: "rugpull", Network: "mainnet"},
			field: "vulnerability_type",
		},
		{
			name:  "unknown network",
			raw:   RawSpec{ProjectName: "X", VulnerabilityType: "reentrancy", Network: "tron"},
			field: "network",
		},
		{
			name: "negative loss",
			raw: RawSpec{
				ProjectName: "X", VulnerabilityType: "reentrancy", Network: "mainnet",
				LossAmountUSD: -1,
			},
			field: "loss_amount_usd",
		},
		{
			name: "garbage date",
			raw: RawSpec{
				ProjectName: "X", VulnerabilityType: "reentrancy", Network: "mainnet",
				Date: "last tuesday",
			},
			field: "date",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSpec(tc.raw, fixedNow())
			var specErr *InvalidSpecError
			if !errors.As(err, &specErr) {
				t.Fatalf("expected InvalidSpecError, got %v", err)
			}
			if specErr.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, specErr.Field)
			}
		})
	}
}

func TestContractName(t *testing.T) {
	cases := map[string]string{
		"SampleProtocol": "SampleProtocol",
		"Euler Finance":  "EulerFinance",
		"dForce (2023)":  "dForce2023",
	}
	for in, want := range cases {
		if got := ContractName(in); got != want {
			t.Errorf("ContractName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSampleSpec(t *testing.T) {
	spec := SampleSpec()
	if spec.ProjectName != "SampleProtocol" {
		t.Errorf("unexpected project %q", spec.ProjectName)
	}
	if spec.VulnerabilityType != Reentrancy || spec.Network != Mainnet {
		t.Errorf("unexpected enums: %v %v", spec.VulnerabilityType, spec.Network)
	}
	if spec.ContractPath == "" || spec.TestCommand == "" {
		t.Error("sample spec missing derived fields")
	}
}
