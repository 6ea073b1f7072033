// Package core provides parameter sets and validation for the knapsack cryptosystem.
package core

import (
	"errors"
	"fmt"

	knapmerkle "github.com/BackendStack21/knapsack-merkle-go"
	"github.com/BackendStack21/knapsack-merkle-go/utils"
)

const (
	// DefaultGrowthFactor is the ratio between consecutive private key elements.
	DefaultGrowthFactor = 7
	// DefaultSlack is added to the private key sum to form the modulus.
	DefaultSlack = 1000
	// DefaultMaxMultiplierAttempts caps the coprime multiplier search.
	DefaultMaxMultiplierAttempts = 1024
)

// MH128Params is a compact parameter set for short messages and tests.
var MH128Params = knapmerkle.KnapsackParams{
	Name:                  knapmerkle.MH128,
	Length:                128,
	GrowthFactor:          DefaultGrowthFactor,
	Slack:                 DefaultSlack,
	MaxMultiplierAttempts: DefaultMaxMultiplierAttempts,
}

// MH640Params is the reference parameter set.
var MH640Params = knapmerkle.KnapsackParams{
	Name:                  knapmerkle.MH640,
	Length:                640,
	GrowthFactor:          DefaultGrowthFactor,
	Slack:                 DefaultSlack,
	MaxMultiplierAttempts: DefaultMaxMultiplierAttempts,
}

// MH2048Params is the parameter set for messages up to 256 bytes.
var MH2048Params = knapmerkle.KnapsackParams{
	Name:                  knapmerkle.MH2048,
	Length:                2048,
	GrowthFactor:          DefaultGrowthFactor,
	Slack:                 DefaultSlack,
	MaxMultiplierAttempts: DefaultMaxMultiplierAttempts,
}

// GetParams returns the parameter set with the given name.
func GetParams(name knapmerkle.ParamSet) (knapmerkle.KnapsackParams, error) {
	switch name {
	case knapmerkle.MH128:
		return MH128Params, nil
	case knapmerkle.MH640:
		return MH640Params, nil
	case knapmerkle.MH2048:
		return MH2048Params, nil
	default:
		return knapmerkle.KnapsackParams{}, fmt.Errorf("unknown parameter set: %s", name)
	}
}

// ParseParamSet accepts a parameter set name or its bare key length.
func ParseParamSet(s string) (knapmerkle.ParamSet, error) {
	switch s {
	case "128", "MH-128", "MH_128":
		return knapmerkle.MH128, nil
	case "640", "MH-640", "MH_640", "":
		return knapmerkle.MH640, nil
	case "2048", "MH-2048", "MH_2048":
		return knapmerkle.MH2048, nil
	default:
		return "", fmt.Errorf("invalid parameter set '%s'. Must be one of: 128, 640, 2048", s)
	}
}

// ValidateParams validates the parameter set for consistency.
func ValidateParams(params knapmerkle.KnapsackParams) error {
	if err := utils.CheckPositive(params.Length, "key length"); err != nil {
		return err
	}
	if params.Length > utils.MaxKeyLength {
		return fmt.Errorf("key length %d: %w", params.Length, utils.ErrExceedsLimit)
	}
	// Decryption regroups recovered bits into whole bytes.
	if params.Length%8 != 0 {
		return errors.New("key length must be a multiple of 8")
	}
	if params.GrowthFactor < 2 {
		return errors.New("growth factor must be at least 2 for a superincreasing sequence")
	}
	if params.Slack < 1 {
		return errors.New("modulus slack must be positive")
	}
	if err := utils.CheckPositive(params.MaxMultiplierAttempts, "multiplier attempts"); err != nil {
		return err
	}
	return nil
}
